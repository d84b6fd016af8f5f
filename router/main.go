package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/database"
	"github.com/placement-cell/placements-api/handlers"
	admin_handlers "github.com/placement-cell/placements-api/handlers/admin"
	auth_handlers "github.com/placement-cell/placements-api/handlers/auth"
	coordinator_handlers "github.com/placement-cell/placements-api/handlers/coordinator"
	student_handlers "github.com/placement-cell/placements-api/handlers/student"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/auth"
	"github.com/placement-cell/placements-api/utils/cache"
	"github.com/placement-cell/placements-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "placements-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: jwtSecret,
		Expiry: 24 * time.Hour, // Access token expires in 24 hours
		Issuer: jwtIssuer,
	})

	db := store.GetDB()

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil && err == nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	studentHandler := student_handlers.NewStudentHandler(db)
	coordinatorHandler := coordinator_handlers.NewCoordinatorHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HealthCheck(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Student routes
	student := api.Group("/student", authMiddleware.Require(model.RoleStudent))
	student.Get("/me", studentHandler.GetProfile)
	student.Put("/cv", studentHandler.UpdateCV)
	student.Get("/opportunities/on-campus", studentHandler.ListOnCampus)
	student.Get("/opportunities/off-campus", studentHandler.ListOffCampus)
	student.Post("/apply", studentHandler.Apply)
	student.Get("/applied", studentHandler.ListApplied)
	student.Put("/applied/:applicationId", studentHandler.UpdateApplication)
	student.Get("/notifications", studentHandler.ListNotifications)
	student.Post("/notifications/:id/read", studentHandler.MarkNotificationRead)

	// Coordinator routes
	coordinator := api.Group("/coordinator", authMiddleware.Require(model.RoleCoordinator))
	coordinator.Post("/posts", coordinatorHandler.CreatePosting)
	coordinator.Get("/posts", coordinatorHandler.ListPostings)
	coordinator.Put("/posts/:id", coordinatorHandler.UpdatePosting)
	coordinator.Get("/posts/:id/applications", coordinatorHandler.ListApplications)
	coordinator.Get("/posts/:id/export", coordinatorHandler.ExportApplications)
	coordinator.Post("/posts/:id/rounds", coordinatorHandler.RecordRounds)
	coordinator.Get("/posts/:id/rounds", coordinatorHandler.ListRounds)

	// CCD routes. The dashboard is open to members; everything else is
	// admin only.
	ccd := api.Group("/ccd")
	ccd.Get("/dashboard",
		authMiddleware.Require(model.RoleCCDAdmin, model.RoleCCDMember),
		adminHandler.Dashboard)

	ccdAdmin := ccd.Group("", authMiddleware.Require(model.RoleCCDAdmin))
	ccdAdmin.Post("/users", adminHandler.UpsertUser)
	ccdAdmin.Post("/students", adminHandler.UpsertStudent)
	ccdAdmin.Post("/students/bulk", adminHandler.BulkUpsertStudents)
	ccdAdmin.Get("/students", adminHandler.ListStudents)
	ccdAdmin.Get("/students/locked", adminHandler.ListLockedStudents)
	ccdAdmin.Get("/students/search", adminHandler.SearchStudent)
	ccdAdmin.Post("/students/lock", adminHandler.LockStudent)
	ccdAdmin.Get("/students/:userId/profile", adminHandler.GetStudentProfile)
	ccdAdmin.Put("/students/:userId/profile", adminHandler.UpdateStudentProfile)
}
