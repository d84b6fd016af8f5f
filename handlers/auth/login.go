package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/auth"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
	"github.com/placement-cell/placements-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles login requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *auth.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *auth.JWTManager, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// LoginRequest represents the login request body. The role is part of
// the credential triple: logging into the wrong dashboard fails even
// with a correct password.
type LoginRequest struct {
	LoginID  string `json:"loginId" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=STUDENT COORDINATOR CCD_ADMIN CCD_MEMBER"`
}

// LoginResponse carries the signed session token
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	err := h.db.Where("login_id = ?", req.LoginID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.recordFailure(c)
			return response.Unauthorized(c, "Invalid credentials")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	if user.Role != req.Role {
		h.recordFailure(c)
		return response.Unauthorized(c, "Invalid credentials")
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.recordFailure(c)
		return response.Unauthorized(c, "Invalid credentials")
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.LoginID, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, c.IP())
	}

	return response.Success(c, LoginResponse{
		Token: token,
		Role:  user.Role,
	})
}

func (h *AuthHandler) recordFailure(c *fiber.Ctx) {
	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordFailedAttempt(c, c.IP())
	}
}
