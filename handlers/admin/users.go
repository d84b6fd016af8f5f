package admin

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/auth"
	"github.com/placement-cell/placements-api/utils/response"
	"github.com/placement-cell/placements-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminHandler serves the CCD (placement cell) endpoints
type AdminHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// audit records an admin action. Audit failures are logged, never
// surfaced: the action itself already succeeded.
func (h *AdminHandler) audit(actorID uint, action string, meta interface{}) {
	entry := model.AuditLog{ActorID: actorID, Action: action}
	if meta != nil {
		if raw, err := json.Marshal(meta); err == nil {
			entry.Meta = datatypes.JSON(raw)
		}
	}
	if err := h.db.Create(&entry).Error; err != nil {
		log.Printf("failed to write audit log for %s: %v", action, err)
	}
}

// UpsertUserRequest provisions a coordinator or CCD member account.
type UpsertUserRequest struct {
	LoginID  string `json:"loginId" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=200"`
	Role     string `json:"role" validate:"required,oneof=COORDINATOR CCD_MEMBER"`
}

// UpsertUser handles POST /api/v1/ccd/users
func (h *AdminHandler) UpsertUser(c *fiber.Ctx) error {
	actor, ok := c.Locals("user").(*model.User)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpsertUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var user model.User
	err = h.db.Where("login_id = ?", req.LoginID).First(&user).Error
	switch {
	case err == nil:
		user.PasswordHash = passwordHash
		user.Role = req.Role
		if err := h.db.Save(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to update user")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			LoginID:      req.LoginID,
			PasswordHash: passwordHash,
			Role:         req.Role,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return response.Conflict(c, "Login ID is already taken")
		}
	default:
		return response.InternalServerError(c, "Failed to load user")
	}

	h.audit(actor.ID, model.AuditUpsertUser, fiber.Map{"loginId": req.LoginID, "role": req.Role})
	return response.Success(c, user)
}
