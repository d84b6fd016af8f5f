package student

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/services"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
	"github.com/placement-cell/placements-api/utils/validation"
	"gorm.io/gorm"
)

// StudentHandler serves the student dashboard endpoints
type StudentHandler struct {
	db            *gorm.DB
	applications  *services.ApplicationService
	opportunities *services.OpportunityService
	notifications *services.NotificationService
	validator     *validation.Validator
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		db:            db,
		applications:  services.NewApplicationService(db),
		opportunities: services.NewOpportunityService(db),
		notifications: services.NewNotificationService(db),
		validator:     validation.NewValidator(),
	}
}

// UpdateCVRequest carries the three CV slots. Students may only edit
// their CV links; every other profile field is admin-managed.
type UpdateCVRequest struct {
	CV1URL *string `json:"cv1Url" validate:"omitempty,max=500"`
	CV2URL *string `json:"cv2Url" validate:"omitempty,max=500"`
	CV3URL *string `json:"cv3Url" validate:"omitempty,max=500"`
}

// GetProfile handles GET /api/v1/student/me
func (h *StudentHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var profile model.StudentProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	return response.Success(c, profile)
}

// UpdateCV handles PUT /api/v1/student/cv
func (h *StudentHandler) UpdateCV(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateCVRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var profile model.StudentProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	updates := map[string]interface{}{
		"cv1_url": req.CV1URL,
		"cv2_url": req.CV2URL,
		"cv3_url": req.CV3URL,
	}
	if err := h.db.Model(&profile).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update CV links")
	}

	profile.CV1URL = req.CV1URL
	profile.CV2URL = req.CV2URL
	profile.CV3URL = req.CV3URL
	return response.Success(c, profile)
}
