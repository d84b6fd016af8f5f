package student

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/handlers"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
)

// ApplyRequest submits an application with the chosen CV slot.
type ApplyRequest struct {
	OpportunityID uint   `json:"opportunityId" validate:"required,min=1"`
	SelectedCV    string `json:"selectedCv" validate:"required,oneof=cv1Url cv2Url cv3Url"`
}

// UpdateApplicationRequest swaps the CV on an existing application.
type UpdateApplicationRequest struct {
	SelectedCV string `json:"selectedCv" validate:"required,oneof=cv1Url cv2Url cv3Url"`
}

// Apply handles POST /api/v1/student/apply
func (h *StudentHandler) Apply(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	application, err := h.applications.Apply(c.Context(), userID, req.OpportunityID, req.SelectedCV)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Created(c, application)
}

// ListApplied handles GET /api/v1/student/applied
func (h *StudentHandler) ListApplied(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	applications, err := h.applications.ListApplied(c.Context(), userID)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, applications)
}

// UpdateApplication handles PUT /api/v1/student/applied/:applicationId
func (h *StudentHandler) UpdateApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	applicationID, err := strconv.ParseUint(c.Params("applicationId"), 10, 32)
	if err != nil || applicationID == 0 {
		return response.BadRequest(c, "Invalid application id")
	}

	var req UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	application, err := h.applications.UpdateApplication(c.Context(), userID, uint(applicationID), req.SelectedCV)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, application)
}
