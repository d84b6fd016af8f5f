package student

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/handlers"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
)

// ListOnCampus handles GET /api/v1/student/opportunities/on-campus.
// Only postings the student is currently eligible for are returned.
func (h *StudentHandler) ListOnCampus(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	postings, err := h.opportunities.ListOnCampusForStudent(c.Context(), userID)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, postings)
}

// ListOffCampus handles GET /api/v1/student/opportunities/off-campus.
// Off-campus postings are informational and never filtered.
func (h *StudentHandler) ListOffCampus(c *fiber.Ctx) error {
	postings, err := h.opportunities.ListOffCampus(c.Context())
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, postings)
}
