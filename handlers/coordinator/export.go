package coordinator

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/handlers"
	"github.com/placement-cell/placements-api/services"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
)

// ExportApplications handles GET /api/v1/coordinator/posts/:id/export.
// Streams a CSV of the posting's applicants limited to the shared
// fields, with the resolved CV URL as the last column.
func (h *CoordinatorHandler) ExportApplications(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || opportunityID == 0 {
		return response.BadRequest(c, "Invalid opportunity id")
	}

	posting, err := h.opportunities.GetOwnedPosting(c.Context(), uint(opportunityID), user.ID)
	if err != nil {
		return handlers.ServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", services.ExportFilename(posting.ID)))

	if err := h.exports.WriteCSV(c.Context(), posting, c.Response().BodyWriter()); err != nil {
		return handlers.ServiceError(c, err)
	}
	return nil
}
