package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/utils/response"
)

// BulkStudentsRequest carries pre-parsed rows from an uploaded sheet.
// CSV parsing happens client-side; the API receives structured rows.
type BulkStudentsRequest struct {
	Students []UpsertStudentRequest `json:"students"`
}

// BulkRowError reports why one row was skipped.
type BulkRowError struct {
	Row        int    `json:"row"`
	Enrollment string `json:"enrollment"`
	Error      string `json:"error"`
}

// BulkStudentsResult summarizes a bulk upsert.
type BulkStudentsResult struct {
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Errors  []BulkRowError `json:"errors"`
}

// BulkUpsertStudents handles POST /api/v1/ccd/students/bulk. Rows are
// processed independently: a bad row is reported and skipped, the rest
// proceed.
func (h *AdminHandler) BulkUpsertStudents(c *fiber.Ctx) error {
	actor, ok := c.Locals("user").(*model.User)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req BulkStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Students) == 0 {
		return response.BadRequest(c, "Students array is required")
	}

	result := BulkStudentsResult{Errors: []BulkRowError{}}
	for i := range req.Students {
		row := &req.Students[i]
		if err := h.validator.ValidateStruct(row); err != nil {
			result.Errors = append(result.Errors, BulkRowError{
				Row:        i + 1,
				Enrollment: orNA(row.Enrollment),
				Error:      err.Error(),
			})
			continue
		}

		var existing model.StudentProfile
		isUpdate := h.db.Where("enrollment = ?", row.Enrollment).
			First(&existing).Error == nil

		if _, err := h.upsertStudent(row); err != nil {
			result.Errors = append(result.Errors, BulkRowError{
				Row:        i + 1,
				Enrollment: orNA(row.Enrollment),
				Error:      err.Error(),
			})
			continue
		}

		if isUpdate {
			result.Updated++
		} else {
			result.Created++
		}
	}

	h.audit(actor.ID, model.AuditBulkCreateStudents, fiber.Map{
		"created": result.Created,
		"updated": result.Updated,
		"errors":  len(result.Errors),
	})
	return response.Success(c, result)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
