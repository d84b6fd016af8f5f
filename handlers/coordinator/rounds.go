package coordinator

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/handlers"
	"github.com/placement-cell/placements-api/services"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
)

// RoundResultRequest is one applicant's outcome in a round announcement.
type RoundResultRequest struct {
	ApplicationID uint   `json:"applicationId" validate:"required,min=1"`
	Status        string `json:"status" validate:"required,max=50"`
}

// RecordRoundsRequest announces one round for many applicants at once.
// Logistics are shared across every result in the call.
type RecordRoundsRequest struct {
	RoundNumber int                  `json:"roundNumber" validate:"required,min=1"`
	Description *string              `json:"description" validate:"omitempty,max=1000"`
	Date        *string              `json:"date"` // RFC 3339
	Centre      *string              `json:"centre" validate:"omitempty,max=255"`
	Time        *string              `json:"time" validate:"omitempty,max=50"`
	Results     []RoundResultRequest `json:"results" validate:"required,min=1,dive"`
}

// RecordRounds handles POST /api/v1/coordinator/posts/:id/rounds
func (h *CoordinatorHandler) RecordRounds(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || opportunityID == 0 {
		return response.BadRequest(c, "Invalid opportunity id")
	}

	var req RecordRoundsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	logistics := services.RoundLogistics{
		Description: req.Description,
		Centre:      req.Centre,
		Time:        req.Time,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return response.BadRequest(c, "Invalid date format, expected RFC 3339")
		}
		logistics.Date = &date
	}

	results := make([]services.RoundResult, 0, len(req.Results))
	for _, r := range req.Results {
		results = append(results, services.RoundResult{
			ApplicationID: r.ApplicationID,
			Status:        r.Status,
		})
	}

	rounds, err := h.rounds.RecordRounds(c.Context(), uint(opportunityID), user.ID, req.RoundNumber, logistics, results)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, rounds)
}

// ListRounds handles GET /api/v1/coordinator/posts/:id/rounds
func (h *CoordinatorHandler) ListRounds(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || opportunityID == 0 {
		return response.BadRequest(c, "Invalid opportunity id")
	}

	summaries, err := h.rounds.RoundsSummary(c.Context(), uint(opportunityID), user.ID)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, summaries)
}
