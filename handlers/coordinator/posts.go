package coordinator

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/handlers"
	"github.com/placement-cell/placements-api/model"
	"github.com/placement-cell/placements-api/services"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
	"github.com/placement-cell/placements-api/utils/validation"
	"gorm.io/gorm"
)

// CoordinatorHandler serves the coordinator dashboard endpoints
type CoordinatorHandler struct {
	db            *gorm.DB
	opportunities *services.OpportunityService
	rounds        *services.RoundService
	exports       *services.ExportService
	validator     *validation.Validator
}

// NewCoordinatorHandler creates a new coordinator handler
func NewCoordinatorHandler(db *gorm.DB) *CoordinatorHandler {
	return &CoordinatorHandler{
		db:            db,
		opportunities: services.NewOpportunityService(db),
		rounds:        services.NewRoundService(db),
		exports:       services.NewExportService(db),
		validator:     validation.NewValidator(),
	}
}

// PostingRequest is the request body for creating or updating a
// posting. Omitted eligibility fields mean "no constraint"; the shared
// field list replaces the stored set wholesale on update.
type PostingRequest struct {
	Category    string  `json:"category" validate:"required,oneof=ON_CAMPUS OFF_CAMPUS"`
	CompanyName string  `json:"companyName" validate:"required,min=1,max=255"`
	JobRole     string  `json:"jobRole" validate:"required,min=1,max=255"`
	Tier        *string `json:"tier" validate:"omitempty,oneof=DREAM STANDARD NORMAL"`
	StipendCTC  *string `json:"stipendCtc" validate:"omitempty,max=100"`

	EligibilityEnrollmentPrefix *string  `json:"eligibilityEnrollmentPrefix" validate:"omitempty,max=50"`
	EligibilityXPercent         *float64 `json:"eligibilityXPercent" validate:"omitempty,gte=0,lte=100"`
	EligibilityXIIPercent       *float64 `json:"eligibilityXiiPercent" validate:"omitempty,gte=0,lte=100"`
	EligibilityActiveBacklogs   *int     `json:"eligibilityActiveBacklogs" validate:"omitempty,gte=0"`
	EligibilityDeadBacklogs     *int     `json:"eligibilityDeadBacklogs" validate:"omitempty,gte=0"`
	EligibilityCGPA             *float64 `json:"eligibilityCgpa" validate:"omitempty,gte=0,lte=10"`
	EligibilityBranch           *string  `json:"eligibilityBranch" validate:"omitempty,max=255"`
	EligibilityMaxGapYears      *int     `json:"eligibilityMaxGapYears" validate:"omitempty,gte=0"`
	Deadline                    *string  `json:"deadline"` // RFC 3339; empty = no deadline

	Skills       *string  `json:"skills" validate:"omitempty,max=1000"`
	OtherDetails *string  `json:"otherDetails" validate:"omitempty,max=5000"`
	SharedFields []string `json:"sharedFields" validate:"omitempty,dive,min=1,max=50"`
}

func (req *PostingRequest) toInput() (services.PostingInput, error) {
	in := services.PostingInput{
		Category:                    model.OpportunityCategory(req.Category),
		CompanyName:                 validation.SanitizeString(req.CompanyName),
		JobRole:                     validation.SanitizeString(req.JobRole),
		StipendCTC:                  req.StipendCTC,
		Skills:                      req.Skills,
		OtherDetails:                req.OtherDetails,
		EligibilityEnrollmentPrefix: req.EligibilityEnrollmentPrefix,
		EligibilityXPercent:         req.EligibilityXPercent,
		EligibilityXIIPercent:       req.EligibilityXIIPercent,
		EligibilityActiveBacklogs:   req.EligibilityActiveBacklogs,
		EligibilityDeadBacklogs:     req.EligibilityDeadBacklogs,
		EligibilityCGPA:             req.EligibilityCGPA,
		EligibilityBranch:           req.EligibilityBranch,
		EligibilityMaxGapYears:      req.EligibilityMaxGapYears,
		SharedFields:                req.SharedFields,
	}
	if req.Tier != nil && *req.Tier != "" {
		tier := model.OpportunityTier(*req.Tier)
		in.Tier = &tier
	}
	if req.Deadline != nil && *req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return in, err
		}
		in.Deadline = &deadline
	}
	return in, nil
}

// UpdatePostingResponse reports the posting together with the number of
// applications purged by the eligibility re-check.
type UpdatePostingResponse struct {
	Opportunity              *model.Opportunity `json:"opportunity"`
	DeletedApplicationsCount int                `json:"deletedApplicationsCount"`
}

// CreatePosting handles POST /api/v1/coordinator/posts
func (h *CoordinatorHandler) CreatePosting(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req PostingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	in, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Invalid deadline format, expected RFC 3339")
	}

	posting, err := h.opportunities.CreatePosting(c.Context(), user.ID, in)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Created(c, posting)
}

// ListPostings handles GET /api/v1/coordinator/posts
func (h *CoordinatorHandler) ListPostings(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	postings, err := h.opportunities.ListByCoordinator(c.Context(), user.ID)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, postings)
}

// UpdatePosting handles PUT /api/v1/coordinator/posts/:id. Editing
// criteria retroactively purges applications that no longer qualify.
func (h *CoordinatorHandler) UpdatePosting(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	opportunityID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || opportunityID == 0 {
		return response.BadRequest(c, "Invalid opportunity id")
	}

	var req PostingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	in, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Invalid deadline format, expected RFC 3339")
	}

	posting, purged, err := h.opportunities.UpdatePosting(c.Context(), uint(opportunityID), user.ID, in)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, UpdatePostingResponse{
		Opportunity:              posting,
		DeletedApplicationsCount: purged,
	})
}

// ListApplications handles GET /api/v1/coordinator/posts/:id/applications
func (h *CoordinatorHandler) ListApplications(c *fiber.Ctx) error {
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

	var applications []model.Application
	err = h.db.WithContext(c.Context()).
		Preload("Student").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Where("opportunity_id = ?", posting.ID).
		Find(&applications).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, fiber.Map{
		"applications": applications,
		"exportRows":   services.BuildExportRows(posting, applications),
	})
}
