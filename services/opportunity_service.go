package services

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/placement-cell/placements-api/model"
	"gorm.io/gorm"
)

// OpportunityService owns posting creation, edits (with the cascading
// eligibility purge) and the listings both actor roles read.
type OpportunityService struct {
	db *gorm.DB
}

// NewOpportunityService creates a new opportunity service
func NewOpportunityService(db *gorm.DB) *OpportunityService {
	return &OpportunityService{db: db}
}

// PostingInput carries every editable posting field. Nil threshold
// fields mean "no constraint on that axis"; SharedFields replaces the
// stored key set wholesale.
type PostingInput struct {
	Category     model.OpportunityCategory
	CompanyName  string
	JobRole      string
	Tier         *model.OpportunityTier
	StipendCTC   *string
	Deadline     *time.Time
	Skills       *string
	OtherDetails *string

	EligibilityEnrollmentPrefix *string
	EligibilityXPercent         *float64
	EligibilityXIIPercent       *float64
	EligibilityActiveBacklogs   *int
	EligibilityDeadBacklogs     *int
	EligibilityCGPA             *float64
	EligibilityBranch           *string
	EligibilityMaxGapYears      *int

	SharedFields []string
}

func (in *PostingInput) apply(opp *model.Opportunity) {
	opp.Category = in.Category
	opp.CompanyName = in.CompanyName
	opp.JobRole = in.JobRole
	opp.Tier = in.Tier
	opp.StipendCTC = in.StipendCTC
	opp.Deadline = in.Deadline
	opp.Skills = in.Skills
	opp.OtherDetails = in.OtherDetails
	opp.EligibilityEnrollmentPrefix = in.EligibilityEnrollmentPrefix
	opp.EligibilityXPercent = in.EligibilityXPercent
	opp.EligibilityXIIPercent = in.EligibilityXIIPercent
	opp.EligibilityActiveBacklogs = in.EligibilityActiveBacklogs
	opp.EligibilityDeadBacklogs = in.EligibilityDeadBacklogs
	opp.EligibilityCGPA = in.EligibilityCGPA
	opp.EligibilityBranch = in.EligibilityBranch
	opp.EligibilityMaxGapYears = in.EligibilityMaxGapYears
	opp.SharedFields = pq.StringArray(in.SharedFields)
}

// CreatePosting creates a posting owned by the coordinator.
func (s *OpportunityService) CreatePosting(ctx context.Context, coordinatorID uint, in PostingInput) (*model.Opportunity, error) {
	opp := &model.Opportunity{CoordinatorID: coordinatorID}
	in.apply(opp)

	if err := s.db.WithContext(ctx).Create(opp).Error; err != nil {
		return nil, wrapError(KindInternal, "failed to create posting", err)
	}
	return opp, nil
}

// UpdatePosting applies the new criteria and then re-screens every
// existing applicant against them. Applications whose students no
// longer qualify are purged together with their round history, rounds
// first. The whole edit is one transaction: a failed purge rolls the
// criteria change back too. Returns the updated posting and the number
// of purged applications.
func (s *OpportunityService) UpdatePosting(ctx context.Context, opportunityID, coordinatorID uint, in PostingInput) (*model.Opportunity, int, error) {
	var opp model.Opportunity
	if err := s.db.WithContext(ctx).First(&opp, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, newError(KindNotFound, "Opportunity not found")
		}
		return nil, 0, wrapError(KindInternal, "failed to load opportunity", err)
	}
	if opp.CoordinatorID != coordinatorID {
		return nil, 0, newError(KindForbidden, "Forbidden")
	}

	in.apply(&opp)
	purged := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&opp).Error; err != nil {
			return err
		}

		var applications []model.Application
		if err := tx.Preload("Student").Preload("Student.User").
			Where("opportunity_id = ?", opp.ID).
			Find(&applications).Error; err != nil {
			return err
		}

		// Parse the new criteria once; every applicant is screened
		// against the same normalized form.
		criteria := CriteriaFor(&opp)
		now := time.Now()

		var ineligibleIDs []uint
		for i := range applications {
			app := &applications[i]
			verdict := Evaluate(&app.Student, criteria, app.Student.User.IsLocked, now)
			if !verdict.Eligible {
				ineligibleIDs = append(ineligibleIDs, app.ID)
			}
		}

		if len(ineligibleIDs) > 0 {
			// Rounds are dependent children; delete them first.
			if err := tx.Where("application_id IN ?", ineligibleIDs).
				Delete(&model.ApplicationRound{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ineligibleIDs).
				Delete(&model.Application{}).Error; err != nil {
				return err
			}
		}
		purged = len(ineligibleIDs)
		return nil
	})
	if err != nil {
		return nil, 0, wrapError(KindInternal, "failed to update posting", err)
	}

	return &opp, purged, nil
}

// GetOwnedPosting loads a posting and verifies coordinator ownership.
func (s *OpportunityService) GetOwnedPosting(ctx context.Context, opportunityID, coordinatorID uint) (*model.Opportunity, error) {
	var opp model.Opportunity
	if err := s.db.WithContext(ctx).First(&opp, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Opportunity not found")
		}
		return nil, wrapError(KindInternal, "failed to load opportunity", err)
	}
	if opp.CoordinatorID != coordinatorID {
		return nil, newError(KindForbidden, "Forbidden")
	}
	return &opp, nil
}

// ListByCoordinator returns the coordinator's postings, newest first.
func (s *OpportunityService) ListByCoordinator(ctx context.Context, coordinatorID uint) ([]model.Opportunity, error) {
	var postings []model.Opportunity
	err := s.db.WithContext(ctx).
		Where("coordinator_id = ?", coordinatorID).
		Order("created_at DESC").
		Find(&postings).Error
	if err != nil {
		return nil, wrapError(KindInternal, "failed to fetch postings", err)
	}
	return postings, nil
}

// ListOnCampusForStudent returns the on-campus postings the student is
// currently eligible for.
func (s *OpportunityService) ListOnCampusForStudent(ctx context.Context, userID uint) ([]model.Opportunity, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, wrapError(KindInternal, "failed to load user", err)
	}
	var profile model.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Profile not found")
		}
		return nil, wrapError(KindInternal, "failed to load profile", err)
	}

	var all []model.Opportunity
	err := s.db.WithContext(ctx).
		Where("category = ?", model.CategoryOnCampus).
		Order("created_at DESC").
		Find(&all).Error
	if err != nil {
		return nil, wrapError(KindInternal, "failed to fetch postings", err)
	}

	now := time.Now()
	eligible := make([]model.Opportunity, 0, len(all))
	for i := range all {
		verdict := Evaluate(&profile, CriteriaFor(&all[i]), user.IsLocked, now)
		if verdict.Eligible {
			eligible = append(eligible, all[i])
		}
	}
	return eligible, nil
}

// ListOffCampus returns off-campus postings, visible to every student.
func (s *OpportunityService) ListOffCampus(ctx context.Context) ([]model.Opportunity, error) {
	var postings []model.Opportunity
	err := s.db.WithContext(ctx).
		Where("category = ?", model.CategoryOffCampus).
		Order("created_at DESC").
		Find(&postings).Error
	if err != nil {
		return nil, wrapError(KindInternal, "failed to fetch postings", err)
	}
	return postings, nil
}
