package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/placement-cell/placements-api/model"
	"gorm.io/gorm"
)

// ApplicationService owns the lifecycle of a student's application:
// apply (with supersede semantics), CV updates, and listing.
type ApplicationService struct {
	db *gorm.DB
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// resolveCV maps a slot name to the profile's stored URL. A blank slot
// is a caller error: the student picked a CV they never uploaded.
func resolveCV(profile *model.StudentProfile, slot string) (string, error) {
	url, ok := profile.CVForSlot(slot)
	if !ok {
		return "", newError(KindValidation, fmt.Sprintf("Unknown CV slot %q", slot))
	}
	if url == "" {
		return "", newError(KindValidation, "Selected CV is empty")
	}
	return url, nil
}

// Apply submits a student's application to a posting. Eligibility is
// checked against the current profile, criteria and lock flag. An
// existing application for the same posting is superseded: its rounds
// and then the application itself are deleted before the new one is
// created, all inside one transaction together with the notification.
func (s *ApplicationService) Apply(ctx context.Context, userID, opportunityID uint, cvSlot string) (*model.Application, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "User not found")
		}
		return nil, wrapError(KindInternal, "failed to load user", err)
	}

	var profile model.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Profile not found")
		}
		return nil, wrapError(KindInternal, "failed to load profile", err)
	}

	var opp model.Opportunity
	if err := s.db.WithContext(ctx).First(&opp, opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Opportunity not found")
		}
		return nil, wrapError(KindInternal, "failed to load opportunity", err)
	}

	verdict := Evaluate(&profile, CriteriaFor(&opp), user.IsLocked, time.Now())
	if !verdict.Eligible {
		return nil, newError(KindIneligible, verdict.Reason.Message())
	}

	cvURL, err := resolveCV(&profile, cvSlot)
	if err != nil {
		return nil, err
	}

	application := &model.Application{
		StudentID:     profile.ID,
		OpportunityID: opp.ID,
		SelectedCV:    cvURL,
		AcceptedTerms: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Supersede any prior application to this posting: rounds go
		// first so no round row is ever orphaned.
		var existing model.Application
		err := tx.Where("student_id = ? AND opportunity_id = ?", profile.ID, opp.ID).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("application_id = ?", existing.ID).
				Delete(&model.ApplicationRound{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Create(application).Error; err != nil {
			return err
		}

		body := fmt.Sprintf("You applied for %s - %s", opp.CompanyName, opp.JobRole)
		return createNotification(tx, userID, "Application submitted", body)
	})
	if err != nil {
		return nil, translateDBError(err, "Application already exists for this opportunity")
	}

	return application, nil
}

// UpdateApplication swaps the CV on an existing application. Only the
// posting deadline is re-checked; eligibility is not re-evaluated on a
// CV swap. No notification is emitted.
func (s *ApplicationService) UpdateApplication(ctx context.Context, userID, applicationID uint, cvSlot string) (*model.Application, error) {
	var profile model.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Profile not found")
		}
		return nil, wrapError(KindInternal, "failed to load profile", err)
	}

	var application model.Application
	err := s.db.WithContext(ctx).Preload("Opportunity").Preload("Rounds").
		First(&application, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Application not found")
		}
		return nil, wrapError(KindInternal, "failed to load application", err)
	}

	// Someone else's application reads as absent, not forbidden.
	if application.StudentID != profile.ID {
		return nil, newError(KindNotFound, "Application not found")
	}

	if d := application.Opportunity.Deadline; d != nil && time.Now().After(*d) {
		return nil, newError(KindIneligible, ReasonDeadlinePassed.Message())
	}

	cvURL, err := resolveCV(&profile, cvSlot)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&application).Update("selected_cv", cvURL).Error; err != nil {
		return nil, wrapError(KindInternal, "failed to update application", err)
	}
	application.SelectedCV = cvURL

	return &application, nil
}

// ListApplied returns the student's applications with their postings and
// round history, newest first.
func (s *ApplicationService) ListApplied(ctx context.Context, userID uint) ([]model.Application, error) {
	var profile model.StudentProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindNotFound, "Profile not found")
		}
		return nil, wrapError(KindInternal, "failed to load profile", err)
	}

	var applications []model.Application
	err := s.db.WithContext(ctx).
		Preload("Opportunity").
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Where("student_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, wrapError(KindInternal, "failed to fetch applications", err)
	}
	return applications, nil
}
