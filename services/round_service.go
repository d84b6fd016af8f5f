package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/placement-cell/placements-api/model"
	"gorm.io/gorm"
)

// RoundService records per-round outcomes for a posting's applicants
// and notifies each affected student.
type RoundService struct {
	db *gorm.DB
}

// NewRoundService creates a new round service
func NewRoundService(db *gorm.DB) *RoundService {
	return &RoundService{db: db}
}

// RoundLogistics are the announcement details shared by every result in
// one RecordRounds call; they are not per-student.
type RoundLogistics struct {
	Description *string
	Date        *time.Time
	Centre      *string
	Time        *string
}

// RoundResult is one student's outcome for the round. Status is a free
// string; SELECTED and REJECTED are the values the portal reads back.
type RoundResult struct {
	ApplicationID uint
	Status        string
}

// RoundSummary describes one announced round of a posting.
type RoundSummary struct {
	RoundNumber int        `json:"round_number"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Centre      *string    `json:"centre,omitempty"`
	Time        *string    `json:"time,omitempty"`
}

// RecordRounds upserts a round row per result, keyed by (application,
// round number): an existing row gets the new status and logistics, a
// missing one is created. Each upsert emits one notification to the
// owning student. Everything runs in a single transaction so a failed
// notification rolls back the round rows with it.
//
// An application is never closed by a REJECTED round; removal happens
// only through re-application or a posting-edit purge.
func (s *RoundService) RecordRounds(ctx context.Context, opportunityID, coordinatorID uint, roundNumber int, logistics RoundLogistics, results []RoundResult) ([]model.ApplicationRound, error) {
	if roundNumber < 1 {
		return nil, newError(KindValidation, "Round number must be positive")
	}

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

	rounds := make([]model.ApplicationRound, 0, len(results))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			var application model.Application
			err := tx.Preload("Student").First(&application, r.ApplicationID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newError(KindNotFound, fmt.Sprintf("Application %d not found", r.ApplicationID))
				}
				return err
			}
			if application.OpportunityID != opp.ID {
				return newError(KindValidation, fmt.Sprintf("Application %d does not belong to this opportunity", r.ApplicationID))
			}

			var round model.ApplicationRound
			err = tx.Where("application_id = ? AND round_number = ?", r.ApplicationID, roundNumber).
				First(&round).Error
			switch {
			case err == nil:
				round.Description = logistics.Description
				round.Date = logistics.Date
				round.Centre = logistics.Centre
				round.Time = logistics.Time
				round.Status = r.Status
				if err := tx.Save(&round).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				round = model.ApplicationRound{
					ApplicationID: r.ApplicationID,
					RoundNumber:   roundNumber,
					Description:   logistics.Description,
					Date:          logistics.Date,
					Centre:        logistics.Centre,
					Time:          logistics.Time,
					Status:        r.Status,
				}
				if err := tx.Create(&round).Error; err != nil {
					return err
				}
			default:
				return err
			}
			rounds = append(rounds, round)

			title := fmt.Sprintf("Round %d result", roundNumber)
			body := fmt.Sprintf("You are %s for %s", r.Status, opp.CompanyName)
			if err := createNotification(tx, application.Student.UserID, title, body); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, wrapError(KindInternal, "failed to record round results", err)
	}

	return rounds, nil
}

// RoundsSummary lists the distinct announced rounds of a posting with
// their logistics, in round order.
func (s *RoundService) RoundsSummary(ctx context.Context, opportunityID, coordinatorID uint) ([]RoundSummary, error) {
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

	var rounds []model.ApplicationRound
	err := s.db.WithContext(ctx).
		Joins("JOIN applications ON applications.id = application_rounds.application_id").
		Where("applications.opportunity_id = ?", opp.ID).
		Find(&rounds).Error
	if err != nil {
		return nil, wrapError(KindInternal, "failed to fetch rounds", err)
	}

	seen := make(map[int]bool)
	summaries := make([]RoundSummary, 0)
	for i := range rounds {
		r := &rounds[i]
		if seen[r.RoundNumber] {
			continue
		}
		seen[r.RoundNumber] = true
		summaries = append(summaries, RoundSummary{
			RoundNumber: r.RoundNumber,
			Description: r.Description,
			Date:        r.Date,
			Centre:      r.Centre,
			Time:        r.Time,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].RoundNumber < summaries[j].RoundNumber
	})
	return summaries, nil
}
