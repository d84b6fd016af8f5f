package model

import (
	"time"
)

// Round status values meaningfully consumed by the portal. The column is
// a free string: coordinators may record other outcomes, and the absence
// of a round row means the application is pending for that round.
const (
	RoundStatusSelected = "SELECTED"
	RoundStatusRejected = "REJECTED"
)

// Application is one student's bid for one posting. The composite unique
// index backstops the one-live-application-per-(student, opportunity)
// rule against racing apply calls; re-applying supersedes (deletes) the
// prior application and its rounds.
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StudentID     uint `gorm:"not null;uniqueIndex:idx_app_student_opportunity" json:"student_id"`
	OpportunityID uint `gorm:"not null;uniqueIndex:idx_app_student_opportunity" json:"opportunity_id"`

	// Resolved CV URL copied from the profile slot chosen at apply time.
	SelectedCV    string `gorm:"not null" json:"selected_cv"`
	AcceptedTerms bool   `gorm:"default:false" json:"accepted_terms"`

	// Relationships
	Student     StudentProfile     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Opportunity Opportunity        `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
	Rounds      []ApplicationRound `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"rounds,omitempty"`
}

// ApplicationRound records one selection-round outcome for one
// application. RoundNumber is the student-facing ordinal and the upsert
// key together with ApplicationID. Rounds only record outcomes; a
// REJECTED round never closes or deletes its application.
type ApplicationRound struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ApplicationID uint `gorm:"not null;uniqueIndex:idx_round_application_number" json:"application_id"`
	RoundNumber   int  `gorm:"not null;uniqueIndex:idx_round_application_number" json:"round_number"`

	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Centre      *string    `json:"centre"`
	Time        *string    `json:"time"`
	Status      string     `json:"status"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
}
