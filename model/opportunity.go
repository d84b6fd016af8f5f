package model

import (
	"time"

	"github.com/lib/pq"
)

// OpportunityCategory controls whether eligibility gating applies.
// Off-campus postings are informational only.
type OpportunityCategory string

const (
	CategoryOnCampus  OpportunityCategory = "ON_CAMPUS"
	CategoryOffCampus OpportunityCategory = "OFF_CAMPUS"
)

// OpportunityTier classifies a posting's desirability. Tier gates
// re-application after a student is already placed.
type OpportunityTier string

const (
	TierDream    OpportunityTier = "DREAM"
	TierStandard OpportunityTier = "STANDARD"
	TierNormal   OpportunityTier = "NORMAL"
)

// Opportunity is a job/internship/hackathon listing created by a
// coordinator. Every eligibility threshold is independently optional: a
// nil field places no constraint on that axis.
type Opportunity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category    OpportunityCategory `gorm:"type:varchar(20);not null" json:"category"`
	CompanyName string              `gorm:"not null" json:"company_name"`
	JobRole     string              `gorm:"not null" json:"job_role"`
	Tier        *OpportunityTier    `gorm:"type:varchar(20)" json:"tier"`
	StipendCTC  *string             `json:"stipend_ctc"`

	EligibilityEnrollmentPrefix *string    `json:"eligibility_enrollment_prefix"`
	EligibilityXPercent         *float64   `json:"eligibility_x_percent"`
	EligibilityXIIPercent       *float64   `json:"eligibility_xii_percent"`
	EligibilityActiveBacklogs   *int       `json:"eligibility_active_backlogs"`
	EligibilityDeadBacklogs     *int       `json:"eligibility_dead_backlogs"`
	EligibilityCGPA             *float64   `json:"eligibility_cgpa"`
	EligibilityBranch           *string    `json:"eligibility_branch"` // comma-separated, empty = all branches
	EligibilityMaxGapYears      *int       `json:"eligibility_max_gap_years"`
	Deadline                    *time.Time `json:"deadline"` // nil = no deadline

	Skills       *string `json:"skills"`
	OtherDetails *string `json:"other_details"`

	// Profile attributes exposed to the posting owner on export,
	// replaced wholesale on every posting edit.
	SharedFields pq.StringArray `gorm:"type:text[]" json:"shared_fields"`

	CoordinatorID uint `gorm:"index;not null" json:"coordinator_id"`

	// Relationships
	Coordinator  User          `gorm:"foreignKey:CoordinatorID" json:"-"`
	Applications []Application `gorm:"foreignKey:OpportunityID;constraint:OnDelete:CASCADE" json:"-"`
}
