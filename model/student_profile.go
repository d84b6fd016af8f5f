package model

import (
	"time"
)

// PlacementStatus represents a student's best secured outcome so far,
// ordered by desirability: DREAM > STANDARD > NORMAL > UNPLACED.
type PlacementStatus string

const (
	PlacementUnplaced       PlacementStatus = "UNPLACED"
	PlacementNormalPlaced   PlacementStatus = "NORMAL_PLACED"
	PlacementStandardPlaced PlacementStatus = "STANDARD_PLACED"
	PlacementDreamPlaced    PlacementStatus = "DREAM_PLACED"
)

// CV slot names accepted by apply/update requests. The stored application
// keeps the resolved URL, never the slot name.
const (
	CVSlot1 = "cv1Url"
	CVSlot2 = "cv2Url"
	CVSlot3 = "cv3Url"
)

// StudentProfile holds the academic record and placement state for one
// student account. Exactly one profile exists per student user; the
// enrollment number is unique and never changes after creation.
type StudentProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`

	Name       string `json:"name"`
	PhotoURL   string `json:"photo_url"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Enrollment string `gorm:"uniqueIndex;not null" json:"enrollment"`
	Branch     string `gorm:"not null" json:"branch"`

	// Academic record. Nullable numerics stay nil when not yet reported;
	// eligibility minimum checks treat nil as 0.
	SgpaSem1      *float64 `json:"sgpa_sem1"`
	SgpaSem2      *float64 `json:"sgpa_sem2"`
	SgpaSem3      *float64 `json:"sgpa_sem3"`
	SgpaSem4      *float64 `json:"sgpa_sem4"`
	SgpaSem5      *float64 `json:"sgpa_sem5"`
	SgpaSem6      *float64 `json:"sgpa_sem6"`
	SgpaSem7      *float64 `json:"sgpa_sem7"`
	SgpaSem8      *float64 `json:"sgpa_sem8"`
	CGPA          *float64 `json:"cgpa"`
	XPercentage   *float64 `json:"x_percentage"`
	XIIPercentage *float64 `json:"xii_percentage"`

	ActiveBacklogs  int  `gorm:"default:0" json:"active_backlogs"`
	DeadBacklogs    int  `gorm:"default:0" json:"dead_backlogs"`
	HasYearGap      bool `gorm:"default:false" json:"has_year_gap"`
	YearGapDuration *int `json:"year_gap_duration"`

	CV1URL *string `json:"cv1Url"`
	CV2URL *string `json:"cv2Url"`
	CV3URL *string `json:"cv3Url"`

	// Placement-cell contact persons for the student's branch.
	TPOName   string `json:"tpo_name"`
	TPOEmail  string `json:"tpo_email"`
	TPOMobile string `json:"tpo_mobile"`
	TNPName   string `json:"tnp_name"`
	TNPEmail  string `json:"tnp_email"`
	TNPMobile string `json:"tnp_mobile"`
	ICName    string `json:"ic_name"`
	ICEmail   string `json:"ic_email"`
	ICMobile  string `json:"ic_mobile"`

	PlacementStatus PlacementStatus `gorm:"type:varchar(20);not null;default:'UNPLACED'" json:"placement_status"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Applications []Application `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// CVForSlot resolves a CV slot name to the stored URL. The second return
// is false for an unknown slot name; a known slot holding no URL returns
// an empty string.
func (p *StudentProfile) CVForSlot(slot string) (string, bool) {
	var url *string
	switch slot {
	case CVSlot1:
		url = p.CV1URL
	case CVSlot2:
		url = p.CV2URL
	case CVSlot3:
		url = p.CV3URL
	default:
		return "", false
	}
	if url == nil {
		return "", true
	}
	return *url, true
}
