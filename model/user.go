package model

import (
	"time"
)

// Role values for User.Role
const (
	RoleStudent     = "STUDENT"
	RoleCoordinator = "COORDINATOR"
	RoleCCDAdmin    = "CCD_ADMIN"
	RoleCCDMember   = "CCD_MEMBER"
)

// User represents a portal account. Students additionally own a
// StudentProfile; coordinators and CCD staff are bare accounts.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LoginID      string    `gorm:"uniqueIndex;not null" json:"login_id"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	Role         string    `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role"`
	IsLocked     bool      `gorm:"default:false" json:"is_locked"`

	// Relationships
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_profile,omitempty"`
	Notifications  []Notification  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsCCDStaff reports whether the account belongs to the placement cell.
func (u *User) IsCCDStaff() bool {
	return u.Role == RoleCCDAdmin || u.Role == RoleCCDMember
}
