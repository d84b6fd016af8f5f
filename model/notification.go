package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a fire-and-forget message to a user, created on apply
// and on round results. Read-only afterwards apart from the read flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint           `gorm:"index;not null" json:"user_id"`
	Title    string         `gorm:"not null" json:"title"`
	Body     string         `gorm:"type:text" json:"body"`
	Read     bool           `gorm:"default:false" json:"read"`
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}
