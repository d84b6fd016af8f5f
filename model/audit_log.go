package model

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded for CCD admin mutations.
const (
	AuditUpsertUser           = "UPSERT_USER"
	AuditLockStudent          = "LOCK_STUDENT"
	AuditUnlockStudent        = "UNLOCK_STUDENT"
	AuditUpsertStudent        = "UPSERT_STUDENT"
	AuditUpdateStudentProfile = "UPDATE_STUDENT_PROFILE"
	AuditBulkCreateStudents   = "BULK_CREATE_STUDENTS"
)

// AuditLog records who did what through the CCD admin surface.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ActorID uint           `gorm:"index;not null" json:"actor_id"`
	Action  string         `gorm:"type:varchar(40);not null" json:"action"`
	Meta    datatypes.JSON `gorm:"type:jsonb" json:"meta,omitempty"`

	// Relationships
	Actor User `gorm:"foreignKey:ActorID" json:"-"`
}
