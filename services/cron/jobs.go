package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/placement-cell/placements-api/model"
	"gorm.io/datatypes"
)

// SendDeadlineReminders notifies applicants whose on-campus posting
// closes within the next 24 hours. Applicants can swap the CV on their
// application until the deadline, so a heads-up is useful. One reminder
// per (student, opportunity): a metadata match marks it already sent.
func (m *CronManager) SendDeadlineReminders() {
	jobName := "deadline_reminders"

	now := time.Now()
	cutoff := now.Add(24 * time.Hour)

	var postings []model.Opportunity
	err := m.db.
		Where("category = ? AND deadline IS NOT NULL AND deadline > ? AND deadline <= ?",
			model.CategoryOnCampus, now, cutoff).
		Find(&postings).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query closing postings: %w", err))
		return
	}

	if len(postings) == 0 {
		m.logJobComplete(jobName, "No postings closing within 24h")
		return
	}

	sent := 0
	for _, posting := range postings {
		var applications []model.Application
		err := m.db.Preload("Student").
			Where("opportunity_id = ?", posting.ID).
			Find(&applications).Error
		if err != nil {
			log.Printf("[CRON] Failed to load applications for opportunity %d: %v", posting.ID, err)
			continue
		}

		for _, app := range applications {
			userID := app.Student.UserID

			var already int64
			m.db.Model(&model.Notification{}).
				Where("user_id = ?", userID).
				Where(datatypes.JSONQuery("metadata").Equals("DEADLINE_REMINDER", "kind")).
				Where(datatypes.JSONQuery("metadata").Equals(fmt.Sprint(posting.ID), "opportunityId")).
				Count(&already)
			if already > 0 {
				continue
			}

			meta := datatypes.JSON(fmt.Sprintf(
				`{"kind":"DEADLINE_REMINDER","opportunityId":"%d"}`, posting.ID))
			notification := model.Notification{
				UserID: userID,
				Title:  "Deadline approaching",
				Body: fmt.Sprintf("Applications for %s - %s close at %s",
					posting.CompanyName, posting.JobRole,
					posting.Deadline.Format("02 Jan 2006 15:04")),
				Metadata: meta,
			}
			if err := m.db.Create(&notification).Error; err != nil {
				log.Printf("[CRON] Failed to create reminder for user %d: %v", userID, err)
				continue
			}
			sent++
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Sent %d reminders across %d postings", sent, len(postings)))
}

// CleanupOldData removes old data to keep the database clean
// Runs daily at 2 AM
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	totalCleaned := 0

	// 1. Read notifications older than 90 days
	cutoffNotifications := time.Now().Add(-90 * 24 * time.Hour)
	result := m.db.Where("read = true AND created_at < ?", cutoffNotifications).
		Delete(&model.Notification{})
	if result.Error != nil {
		log.Printf("[CRON] Failed to clean notifications: %v", result.Error)
	} else {
		log.Printf("[CRON] Cleaned %d read notifications", result.RowsAffected)
		totalCleaned += int(result.RowsAffected)
	}

	// 2. Audit logs older than 180 days
	cutoffAudit := time.Now().Add(-180 * 24 * time.Hour)
	result = m.db.Where("created_at < ?", cutoffAudit).Delete(&model.AuditLog{})
	if result.Error != nil {
		log.Printf("[CRON] Failed to clean audit logs: %v", result.Error)
	} else {
		log.Printf("[CRON] Cleaned %d old audit logs", result.RowsAffected)
		totalCleaned += int(result.RowsAffected)
	}

	// 3. Cron job logs older than 90 days
	cutoffLogs := time.Now().Add(-90 * 24 * time.Hour)
	result = m.db.Unscoped().Where("created_at < ?", cutoffLogs).Delete(&model.CronJobLog{})
	if result.Error != nil {
		log.Printf("[CRON] Failed to clean cron logs: %v", result.Error)
	} else {
		log.Printf("[CRON] Cleaned %d old cron logs", result.RowsAffected)
		totalCleaned += int(result.RowsAffected)
	}

	m.logJobComplete(jobName, fmt.Sprintf("Cleaned up %d total records", totalCleaned))
}
