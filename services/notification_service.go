package services

import (
	"context"
	"fmt"
	"log"

	"github.com/placement-cell/placements-api/model"
	"gorm.io/gorm"
)

// NotificationService handles user notifications
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// createNotification inserts a notification using the caller's handle,
// which may be a transaction. Mutations that notify as a side effect
// pass their tx so a failed step rolls the message back too.
func createNotification(tx *gorm.DB, userID uint, title, body string) error {
	notification := &model.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := tx.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Create persists a fire-and-forget notification for a user.
func (s *NotificationService) Create(ctx context.Context, userID uint, title, body string) error {
	if err := createNotification(s.db.WithContext(ctx), userID, title, body); err != nil {
		return err
	}
	log.Printf("Created notification for user %d: %s", userID, title)
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, wrapError(KindInternal, "failed to fetch notifications", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return wrapError(KindInternal, "failed to update notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(KindNotFound, "Notification not found")
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Count(&count).Error
	if err != nil {
		return 0, wrapError(KindInternal, "failed to count notifications", err)
	}
	return count, nil
}
