package student

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/handlers"
	"github.com/placement-cell/placements-api/utils/middleware"
	"github.com/placement-cell/placements-api/utils/response"
)

// ListNotifications handles GET /api/v1/student/notifications
func (h *StudentHandler) ListNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	notifications, err := h.notifications.ListForUser(c.Context(), userID)
	if err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.Success(c, notifications)
}

// MarkNotificationRead handles POST /api/v1/student/notifications/:id/read
func (h *StudentHandler) MarkNotificationRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || notificationID == 0 {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(c.Context(), userID, uint(notificationID)); err != nil {
		return handlers.ServiceError(c, err)
	}
	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}
