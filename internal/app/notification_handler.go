package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	userID := c.GetString("userID")

	notifications, err := h.notificationService.List(userID, limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to load notifications", nil)
		return
	}

	unread, _ := h.notificationService.CountUnread(userID)

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// UnreadCount handles GET /api/v1/notifications/unread
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.CountUnread(c.GetString("userID"))
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to count notifications", nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{"unread_count": count})
}

// MarkAsRead handles PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAsRead(c.Param("id"), c.GetString("userID")); err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllAsRead handles PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c.GetString("userID")); err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to mark notifications", nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "All notifications marked as read", nil)
}

// Delete handles DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notificationService.Delete(c.Param("id"), c.GetString("userID")); err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Notification deleted", nil)
}
