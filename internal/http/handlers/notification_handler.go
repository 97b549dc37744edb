// Notification HTTP handlers.
//
//   - GET    /notifications               (list, paginated, ?unread_first=)
//   - GET    /notifications/unread-count
//   - POST   /notifications/:id/read      (idempotent mark-read)
//   - POST   /notifications/read-all
//   - DELETE /notifications/:id
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// ListNotificationsResponse wraps a page of notifications.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Pagination    Pagination            `json:"pagination"`
}

// ListNotifications returns a page of the user's notifications. With
// ?unread_first=true unread entries sort ahead of read ones.
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, pageSize := clampPagination(c)
	unreadFirst := c.Query("unread_first") == "true"

	items, total, err := h.inbox.ListPage(c.Request.Context(), userID(c), unreadFirst, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list notifications")
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{
		Notifications: items,
		Pagination:    paginate(page, pageSize, total),
	})
}

// UnreadCount returns how many unread notifications the user has.
func (h *Handlers) UnreadCount(c *gin.Context) {
	n, err := h.inbox.UnreadCount(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not count notifications")
		return
	}
	ok(c, http.StatusOK, gin.H{"unread": n})
}

// MarkNotificationRead marks one notification as read. Re-marking an
// already-read notification succeeds without changing its timestamp.
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "notification id must be a UUID")
		return
	}
	if err := h.inbox.MarkRead(c.Request.Context(), userID(c), id); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}

// MarkAllNotificationsRead marks every unread notification for the user.
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.inbox.MarkAllRead(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not mark notifications")
		return
	}
	ok(c, http.StatusOK, gin.H{"marked": n})
}

// DeleteNotification removes one of the user's notifications.
func (h *Handlers) DeleteNotification(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "notification id must be a UUID")
		return
	}
	if err := h.inbox.Delete(c.Request.Context(), userID(c), id); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}
