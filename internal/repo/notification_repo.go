// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Notification model.
//
// Read-state is monotonic: MarkNotificationRead only ever flips a row from
// unread to read and stamps read_at once. Re-marking an already-read row
// affects zero rows, which callers treat as the idempotent no-op case.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// CreateNotification inserts a new notification row for its target user.
// A caller-set created_at is kept; only a zero value is stamped here, so
// the scheduler's event clock survives into the stored row.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) (*domain.Notification, error) {
	n.ID = uuid.NewString()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// GetNotification fetches one notification by id and target user. Missing
// and foreign rows both return ErrNotFound.
func GetNotification(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Notification, error) {
	var n domain.Notification
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CountNotifications returns the total notifications targeted at userID.
func CountNotifications(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// UnreadCount returns the number of unread notifications for userID.
func UnreadCount(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	return total, err
}

// ListNotificationsPage returns a paginated slice of the user's
// notifications. With unreadFirst set, unread rows sort ahead of read ones;
// within each group, newest first.
func ListNotificationsPage(ctx context.Context, db *gorm.DB, userID string, unreadFirst bool, offset, limit int) ([]domain.Notification, error) {
	order := "created_at desc"
	if unreadFirst {
		order = "is_read asc, created_at desc"
	}
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListUnreadNotifications returns all currently-unread notifications for
// userID, oldest first. The bulk mark-all-read operation walks this list
// and marks each row individually; it is intentionally not batch-atomic.
func ListUnreadNotifications(ctx context.Context, db *gorm.DB, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// MarkNotificationRead flips one unread notification to read, stamping
// read_at with now. It reports the number of rows affected: 1 on the
// unread→read transition, 0 when the row was already read or absent.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, userID string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

// DeleteNotification removes one notification owned by userID. Returns
// ErrNotFound when the row is missing or targeted at another user.
func DeleteNotification(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasNotificationSince reports whether a notification of the given type
// already exists for (userID, cattleID) created at or after since. The
// scheduler uses this for same-day duplicate suppression.
func HasNotificationSince(ctx context.Context, db *gorm.DB, userID string, cattleID *string, notifType string, since time.Time) (bool, error) {
	q := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND notification_type = ? AND created_at >= ?", userID, notifType, since)
	if cattleID != nil {
		q = q.Where("cattle_id = ?", *cattleID)
	} else {
		q = q.Where("cattle_id IS NULL")
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
