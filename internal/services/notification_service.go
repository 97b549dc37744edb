// Package services – NotificationService
//
// This file implements the notification emitter and lifecycle. Semantic
// events (checkup-due, production-anomaly, general) are converted into
// persisted Notification rows with the priority derived from the event
// kind. Read-marking is idempotent by construction: the first call stamps
// the read timestamp, later calls change nothing.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// EventKind names a semantic condition that produces a notification.
type EventKind string

// Supported event kinds.
const (
	KindCheckupDue        EventKind = "checkup_due"
	KindProductionAnomaly EventKind = "production_anomaly"
	KindGeneral           EventKind = "general"
)

// NotificationService implements the emit and lifecycle operations around
// user notifications.
type NotificationService struct {
	// DB is the database handle used for all notification operations.
	DB *gorm.DB
}

// EmitInput describes one notification to create.
type EmitInput struct {
	Kind     EventKind
	UserID   string
	CattleID *string
	Title    string
	Message  string
	// Priority applies to general events only; checkup-due and
	// production-anomaly always emit high. Empty means medium.
	Priority string
}

// kindMapping resolves an event kind to the stored notification type and
// its derived priority. General events keep the caller's priority.
func kindMapping(kind EventKind) (notifType, priority string, ok bool) {
	switch kind {
	case KindCheckupDue:
		return domain.NotificationHealthCheckup, domain.PriorityHigh, true
	case KindProductionAnomaly:
		return domain.NotificationMilkProduction, domain.PriorityHigh, true
	case KindGeneral:
		return domain.NotificationGeneral, "", true
	default:
		return "", "", false
	}
}

// Emit persists one notification for in.UserID. The stored type and
// priority are derived from the event kind; a general event may carry a
// caller-specified priority, defaulting to medium. A blank title falls
// back to a title-cased rendering of the kind.
//
// Emit performs no duplicate suppression: every call creates a row. Use
// EmitOnce when repeated scans of an unchanged condition should not stack
// identical alerts.
func (s *NotificationService) Emit(ctx context.Context, in EmitInput) (*domain.Notification, error) {
	return s.emit(ctx, in, time.Time{})
}

// emit creates the row. A zero at leaves stamping to the repo layer; a
// non-zero at records the event time the caller observed, so same-day
// suppression and the stored row agree on one clock.
func (s *NotificationService) emit(ctx context.Context, in EmitInput, at time.Time) (*domain.Notification, error) {
	notifType, priority, ok := kindMapping(in.Kind)
	if !ok {
		return nil, ErrInvalidInput
	}
	if priority == "" {
		priority = in.Priority
		switch priority {
		case "":
			priority = domain.PriorityMedium
		case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		default:
			return nil, ErrInvalidInput
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(string(in.Kind), "_", " "))
	}

	return repo.CreateNotification(ctx, s.DB, &domain.Notification{
		Title:     title,
		Message:   in.Message,
		Type:      notifType,
		Priority:  priority,
		UserID:    in.UserID,
		CattleID:  in.CattleID,
		CreatedAt: at,
	})
}

// EmitOnce behaves like Emit but suppresses the write when a notification
// of the same type already exists for (user, cattle) created on the same
// calendar day as now. It returns (nil, nil) when suppressed. The nightly
// scans use this so an unresolved condition alerts once per day instead
// of once per run.
func (s *NotificationService) EmitOnce(ctx context.Context, in EmitInput, now time.Time) (*domain.Notification, error) {
	notifType, _, ok := kindMapping(in.Kind)
	if !ok {
		return nil, ErrInvalidInput
	}
	exists, err := repo.HasNotificationSince(ctx, s.DB, in.UserID, in.CattleID, notifType, utils.DateOnly(now))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	return s.emit(ctx, in, now.UTC())
}

// MarkRead marks one notification as read on behalf of userID. The first
// call stamps the read timestamp; repeated calls are no-ops that preserve
// the original timestamp. A missing or foreign notification is
// ErrNotificationNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	rows, err := repo.MarkNotificationRead(ctx, s.DB, id, userID, time.Now().UTC())
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	// Zero rows: either already read (fine) or not visible to this user.
	if _, err := repo.GetNotification(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead marks every currently-unread notification for userID and
// returns how many were marked. Each row is marked individually; the
// batch is not atomic, so a notification created concurrently is not
// retroactively included. Read state is monotonic per row, which makes a
// partially-observed batch harmless.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	unread, err := repo.ListUnreadNotifications(ctx, s.DB, userID)
	if err != nil {
		return 0, err
	}
	marked := 0
	now := time.Now().UTC()
	for _, n := range unread {
		rows, err := repo.MarkNotificationRead(ctx, s.DB, n.ID, userID, now)
		if err != nil {
			return marked, err
		}
		marked += int(rows)
	}
	return marked, nil
}

// Delete removes one of the user's notifications unconditionally.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := repo.DeleteNotification(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// UnreadCount reports how many unread notifications userID has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return repo.UnreadCount(ctx, s.DB, userID)
}

// ListPage returns one page of the user's notifications plus the total
// count. With unreadFirst set, unread rows sort ahead of read ones.
func (s *NotificationService) ListPage(ctx context.Context, userID string, unreadFirst bool, page, pageSize int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	total, err := repo.CountNotifications(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Notification{}, 0, nil
	}
	items, err := repo.ListNotificationsPage(ctx, s.DB, userID, unreadFirst, (page-1)*pageSize, pageSize)
	return items, total, err
}
