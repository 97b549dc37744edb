// Package services – ActivityService
//
// Append-only audit trail. Every mutating service method records what
// changed, by whom, and from where, in the same transaction as the
// change itself so the audit row and the mutation commit or roll back
// together.
package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
)

// ActivityService exposes the read surface over the audit trail.
type ActivityService struct {
	DB *gorm.DB
}

// ListPage returns one page of audit entries plus the total count.
// Non-admin callers are restricted to their own entries by the handler
// supplying their user id in the filter.
func (s *ActivityService) ListPage(ctx context.Context, f repo.ActivityFilter, page, pageSize int) ([]domain.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	total, err := repo.CountActivities(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ActivityLog{}, 0, nil
	}
	items, err := repo.ListActivitiesPage(ctx, s.DB, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Log appends one audit entry outside any surrounding transaction.
func (s *ActivityService) Log(ctx context.Context, userID, action, entityName, entityID, description, ip string) error {
	return logActivity(ctx, s.DB, userID, action, entityName, entityID, description, ip)
}

// logActivity appends one audit entry using the given handle, which may
// be transaction-bound.
func logActivity(ctx context.Context, db *gorm.DB, userID, action, entityName, entityID, description, ip string) error {
	_, err := repo.InsertActivity(ctx, db, &domain.ActivityLog{
		UserID:      userID,
		Action:      action,
		EntityName:  entityName,
		EntityID:    entityID,
		Description: description,
		IPAddress:   ip,
	})
	return err
}

// ActivityRange builds a closed [from, to] filter over audit timestamps,
// where to is extended to the end of its day so a date-only upper bound
// includes that whole day.
func ActivityRange(from, to *time.Time) (lo, hi *time.Time) {
	if to != nil {
		t := to.Add(24*time.Hour - time.Nanosecond)
		hi = &t
	}
	return from, hi
}
