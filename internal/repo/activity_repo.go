// Package repo – ActivityLog repository.
//
// Activity rows are append-only: there is no update or delete path, and
// none should be added. The admin surface reads them newest-first with
// optional date bounds.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// ActivityFilter narrows audit listings. Zero values mean "no filter".
type ActivityFilter struct {
	UserID string
	Action string
	From   *time.Time
	To     *time.Time
}

// InsertActivity appends one audit entry.
func InsertActivity(ctx context.Context, db *gorm.DB, a *domain.ActivityLog) (*domain.ActivityLog, error) {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func activityQuery(ctx context.Context, db *gorm.DB, f ActivityFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.ActivityLog{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	return q
}

// CountActivities returns the number of audit entries matching the filter.
func CountActivities(ctx context.Context, db *gorm.DB, f ActivityFilter) (int64, error) {
	var total int64
	err := activityQuery(ctx, db, f).Count(&total).Error
	return total, err
}

// ListActivitiesPage returns a paginated slice of audit entries matching
// the filter, newest first.
func ListActivitiesPage(ctx context.Context, db *gorm.DB, f ActivityFilter, offset, limit int) ([]domain.ActivityLog, error) {
	var out []domain.ActivityLog
	err := activityQuery(ctx, db, f).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
