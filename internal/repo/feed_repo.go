// Package repo – Feed inventory repository.
//
// Feed lots are owned directly via recorded_by (they are farm-level
// inventory, not attached to an animal).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// FeedFilter narrows feed listings. Zero values mean "no filter".
type FeedFilter struct {
	FeedType string
	// ExpiringBy restricts to lots whose expiry date falls on or before
	// the given day.
	ExpiringBy *time.Time
}

// CreateFeed inserts a new feed lot.
func CreateFeed(ctx context.Context, db *gorm.DB, f *domain.Feed) (*domain.Feed, error) {
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func feedQuery(ctx context.Context, db *gorm.DB, ownerID string, f FeedFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Feed{}).Where("recorded_by = ?", ownerID)
	if f.FeedType != "" {
		q = q.Where("feed_type = ?", f.FeedType)
	}
	if f.ExpiringBy != nil {
		q = q.Where("expiry_date IS NOT NULL AND expiry_date <= ?", *f.ExpiringBy)
	}
	return q
}

// CountFeeds returns the number of feed lots recorded by ownerID.
func CountFeeds(ctx context.Context, db *gorm.DB, ownerID string, f FeedFilter) (int64, error) {
	var total int64
	err := feedQuery(ctx, db, ownerID, f).Count(&total).Error
	return total, err
}

// ListFeedsPage returns a paginated slice of feed lots, newest purchase
// first.
func ListFeedsPage(ctx context.Context, db *gorm.DB, ownerID string, f FeedFilter, offset, limit int) ([]domain.Feed, error) {
	var out []domain.Feed
	err := feedQuery(ctx, db, ownerID, f).
		Order("purchase_date desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetFeed fetches one feed lot by id and recorder.
func GetFeed(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Feed, error) {
	var f domain.Feed
	err := db.WithContext(ctx).
		Where("id = ? AND recorded_by = ?", id, ownerID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFeed applies an edit to one feed lot.
func UpdateFeed(ctx context.Context, db *gorm.DB, id, ownerID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Feed{}).
		Where("id = ? AND recorded_by = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteFeed removes one feed lot.
func DeleteFeed(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND recorded_by = ?", id, ownerID).
		Delete(&domain.Feed{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
