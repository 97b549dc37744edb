// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// HealthRecord model, including the exact-date due-checkup scan consumed
// by the background scheduler.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// HealthFilter narrows health record listings. Zero values mean "no filter".
type HealthFilter struct {
	CattleID   string
	RecordType string
	From       *time.Time
	To         *time.Time
}

// CreateHealthRecord inserts a new health record row.
func CreateHealthRecord(ctx context.Context, db *gorm.DB, h *domain.HealthRecord) (*domain.HealthRecord, error) {
	h.ID = uuid.NewString()
	h.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func healthQuery(ctx context.Context, db *gorm.DB, ownerID string, f HealthFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.HealthRecord{}).
		Where("cattle_id IN (?)", ownedCattleSubquery(db, ownerID))
	if f.CattleID != "" {
		q = q.Where("cattle_id = ?", f.CattleID)
	}
	if f.RecordType != "" {
		q = q.Where("record_type = ?", f.RecordType)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	return q
}

// CountHealthRecords returns the number of health records visible to
// ownerID that match the filter.
func CountHealthRecords(ctx context.Context, db *gorm.DB, ownerID string, f HealthFilter) (int64, error) {
	var total int64
	err := healthQuery(ctx, db, ownerID, f).Count(&total).Error
	return total, err
}

// ListHealthRecordsPage returns a paginated slice of health records visible
// to ownerID, newest event date first.
func ListHealthRecordsPage(ctx context.Context, db *gorm.DB, ownerID string, f HealthFilter, offset, limit int) ([]domain.HealthRecord, error) {
	var out []domain.HealthRecord
	err := healthQuery(ctx, db, ownerID, f).
		Order("date desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetHealthRecord fetches one health record by id, scoped to the owner of
// its animal. Missing and foreign rows both return ErrNotFound.
func GetHealthRecord(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.HealthRecord, error) {
	var h domain.HealthRecord
	err := db.WithContext(ctx).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// UpdateHealthRecord applies an edit to one health record. Returns
// ErrNotFound when the row is missing or foreign.
func UpdateHealthRecord(ctx context.Context, db *gorm.DB, id, ownerID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.HealthRecord{}).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteHealthRecord removes one health record. Returns ErrNotFound when
// the row is missing or foreign.
func DeleteHealthRecord(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		Delete(&domain.HealthRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCheckupsDueOn returns every health record, across all owners, whose
// next checkup date equals dueDate exactly, with the owning animal
// preloaded. This is deliberately an exact-date match rather than a
// "due within N days" range.
func ListCheckupsDueOn(ctx context.Context, db *gorm.DB, dueDate time.Time) ([]domain.HealthRecord, error) {
	var out []domain.HealthRecord
	err := db.WithContext(ctx).
		Preload("Cattle").
		Joins("JOIN cattle ON cattle.id = health_records.cattle_id AND cattle.deleted_at IS NULL").
		Where("health_records.next_checkup_date = ?", dueDate).
		Order("health_records.date asc").
		Find(&out).Error
	return out, err
}
