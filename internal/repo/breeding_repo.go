// Package repo – Breeding repository.
//
// Thin CRUD over breeding_records, owner-scoped through the cattle table
// like the production and health repositories.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// BreedingFilter narrows breeding listings. Zero values mean "no filter".
type BreedingFilter struct {
	CattleID string
	Status   string
}

// CreateBreeding inserts a new breeding row.
func CreateBreeding(ctx context.Context, db *gorm.DB, b *domain.Breeding) (*domain.Breeding, error) {
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	if b.Status == "" {
		b.Status = domain.BreedingStatusPending
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

func breedingQuery(ctx context.Context, db *gorm.DB, ownerID string, f BreedingFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Breeding{}).
		Where("cattle_id IN (?)", ownedCattleSubquery(db, ownerID))
	if f.CattleID != "" {
		q = q.Where("cattle_id = ?", f.CattleID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// CountBreedings returns the number of breeding rows visible to ownerID.
func CountBreedings(ctx context.Context, db *gorm.DB, ownerID string, f BreedingFilter) (int64, error) {
	var total int64
	err := breedingQuery(ctx, db, ownerID, f).Count(&total).Error
	return total, err
}

// ListBreedingsPage returns a paginated slice of breeding rows, newest
// breeding date first.
func ListBreedingsPage(ctx context.Context, db *gorm.DB, ownerID string, f BreedingFilter, offset, limit int) ([]domain.Breeding, error) {
	var out []domain.Breeding
	err := breedingQuery(ctx, db, ownerID, f).
		Order("date desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetBreeding fetches one breeding row by id, owner-scoped.
func GetBreeding(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Breeding, error) {
	var b domain.Breeding
	err := db.WithContext(ctx).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBreeding applies an edit to one breeding row.
func UpdateBreeding(ctx context.Context, db *gorm.DB, id, ownerID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Breeding{}).
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

// DeleteBreeding removes one breeding row.
func DeleteBreeding(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		Delete(&domain.Breeding{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
