// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// MilkProduction model.
//
// The (cattle, date, session) composite unique index is the single source
// of truth for duplicate detection: CreateProduction does not pre-check,
// it lets the insert fail and propagates the driver error for the service
// layer to classify. Ownership is enforced through the cattle table: a
// production row is visible only to the owner of its animal.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// ownedCattleSubquery returns a subquery selecting the ids of all animals
// owned by ownerID. Soft-deleted animals are excluded by GORM's default
// scope on the cattle model.
func ownedCattleSubquery(db *gorm.DB, ownerID string) *gorm.DB {
	return db.Model(&domain.Cattle{}).Select("id").Where("owner_id = ?", ownerID)
}

// ProductionFilter narrows production listings. Zero values mean "no filter".
type ProductionFilter struct {
	CattleID string
	From     *time.Time
	To       *time.Time
}

// CreateProduction inserts a new milk production row. A write for an
// existing (cattle, date, session) triple fails with the driver's
// unique-constraint error, which is returned unchanged.
func CreateProduction(ctx context.Context, db *gorm.DB, p *domain.MilkProduction) (*domain.MilkProduction, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func productionQuery(ctx context.Context, db *gorm.DB, ownerID string, f ProductionFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.MilkProduction{}).
		Where("cattle_id IN (?)", ownedCattleSubquery(db, ownerID))
	if f.CattleID != "" {
		q = q.Where("cattle_id = ?", f.CattleID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	return q
}

// CountProductions returns the number of production rows visible to
// ownerID that match the filter.
func CountProductions(ctx context.Context, db *gorm.DB, ownerID string, f ProductionFilter) (int64, error) {
	var total int64
	err := productionQuery(ctx, db, ownerID, f).Count(&total).Error
	return total, err
}

// ListProductionsPage returns a paginated slice of production rows visible
// to ownerID, newest date first.
func ListProductionsPage(ctx context.Context, db *gorm.DB, ownerID string, f ProductionFilter, offset, limit int) ([]domain.MilkProduction, error) {
	var out []domain.MilkProduction
	err := productionQuery(ctx, db, ownerID, f).
		Order("date desc, session asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetProduction fetches one production row by id, visible only to the owner
// of its animal. Missing and foreign rows both return ErrNotFound.
func GetProduction(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.MilkProduction, error) {
	var p domain.MilkProduction
	err := db.WithContext(ctx).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduction applies an explicit edit to one production row. The
// composite key columns are not updatable through this path; only the
// measured values and notes change. Returns ErrNotFound when the row is
// missing or foreign.
func UpdateProduction(ctx context.Context, db *gorm.DB, id, ownerID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.MilkProduction{}).
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

// DeleteProduction removes one production row (hard delete). Returns
// ErrNotFound when the row is missing or foreign.
func DeleteProduction(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND cattle_id IN (?)", id, ownedCattleSubquery(db, ownerID)).
		Delete(&domain.MilkProduction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
