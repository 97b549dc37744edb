// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Cattle model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Every read and write is scoped to the owning user. A record that exists
// but belongs to someone else is indistinguishable from a missing one:
// both surface as ErrNotFound, so the API never leaks the existence of
// other users' animals.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist (or is not
// owned by the requesting user). It aliases gorm.ErrRecordNotFound for
// convenience and consistency across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CattleFilter narrows cattle listings. Zero values mean "no filter".
type CattleFilter struct {
	// Search matches tag number or name, case-insensitive substring.
	Search string
	// Status restricts to one lifecycle status.
	Status string
}

// CreateCattle inserts a new Cattle row owned by ownerID. The ID is a
// randomly generated UUID (string), and CreatedAt is set to UTC.
func CreateCattle(ctx context.Context, db *gorm.DB, c *domain.Cattle) (*domain.Cattle, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	if c.Status == "" {
		c.Status = domain.CattleStatusActive
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func cattleQuery(ctx context.Context, db *gorm.DB, ownerID string, f CattleFilter) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Cattle{}).Where("owner_id = ?", ownerID)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("tag_number LIKE ? OR name LIKE ?", like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

// CountCattle returns the total number of animals owned by ownerID that
// match the filter.
func CountCattle(ctx context.Context, db *gorm.DB, ownerID string, f CattleFilter) (int64, error) {
	var total int64
	err := cattleQuery(ctx, db, ownerID, f).Count(&total).Error
	return total, err
}

// ListCattlePage returns a paginated slice of the owner's animals, ordered
// by creation time descending. Use CountCattle to obtain the total for
// pagination metadata.
func ListCattlePage(ctx context.Context, db *gorm.DB, ownerID string, f CattleFilter, offset, limit int) ([]domain.Cattle, error) {
	var out []domain.Cattle
	err := cattleQuery(ctx, db, ownerID, f).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetCattle fetches a single animal by its ID and owner. If the record does
// not exist or is owned by someone else, it returns ErrNotFound.
func GetCattle(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Cattle, error) {
	var c domain.Cattle
	err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCattle persists the mutable fields of an owner's animal. If no rows
// are affected (animal missing or not owned by ownerID), it returns
// ErrNotFound. OwnerID and ID are never updated.
func UpdateCattle(ctx context.Context, db *gorm.DB, id, ownerID string, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Cattle{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCattle soft-deletes an owner's animal. Returns ErrNotFound when the
// animal does not exist or belongs to another user.
func DeleteCattle(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Cattle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
