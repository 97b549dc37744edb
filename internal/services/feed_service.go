// Package services – FeedService
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// FeedService implements feed inventory operations. Feed lots are farm
// level rather than per animal, so ownership follows the recording user.
type FeedService struct {
	// DB is the database handle used for all feed operations.
	DB *gorm.DB
}

// FeedInput carries the caller-supplied attributes of one feed lot.
type FeedInput struct {
	Name         string
	FeedType     string
	Quantity     decimal.Decimal
	CostPerUnit  decimal.Decimal
	PurchaseDate time.Time
	ExpiryDate   *time.Time
	Supplier     string
	Notes        string
}

func (in *FeedInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Supplier = strings.TrimSpace(in.Supplier)
	if in.Name == "" || in.Supplier == "" || in.PurchaseDate.IsZero() {
		return ErrInvalidInput
	}
	switch in.FeedType {
	case domain.FeedForage, domain.FeedConcentrate, domain.FeedSupplement, domain.FeedMineral:
	default:
		return ErrInvalidInput
	}
	if in.Quantity.Sign() < 0 || in.CostPerUnit.Sign() < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Create persists one feed lot recorded by ownerID and writes the audit
// entry atomically.
func (s *FeedService) Create(ctx context.Context, ownerID, ip string, in FeedInput) (*domain.Feed, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *domain.Feed
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := repo.CreateFeed(ctx, tx, &domain.Feed{
			Name:         in.Name,
			FeedType:     in.FeedType,
			Quantity:     in.Quantity,
			CostPerUnit:  in.CostPerUnit,
			PurchaseDate: utils.DateOnly(in.PurchaseDate),
			ExpiryDate:   datePtr(in.ExpiryDate),
			Supplier:     in.Supplier,
			Notes:        in.Notes,
			RecordedBy:   ownerID,
		})
		if err != nil {
			return err
		}
		created = f
		desc := fmt.Sprintf("Added feed lot %s (%s)", f.Name, f.FeedType)
		return logActivity(ctx, tx, ownerID, domain.ActionCreate, "feed", f.ID, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches one of the owner's feed lots.
func (s *FeedService) Get(ctx context.Context, ownerID, id string) (*domain.Feed, error) {
	f, err := repo.GetFeed(ctx, s.DB, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListPage returns one page of feed lots plus the total count.
func (s *FeedService) ListPage(ctx context.Context, ownerID string, f repo.FeedFilter, page, pageSize int) ([]domain.Feed, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	total, err := repo.CountFeeds(ctx, s.DB, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Feed{}, 0, nil
	}
	items, err := repo.ListFeedsPage(ctx, s.DB, ownerID, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update edits a feed lot and writes the audit entry atomically.
func (s *FeedService) Update(ctx context.Context, ownerID, id, ip string, in FeedInput) (*domain.Feed, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Feed
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{
			"name":          in.Name,
			"feed_type":     in.FeedType,
			"quantity":      in.Quantity,
			"cost_per_unit": in.CostPerUnit,
			"purchase_date": utils.DateOnly(in.PurchaseDate),
			"expiry_date":   datePtr(in.ExpiryDate),
			"supplier":      in.Supplier,
			"notes":         in.Notes,
		}
		if err := repo.UpdateFeed(ctx, tx, id, ownerID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		var err error
		updated, err = repo.GetFeed(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Updated feed lot %s", updated.Name)
		return logActivity(ctx, tx, ownerID, domain.ActionUpdate, "feed", id, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a feed lot and writes the audit entry atomically.
func (s *FeedService) Remove(ctx context.Context, ownerID, id, ip string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := repo.GetFeed(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if err := repo.DeleteFeed(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		desc := fmt.Sprintf("Deleted feed lot %s", f.Name)
		return logActivity(ctx, tx, ownerID, domain.ActionDelete, "feed", id, desc, ip)
	})
}
