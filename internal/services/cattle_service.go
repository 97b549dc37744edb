// Package services – CattleService
//
// This file implements the herd registry use-cases: registering animals,
// listing and fetching them, editing attributes, lifecycle status
// transitions, and removal. Mutations run inside a transaction together
// with their audit entry. Ownership is enforced by the repository's
// owner-scoped queries; a foreign animal surfaces as ErrCattleNotFound.
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

// CattleService implements herd registry operations.
type CattleService struct {
	// DB is the database handle used for all herd operations.
	DB *gorm.DB
}

// CattleInput carries the caller-supplied attributes of an animal.
type CattleInput struct {
	Name        string
	TagNumber   string
	Breed       string
	DateOfBirth time.Time
	Gender      string
	Weight      decimal.Decimal
	Status      string
	Notes       string
}

func (in *CattleInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.TagNumber = strings.TrimSpace(in.TagNumber)
	in.Breed = strings.TrimSpace(in.Breed)
	if in.Name == "" || in.TagNumber == "" || in.Breed == "" {
		return ErrInvalidInput
	}
	if in.Gender != "M" && in.Gender != "F" {
		return ErrInvalidInput
	}
	if in.Weight.Sign() < 0 {
		return ErrNegativeQuantity
	}
	switch in.Status {
	case "", domain.CattleStatusActive, domain.CattleStatusSold, domain.CattleStatusDeceased:
	default:
		return ErrInvalidInput
	}
	return nil
}

// Register creates a new animal owned by ownerID and records the audit
// entry atomically. ip is the acting client address for the audit trail.
func (s *CattleService) Register(ctx context.Context, ownerID, ip string, in CattleInput) (*domain.Cattle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *domain.Cattle
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.CreateCattle(ctx, tx, &domain.Cattle{
			OwnerID:     ownerID,
			Name:        in.Name,
			TagNumber:   in.TagNumber,
			Breed:       in.Breed,
			DateOfBirth: utils.DateOnly(in.DateOfBirth),
			Gender:      in.Gender,
			Weight:      in.Weight,
			Status:      in.Status,
			Notes:       in.Notes,
		})
		if err != nil {
			return err
		}
		created = c
		desc := fmt.Sprintf("Registered cattle %s (%s)", c.Name, c.TagNumber)
		return logActivity(ctx, tx, ownerID, domain.ActionCreate, "cattle", c.ID, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches one of the owner's animals.
func (s *CattleService) Get(ctx context.Context, ownerID, id string) (*domain.Cattle, error) {
	c, err := repo.GetCattle(ctx, s.DB, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCattleNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListPage returns one page of the owner's animals plus the total count.
func (s *CattleService) ListPage(ctx context.Context, ownerID string, f repo.CattleFilter, page, pageSize int) ([]domain.Cattle, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	total, err := repo.CountCattle(ctx, s.DB, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Cattle{}, 0, nil
	}
	items, err := repo.ListCattlePage(ctx, s.DB, ownerID, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update edits an animal's attributes. Status may move active→sold or
// active→deceased; sold and deceased are terminal, so any change away
// from them is rejected with ErrTerminalStatus.
func (s *CattleService) Update(ctx context.Context, ownerID, id, ip string, in CattleInput) (*domain.Cattle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Cattle
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := repo.GetCattle(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}

		newStatus := in.Status
		if newStatus == "" {
			newStatus = current.Status
		}
		if current.Status != domain.CattleStatusActive && newStatus != current.Status {
			return ErrTerminalStatus
		}

		fields := map[string]any{
			"name":          in.Name,
			"tag_number":    in.TagNumber,
			"breed":         in.Breed,
			"date_of_birth": utils.DateOnly(in.DateOfBirth),
			"gender":        in.Gender,
			"weight":        in.Weight,
			"status":        newStatus,
			"notes":         in.Notes,
		}
		if err := repo.UpdateCattle(ctx, tx, id, ownerID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}

		updated, err = repo.GetCattle(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Updated cattle %s (%s)", updated.Name, updated.TagNumber)
		return logActivity(ctx, tx, ownerID, domain.ActionUpdate, "cattle", id, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove soft-deletes one of the owner's animals and records the audit
// entry atomically.
func (s *CattleService) Remove(ctx context.Context, ownerID, id, ip string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCattle(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}
		if err := repo.DeleteCattle(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}
		desc := fmt.Sprintf("Deleted cattle %s (%s)", c.Name, c.TagNumber)
		return logActivity(ctx, tx, ownerID, domain.ActionDelete, "cattle", id, desc, ip)
	})
}
