// Package services – BreedingService
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

// BreedingService implements breeding record operations.
type BreedingService struct {
	// DB is the database handle used for all breeding operations.
	DB *gorm.DB
}

// BreedingInput carries the caller-supplied attributes of a breeding
// attempt.
type BreedingInput struct {
	CattleID            string
	BreedingType        string
	Date                time.Time
	SireDetails         string
	Status              string
	ExpectedCalvingDate *time.Time
	ActualCalvingDate   *time.Time
	Notes               string
	Cost                decimal.Decimal
}

func (in *BreedingInput) validate() error {
	in.SireDetails = strings.TrimSpace(in.SireDetails)
	if strings.TrimSpace(in.CattleID) == "" || in.Date.IsZero() || in.SireDetails == "" {
		return ErrInvalidInput
	}
	switch in.BreedingType {
	case domain.BreedingNatural, domain.BreedingArtificial:
	default:
		return ErrInvalidInput
	}
	switch in.Status {
	case "", domain.BreedingStatusPending, domain.BreedingStatusSuccessful, domain.BreedingStatusUnsuccessful:
	default:
		return ErrInvalidInput
	}
	if in.Cost.Sign() < 0 {
		return ErrInvalidInput
	}
	return nil
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := utils.DateOnly(*t)
	return &d
}

// Create persists one breeding attempt for an animal owned by ownerID and
// writes the audit entry atomically.
func (s *BreedingService) Create(ctx context.Context, ownerID, ip string, in BreedingInput) (*domain.Breeding, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *domain.Breeding
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCattle(ctx, tx, in.CattleID, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}
		b, err := repo.CreateBreeding(ctx, tx, &domain.Breeding{
			CattleID:            in.CattleID,
			BreedingType:        in.BreedingType,
			Date:                utils.DateOnly(in.Date),
			SireDetails:         in.SireDetails,
			Status:              in.Status,
			ExpectedCalvingDate: datePtr(in.ExpectedCalvingDate),
			ActualCalvingDate:   datePtr(in.ActualCalvingDate),
			Notes:               in.Notes,
			Cost:                in.Cost,
			RecordedBy:          ownerID,
		})
		if err != nil {
			return err
		}
		created = b
		desc := fmt.Sprintf("Added %s breeding record for %s", in.BreedingType, c.Name)
		return logActivity(ctx, tx, ownerID, domain.ActionCreate, "breeding", b.ID, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches one breeding record belonging to the owner's herd.
func (s *BreedingService) Get(ctx context.Context, ownerID, id string) (*domain.Breeding, error) {
	b, err := repo.GetBreeding(ctx, s.DB, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListPage returns one page of breeding records plus the total count.
func (s *BreedingService) ListPage(ctx context.Context, ownerID string, f repo.BreedingFilter, page, pageSize int) ([]domain.Breeding, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	total, err := repo.CountBreedings(ctx, s.DB, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Breeding{}, 0, nil
	}
	items, err := repo.ListBreedingsPage(ctx, s.DB, ownerID, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update edits a breeding record. A pending attempt may resolve into
// successful or unsuccessful; a resolved attempt never changes status
// again.
func (s *BreedingService) Update(ctx context.Context, ownerID, id, ip string, in BreedingInput) (*domain.Breeding, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Breeding
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := repo.GetBreeding(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		newStatus := in.Status
		if newStatus == "" {
			newStatus = current.Status
		}
		if current.Status != domain.BreedingStatusPending && newStatus != current.Status {
			return ErrTerminalStatus
		}

		fields := map[string]any{
			"breeding_type":         in.BreedingType,
			"date":                  utils.DateOnly(in.Date),
			"sire_details":          in.SireDetails,
			"status":                newStatus,
			"expected_calving_date": datePtr(in.ExpectedCalvingDate),
			"actual_calving_date":   datePtr(in.ActualCalvingDate),
			"notes":                 in.Notes,
			"cost":                  in.Cost,
		}
		if err := repo.UpdateBreeding(ctx, tx, id, ownerID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		updated, err = repo.GetBreeding(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Updated breeding record %s", id)
		return logActivity(ctx, tx, ownerID, domain.ActionUpdate, "breeding", id, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a breeding record and writes the audit entry atomically.
func (s *BreedingService) Remove(ctx context.Context, ownerID, id, ip string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetBreeding(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if err := repo.DeleteBreeding(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		desc := fmt.Sprintf("Deleted breeding record %s", id)
		return logActivity(ctx, tx, ownerID, domain.ActionDelete, "breeding", id, desc, ip)
	})
}
