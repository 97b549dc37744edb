// Package services – HealthService
//
// This file implements veterinary record keeping and the due-checkup
// lookup used by the nightly scan. A record's optional NextCheckupDate is
// the only scheduling input: the scan matches it exactly against the
// target day, it is not a rolling window.
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

// HealthService implements health record operations.
type HealthService struct {
	// DB is the database handle used for all health record operations.
	DB *gorm.DB
}

// HealthInput carries the caller-supplied attributes of a veterinary
// event.
type HealthInput struct {
	CattleID        string
	RecordType      string
	Date            time.Time
	Description     string
	Medicine        string
	Dosage          string
	VetName         string
	Cost            decimal.Decimal
	NextCheckupDate *time.Time
}

func (in *HealthInput) validate() error {
	in.Description = strings.TrimSpace(in.Description)
	in.VetName = strings.TrimSpace(in.VetName)
	if strings.TrimSpace(in.CattleID) == "" || in.Date.IsZero() ||
		in.Description == "" || in.VetName == "" {
		return ErrInvalidInput
	}
	switch in.RecordType {
	case domain.HealthVaccination, domain.HealthTreatment, domain.HealthCheckUp,
		domain.HealthDeworming, domain.HealthInsemination, domain.HealthPregnancyCheck:
	default:
		return ErrInvalidInput
	}
	if in.Cost.Sign() < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (in *HealthInput) checkupDate() *time.Time {
	if in.NextCheckupDate == nil {
		return nil
	}
	d := utils.DateOnly(*in.NextCheckupDate)
	return &d
}

// Create persists one veterinary event for an animal owned by ownerID and
// writes the audit entry atomically.
func (s *HealthService) Create(ctx context.Context, ownerID, ip string, in HealthInput) (*domain.HealthRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *domain.HealthRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCattle(ctx, tx, in.CattleID, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}
		h, err := repo.CreateHealthRecord(ctx, tx, &domain.HealthRecord{
			CattleID:        in.CattleID,
			RecordType:      in.RecordType,
			Date:            utils.DateOnly(in.Date),
			Description:     in.Description,
			Medicine:        in.Medicine,
			Dosage:          in.Dosage,
			VetName:         in.VetName,
			Cost:            in.Cost,
			NextCheckupDate: in.checkupDate(),
			RecordedBy:      ownerID,
		})
		if err != nil {
			return err
		}
		created = h
		desc := fmt.Sprintf("Added %s record for %s", in.RecordType, c.Name)
		return logActivity(ctx, tx, ownerID, domain.ActionCreate, "health_record", h.ID, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches one health record belonging to the owner's herd.
func (s *HealthService) Get(ctx context.Context, ownerID, id string) (*domain.HealthRecord, error) {
	h, err := repo.GetHealthRecord(ctx, s.DB, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return h, nil
}

// ListPage returns one page of health records plus the total count.
func (s *HealthService) ListPage(ctx context.Context, ownerID string, f repo.HealthFilter, page, pageSize int) ([]domain.HealthRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	total, err := repo.CountHealthRecords(ctx, s.DB, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.HealthRecord{}, 0, nil
	}
	items, err := repo.ListHealthRecordsPage(ctx, s.DB, ownerID, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update edits a health record and writes the audit entry atomically.
func (s *HealthService) Update(ctx context.Context, ownerID, id, ip string, in HealthInput) (*domain.HealthRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated *domain.HealthRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{
			"record_type":       in.RecordType,
			"date":              utils.DateOnly(in.Date),
			"description":       in.Description,
			"medicine":          in.Medicine,
			"dosage":            in.Dosage,
			"vet_name":          in.VetName,
			"cost":              in.Cost,
			"next_checkup_date": in.checkupDate(),
		}
		if err := repo.UpdateHealthRecord(ctx, tx, id, ownerID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		var err error
		updated, err = repo.GetHealthRecord(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Updated %s record %s", updated.RecordType, id)
		return logActivity(ctx, tx, ownerID, domain.ActionUpdate, "health_record", id, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove deletes a health record and writes the audit entry atomically.
func (s *HealthService) Remove(ctx context.Context, ownerID, id, ip string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h, err := repo.GetHealthRecord(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if err := repo.DeleteHealthRecord(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		desc := fmt.Sprintf("Deleted %s record %s", h.RecordType, id)
		return logActivity(ctx, tx, ownerID, domain.ActionDelete, "health_record", id, desc, ip)
	})
}

// DueCheckup pairs a matured health record with its animal and owner, so
// callers can route the resulting notification.
type DueCheckup struct {
	Record  domain.HealthRecord
	Cattle  domain.Cattle
	OwnerID string
	DueDate time.Time
}

// DueCheckups returns every health record whose next checkup date equals
// exactly dueDate, across all owners. Records for removed animals are
// skipped.
func (s *HealthService) DueCheckups(ctx context.Context, dueDate time.Time) ([]DueCheckup, error) {
	day := utils.DateOnly(dueDate)
	records, err := repo.ListCheckupsDueOn(ctx, s.DB, day)
	if err != nil {
		return nil, err
	}
	out := make([]DueCheckup, 0, len(records))
	for _, r := range records {
		out = append(out, DueCheckup{
			Record:  r,
			Cattle:  r.Cattle,
			OwnerID: r.Cattle.OwnerID,
			DueDate: day,
		})
	}
	return out, nil
}
