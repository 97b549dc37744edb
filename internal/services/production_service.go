// Package services – ProductionService
//
// This file implements milk production recording. Writes go straight to
// the database and rely on the composite unique index over
// (cattle, date, session); a second write for the same triple surfaces as
// ErrDuplicateProduction and leaves the first row untouched.
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

// ProductionService implements milk production record operations.
type ProductionService struct {
	// DB is the database handle used for all production operations.
	DB *gorm.DB
}

// ProductionInput carries the caller-supplied attributes of one milking
// session record.
type ProductionInput struct {
	CattleID   string
	Date       time.Time
	Session    string
	Quantity   decimal.Decimal
	FatContent decimal.NullDecimal
	Notes      string
}

func (in *ProductionInput) validate() error {
	if strings.TrimSpace(in.CattleID) == "" || in.Date.IsZero() {
		return ErrInvalidInput
	}
	switch in.Session {
	case domain.SessionMorning, domain.SessionAfternoon, domain.SessionEvening:
	default:
		return ErrInvalidSession
	}
	if in.Quantity.Sign() < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// isDuplicate reports whether err is a uniqueness violation. GORM's
// translated sentinel covers most drivers; the message sniff catches
// SQLite builds that return the raw constraint error.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}

// Record persists one milking session for an animal owned by ownerID and
// writes the audit entry atomically. A record already present for the
// same (cattle, date, session) triple fails with ErrDuplicateProduction.
func (s *ProductionService) Record(ctx context.Context, ownerID, ip string, in ProductionInput) (*domain.MilkProduction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *domain.MilkProduction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCattle(ctx, tx, in.CattleID, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCattleNotFound
			}
			return err
		}

		p, err := repo.CreateProduction(ctx, tx, &domain.MilkProduction{
			CattleID:   in.CattleID,
			Date:       utils.DateOnly(in.Date),
			Session:    in.Session,
			Quantity:   in.Quantity,
			FatContent: in.FatContent,
			Notes:      in.Notes,
			RecordedBy: ownerID,
		})
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicateProduction
			}
			return err
		}
		created = p
		desc := fmt.Sprintf("Recorded %s L %s milk for %s on %s",
			in.Quantity.String(), in.Session, c.Name, p.Date.Format("2006-01-02"))
		return logActivity(ctx, tx, ownerID, domain.ActionCreate, "milk_production", p.ID, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get fetches one production record belonging to the owner's herd.
func (s *ProductionService) Get(ctx context.Context, ownerID, id string) (*domain.MilkProduction, error) {
	p, err := repo.GetProduction(ctx, s.DB, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPage returns one page of production records plus the total count.
// Date bounds in the filter are normalized to whole days.
func (s *ProductionService) ListPage(ctx context.Context, ownerID string, f repo.ProductionFilter, page, pageSize int) ([]domain.MilkProduction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if f.From != nil {
		d := utils.DateOnly(*f.From)
		f.From = &d
	}
	if f.To != nil {
		d := utils.DateOnly(*f.To)
		f.To = &d
	}
	total, err := repo.CountProductions(ctx, s.DB, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.MilkProduction{}, 0, nil
	}
	items, err := repo.ListProductionsPage(ctx, s.DB, ownerID, f, (page-1)*pageSize, pageSize)
	return items, total, err
}

// Update edits a production record's measurements and notes. The
// identifying triple (cattle, date, session) is immutable; correcting it
// means deleting the row and recording a fresh one.
func (s *ProductionService) Update(ctx context.Context, ownerID, id, ip string, quantity decimal.Decimal, fatContent decimal.NullDecimal, notes string) (*domain.MilkProduction, error) {
	if quantity.Sign() < 0 {
		return nil, ErrNegativeQuantity
	}

	var updated *domain.MilkProduction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]any{
			"quantity":    quantity,
			"fat_content": fatContent,
			"notes":       notes,
		}
		if err := repo.UpdateProduction(ctx, tx, id, ownerID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		var err error
		updated, err = repo.GetProduction(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("Updated milk record for %s on %s",
			updated.CattleID, updated.Date.Format("2006-01-02"))
		return logActivity(ctx, tx, ownerID, domain.ActionUpdate, "milk_production", id, desc, ip)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove hard-deletes a production record and writes the audit entry
// atomically.
func (s *ProductionService) Remove(ctx context.Context, ownerID, id, ip string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := repo.GetProduction(ctx, tx, id, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if err := repo.DeleteProduction(ctx, tx, id, ownerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		desc := fmt.Sprintf("Deleted milk record for %s on %s",
			p.CattleID, p.Date.Format("2006-01-02"))
		return logActivity(ctx, tx, ownerID, domain.ActionDelete, "milk_production", id, desc, ip)
	})
}
