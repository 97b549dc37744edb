// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate queries behind the
// analytics surface: windowed production sums, per-day breakdowns, top
// producers, and the trailing baseline used by anomaly detection. Each
// function is context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// ProductionSum returns the total quantity and contributing record count
// over the closed interval [start, end] for the owner's herd. When
// cattleID is non-empty the sum is restricted to that animal. An empty
// result set yields a zero sum and count, not an error.
func ProductionSum(ctx context.Context, db *gorm.DB, ownerID, cattleID string, start, end time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		N     int64
	}
	q := db.WithContext(ctx).Model(&domain.MilkProduction{}).
		Where("cattle_id IN (?)", ownedCattleSubquery(db, ownerID)).
		Where("date >= ? AND date <= ?", start, end)
	if cattleID != "" {
		q = q.Where("cattle_id = ?", cattleID)
	}
	err := q.Select("COALESCE(SUM(quantity), 0) AS total, COUNT(*) AS n").Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.N, nil
}

// DailySessionTotals is one day's production split by milking session.
type DailySessionTotals struct {
	Date      time.Time       `json:"date"`
	Morning   decimal.Decimal `json:"morning"`
	Afternoon decimal.Decimal `json:"afternoon"`
	Evening   decimal.Decimal `json:"evening"`
	Total     decimal.Decimal `json:"total"`
}

// DailyBreakdown returns per-day, per-session totals over [start, end] for
// the owner's herd, ordered by date ascending. Days without records are
// absent from the result.
func DailyBreakdown(ctx context.Context, db *gorm.DB, ownerID string, start, end time.Time) ([]DailySessionTotals, error) {
	var out []DailySessionTotals
	err := db.WithContext(ctx).Model(&domain.MilkProduction{}).
		Select(`date,
			COALESCE(SUM(CASE WHEN session = 'morning'   THEN quantity ELSE 0 END), 0) AS morning,
			COALESCE(SUM(CASE WHEN session = 'afternoon' THEN quantity ELSE 0 END), 0) AS afternoon,
			COALESCE(SUM(CASE WHEN session = 'evening'   THEN quantity ELSE 0 END), 0) AS evening,
			COALESCE(SUM(quantity), 0) AS total`).
		Where("cattle_id IN (?)", ownedCattleSubquery(db, ownerID)).
		Where("date >= ? AND date <= ?", start, end).
		Group("date").
		Order("date asc").
		Scan(&out).Error
	return out, err
}

// ProducerTotal is one animal's total production over a window.
type ProducerTotal struct {
	CattleID  string          `json:"cattle_id"`
	Name      string          `json:"name"`
	TagNumber string          `json:"tag_number"`
	Total     decimal.Decimal `json:"total"`
}

// TopProducers returns the owner's highest-yielding animals over
// [start, end], descending by total, capped at limit.
func TopProducers(ctx context.Context, db *gorm.DB, ownerID string, start, end time.Time, limit int) ([]ProducerTotal, error) {
	var out []ProducerTotal
	err := db.WithContext(ctx).Model(&domain.MilkProduction{}).
		Select("milk_productions.cattle_id AS cattle_id, cattle.name AS name, cattle.tag_number AS tag_number, COALESCE(SUM(milk_productions.quantity), 0) AS total").
		Joins("JOIN cattle ON cattle.id = milk_productions.cattle_id AND cattle.deleted_at IS NULL").
		Where("cattle.owner_id = ?", ownerID).
		Where("milk_productions.date >= ? AND milk_productions.date <= ?", start, end).
		Group("milk_productions.cattle_id, cattle.name, cattle.tag_number").
		Order("total desc").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// DayTotal returns the summed quantity for one animal on one day across
// all sessions. No rows yields zero.
func DayTotal(ctx context.Context, db *gorm.DB, cattleID string, day time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := db.WithContext(ctx).Model(&domain.MilkProduction{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("cattle_id = ? AND date = ?", cattleID, day).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// BaselineBefore returns the summed quantity and the number of distinct
// recorded days strictly before day for one animal. The caller derives
// the baseline average (sum over distinct days); zero days means there is
// no baseline.
func BaselineBefore(ctx context.Context, db *gorm.DB, cattleID string, day time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Days  int64
	}
	err := db.WithContext(ctx).Model(&domain.MilkProduction{}).
		Select("COALESCE(SUM(quantity), 0) AS total, COUNT(DISTINCT date) AS days").
		Where("cattle_id = ? AND date < ?", cattleID, day).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Days, nil
}

// CattleProducedOn lists the distinct animals in the owner's herd (all
// owners when ownerID is empty) that have production recorded on day.
// The nightly anomaly scan uses this to bound its per-animal checks.
func CattleProducedOn(ctx context.Context, db *gorm.DB, ownerID string, day time.Time) ([]domain.Cattle, error) {
	var out []domain.Cattle
	q := db.WithContext(ctx).Model(&domain.Cattle{}).
		Where("id IN (?)", db.Model(&domain.MilkProduction{}).Select("DISTINCT cattle_id").Where("date = ?", day))
	if ownerID != "" {
		q = q.Where("owner_id = ?", ownerID)
	}
	err := q.Find(&out).Error
	return out, err
}
