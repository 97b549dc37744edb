// Package services – AnalyticsService
//
// This file implements the analytics core: windowed production
// aggregation, the per-day/per-session breakdown behind the dashboard
// charts, top producers, and milk-yield anomaly detection against a
// trailing baseline. Everything here is a pure read; no method mutates
// the store, so all methods are safe to invoke concurrently.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// anomalyThreshold is the fraction of the trailing baseline below which a
// day's total counts as a significant drop. A day at exactly the
// threshold is not anomalous.
var anomalyThreshold = decimal.RequireFromString("0.70")

// AnalyticsService computes aggregates over milk production records.
type AnalyticsService struct {
	// DB is the database handle used for all analytics reads.
	DB *gorm.DB
}

// AggregateResult is the outcome of one windowed aggregation.
type AggregateResult struct {
	// Sum is the total quantity over the window.
	Sum decimal.Decimal `json:"sum"`
	// Count is the number of contributing production records.
	Count int64 `json:"count"`
	// AveragePerDay is Sum divided by the number of days in the closed
	// interval, so days with no recorded milk drag the average down.
	AveragePerDay decimal.Decimal `json:"average_per_day"`
	// Days is the length of the closed interval in days.
	Days int64 `json:"days"`
}

// Aggregate sums production over the closed interval [start, end] for the
// owner's herd, restricted to one animal when cattleID is non-empty.
//
// Semantics:
//   - start > end is ErrInvalidRange, checked before any query.
//   - An empty result set yields Sum = 0 and AveragePerDay = 0.
//   - The daily average is a rate over the whole window
//     (sum / days-in-interval), not a per-record mean.
func (s *AnalyticsService) Aggregate(ctx context.Context, ownerID, cattleID string, start, end time.Time) (AggregateResult, error) {
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	if start.After(end) {
		return AggregateResult{}, ErrInvalidRange
	}

	sum, count, err := repo.ProductionSum(ctx, s.DB, ownerID, cattleID, start, end)
	if err != nil {
		return AggregateResult{}, err
	}

	days := int64(end.Sub(start).Hours()/24) + 1
	avg := decimal.Zero
	if sum.Sign() > 0 {
		avg = sum.Div(decimal.NewFromInt(days))
	}
	return AggregateResult{Sum: sum, Count: count, AveragePerDay: avg, Days: days}, nil
}

// DailyBreakdown returns per-day session totals over [start, end] for the
// owner's herd, oldest day first. Days without records are omitted.
func (s *AnalyticsService) DailyBreakdown(ctx context.Context, ownerID string, start, end time.Time) ([]repo.DailySessionTotals, error) {
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	return repo.DailyBreakdown(ctx, s.DB, ownerID, start, end)
}

// TopProducers returns the owner's highest-yielding animals over the
// window, capped at limit (default 5 when limit <= 0).
func (s *AnalyticsService) TopProducers(ctx context.Context, ownerID string, start, end time.Time, limit int) ([]repo.ProducerTotal, error) {
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}
	if limit <= 0 {
		limit = 5
	}
	return repo.TopProducers(ctx, s.DB, ownerID, start, end, limit)
}

// AnomalyResult is the outcome of one anomaly check.
type AnomalyResult struct {
	// IsAnomalous is set when the day's total fell below the threshold
	// fraction of the baseline.
	IsAnomalous bool `json:"is_anomalous"`
	// Ratio is day total / baseline. Zero when there is no baseline.
	Ratio decimal.Decimal `json:"ratio"`
	// Baseline is the average daily total across all recorded days
	// strictly before the evaluated day.
	Baseline decimal.Decimal `json:"baseline"`
	// DayTotal is the evaluated day's summed quantity.
	DayTotal decimal.Decimal `json:"day_total"`
}

// DetectAnomaly compares one animal's production on day against its
// trailing baseline: the average daily total over all recorded days
// strictly before day.
//
// A drop is flagged only when the baseline is strictly positive AND the
// day's total is below threshold × baseline. With no prior history the
// baseline is zero and nothing is flagged, so a first recording day can
// never raise a false positive. A day at exactly the threshold is not
// anomalous.
//
// Given identical history the result is deterministic; all arithmetic is
// decimal, with no float ordering effects.
func (s *AnalyticsService) DetectAnomaly(ctx context.Context, cattleID string, day time.Time) (AnomalyResult, error) {
	day = utils.DateOnly(day)

	total, days, err := repo.BaselineBefore(ctx, s.DB, cattleID, day)
	if err != nil {
		return AnomalyResult{}, err
	}
	if days == 0 || total.Sign() <= 0 {
		return AnomalyResult{}, nil
	}
	baseline := total.Div(decimal.NewFromInt(days))

	dayTotal, err := repo.DayTotal(ctx, s.DB, cattleID, day)
	if err != nil {
		return AnomalyResult{}, err
	}

	res := AnomalyResult{
		Baseline: baseline,
		DayTotal: dayTotal,
		Ratio:    dayTotal.Div(baseline),
	}
	res.IsAnomalous = dayTotal.LessThan(baseline.Mul(anomalyThreshold))
	return res, nil
}

// DashboardSummary is the landing-page snapshot for one owner.
type DashboardSummary struct {
	ActiveCattle        int64                 `json:"active_cattle"`
	TodayTotal          decimal.Decimal       `json:"today_total"`
	UnreadNotifications int64                 `json:"unread_notifications"`
	RecentHealthRecords []domain.HealthRecord `json:"recent_health_records"`
}

// Dashboard assembles the owner's summary for today: active herd size,
// today's milk total, unread notification count, and the five most recent
// health records.
func (s *AnalyticsService) Dashboard(ctx context.Context, ownerID string, today time.Time) (DashboardSummary, error) {
	today = utils.DateOnly(today)

	active, err := repo.CountCattle(ctx, s.DB, ownerID, repo.CattleFilter{Status: domain.CattleStatusActive})
	if err != nil {
		return DashboardSummary{}, err
	}
	todayTotal, _, err := repo.ProductionSum(ctx, s.DB, ownerID, "", today, today)
	if err != nil {
		return DashboardSummary{}, err
	}
	unread, err := repo.UnreadCount(ctx, s.DB, ownerID)
	if err != nil {
		return DashboardSummary{}, err
	}
	recent, err := repo.ListHealthRecordsPage(ctx, s.DB, ownerID, repo.HealthFilter{}, 0, 5)
	if err != nil {
		return DashboardSummary{}, err
	}
	return DashboardSummary{
		ActiveCattle:        active,
		TodayTotal:          todayTotal,
		UnreadNotifications: unread,
		RecentHealthRecords: recent,
	}, nil
}
