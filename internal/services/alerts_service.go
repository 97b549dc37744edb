// Package services – AlertsService
//
// This file implements the two nightly background checks: upcoming health
// checkups and milk production anomalies. Each check walks the day's
// candidates, evaluates the condition, and hands hits to the notification
// emitter with per-day duplicate suppression. One failing animal does not
// abort the rest of the scan.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// AlertsService drives the scheduled condition scans. Health lookups go
// through the health service, anomaly math through analytics, and
// resulting alerts through the notification emitter.
type AlertsService struct {
	DB            *gorm.DB
	Health        *HealthService
	Analytics     *AnalyticsService
	Notifications *NotificationService
}

// CheckHealthCheckups finds every health record whose next checkup date
// is exactly the day after today and emits a high-priority notification
// to the animal's owner. Returns the number of notifications created;
// per-day suppression means a rerun on the same day adds nothing.
func (s *AlertsService) CheckHealthCheckups(ctx context.Context, today time.Time) (int, error) {
	tomorrow := utils.DateOnly(today).AddDate(0, 0, 1)
	due, err := s.Health.DueCheckups(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	emitted := 0
	for _, d := range due {
		cattleID := d.Cattle.ID
		n, err := s.Notifications.EmitOnce(ctx, EmitInput{
			Kind:     KindCheckupDue,
			UserID:   d.OwnerID,
			CattleID: &cattleID,
			Title:    "Health Check-up Reminder",
			Message: fmt.Sprintf("Health check-up due tomorrow for %s (Tag: %s)",
				d.Cattle.Name, d.Cattle.TagNumber),
		}, today)
		if err != nil {
			log.Error().Err(err).
				Str("cattle_id", cattleID).
				Msg("checkup alert failed")
			continue
		}
		if n != nil {
			emitted++
		}
	}
	return emitted, nil
}

// CheckMilkAnomalies evaluates every animal that produced milk yesterday
// against its historical daily average and notifies the owner when the
// day's total fell below 70 percent of it. The scan runs after midnight,
// so yesterday is the most recent fully recorded day. Animals with no
// history are never flagged. Returns the number of notifications created.
func (s *AlertsService) CheckMilkAnomalies(ctx context.Context, now time.Time) (int, error) {
	day := utils.DateOnly(now).AddDate(0, 0, -1)
	producers, err := repo.CattleProducedOn(ctx, s.DB, "", day)
	if err != nil {
		return 0, err
	}

	emitted := 0
	for _, c := range producers {
		res, err := s.Analytics.DetectAnomaly(ctx, c.ID, day)
		if err != nil {
			log.Error().Err(err).
				Str("cattle_id", c.ID).
				Msg("anomaly check failed")
			continue
		}
		if !res.IsAnomalous {
			continue
		}

		cattleID := c.ID
		n, err := s.Notifications.EmitOnce(ctx, EmitInput{
			Kind:     KindProductionAnomaly,
			UserID:   c.OwnerID,
			CattleID: &cattleID,
			Title:    "Milk Production Alert",
			Message: fmt.Sprintf(
				"Significant decrease in milk production for %s (Tag: %s). Yesterday: %s L, Average: %s L",
				c.Name, c.TagNumber, res.DayTotal.StringFixed(2), res.Baseline.StringFixed(2)),
		}, now)
		if err != nil {
			log.Error().Err(err).
				Str("cattle_id", cattleID).
				Msg("anomaly alert failed")
			continue
		}
		if n != nil {
			emitted++
		}
	}
	return emitted, nil
}
