// Package scheduler runs the periodic background checks: the nightly
// look for health checkups due tomorrow and the nightly milk production
// anomaly scan. Jobs run on a cron schedule and are bounded by a timeout
// so a stuck database cannot wedge the cron goroutine.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-dairy-backend/internal/services"
)

// jobTimeout bounds one scan run.
const jobTimeout = 2 * time.Minute

// Scheduler owns the cron instance and the alert checks it drives.
type Scheduler struct {
	cron   *cron.Cron
	alerts *services.AlertsService
	log    zerolog.Logger

	// CheckupSpec and AnomalySpec are standard 5-field cron expressions.
	// Defaults fire both scans nightly at 06:00 and 06:10.
	CheckupSpec string
	AnomalySpec string
}

// New creates a scheduler around the given alerts service.
func New(alerts *services.AlertsService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		alerts:      alerts,
		log:         log,
		CheckupSpec: "0 6 * * *",
		AnomalySpec: "10 6 * * *",
	}
}

// Start registers the jobs and launches the cron loop. Registration
// failures are returned before anything runs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.CheckupSpec, s.runCheckupScan); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.AnomalySpec, s.runAnomalyScan); err != nil {
		return err
	}
	s.log.Info().
		Str("checkup_spec", s.CheckupSpec).
		Str("anomaly_spec", s.AnomalySpec).
		Msg("scheduler started")
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) runCheckupScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.alerts.CheckHealthCheckups(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("checkup scan failed")
		return
	}
	s.log.Info().Int("notifications", n).Msg("checkup scan complete")
}

func (s *Scheduler) runAnomalyScan() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.alerts.CheckMilkAnomalies(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("anomaly scan failed")
		return
	}
	s.log.Info().Int("notifications", n).Msg("anomaly scan complete")
}
