package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nicopkrauss/talenttracker/config"
	"github.com/nicopkrauss/talenttracker/model"
	"github.com/nicopkrauss/talenttracker/shift"
)

const overtimeAuditAction = "overtime_alert"

// watcherStore is the persistence the watcher scans and writes its firing
// memory through.
type watcherStore interface {
	OpenShifts(ctx context.Context) ([]model.ShiftRecord, error)
	AlreadyFired(ctx context.Context, shiftID uuid.UUID) (bool, error)
	MarkFired(ctx context.Context, rec *model.ShiftRecord, hours float64) error
}

type gormWatcherStore struct {
	db *gorm.DB
}

func (s gormWatcherStore) OpenShifts(ctx context.Context) ([]model.ShiftRecord, error) {
	var open []model.ShiftRecord
	err := s.db.WithContext(ctx).
		Where("status IN ?", []model.ShiftStatus{model.StatusCheckedIn, model.StatusOnBreak, model.StatusBreakEnded}).
		Find(&open).Error
	return open, err
}

func (s gormWatcherStore) AlreadyFired(ctx context.Context, shiftID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.AuditEntry{}).
		Where("shift_id = ? AND action = ?", shiftID, overtimeAuditAction).
		Count(&count).Error
	return count > 0, err
}

func (s gormWatcherStore) MarkFired(ctx context.Context, rec *model.ShiftRecord, hours float64) error {
	entry := model.AuditEntry{
		ShiftID:  rec.ID,
		WorkerID: rec.WorkerID,
		ActorID:  rec.WorkerID,
		Action:   overtimeAuditAction,
		Field:    "shift_hours",
		NewValue: time.Duration(hours * float64(time.Hour)).Truncate(time.Minute).String(),
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// OvertimeWatcher periodically re-evaluates open shifts against wall-clock
// time and alerts the first time a shift crosses its overtime threshold.
// The "fired already" memory is an audit row, so the alert stays one-shot
// per shift across restarts.
type OvertimeWatcher struct {
	store    watcherStore
	cfg      *config.Config
	clock    shift.Clock
	notifier Notifier
	log      *zap.Logger
	interval time.Duration
}

func NewOvertimeWatcher(db *gorm.DB, cfg *config.Config, clock shift.Clock, notifier Notifier, log *zap.Logger, interval time.Duration) *OvertimeWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &OvertimeWatcher{store: gormWatcherStore{db: db}, cfg: cfg, clock: clock, notifier: notifier, log: log, interval: interval}
}

// Run blocks until ctx is done.
func (w *OvertimeWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Scan(ctx); err != nil {
				w.log.Warn("overtime scan failed", zap.Error(err))
			}
		}
	}
}

// Scan runs one evaluation pass.
func (w *OvertimeWatcher) Scan(ctx context.Context) error {
	open, err := w.store.OpenShifts(ctx)
	if err != nil {
		return err
	}

	now := w.clock.Now()
	for i := range open {
		rec := &open[i]
		pol := w.cfg.PolicyFor(rec.Role)
		hours := shift.ShiftHours(rec, now)
		if !shift.IsOvertime(hours, pol.OvertimeThresholdHours) {
			continue
		}

		fired, err := w.store.AlreadyFired(ctx, rec.ID)
		if err != nil {
			return err
		}
		if fired {
			continue
		}

		// Deliver first, mark after: a failed post must stay eligible for
		// the next scan. A duplicate is bounded by the scan interval.
		if err := w.notifier.OvertimeAlert(rec, hours); err != nil {
			w.log.Warn("overtime alert delivery failed",
				zap.String("shiftId", rec.ID.String()), zap.Error(err))
			continue
		}
		if err := w.store.MarkFired(ctx, rec, hours); err != nil {
			return err
		}
		w.log.Info("overtime alert sent",
			zap.String("shiftId", rec.ID.String()),
			zap.Float64("hours", hours),
		)
	}
	return nil
}
