package kalkulation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ruestwerk/ruestwerk-erp/jobs"
)

// RecomputeJob processes asynchronous Nachkalkulation recompute tasks.
type RecomputeJob struct {
	service *Service
	logger  *slog.Logger
}

// NewRecomputeJob constructs a job handler.
func NewRecomputeJob(service *Service, logger *slog.Logger) *RecomputeJob {
	return &RecomputeJob{service: service, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract. A project without a
// budget is skipped silently; transient failures are returned so asynq
// retries them, which is safe because every run is a full recompute.
func (j *RecomputeJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.KalkulationRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.ProjektID == 0 {
		return asynq.SkipRetry
	}
	if _, err := j.service.BerechneNachkalkulation(ctx, payload.ProjektID); err != nil {
		if errors.Is(err, ErrVorkalkulationFehlt) || errors.Is(err, ErrProjektNichtGefunden) {
			if j.logger != nil {
				j.logger.Info("recompute uebersprungen",
					slog.Int64("projekt_id", payload.ProjektID), slog.Any("reason", err))
			}
			return nil
		}
		if j.logger != nil {
			j.logger.Error("kalkulation recompute",
				slog.Int64("projekt_id", payload.ProjektID), slog.Any("error", err))
		}
		return err
	}
	return nil
}

// ResyncJob re-enqueues recomputes for all budgeted projects.
type ResyncJob struct {
	service *Service
	logger  *slog.Logger
}

// NewResyncJob constructs the nightly resync handler.
func NewResyncJob(service *Service, logger *slog.Logger) *ResyncJob {
	return &ResyncJob{service: service, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *ResyncJob) Handle(ctx context.Context, task *asynq.Task) error {
	count, err := j.service.ResyncAlle(ctx)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("kalkulation resync", slog.Any("error", err))
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("kalkulation resync angestossen", slog.Int("projekte", count))
	}
	return nil
}
