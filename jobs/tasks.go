package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskKalkulationRecompute recomputes one project's Nachkalkulation.
	TaskKalkulationRecompute = "kalkulation:recompute"
	// TaskKalkulationResync re-enqueues recomputes for all budgeted projects.
	TaskKalkulationResync = "kalkulation:resync"
)

// KalkulationRecomputePayload identifies the project to recompute.
// The recompute is always full, so duplicate or reordered deliveries
// are harmless.
type KalkulationRecomputePayload struct {
	ProjektID int64 `json:"projekt_id"`
}

// NewKalkulationRecomputeTask constructs an Asynq task.
func NewKalkulationRecomputeTask(projektID int64) (*asynq.Task, error) {
	data, err := json.Marshal(KalkulationRecomputePayload{ProjektID: projektID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskKalkulationRecompute, data), nil
}

// NewKalkulationResyncTask constructs the nightly resync task.
func NewKalkulationResyncTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskKalkulationResync, nil), nil
}
