// Package importrun tracks data pipeline runs for monitoring and auditing.
package importrun

import (
	"fmt"
	"time"
)

const (
	TypeFull        = "full"
	TypeIncremental = "incremental"
	TypeEventUpdate = "event_update"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is the persisted audit record for one import run.
type Run struct {
	ID         string
	Source     string
	ImportType string
	Status     string

	RecordsProcessed int
	RecordsCreated   int
	RecordsUpdated   int
	RecordsFailed    int

	Errors   []string
	Metadata map[string]any

	StartedAt   time.Time
	CompletedAt *time.Time
}

func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("import run id is required")
	}
	if r.Source == "" {
		return fmt.Errorf("import run source is required")
	}
	if r.ImportType == "" {
		return fmt.Errorf("import run type is required")
	}

	return nil
}

// DurationSeconds reports how long the run took, or zero while it is still
// in flight.
func (r Run) DurationSeconds() float64 {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt).Seconds()
}

// SuccessRate is created-plus-updated over processed as a 0-100 percentage.
func (r Run) SuccessRate() float64 {
	if r.RecordsProcessed == 0 {
		return 0
	}
	successful := float64(r.RecordsCreated + r.RecordsUpdated)
	rate := successful / float64(r.RecordsProcessed) * 100
	return float64(int(rate*100+0.5)) / 100
}
