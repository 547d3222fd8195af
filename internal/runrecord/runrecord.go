// Package runrecord persists execution history: one row per scenario run
// plus the resolution outcomes observed along the way. The history is what
// makes hint quality inspectable after the fact.
package runrecord

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no run exists for the given id.
var ErrNotFound = errors.New("runrecord: run not found")

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeResolutionFailure Outcome = "resolution-failure"
	OutcomeAssertionFailure  Outcome = "assertion-failure"
	OutcomeError             Outcome = "error"
)

// Run is one recorded scenario execution.
type Run struct {
	ID         string    `json:"id"`
	GraphID    string    `json:"graph_id"`
	SpecHash   string    `json:"spec_hash"`
	Scenario   string    `json:"scenario"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    Outcome   `json:"outcome"`
	FailedStep string    `json:"failed_step,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Resolution is one observed selector resolution within a run.
type Resolution struct {
	RunID      string `json:"run_id"`
	StepText   string `json:"step_text"`
	Strategy   string `json:"strategy"`
	Confidence string `json:"confidence"`
	Selector   string `json:"selector"`
	Error      string `json:"error,omitempty"`
}

// Store persists runs and their resolutions.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	AppendResolution(ctx context.Context, res *Resolution) error
	Run(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, graphID string) ([]Run, error)
	Resolutions(ctx context.Context, runID string) ([]Resolution, error)
	Close() error
}
