package runrecord

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"compass/internal/resolver"
	"compass/pkg/steprt"
)

// Recorder observes one scenario execution and writes it to a Store. Wire
// Hook into steprt.T.OnResolve and call BeginStep as the runner advances.
type Recorder struct {
	store Store
	ctx   context.Context

	mu   sync.Mutex
	run  Run
	step string
}

// StartRun allocates a run id and opens the record.
func StartRun(ctx context.Context, store Store, graphID, specHash, scenario string) *Recorder {
	return &Recorder{
		store: store,
		ctx:   ctx,
		run: Run{
			ID:        uuid.NewString(),
			GraphID:   graphID,
			SpecHash:  specHash,
			Scenario:  scenario,
			StartedAt: time.Now().UTC(),
		},
	}
}

// RunID returns the allocated run id.
func (r *Recorder) RunID() string { return r.run.ID }

// BeginStep marks the step subsequent resolutions belong to.
func (r *Recorder) BeginStep(text string) {
	r.mu.Lock()
	r.step = text
	r.mu.Unlock()
}

// Hook is the steprt.T.OnResolve callback. Store failures are dropped
// here; recording must never fail the run itself.
func (r *Recorder) Hook(hints steprt.Hints, res resolver.Resolution, err error) {
	r.mu.Lock()
	step := r.step
	r.mu.Unlock()

	rec := Resolution{
		RunID:    r.run.ID,
		StepText: step,
	}
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.Strategy = res.Strategy
		rec.Confidence = string(res.Confidence)
		rec.Selector = res.Locator.Selector
	}
	_ = r.store.AppendResolution(r.ctx, &rec)
}

// Finish closes the record. failedStep and errMsg are empty on success.
func (r *Recorder) Finish(outcome Outcome, failedStep, errMsg string) error {
	r.mu.Lock()
	r.run.FinishedAt = time.Now().UTC()
	r.run.Outcome = outcome
	r.run.FailedStep = failedStep
	r.run.Error = errMsg
	run := r.run
	r.mu.Unlock()
	return r.store.SaveRun(r.ctx, &run)
}

// Classify maps a step failure to an outcome by unwrapping resolver
// sentinel errors.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var resErr *resolver.ResolutionError
	if errors.As(err, &resErr) {
		return OutcomeResolutionFailure
	}
	if errors.Is(err, steprt.ErrAssertion) {
		return OutcomeAssertionFailure
	}
	return OutcomeError
}
