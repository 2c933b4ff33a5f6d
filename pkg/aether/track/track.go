// Package track implements the completion tracker: a polling wait loop
// used for both transaction confirmation and AI job tracking. One generic
// mechanism serves every tracked operation; callers supply the probe and
// the classification, the tracker owns timing and error mapping.
package track

import (
	"context"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/aetherchain/go-aether/pkg/aether"
)

// Status classifies a single probe result.
type Status int

const (
	// StatusPending means the operation has not concluded; keep polling.
	StatusPending Status = iota
	// StatusSucceeded means the probed value is the final result.
	StatusSucceeded
	// StatusFailed means the operation reached a remote failure state.
	StatusFailed
)

// Verdict is the classification of one probe. State and Reason describe
// the remote condition when Status is StatusFailed.
type Verdict struct {
	Status Status
	State  string
	Reason string
}

// Pending, Succeeded and Failed are verdict shorthands for classifiers.
func Pending() Verdict   { return Verdict{Status: StatusPending} }
func Succeeded() Verdict { return Verdict{Status: StatusSucceeded} }
func Failed(state, reason string) Verdict {
	return Verdict{Status: StatusFailed, State: state, Reason: reason}
}

// Probe fetches the current remote state of the tracked operation.
// Returning aether.ErrNotFound counts as still pending: entities appear
// asynchronously after submission, so absence is not failure. Any other
// error aborts the wait.
type Probe[T any] func(ctx context.Context) (T, error)

// Classify inspects a probe result and decides whether the wait is over.
type Classify[T any] func(T) Verdict

// Config parameterizes a single wait. Each Wait call owns its own loop
// and deadline; concurrent waits share nothing.
type Config struct {
	// Op names the tracked operation kind in errors ("transaction", "job").
	Op string
	// ID identifies the tracked entity, already in display form.
	ID string
	// Interval is the pause between consecutive probes.
	Interval time.Duration
	// Timeout is the overall wait budget, measured from the start of the
	// wait. The loop can overshoot it by at most one interval plus one
	// probe round trip.
	Timeout time.Duration
	// Clock drives deadline checks and sleeps. Nil means the system clock.
	Clock time2.Clock
}

func (c Config) validate() error {
	if c.Interval <= 0 {
		return aether.NewValidationError("interval", "must be positive, got %s", c.Interval)
	}
	if c.Timeout <= 0 {
		return aether.NewValidationError("timeout", "must be positive, got %s", c.Timeout)
	}
	return nil
}

// Wait polls probe until classify reports success or failure, the budget
// elapses, or ctx is cancelled.
//
// The first probe fires immediately. After every probe the deadline is
// checked before the result is examined, so a result arriving after the
// budget elapsed is discarded and the wait times out: a late success is
// still a timeout. A failure verdict surfaces as RemoteFailureError and
// an elapsed budget as TimeoutError; the two are never conflated.
func Wait[T any](ctx context.Context, cfg Config, probe Probe[T], classify Classify[T]) (T, error) {
	var zero T

	if err := cfg.validate(); err != nil {
		return zero, err
	}
	if probe == nil || classify == nil {
		return zero, aether.NewValidationError("tracker", "probe and classify must be set")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time2.DefaultClock
	}

	deadline := clock.Now().Add(cfg.Timeout)
	attempt := 0

	for {
		attempt++

		result, err := probe(ctx)
		notFound := err != nil && errors.Is(err, aether.ErrNotFound)
		if err != nil && !notFound {
			return zero, errors.Wrapf(err, "probe %s %s", cfg.Op, cfg.ID)
		}

		if clock.Now().After(deadline) {
			log.Debug().Str("op", cfg.Op).Str("id", cfg.ID).Int("attempts", attempt).
				Dur("timeout", cfg.Timeout).Msg("Wait budget elapsed")
			return zero, &aether.TimeoutError{Op: cfg.Op, ID: cfg.ID, Budget: cfg.Timeout}
		}

		if !notFound {
			switch verdict := classify(result); verdict.Status {
			case StatusSucceeded:
				log.Debug().Str("op", cfg.Op).Str("id", cfg.ID).Int("attempts", attempt).
					Msg("Wait complete")
				return result, nil
			case StatusFailed:
				return zero, &aether.RemoteFailureError{
					Op:     cfg.Op,
					ID:     cfg.ID,
					State:  verdict.State,
					Reason: verdict.Reason,
				}
			case StatusPending:
				// fall through to the interval sleep
			}
		}

		select {
		case <-ctx.Done():
			return zero, errors.Wrapf(ctx.Err(), "wait for %s %s", cfg.Op, cfg.ID)
		case <-clock.After(cfg.Interval):
		}
	}
}
