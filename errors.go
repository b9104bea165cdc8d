// SPDX-License-Identifier: MIT
// Package: pce
//
// errors.go: the four error kinds shared by every pipeline stage.
//
// Error policy:
//   - Only sentinel variables are exposed; callers MUST use errors.Is.
//   - Stages attach context with fmt.Errorf("%s: ...: %w", method, ErrX).
//   - Stage-level aborts are wrapped in *StageError so the caller learns the
//     stage name and the iteration at which the stage gave up.

package pce

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates there is no data to process (0 samples, 0 features,
	// an empty hypergraph or an empty embedding).
	ErrEmptyInput = errors.New("pce: empty input")

	// ErrInvalidConfiguration indicates an out-of-range or mutually inconsistent
	// configuration value, e.g. population size < 2 or weights not summing to 1.
	ErrInvalidConfiguration = errors.New("pce: invalid configuration")

	// ErrNumericalInstability indicates non-finite intermediate values that local
	// recovery (clamp/renormalise) could not absorb.
	ErrNumericalInstability = errors.New("pce: numerical instability")

	// ErrIncompletePipeline indicates a step was attempted before the upstream
	// results it depends on were produced.
	ErrIncompletePipeline = errors.New("pce: incomplete pipeline")
)

// StageError carries the stage name and iteration index of a stage-level failure.
// It unwraps to the underlying sentinel, so errors.Is keeps working.
type StageError struct {
	Stage     string // e.g. "qlem", "e3de"
	Iteration int    // iteration/step/generation index; -1 when not applicable
	Err       error  // wrapped cause
}

// Error implements error.
func (e *StageError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}

	return fmt.Sprintf("%s (iteration %d): %v", e.Stage, e.Iteration, e.Err)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *StageError) Unwrap() error { return e.Err }

// WrapStage wraps err with stage context. A nil err yields nil, and an error
// that already carries a StageError is returned unchanged so the innermost
// (most precise) context wins.
func WrapStage(stage string, iteration int, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}

	return &StageError{Stage: stage, Iteration: iteration, Err: err}
}
