// SPDX-License-Identifier: MIT
// Package: dataset
//
// errors.go: sentinel errors for dataset construction.
//
// Every returned error also wraps one of the pce error kinds, so callers can
// branch either on the precise dataset sentinel or on the pipeline-wide kind.

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateLayer indicates two layers share a name (or a name is empty).
	ErrDuplicateLayer = errors.New("dataset: duplicate or empty layer name")

	// ErrDuplicateSample indicates two samples share a name (or a name is empty).
	ErrDuplicateSample = errors.New("dataset: duplicate or empty sample name")

	// ErrShape indicates a layer whose rows or feature names disagree with the
	// sample list or with each other.
	ErrShape = errors.New("dataset: shape mismatch")

	// ErrUnknownLayer indicates a lookup of a layer that does not exist.
	ErrUnknownLayer = errors.New("dataset: unknown layer")

	// ErrUnknownProfile indicates an unrecognised synthetic profile name.
	ErrUnknownProfile = errors.New("dataset: unknown profile")
)

// wrapf attaches method context and a pce kind to a dataset sentinel.
func wrapf(method string, sentinel, kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w (%w)", method, fmt.Sprintf(format, args...), sentinel, kind)
}
