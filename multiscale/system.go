// SPDX-License-Identifier: MIT
// Package: multiscale
//
// system.go: hierarchy construction from an embedding.

package multiscale

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/embedding"
	"github.com/katalvlaran/pce/logging"
)

// Stage is the stage tag used in logs and StageError.
const Stage = "hdts"

// LevelInfo describes one scale of the hierarchy.
type LevelInfo struct {
	Index int     `yaml:"index"`
	Start int     `yaml:"start"` // first embedding column (inclusive)
	End   int     `yaml:"end"`   // last embedding column (exclusive)
	Tau   float64 `yaml:"tau"`
}

type level struct {
	info  LevelInfo
	state []float64
	bias  []float64
	w     *mat.Dense
}

// System is an immutable multi-scale hierarchy; Simulate never mutates it.
type System struct {
	levels []level
}

// Simulator builds and integrates hierarchies.
type Simulator struct {
	cfg Config
	log logrus.FieldLogger
}

// NewSimulator validates cfg and returns a Simulator.
func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Stage(s.log, Stage)

	return s, nil
}

// Config returns the simulator configuration.
func (s *Simulator) Config() Config { return s.cfg }

// CreateSystem partitions the embedding columns into NumScales levels.
func (s *Simulator) CreateSystem(emb *embedding.Embedding) (*System, error) {
	const method = "multiscale.CreateSystem"
	if emb == nil || emb.Len() == 0 || emb.Dim() == 0 {
		return nil, fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}
	n, d := emb.Len(), emb.Dim()
	if d < s.cfg.NumScales {
		return nil, fmt.Errorf("%s: dimension %d < num_scales %d: %w", method, d, s.cfg.NumScales, pce.ErrInvalidConfiguration)
	}

	X := emb.Matrix()
	sys := &System{levels: make([]level, s.cfg.NumScales)}
	base, extra := d/s.cfg.NumScales, d%s.cfg.NumScales
	start := 0
	for l := range sys.levels {
		width := base
		if l < extra {
			width++
		}
		end := start + width
		chunk := X.Slice(0, n, start, end)

		mean := make([]float64, width)
		col := make([]float64, n)
		for j := 0; j < width; j++ {
			mat.Col(col, j, chunk)
			mean[j] = stat.Mean(col, nil)
		}

		sys.levels[l] = level{
			info:  LevelInfo{Index: l, Start: start, End: end, Tau: s.cfg.TimeConstant * math.Pow(s.cfg.TimeConstantGrowth, float64(l))},
			state: append([]float64(nil), mean...),
			bias:  mean,
			w:     coupling(chunk, n, width, s.cfg.Gain),
		}
		start = end
	}
	s.log.WithFields(logrus.Fields{"levels": len(sys.levels), "entities": n, "dim": d}).Debug("system created")

	return sys, nil
}

// coupling returns gain·Cov/max|Cov|, or zeros when undefined.
func coupling(chunk mat.Matrix, n, width int, gain float64) *mat.Dense {
	W := mat.NewDense(width, width, nil)
	if n < 2 {
		return W
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, chunk, nil)
	var hi float64
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			if v := math.Abs(cov.At(i, j)); v > hi {
				hi = v
			}
		}
	}
	if hi == 0 || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return W
	}
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			W.Set(i, j, gain*cov.At(i, j)/hi)
		}
	}

	return W
}

// NumLevels returns the number of scales.
func (sys *System) NumLevels() int { return len(sys.levels) }

// Levels describes every scale, finest first.
func (sys *System) Levels() []LevelInfo {
	out := make([]LevelInfo, len(sys.levels))
	for i, l := range sys.levels {
		out[i] = l.info
	}

	return out
}

// State returns a copy of the initial state of every level.
func (sys *System) State() [][]float64 {
	out := make([][]float64, len(sys.levels))
	for i, l := range sys.levels {
		out[i] = append([]float64(nil), l.state...)
	}

	return out
}
