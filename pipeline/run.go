// SPDX-License-Identifier: MIT
// Package: pipeline
//
// run.go: end-to-end orchestration.
//
//	encode ─► errgroup{ qlem | e3de | hdts | connectome } ─► cis
//
// The four middle branches read the shared immutable embedding and write
// disjoint results, so they run concurrently. The first failing branch
// cancels its siblings.

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/config"
	"github.com/katalvlaran/pce/dataset"
	"github.com/katalvlaran/pce/integration"
)

// Run executes every stage on ds with the configured step counts and
// integrates for cycles cycles (≤ 0 selects the configured count).
func (s *System) Run(ctx context.Context, ds *dataset.Dataset, cycles int) (integration.Metrics, error) {
	if ds == nil {
		return integration.Metrics{}, fmt.Errorf("pipeline.Run: nil dataset: %w", pce.ErrEmptyInput)
	}
	start := time.Now()
	s.log.WithFields(logrus.Fields{
		"samples":  ds.NumSamples(),
		"features": ds.NumFeatures(),
		"layers":   ds.NumLayers(),
	}).Info("pipeline started")

	if _, err := s.BuildHypergraph(ds); err != nil {
		return integration.Metrics{}, err
	}
	if _, err := s.EncodeHypergraph(ctx); err != nil {
		return integration.Metrics{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.CreateOptimizationState(); err != nil {
			return err
		}
		_, err := s.MinimizeEntropy(gctx, s.cfg.Optimizer.MaxSteps)

		return err
	})
	g.Go(func() error {
		ev := s.cfg.Evolution
		if err := s.CreatePopulation(ev.PopulationName, ev.PopulationSize, ev.GenomeLength); err != nil {
			return err
		}
		_, err := s.EvolvePopulation(gctx, ev.PopulationName, ev.Generations)

		return err
	})
	g.Go(func() error {
		if _, err := s.CreateBiologicalSystem(); err != nil {
			return err
		}
		_, err := s.SimulateEmergence(gctx, s.cfg.Simulator.Duration)

		return err
	})
	g.Go(func() error {
		_, err := s.CreateConnectome(gctx)

		return err
	})
	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("pipeline aborted")

		return integration.Metrics{}, err
	}

	m, err := s.IntegrateConsciousness(ctx, cycles)
	if err != nil {
		return integration.Metrics{}, err
	}
	s.log.WithFields(logrus.Fields{
		"category": m.ConsciousnessCategory,
		"elapsed":  time.Since(start).String(),
	}).Info("pipeline finished")

	return m, nil
}

// QuickAnalysis builds a System from cfg and runs it on ds.
func QuickAnalysis(ctx context.Context, ds *dataset.Dataset, cfg config.Config, cycles int, opts ...Option) (integration.Metrics, error) {
	s, err := NewSystem(cfg, opts...)
	if err != nil {
		return integration.Metrics{}, err
	}

	return s.Run(ctx, ds, cycles)
}
