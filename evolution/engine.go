// SPDX-License-Identifier: MIT
// Package: evolution
//
// engine.go: named populations, creation and the generational loop.
//
// Concurrency:
//   - Engine.mu guards the population map.
//   - population.mu serialises evolution of one population; different
//     populations evolve independently.

package evolution

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/embedding"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/numeric"
)

// Stage is the stage tag used in logs and StageError.
const Stage = "e3de"

// Metrics summarises one EvolvePopulation call.
type Metrics struct {
	Population         string    `yaml:"population"`
	Generations        int       `yaml:"generations"`
	TotalGenerations   int       `yaml:"total_generations"`
	Capped             bool      `yaml:"capped"`
	BestFitness        float64   `yaml:"best_fitness"`
	MeanFitness        float64   `yaml:"mean_fitness"`
	FitnessVariance    float64   `yaml:"fitness_variance"`
	Diversity          float64   `yaml:"diversity"`
	BestTrajectory     []float64 `yaml:"best_trajectory"`
	MeanTrajectory     []float64 `yaml:"mean_trajectory"`
	VarianceTrajectory []float64 `yaml:"variance_trajectory"`
	BestGenome         []float64 `yaml:"best_genome"`
}

// Population is an immutable snapshot of a population.
type Population struct {
	Name       string
	Generation int
	Genomes    [][]float64
	Fitness    []float64
}

type population struct {
	mu         sync.Mutex
	name       string
	rng        *rand.Rand
	genomes    [][]float64
	fitness    []float64
	targets    [][]float64
	generation int
}

// Engine owns named populations.
type Engine struct {
	cfg  Config
	log  logrus.FieldLogger
	mu   sync.RWMutex
	pops map[string]*population
}

// NewEngine validates cfg and returns an empty Engine.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, log: logging.Discard(), pops: make(map[string]*population)}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.Stage(e.log, Stage)

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// CreatePopulation seeds size genomes of length L from emb and evaluates them.
// An existing population with the same name is replaced.
func (e *Engine) CreatePopulation(name string, size, L int, emb *embedding.Embedding) error {
	const method = "evolution.CreatePopulation"
	switch {
	case name == "":
		return fmt.Errorf("%s: empty name: %w", method, pce.ErrInvalidConfiguration)
	case size < 2:
		return fmt.Errorf("%s: size %d < 2: %w", method, size, pce.ErrInvalidConfiguration)
	case L < 1:
		return fmt.Errorf("%s: genome length %d < 1: %w", method, L, pce.ErrInvalidConfiguration)
	case e.cfg.Elitism && e.cfg.EliteCount >= size:
		return fmt.Errorf("%s: elite_count %d ≥ size %d: %w", method, e.cfg.EliteCount, size, pce.ErrInvalidConfiguration)
	case emb == nil || emb.Len() == 0 || emb.Dim() == 0:
		return fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}

	rows := make([][]float64, emb.Len())
	for i := range rows {
		rows[i] = emb.Row(i)
	}
	p := &population{
		name:    name,
		rng:     numeric.DeriveRand(e.cfg.Seed, name),
		genomes: make([][]float64, size),
		targets: targetsFrom(rows, L),
	}
	for i := range p.genomes {
		g := numeric.Tile(rows[p.rng.Intn(len(rows))], L)
		for k := range g {
			g[k] = numeric.Clamp(g[k]+e.cfg.MutationScale*p.rng.NormFloat64(), -e.cfg.GeneBound, e.cfg.GeneBound)
		}
		p.genomes[i] = g
	}
	p.fitness = e.evaluate(p.genomes, p.targets)

	e.mu.Lock()
	e.pops[name] = p
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{"population": name, "size": size, "genome_length": L}).Debug("population created")

	return nil
}

// Names returns population names, sorted.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.pops))
	for n := range e.pops {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// Population returns a snapshot of the named population.
func (e *Engine) Population(name string) (Population, error) {
	p, err := e.lookup("evolution.Population", name)
	if err != nil {
		return Population{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := Population{Name: p.name, Generation: p.generation, Fitness: append([]float64(nil), p.fitness...)}
	snap.Genomes = make([][]float64, len(p.genomes))
	for i, g := range p.genomes {
		snap.Genomes[i] = append([]float64(nil), g...)
	}

	return snap, nil
}

func (e *Engine) lookup(method, name string) (*population, error) {
	e.mu.RLock()
	p, ok := e.pops[name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: population %q was never created: %w", method, name, pce.ErrIncompletePipeline)
	}

	return p, nil
}

// EvolvePopulation runs min(generations, MaxGenerations) generations.
// generations ≤ 0 reports statistics of the current population unchanged.
// On cancellation the metrics gathered so far are returned with the error.
//
// Behavior highlights:
//   - Trajectories hold Generations+1 points: the starting population first.
//   - With elitism the best fitness never decreases across generations.
//   - For fixed inputs the outcome is set by Config.Seed and the population
//     name, never by Workers: evaluation is index-addressed and every draw
//     is sequential.
//   - Concurrent calls on one population serialise; different populations
//     evolve independently.
//
// Complexity:
//   - Time O(G·P·(L·T + log P)) for G generations, P genomes of length L and
//     T target rows; fitness evaluation is spread over Workers goroutines.
func (e *Engine) EvolvePopulation(ctx context.Context, name string, generations int) (*Metrics, error) {
	const method = "evolution.EvolvePopulation"
	p, err := e.lookup(method, name)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	m := &Metrics{Population: name}
	if generations > e.cfg.MaxGenerations {
		generations = e.cfg.MaxGenerations
		m.Capped = true
	}
	record(m, p.fitness)

	for gen := 0; gen < generations; gen++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = pce.WrapStage(Stage, gen, ctxErr)

			break
		}
		e.step(p)
		m.Generations++
		record(m, p.fitness)
	}

	best := rankOrder(p.fitness)[0]
	m.BestGenome = append([]float64(nil), p.genomes[best]...)
	m.Diversity = diversity(p.genomes)
	m.TotalGenerations = p.generation

	e.log.WithFields(logrus.Fields{
		"population":   name,
		"generation":   p.generation,
		"best_fitness": m.BestFitness,
		"mean_fitness": m.MeanFitness,
		"diversity":    m.Diversity,
	}).Debug("population evolved")

	return m, err
}

// step replaces p with its next generation.
// Implementation:
//   - Stage 1: Copy the EliteCount fittest genomes unchanged.
//   - Stage 2: Fill the rest with mutated crossover children of selected parents.
//   - Stage 3: Re-evaluate the whole generation.
func (e *Engine) step(p *population) {
	size := len(p.genomes)
	order := rankOrder(p.fitness)
	next := make([][]float64, 0, size)
	// Stage 1 (Elites)
	if e.cfg.Elitism {
		for _, idx := range order[:e.cfg.EliteCount] {
			next = append(next, append([]float64(nil), p.genomes[idx]...))
		}
	}
	// Stage 2 (Offspring): draw order is fixed, so the rng stream is reproducible.
	for len(next) < size {
		a, b := e.pick(p, order), e.pick(p, order)
		child := crossover(p.rng, p.genomes[a], p.genomes[b], e.cfg.CrossoverRate)
		mutate(p.rng, child, e.cfg.MutationRate, e.cfg.MutationScale, e.cfg.GeneBound)
		next = append(next, child)
	}
	// Stage 3 (Evaluate)
	p.genomes = next
	p.fitness = e.evaluate(p.genomes, p.targets)
	p.generation++
}

func (e *Engine) pick(p *population, order []int) int {
	if e.cfg.Selection == SelectRank {
		return rankSelect(p.rng, order)
	}

	return tournament(p.rng, p.fitness, e.cfg.TournamentSize)
}

// record appends best/mean/variance of fitness to the trajectories.
func record(m *Metrics, fitness []float64) {
	best := fitness[rankOrder(fitness)[0]]
	mean, variance := stat.MeanVariance(fitness, nil)
	m.BestTrajectory = append(m.BestTrajectory, best)
	m.MeanTrajectory = append(m.MeanTrajectory, mean)
	m.VarianceTrajectory = append(m.VarianceTrajectory, variance)
	m.BestFitness, m.MeanFitness, m.FitnessVariance = best, mean, variance
}

// diversity is the mean per-gene standard deviation across the population.
func diversity(genomes [][]float64) float64 {
	L := len(genomes[0])
	col := make([]float64, len(genomes))
	var sum float64
	for k := 0; k < L; k++ {
		for i, g := range genomes {
			col[i] = g[k]
		}
		sum += stat.StdDev(col, nil)
	}

	return sum / float64(L)
}
