// SPDX-License-Identifier: MIT
// Package: hypergraph
//
// encoder.go: MOGIL: dataset → hypergraph → embedding.
//
// Build (features mode, S samples, F features):
//  1. profile_f = zscore(column f) over samples (degenerate → zeros).
//  2. C = P·Pᵀ/(S−1), clamped to [−1,1]; degenerate rows correlate 0.
//  3. For i in node order: members = {i} ∪ {j≠i : |C_ij| ≥ threshold};
//     if |members| ≥ 2, weight = mean_j |C_ij|; identical sets keep the first.
//
// Samples mode swaps the roles: one node per sample, profile = zscore of the
// sample's concatenated row.
//
// Encode (N nodes, profile length L, dimension D):
//  1. X₀ = P·R, R ~ 𝒩(0, 1/L) seeded from Config.Seed (stream "mogil").
//  2. A[u][v] += w/(k−1) for each k-member hyperedge; M = D⁻¹A.
//  3. Repeat rounds: X ← (1−α)X + α·M·X (ctx checked per round).
//  4. Isolated nodes → 0; rows normalised; non-finite ⇒ ErrNumericalInstability.
//
// Complexity: Build O(N²·L); Encode O(N·L·D + rounds·N²·D).

package hypergraph

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/pce"
	"github.com/katalvlaran/pce/dataset"
	"github.com/katalvlaran/pce/embedding"
	"github.com/katalvlaran/pce/logging"
	"github.com/katalvlaran/pce/numeric"
)

// Stage is the stage tag used in logs and StageError.
const Stage = "mogil"

// Encoder builds and encodes hypergraphs.
type Encoder struct {
	cfg Config
	log logrus.FieldLogger
}

// NewEncoder validates cfg and returns an Encoder.
func NewEncoder(cfg Config, opts ...Option) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Encoder{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.Stage(e.log, Stage)

	return e, nil
}

// Config returns the encoder configuration.
func (e *Encoder) Config() Config { return e.cfg }

// Build constructs the hypergraph of ds.
//
// Behavior highlights:
//   - Degenerate profiles (constant or single-sample) become nodes without
//     hyperedges; they still appear in the embedding, as zero rows.
//   - A node whose neighbourhood repeats an earlier member set adds nothing.
func (e *Encoder) Build(ds *dataset.Dataset) (*Hypergraph, error) {
	const method = "hypergraph.Build"
	if ds == nil || ds.NumSamples() == 0 || ds.NumFeatures() == 0 {
		return nil, fmt.Errorf("%s: dataset has no samples or no features: %w", method, pce.ErrEmptyInput)
	}

	// Stage 1 (Profiles): one z-scored profile per node.
	nodes := e.profiles(ds)
	h := New()
	for _, n := range nodes {
		if err := h.AddNode(n.Node); err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
	}

	// Stage 2 (Correlate), Stage 3 (Neighbourhood hyperedges).
	corr := correlate(nodes)
	for i, n := range nodes {
		if !n.ok {
			continue
		}
		members := []string{n.ID}
		var sum float64
		for j, m := range nodes {
			if j == i || !m.ok {
				continue
			}
			if c := math.Abs(corr.At(i, j)); c >= e.cfg.EdgeThreshold {
				members = append(members, m.ID)
				sum += c
			}
		}
		if len(members) < 2 {
			continue
		}
		if _, _, err := h.AddHyperedge(members, sum/float64(len(members)-1)); err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
	}

	st := h.Stats()
	e.log.WithFields(logrus.Fields{
		"nodes":       st.NumNodes,
		"hyperedges":  st.NumEdges,
		"cross_layer": st.CrossLayer,
		"isolated":    st.Isolated,
	}).Debug("hypergraph built")

	return h, nil
}

type profiled struct {
	Node
	ok bool // non-degenerate profile
}

func (e *Encoder) profiles(ds *dataset.Dataset) []profiled {
	var out []profiled
	if e.cfg.EntityMode == EntitySamples {
		for s, name := range ds.Samples() {
			z, ok := numeric.ZScore(ds.Row(s))
			out = append(out, profiled{Node: Node{ID: name, Layer: SampleLayer, Profile: z}, ok: ok})
		}

		return out
	}
	for _, layer := range ds.LayerNames() {
		l, _ := ds.Layer(layer)
		for j, f := range l.Features {
			z, ok := numeric.ZScore(ds.Column(layer, j))
			out = append(out, profiled{Node: Node{ID: layer + ":" + f, Layer: layer, Profile: z}, ok: ok})
		}
	}

	return out
}

// correlate returns the N×N Pearson matrix of z-scored profiles.
func correlate(nodes []profiled) *mat.Dense {
	n := len(nodes)
	l := len(nodes[0].Profile)
	C := mat.NewDense(n, n, nil)
	if l < 2 {
		return C
	}
	P := mat.NewDense(n, l, nil)
	for i, nd := range nodes {
		P.SetRow(i, nd.Profile)
	}
	C.Mul(P, P.T())
	C.Scale(1/float64(l-1), C)
	C.Apply(func(_, _ int, v float64) float64 { return numeric.Clamp(v, -1, 1) }, C)

	return C
}

// Encode embeds every node of h.
//
// Behavior highlights:
//   - Rows follow h.Nodes() order, so ids line up with the build order.
//   - The projection is seeded, so equal inputs and seeds give equal embeddings.
//   - Cancellation is checked before every propagation round and reported as
//     a StageError carrying the round.
func (e *Encoder) Encode(ctx context.Context, h *Hypergraph) (*embedding.Embedding, error) {
	const method = "hypergraph.Encode"
	if h == nil || h.NumNodes() == 0 {
		return nil, fmt.Errorf("%s: %w", method, pce.ErrEmptyInput)
	}

	nodes := h.Nodes()
	ids := make([]string, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		index[n.ID] = i
	}
	n, l, d := len(nodes), len(nodes[0].Profile), e.cfg.EmbeddingDim
	if l == 0 {
		return nil, fmt.Errorf("%s: nodes carry empty profiles: %w", method, pce.ErrEmptyInput)
	}

	// Stage 1 (Project): seeded Gaussian projection of the profiles.
	rng := numeric.DeriveRand(e.cfg.Seed, Stage)
	scale := 1 / math.Sqrt(float64(l))
	r := make([]float64, l*d)
	for i := range r {
		r[i] = scale * rng.NormFloat64()
	}
	P := mat.NewDense(n, l, nil)
	for i, nd := range nodes {
		P.SetRow(i, nd.Profile)
	}
	X := mat.NewDense(n, d, nil)
	X.Mul(P, mat.NewDense(l, d, r))

	// Stage 2 (Transition): clique expansion, then row-stochastic M.
	A := mat.NewDense(n, n, nil)
	for _, he := range h.Hyperedges() {
		k := len(he.Members)
		if k < 2 {
			continue
		}
		share := he.Weight / float64(k-1)
		for _, u := range he.Members {
			for _, v := range he.Members {
				if u != v {
					iu, iv := index[u], index[v]
					A.Set(iu, iv, A.At(iu, iv)+share)
				}
			}
		}
	}
	isolated := make([]bool, n)
	for i := 0; i < n; i++ {
		row := A.RawRowView(i)
		var deg float64
		for _, v := range row {
			deg += v
		}
		if deg == 0 {
			isolated[i] = true

			continue
		}
		for j := range row {
			row[j] /= deg
		}
	}

	// Stage 3 (Propagate): lazy random-walk smoothing.
	alpha := e.cfg.Mixing
	var MX mat.Dense
	for round := 0; round < e.cfg.PropagationRounds; round++ {
		select {
		case <-ctx.Done():
			return nil, pce.WrapStage(Stage, round, ctx.Err())
		default:
		}
		MX.Mul(A, X)
		MX.Scale(alpha, &MX)
		X.Scale(1-alpha, X)
		X.Add(X, &MX)
	}

	// Stage 4 (Finalize): isolated rows reset, then normalised.
	zero := make([]float64, d)
	for i, iso := range isolated {
		if iso {
			X.SetRow(i, zero)
		}
	}
	switch e.cfg.Normalization {
	case NormalizeZScore:
		X, _, _ = numeric.ZScoreColumns(X)
		for i, iso := range isolated {
			if iso {
				X.SetRow(i, zero)
			}
		}
	default:
		X, _ = numeric.NormalizeRowsL2(X)
	}

	if err := numeric.ValidateFinite(method, X); err != nil {
		return nil, pce.WrapStage(Stage, -1, err)
	}
	emb, err := embedding.New(ids, X)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	e.log.WithFields(logrus.Fields{"entities": n, "dim": d, "rounds": e.cfg.PropagationRounds}).Debug("hypergraph encoded")

	return emb, nil
}
