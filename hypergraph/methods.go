// SPDX-License-Identifier: MIT
// Package: hypergraph
//
// methods.go: node/hyperedge lifecycle and queries.
//
// Determinism:
//   - Nodes() follows insertion order; Hyperedges() follows creation order.
//   - Neighbors() is sorted by node ID.
//   - Hyperedge IDs are "h" + decimal, monotonic.

package hypergraph

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

const edgeIDPrefix = 'h'

// AddNode inserts a node; the profile is copied.
func (h *Hypergraph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.nodes[n.ID]; ok {
		return fmt.Errorf("AddNode(%q): %w", n.ID, ErrDuplicateNode)
	}
	h.nodes[n.ID] = &Node{ID: n.ID, Layer: n.Layer, Profile: append([]float64(nil), n.Profile...)}
	h.nodeOrder = append(h.nodeOrder, n.ID)

	return nil
}

// AddHyperedge creates a hyperedge over members (duplicates collapsed, first
// occurrence order kept). If an edge with the same member set exists, its ID
// is returned with created=false and nothing changes.
//
// Complexity: O(k log k) for k members.
func (h *Hypergraph) AddHyperedge(members []string, weight float64) (id string, created bool, err error) {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return "", false, fmt.Errorf("AddHyperedge: weight %v: %w", weight, ErrBadWeight)
	}
	uniq := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		uniq = append(uniq, m)
	}
	if len(uniq) == 0 {
		return "", false, ErrEmptyHyperedge
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	layers := make(map[string]struct{}, 2)
	for _, m := range uniq {
		n, ok := h.nodes[m]
		if !ok {
			return "", false, fmt.Errorf("AddHyperedge: member %q: %w", m, ErrNodeNotFound)
		}
		layers[n.Layer] = struct{}{}
	}

	key := memberKey(uniq)
	if existing, ok := h.byMembers[key]; ok {
		return existing, false, nil
	}

	kind := KindCoExpression
	if len(layers) > 1 {
		kind = KindCrossLayer
	}
	id = nextEdgeID(&h.nextEdgeID)
	h.edges[id] = &Hyperedge{ID: id, Members: uniq, Weight: weight, Kind: kind}
	h.edgeOrder = append(h.edgeOrder, id)
	h.byMembers[key] = id
	for _, m := range uniq {
		h.incidence[m] = append(h.incidence[m], id)
	}

	return id, true, nil
}

// HasNode reports whether id exists.
func (h *Hypergraph) HasNode(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.nodes[id]

	return ok
}

// Node returns a copy of the node.
func (h *Hypergraph) Node(id string) (Node, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, ok := h.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("Node(%q): %w", id, ErrNodeNotFound)
	}

	return Node{ID: n.ID, Layer: n.Layer, Profile: append([]float64(nil), n.Profile...)}, nil
}

// Nodes returns copies of all nodes in insertion order.
func (h *Hypergraph) Nodes() []Node {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Node, len(h.nodeOrder))
	for i, id := range h.nodeOrder {
		n := h.nodes[id]
		out[i] = Node{ID: n.ID, Layer: n.Layer, Profile: append([]float64(nil), n.Profile...)}
	}

	return out
}

// NodeIDs returns node IDs in insertion order.
func (h *Hypergraph) NodeIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]string(nil), h.nodeOrder...)
}

// Hyperedges returns copies of all hyperedges in creation order.
func (h *Hypergraph) Hyperedges() []Hyperedge {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Hyperedge, len(h.edgeOrder))
	for i, id := range h.edgeOrder {
		out[i] = copyEdge(h.edges[id])
	}

	return out
}

// Incident returns the hyperedges containing id, in creation order.
func (h *Hypergraph) Incident(id string) ([]Hyperedge, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.nodes[id]; !ok {
		return nil, fmt.Errorf("Incident(%q): %w", id, ErrNodeNotFound)
	}
	ids := h.incidence[id]
	out := make([]Hyperedge, len(ids))
	for i, eid := range ids {
		out[i] = copyEdge(h.edges[eid])
	}

	return out, nil
}

// Neighbors returns the sorted IDs of nodes sharing at least one hyperedge with id.
func (h *Hypergraph) Neighbors(id string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.nodes[id]; !ok {
		return nil, fmt.Errorf("Neighbors(%q): %w", id, ErrNodeNotFound)
	}
	set := make(map[string]struct{})
	for _, eid := range h.incidence[id] {
		for _, m := range h.edges[eid].Members {
			if m != id {
				set[m] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)

	return out, nil
}

// Degree returns the number of hyperedges containing id (0 for unknown ids).
func (h *Hypergraph) Degree(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.incidence[id])
}

// NumNodes returns the node count.
func (h *Hypergraph) NumNodes() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.nodeOrder)
}

// NumEdges returns the hyperedge count.
func (h *Hypergraph) NumEdges() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.edgeOrder)
}

// Stats returns aggregate counts. Single-member hyperedges do not connect
// anything, so a node counts as isolated unless it shares an edge with another.
func (h *Hypergraph) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s := Stats{NumNodes: len(h.nodeOrder), NumEdges: len(h.edgeOrder)}

	layers := make(map[string]struct{})
	for _, id := range h.nodeOrder {
		layers[h.nodes[id].Layer] = struct{}{}
		connected := false
		for _, eid := range h.incidence[id] {
			if len(h.edges[eid].Members) > 1 {
				connected = true

				break
			}
		}
		if !connected {
			s.Isolated++
		}
	}
	s.NumLayers = len(layers)

	var size, weight float64
	for _, eid := range h.edgeOrder {
		e := h.edges[eid]
		size += float64(len(e.Members))
		weight += e.Weight
		if len(e.Members) > s.MaxEdgeSize {
			s.MaxEdgeSize = len(e.Members)
		}
		if e.Kind == KindCrossLayer {
			s.CrossLayer++
		}
	}
	if s.NumEdges > 0 {
		s.MeanEdgeSize = size / float64(s.NumEdges)
		s.MeanWeight = weight / float64(s.NumEdges)
	}

	return s
}

// nextEdgeID returns "h1", "h2", ... without fmt.
func nextEdgeID(counter *uint64) string {
	n := atomic.AddUint64(counter, 1)
	buf := make([]byte, 0, 8)
	buf = append(buf, edgeIDPrefix)

	return string(strconv.AppendUint(buf, n, 10))
}

func memberKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	return strings.Join(sorted, "\x00")
}

func copyEdge(e *Hyperedge) Hyperedge {
	return Hyperedge{ID: e.ID, Members: append([]string(nil), e.Members...), Weight: e.Weight, Kind: e.Kind}
}
