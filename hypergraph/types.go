// SPDX-License-Identifier: MIT
// Package: hypergraph
//
// types.go: Node, Hyperedge, Kind, sentinel errors and the Hypergraph type.
//
// Concurrency:
//   - mu guards every map and order slice; nextEdgeID is atomic.

package hypergraph

import (
	"errors"
	"sync"
)

// Sentinel errors for structure operations.
var (
	// ErrEmptyNodeID indicates a node with an empty ID.
	ErrEmptyNodeID = errors.New("hypergraph: node ID is empty")

	// ErrDuplicateNode indicates AddNode with an ID already present.
	ErrDuplicateNode = errors.New("hypergraph: duplicate node")

	// ErrNodeNotFound indicates a reference to a missing node.
	ErrNodeNotFound = errors.New("hypergraph: node not found")

	// ErrEmptyHyperedge indicates a hyperedge without members.
	ErrEmptyHyperedge = errors.New("hypergraph: hyperedge has no members")

	// ErrBadWeight indicates a non-finite or non-positive hyperedge weight.
	ErrBadWeight = errors.New("hypergraph: weight must be finite and positive")
)

// Kind classifies a hyperedge by the layers its members come from.
type Kind string

// Hyperedge kinds.
const (
	KindCoExpression Kind = "co-expression"
	KindCrossLayer   Kind = "cross-layer"
)

// Node is one entity of the hypergraph.
type Node struct {
	// ID is unique within the hypergraph ("layer:feature" or a sample name).
	ID string

	// Layer is the omics layer of a feature node, or SampleLayer for sample nodes.
	Layer string

	// Profile is the z-scored measurement vector the encoder projects.
	Profile []float64
}

// SampleLayer is the Layer value of nodes built in samples mode.
const SampleLayer = "sample"

// Hyperedge groups ≥1 nodes with a positive weight.
type Hyperedge struct {
	ID      string
	Members []string
	Weight  float64
	Kind    Kind
}

// Stats summarises a hypergraph.
type Stats struct {
	NumNodes     int     `yaml:"num_nodes"`
	NumEdges     int     `yaml:"num_edges"`
	NumLayers    int     `yaml:"num_layers"`
	CrossLayer   int     `yaml:"cross_layer_edges"`
	Isolated     int     `yaml:"isolated_nodes"`
	MeanEdgeSize float64 `yaml:"mean_edge_size"`
	MaxEdgeSize  int     `yaml:"max_edge_size"`
	MeanWeight   float64 `yaml:"mean_weight"`
}

// Hypergraph is a thread-safe weighted hypergraph.
type Hypergraph struct {
	mu sync.RWMutex

	nextEdgeID uint64 // atomic

	nodes     map[string]*Node
	nodeOrder []string

	edges     map[string]*Hyperedge
	edgeOrder []string

	// incidence[nodeID] = hyperedge IDs in creation order
	incidence map[string][]string
	// memberKey → hyperedge ID, for first-wins deduplication
	byMembers map[string]string
}

// New returns an empty hypergraph.
func New() *Hypergraph {
	return &Hypergraph{
		nodes:     make(map[string]*Node),
		edges:     make(map[string]*Hyperedge),
		incidence: make(map[string][]string),
		byMembers: make(map[string]string),
	}
}
