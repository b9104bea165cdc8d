// SPDX-License-Identifier: MIT
// Package: connectome
//
// bfs.go: breadth-first traversal of the similarity network.
//
// The walker keeps the queue, visited set and result together; neighbours are
// enqueued in sorted id order, so the visit sequence is reproducible.

package connectome

import (
	"context"
	"errors"
	"fmt"
)

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("connectome: invalid traversal option")

// Option configures Traverse.
// Invalid values are recorded and surfaced as ErrOptionViolation by Traverse.
type Option func(*traverseOptions)

type traverseOptions struct {
	maxDepth int
	onVisit  func(id string, depth int) error
	filter   func(curr, neighbor string) bool
	err      error
}

func defaultOptions() traverseOptions {
	return traverseOptions{
		onVisit: func(string, int) error { return nil },
		filter:  func(_, _ string) bool { return true },
	}
}

// WithMaxDepth stops the search beyond depth d.
//
//	d > 0: limit to depth d
//	d == 0: no limit
//	d < 0: ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *traverseOptions) {
		if d < 0 {
			o.err = fmt.Errorf("%w: MaxDepth cannot be negative (%d)", ErrOptionViolation, d)

			return
		}
		o.maxDepth = d
	}
}

// WithOnVisit registers a callback run on every visit; an error aborts the traversal.
func WithOnVisit(fn func(id string, depth int) error) Option {
	return func(o *traverseOptions) {
		if fn != nil {
			o.onVisit = fn
		}
	}
}

// WithFilterNeighbor skips links for which fn returns false.
func WithFilterNeighbor(fn func(curr, neighbor string) bool) Option {
	return func(o *traverseOptions) {
		if fn != nil {
			o.filter = fn
		}
	}
}

// Traversal holds visit order, hop depths and BFS-tree parents.
type Traversal struct {
	Order  []string
	Depth  map[string]int
	Parent map[string]string
}

// PathTo reconstructs the hop-shortest path from the start to dest.
func (r *Traversal) PathTo(dest string) ([]string, error) {
	if _, ok := r.Depth[dest]; !ok {
		return nil, fmt.Errorf("connectome: no path to %q", dest)
	}
	path := []string{}
	for cur := dest; ; {
		path = append(path, cur)
		prev, ok := r.Parent[cur]
		if !ok {
			break
		}
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, nil
}

type queueItem struct {
	id    string
	depth int
}

type walker struct {
	c       *Connectome
	ctx     context.Context
	opts    traverseOptions
	queue   []queueItem
	visited map[string]bool
	res     *Traversal
}

// Traverse runs BFS from start.
func (c *Connectome) Traverse(ctx context.Context, start string, opts ...Option) (*Traversal, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if !c.HasNode(start) {
		return nil, fmt.Errorf("Traverse(%q): %w", start, ErrStartNotFound)
	}

	n := len(c.ids)
	w := &walker{
		c:       c,
		ctx:     ctx,
		opts:    o,
		queue:   make([]queueItem, 0, n),
		visited: make(map[string]bool, n),
		res: &Traversal{
			Order:  make([]string, 0, n),
			Depth:  make(map[string]int, n),
			Parent: make(map[string]string, n),
		},
	}
	w.enqueue(start, 0, "")

	return w.res, w.loop()
}

func (w *walker) enqueue(id string, d int, parent string) {
	w.visited[id] = true
	w.res.Depth[id] = d
	if parent != "" {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

func (w *walker) loop() error {
	for len(w.queue) > 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		item := w.queue[0]
		w.queue = w.queue[1:]

		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.onVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("connectome: OnVisit error at %q: %w", item.id, err)
		}

		next := item.depth + 1
		if w.opts.maxDepth > 0 && next > w.opts.maxDepth {
			continue
		}
		for _, nbr := range w.c.neighbors[w.c.index[item.id]] {
			if w.visited[nbr] || !w.opts.filter(item.id, nbr) {
				continue
			}
			w.enqueue(nbr, next, item.id)
		}
	}

	return nil
}
