package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// searchOrder is the fixed order of SearchAll outcomes.
var searchOrder = []Kind{NPM, JSR, Deno}

// Aggregator routes searches to registry clients.
type Aggregator struct {
	registries map[Kind]Registry
}

// NewAggregator creates an aggregator over the given registries.
func NewAggregator(regs ...Registry) *Aggregator {
	a := &Aggregator{registries: make(map[Kind]Registry, len(regs))}
	for _, r := range regs {
		a.registries[r.Kind()] = r
	}
	return a
}

// NewDefaultAggregator creates clients for every registered registry that
// takes part in searchAll, sharing client.
func NewDefaultAggregator(client *Client) (*Aggregator, error) {
	regs := make([]Registry, 0, len(searchOrder))
	for _, kind := range searchOrder {
		reg, err := New(kind, "", client)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return NewAggregator(regs...), nil
}

// Registry returns the client for kind. Unknown resolves to npm.
func (a *Aggregator) Registry(kind Kind) (Registry, bool) {
	r, ok := a.registries[kind.Resolve()]
	return r, ok
}

// Search queries a single registry: kind when given, otherwise the one Detect
// picks for query.
func (a *Aggregator) Search(ctx context.Context, query string, limit int, kind Kind) *SearchOutcome {
	if kind == "" {
		kind = Detect(query)
	}
	return a.search(ctx, query, limit, kind.Resolve())
}

// SearchAll queries npm, JSR and Deno concurrently and returns exactly one
// outcome per registry in that order. A failing registry never affects the
// others.
func (a *Aggregator) SearchAll(ctx context.Context, query string, limit int) []SearchOutcome {
	outcomes := make([]SearchOutcome, len(searchOrder))

	var g errgroup.Group
	for i, kind := range searchOrder {
		g.Go(func() error {
			outcomes[i] = *a.search(ctx, query, limit, kind)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (a *Aggregator) search(ctx context.Context, query string, limit int, kind Kind) *SearchOutcome {
	reg, ok := a.registries[kind]
	if !ok {
		return FailedSearch(query, kind, fmt.Sprintf("%s registry is not available", kind))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := reg.Search(ctx, query, limit)
	if out == nil {
		return FailedSearch(query, kind, fmt.Sprintf("%s search returned no result", kind))
	}
	return out
}
