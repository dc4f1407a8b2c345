package pipeline

import (
	"context"

	"obscuritext/internal/surrogate"
)

// Side identifies which threshold is being resolved.
type Side int

const (
	SideAbove Side = iota
	SideBelow
)

func (s Side) String() string {
	if s == SideBelow {
		return "below"
	}
	return "above"
}

// ThresholdResolver supplies a concrete threshold for a deferred setting once
// the discovery table of the run is known.
type ThresholdResolver interface {
	ResolveThreshold(ctx context.Context, side Side, table *surrogate.Table) (surrogate.Threshold, error)
}

// ResolverFunc adapts a function to ThresholdResolver.
type ResolverFunc func(ctx context.Context, side Side, table *surrogate.Table) (surrogate.Threshold, error)

// ResolveThreshold calls f.
func (f ResolverFunc) ResolveThreshold(ctx context.Context, side Side, table *surrogate.Table) (surrogate.Threshold, error) {
	return f(ctx, side, table)
}
