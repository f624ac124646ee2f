package extraction

import (
	"context"
	"fmt"

	"AplusBackend/internal/domain"
)

// Strategy turns one input item into text. Implementations report every fault
// through the returned outcome and never panic on bad input.
type Strategy interface {
	Kind() domain.SourceKind
	Extract(ctx context.Context, src domain.Source) domain.Outcome
}

// Registry keeps a mapping from source kinds to their strategies.
type Registry struct {
	strategies map[domain.SourceKind]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[domain.SourceKind]Strategy{}}
}

// Register adds or replaces a strategy for its kind.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[domain.SourceKind]Strategy{}
	}
	r.strategies[strategy.Kind()] = strategy
}

// Resolve returns the strategy for kind or an error if none is registered.
func (r *Registry) Resolve(kind domain.SourceKind) (Strategy, error) {
	if strategy, ok := r.strategies[kind]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("no extraction strategy registered for %s", kind)
}
