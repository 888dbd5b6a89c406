package extraction

import (
	"fmt"
	"io"
	"net/url"
	"sort"
)

// Strategy turns a fetched HTML document into plain text.
type Strategy interface {
	Name() string
	Extract(body io.Reader, pageURL *url.URL) (string, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// DefaultRegistry holds every built-in strategy.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(Paragraphs{})
	reg.Register(Readability{})
	return reg
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("extraction strategy %q is not registered (known: %v)", name, r.Names())
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
