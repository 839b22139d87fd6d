package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// ErrUnknownRetriever is returned when an item names an unregistered strategy.
var ErrUnknownRetriever = errors.New("retriever is not registered")

// Registry keeps a mapping from retriever names to their implementations.
type Registry struct {
	retrievers map[string]ports.Retriever
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{retrievers: map[string]ports.Retriever{}}
}

// Register adds or replaces a retriever implementation.
func (r *Registry) Register(retriever ports.Retriever) {
	if r.retrievers == nil {
		r.retrievers = map[string]ports.Retriever{}
	}
	r.retrievers[retriever.Name()] = retriever
}

// Resolve returns a retriever by name.
func (r *Registry) Resolve(name string) (ports.Retriever, error) {
	if retriever, ok := r.retrievers[name]; ok {
		return retriever, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnknownRetriever)
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.retrievers))
	for name := range r.retrievers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Router picks the retriever for each item: the item's own strategy when set,
// otherwise the configured default.
type Router struct {
	registry    *Registry
	defaultName string
	logger      *slog.Logger
}

// NewRouter wires a registry with the default strategy name.
func NewRouter(reg *Registry, defaultName string, log *slog.Logger) *Router {
	return &Router{
		registry:    reg,
		defaultName: defaultName,
		logger:      log,
	}
}

// Fetch retrieves markup for item. Every failure, including an unresolvable
// strategy, comes back as *domain.FetchError.
func (r *Router) Fetch(ctx context.Context, item domain.TrackedItem) (string, error) {
	name := item.Retriever
	if name == "" {
		name = r.defaultName
	}

	if r.registry == nil {
		return "", &domain.FetchError{URL: item.URL, Err: fmt.Errorf("%s: %w", name, ErrUnknownRetriever)}
	}

	retriever, err := r.registry.Resolve(name)
	if err != nil {
		return "", &domain.FetchError{URL: item.URL, Err: err}
	}

	r.debug("fetch item", "item", item.ID, "retriever", name, "url", item.URL)

	markup, err := retriever.Fetch(ctx, item.URL)
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			return "", fetchErr
		}
		return "", &domain.FetchError{URL: item.URL, Err: err}
	}

	r.debug("fetched item", "item", item.ID, "bytes", len(markup))
	return markup, nil
}

func (r *Router) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
