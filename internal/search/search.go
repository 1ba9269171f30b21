// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search adapts external content providers to one normalized
// search interface and coordinates single- and multi-source searches.
//
// Each provider is a Backend that converts every failure into a failed
// types.Result; nothing is returned as a Go error past a Backend. The
// Orchestrator validates requests against a fixed Registry before any
// backend is called, dispatches multi-source searches concurrently, and
// waits for every dispatched call regardless of individual failures.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/knowmap/internal/tracing"
	"github.com/pdiddy/knowmap/pkg/types"
)

// Backend searches a single content provider.
type Backend interface {
	// Name is the registry key, e.g. "papers".
	Name() string

	// Search runs a keyword search. It never panics on provider faults and
	// reports every failure as a failed Result.
	Search(ctx context.Context, query string, opts types.SearchOptions) types.Result
}

// HeadlineBackend is a Backend that can also list top headlines.
type HeadlineBackend interface {
	Backend
	TopHeadlines(ctx context.Context, category string, pageSize int) types.Result
}

// Registry is the fixed, ordered set of backends known to an Orchestrator.
// It is read-only after construction.
type Registry struct {
	names    []string
	backends map[string]Backend
}

// NewRegistry validates and indexes backends in the given order. Names must
// be non-empty, lower-case, and unique.
func NewRegistry(backends ...Backend) (*Registry, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("no search backends configured")
	}
	r := &Registry{backends: make(map[string]Backend, len(backends))}
	for i, b := range backends {
		if b == nil {
			return nil, fmt.Errorf("backend %d is nil", i)
		}
		name := b.Name()
		if name == "" || name != strings.ToLower(strings.TrimSpace(name)) {
			return nil, fmt.Errorf("backend name %q must be non-empty lower-case", name)
		}
		if _, dup := r.backends[name]; dup {
			return nil, fmt.Errorf("duplicate backend name %q", name)
		}
		r.names = append(r.names, name)
		r.backends[name] = b
	}
	return r, nil
}

// Names returns the registered source names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup resolves a source name case-insensitively.
func (r *Registry) Lookup(source string) (Backend, string, bool) {
	key := normalizeSource(source)
	b, ok := r.backends[key]
	return b, key, ok
}

func normalizeSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Orchestrator validates search requests and dispatches them to backends.
type Orchestrator struct {
	registry *Registry
	logger   *slog.Logger
}

// New returns an Orchestrator over reg. A nil logger discards output.
func New(reg *Registry, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{registry: reg, logger: orDiscard(logger)}
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// SupportedSources returns the registry's source names in registration order.
func (o *Orchestrator) SupportedSources() []string {
	return o.registry.Names()
}

// Search validates source and query, then runs one backend search. When
// opts.GetHeadlines is set and the backend lists headlines, the headlines
// call replaces the keyword search. Validation failures never reach a backend.
func (o *Orchestrator) Search(ctx context.Context, source, query string, opts types.SearchOptions) types.Result {
	b, key, ok := o.registry.Lookup(source)
	if !ok {
		o.logger.Info("search rejected", "reason", "unknown source", "source", source)
		return types.Failed(source, query,
			fmt.Sprintf("Invalid source. Supported sources: %s", strings.Join(o.registry.names, ", ")))
	}
	if strings.TrimSpace(query) == "" {
		o.logger.Info("search rejected", "reason", "empty query", "source", key)
		return types.Failed(source, query, "Search query cannot be empty")
	}
	return o.dispatch(ctx, key, b, query, opts)
}

// SearchMultiple validates every source before any request is made, then
// searches all of them concurrently and waits for every call to finish.
// Sources are normalized and de-duplicated; Data keeps their order.
func (o *Orchestrator) SearchMultiple(ctx context.Context, sources []string, query string, opts types.SearchOptions) types.CombinedResult {
	fail := func(msg string) types.CombinedResult {
		o.logger.Info("multi-source search rejected", "reason", msg)
		return types.CombinedResult{Query: query, Sources: sources, Message: msg}
	}

	if len(sources) == 0 {
		return fail("At least one source must be specified")
	}
	if strings.TrimSpace(query) == "" {
		return fail("Search query cannot be empty")
	}

	var (
		keys     []string
		backends []Backend
		invalid  []string
		seen     = make(map[string]bool, len(sources))
	)
	for _, s := range sources {
		b, key, ok := o.registry.Lookup(s)
		if !ok {
			invalid = append(invalid, s)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
		backends = append(backends, b)
	}
	if len(invalid) > 0 {
		return fail(fmt.Sprintf("Invalid sources: %s. Supported sources: %s",
			strings.Join(invalid, ", "), strings.Join(o.registry.names, ", ")))
	}

	results := make([]types.Result, len(keys))
	var wg sync.WaitGroup
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.dispatch(ctx, keys[i], backends[i], query, opts)
		}(i)
	}
	wg.Wait()

	combined := types.CombinedResult{
		Success: true,
		Query:   query,
		Sources: keys,
		Data:    types.NewSourceResults(len(keys)),
	}
	for i, key := range keys {
		combined.Data.Set(key, results[i])
		combined.Success = combined.Success && results[i].Success
	}
	return combined
}

// Headlines lists top headlines from the first registered backend that
// supports them. It needs no query.
func (o *Orchestrator) Headlines(ctx context.Context, category string, pageSize int) types.Result {
	opts := types.SearchOptions{GetHeadlines: true, Category: category, PageSize: pageSize}
	for _, name := range o.registry.names {
		if hb, ok := o.registry.backends[name].(HeadlineBackend); ok {
			return o.dispatch(ctx, name, hb, "", opts)
		}
	}
	return types.Failed("", "", "No source supports headlines")
}

// dispatch runs one backend call. The call is detached from ctx
// cancellation and bounded by the backend's own timeout; a panic inside
// the backend becomes a failed Result.
func (o *Orchestrator) dispatch(ctx context.Context, key string, b Backend, query string, opts types.SearchOptions) (res types.Result) {
	ctx, span := tracing.StartSpan(context.WithoutCancel(ctx), "search.dispatch",
		tracing.String("source", key), tracing.String("query", query),
		tracing.Int("page_size", opts.ResolvedPageSize()))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("backend panicked", "source", key, "panic", r)
			res = types.Failed(key, query, fmt.Sprintf("internal error in %s backend", key))
			tracing.RecordFailure(span, res.Message)
		}
	}()

	o.logger.Debug("dispatching search", "source", key, "query", query, "headlines", opts.GetHeadlines)

	if hb, ok := b.(HeadlineBackend); ok && opts.GetHeadlines {
		res = hb.TopHeadlines(ctx, opts.ResolvedCategory(), opts.ResolvedPageSize())
	} else {
		res = b.Search(ctx, query, opts)
	}

	if !res.Success {
		o.logger.Warn("source failed", "source", key, "query", query, "message", res.Message)
		tracing.RecordFailure(span, res.Message)
		return res
	}
	tracing.SetOK(span)
	return res
}
