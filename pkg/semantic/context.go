package semantic

import (
	"log/slog"
	"sync"

	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/resolved"
)

// Summary is the cached behavioral fingerprint of a non-framework widget
// class: enough to synthesize a node for its call site without re-walking
// its build body.
type Summary struct {
	Role    metadata.Role
	Control metadata.ControlKind
	Flags   metadata.InteractionFlags

	Merges   bool
	Excludes bool
	Blocks   bool

	// LabelGuarantee and PrimaryLabelSource record whether the component
	// guarantees a label internally and where that label comes from.
	LabelGuarantee     LabelGuarantee
	PrimaryLabelSource metadata.LabelSource

	// Transparent marks the component as a semantic pass-through
	// container contributing nothing of its own.
	Transparent bool

	// Known is false for the conservative "unknown" summary used on
	// cycles and unresolvable bodies.
	Known bool
}

// unknownSummary is the conservative degradation target for cycles and
// unresolvable component classes.
func unknownSummary() *Summary {
	return &Summary{Role: metadata.RoleNone}
}

func transparentSummary() *Summary {
	return &Summary{
		Role:        metadata.RoleContainer,
		Transparent: true,
		Known:       true,
	}
}

// summaryCache is the one piece of mutable state shared across file
// workers. Writers race benignly under a first-writer-wins discipline.
type summaryCache struct {
	mu           sync.Mutex
	summaries    map[string]*Summary
	loggedCycles map[string]bool
}

func newSummaryCache() *summaryCache {
	return &summaryCache{
		summaries:    make(map[string]*Summary),
		loggedCycles: make(map[string]bool),
	}
}

// Context carries the collaborators and caches for analyzing one file.
// It is passed explicitly through the call graph, never held in a
// global. Derive per-file views of a shared cache with WithFile.
type Context struct {
	Table    *metadata.Table
	Eval     resolved.Evaluator
	Resolver resolved.ComponentResolver
	Logger   *slog.Logger

	// SummaryObserver, when set, is notified of every summary cache
	// lookup with whether it hit. It must be safe for concurrent use.
	SummaryObserver func(hit bool)

	cache *summaryCache
}

// NewContext creates an analysis context. Resolver may be nil when the
// host provides no component resolution; every custom component then
// degrades to an unknown summary.
func NewContext(table *metadata.Table, eval resolved.Evaluator, res resolved.ComponentResolver, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}

	return &Context{
		Table:    table,
		Eval:     eval,
		Resolver: res,
		Logger:   logger,
		cache:    newSummaryCache(),
	}
}

// WithFile returns a context bound to another file's evaluator and
// resolver while sharing this context's summary cache. Concurrent use
// of the derived contexts is safe.
func (c *Context) WithFile(eval resolved.Evaluator, res resolved.ComponentResolver) *Context {
	return &Context{
		Table:           c.Table,
		Eval:            eval,
		Resolver:        res,
		Logger:          c.Logger,
		SummaryObserver: c.SummaryObserver,
		cache:           c.cache,
	}
}

// cachedSummary returns the stored summary for the class key, if any,
// and reports the lookup outcome to the observer.
func (c *Context) cachedSummary(key string) (*Summary, bool) {
	c.cache.mu.Lock()
	summary, ok := c.cache.summaries[key]
	c.cache.mu.Unlock()

	if c.SummaryObserver != nil {
		c.SummaryObserver(ok)
	}

	return summary, ok
}

// storeSummary records a computed summary. The first writer wins; a
// concurrent worker that recomputed the same class discards its result.
func (c *Context) storeSummary(key string, summary *Summary) *Summary {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	if existing, ok := c.cache.summaries[key]; ok {
		return existing
	}

	c.cache.summaries[key] = summary

	return summary
}

// logCycleOnce logs a component-graph cycle at most once per class.
func (c *Context) logCycleOnce(key string) {
	c.cache.mu.Lock()
	logged := c.cache.loggedCycles[key]
	c.cache.loggedCycles[key] = true
	c.cache.mu.Unlock()

	if !logged {
		c.Logger.Warn("component graph cycle detected, degrading to unknown summary",
			slog.String("component", key))
	}
}
