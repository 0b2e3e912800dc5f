package rdf

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultMaxLineBytes bounds a single N-Triples line.
	DefaultMaxLineBytes = 1 << 20
	// DefaultMaxTriples leaves the number of triples per document unbounded.
	DefaultMaxTriples = 0

	safeMaxLineBytes = 64 << 10
	safeMaxTriples   = 1_000_000
)

// Option configures codec behavior.
type Option func(*Options)

// Options configures codecs. Zero limits mean unbounded.
type Options struct {
	Registry *Registry
	Logger   *slog.Logger

	// GraphContext overrides the context of deserialized graphs.
	GraphContext string
	// RegisterNamespaces records prefixes declared by parsed documents in
	// the namespace registry.
	RegisterNamespaces bool

	// Security limits for untrusted input
	MaxLineBytes int
	MaxTriples   int64

	// JSONLDCompact compacts JSON-LD output against the used prefixes.
	JSONLDCompact bool
}

func defaultOptions() Options {
	return Options{
		MaxLineBytes:  DefaultMaxLineBytes,
		MaxTriples:    DefaultMaxTriples,
		JSONLDCompact: true,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Registry == nil {
		options.Registry = DefaultRegistry()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return options
}

// OptRegistry sets the namespace and datatype registry.
func OptRegistry(registry *Registry) Option {
	return func(opts *Options) {
		opts.Registry = registry
	}
}

// OptLogger sets the logger.
func OptLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// OptGraphContext sets the context given to deserialized graphs, overriding
// any base or graph name found in the document.
func OptGraphContext(context string) Option {
	return func(opts *Options) {
		opts.GraphContext = context
	}
}

// OptRegisterNamespaces records prefixes declared by parsed documents in the
// registry, so later serializations can abbreviate with them.
func OptRegisterNamespaces() Option {
	return func(opts *Options) {
		opts.RegisterNamespaces = true
	}
}

// OptMaxLineBytes sets the maximum line size limit.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples per document.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptSafeLimits applies safe limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		opts.MaxLineBytes = safeMaxLineBytes
		opts.MaxTriples = safeMaxTriples
	}
}

// OptJSONLDCompact toggles compaction of JSON-LD output.
func OptJSONLDCompact(compact bool) Option {
	return func(opts *Options) {
		opts.JSONLDCompact = compact
	}
}

// graphBuilder collects decoded triples while enforcing the triple limit.
type graphBuilder struct {
	graph *Graph
	max   int64
	count int64
}

func newGraphBuilder(opts Options) *graphBuilder {
	g := NewGraph()
	if opts.GraphContext != "" {
		g.SetContext(IRI{Value: opts.GraphContext})
	}
	return &graphBuilder{graph: g, max: opts.MaxTriples}
}

func (b *graphBuilder) add(t Triple) error {
	if b.graph.AddTriple(t) {
		b.count++
		if b.max > 0 && b.count > b.max {
			return ErrTripleLimitExceeded
		}
	}
	return nil
}

func (b *graphBuilder) addAll(triples []Triple) error {
	for _, t := range triples {
		if err := b.add(t); err != nil {
			return err
		}
	}
	return nil
}

// setContext names the graph from the document unless an override is set.
// The document context must be an absolute IRI.
func (b *graphBuilder) setContext(opts Options, context string) error {
	if context == "" {
		return nil
	}
	if err := validateAbsoluteIRI(context); err != nil {
		return fmt.Errorf("graph context: %w", err)
	}
	if opts.GraphContext == "" {
		b.graph.SetContext(IRI{Value: context})
	}
	return nil
}

// registerNamespace records a parsed prefix when the options ask for it.
func registerNamespace(opts Options, prefix, uri string) {
	if !opts.RegisterNamespaces || prefix == "" {
		return
	}
	if _, err := opts.Registry.Namespaces.RegisterOrGet(prefix, uri); err != nil {
		opts.Logger.Debug("namespace not registered", "prefix", prefix, "uri", uri, "error", err)
	}
}
