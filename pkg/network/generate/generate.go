// Package generate builds random and regular pore network topologies.
//
// Every generator is a [Constructor] that [Build] applies to a fresh
// [network.Network]. Stochastic generators draw only from the RNG supplied
// through [WithSeed] or [WithRand] and iterate in a fixed order, so the same
// seed always yields the same network.
//
//	net, err := generate.Build(generate.Uniform(1000, 1000), generate.WithSeed(42))
//
// Pores are created with depth 0; assigning depths is the job of the soil
// package.
package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/porenet/pkg/network"
)

var (
	// ErrTooFewNodes is returned when a node count is below the generator's
	// minimum.
	ErrTooFewNodes = errors.New("generate: too few nodes")

	// ErrTooManyEdges is returned by [Uniform] when m exceeds n(n-1)/2.
	ErrTooManyEdges = errors.New("generate: too many edges")

	// ErrNeedRandSource is returned by stochastic generators when no RNG was
	// configured.
	ErrNeedRandSource = errors.New("generate: rng is required")

	// ErrInvalidAttachment is returned by [PreferentialAttachment] and
	// [AttachmentFromRatio] when the attachment count is outside [1, n).
	ErrInvalidAttachment = errors.New("generate: invalid attachment count")

	// ErrUnknownKind is returned by [ForKind] for an unregistered topology.
	ErrUnknownKind = errors.New("generate: unknown topology kind")
)

// Topology kinds accepted by [ForKind].
const (
	KindUniform      = "uniform"
	KindPreferential = "preferential"
	KindComplete     = "complete"
	KindStar         = "star"
)

// Kinds lists every topology kind in display order.
var Kinds = []string{KindUniform, KindPreferential, KindComplete, KindStar}

// Constructor adds pores and channels to an empty network.
type Constructor func(net *network.Network, cfg config) error

type config struct {
	rng  *rand.Rand
	idFn func(int) string
}

// Option customizes generator behavior.
type Option func(*config)

// WithSeed seeds a PCG generator for reproducible networks.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand supplies an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("generate: WithRand(nil)")
	}
	return func(c *config) { c.rng = r }
}

// WithIDScheme sets the pore ID generator (index → ID). Panics on nil.
// The default is strconv.Itoa.
func WithIDScheme(fn func(int) string) Option {
	if fn == nil {
		panic("generate: WithIDScheme(nil)")
	}
	return func(c *config) { c.idFn = fn }
}

// Build creates a network and applies cons to it.
func Build(cons Constructor, opts ...Option) (*network.Network, error) {
	cfg := config{idFn: strconv.Itoa}
	for _, opt := range opts {
		opt(&cfg)
	}
	net := network.New(nil)
	if err := cons(net, cfg); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return net, nil
}

// ForKind returns the constructor for a named topology. nodes and edges are
// interpreted per kind: uniform uses both directly, preferential derives its
// attachment count with [AttachmentFromRatio], complete and star ignore edges.
func ForKind(kind string, nodes, edges int) (Constructor, error) {
	switch kind {
	case KindUniform:
		return Uniform(nodes, edges), nil
	case KindPreferential:
		m, err := AttachmentFromRatio(nodes, edges)
		if err != nil {
			return nil, err
		}
		return PreferentialAttachment(nodes, m), nil
	case KindComplete:
		return Complete(nodes), nil
	case KindStar:
		return Star(nodes), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// CheckKind reports whether ForKind(kind, nodes, edges) would build without
// error, without building anything.
func CheckKind(kind string, nodes, edges int) error {
	switch kind {
	case KindUniform:
		if nodes < 1 {
			return fmt.Errorf("nodes=%d: %w", nodes, ErrTooFewNodes)
		}
		if maxEdges := nodes * (nodes - 1) / 2; edges < 0 || edges > maxEdges {
			return fmt.Errorf("edges=%d, max=%d: %w", edges, maxEdges, ErrTooManyEdges)
		}
		return nil
	case KindPreferential:
		_, err := AttachmentFromRatio(nodes, edges)
		return err
	case KindComplete:
		if nodes < 1 {
			return fmt.Errorf("nodes=%d: %w", nodes, ErrTooFewNodes)
		}
		return nil
	case KindStar:
		if nodes < 2 {
			return fmt.Errorf("nodes=%d: %w", nodes, ErrTooFewNodes)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// AttachmentFromRatio derives the preferential-attachment count m from a
// target edge budget: m = round(edges/nodes), at least 1. Growth with m
// attachments yields roughly m*nodes edges, so this keeps the preferential
// variant comparable to a uniform graph with the same budget.
func AttachmentFromRatio(nodes, edges int) (int, error) {
	if nodes < 2 {
		return 0, fmt.Errorf("nodes=%d: %w", nodes, ErrTooFewNodes)
	}
	if edges < 0 {
		return 0, fmt.Errorf("edges=%d: %w", edges, ErrInvalidAttachment)
	}
	m := max(1, int(math.Round(float64(edges)/float64(nodes))))
	if m >= nodes {
		return 0, fmt.Errorf("m=%d >= nodes=%d: %w", m, nodes, ErrInvalidAttachment)
	}
	return m, nil
}

func addPores(net *network.Network, cfg config, n int) ([]string, error) {
	ids := make([]string, n)
	for i := range n {
		ids[i] = cfg.idFn(i)
		if err := net.AddPore(network.Pore{ID: ids[i]}); err != nil {
			return nil, fmt.Errorf("add pore %s: %w", ids[i], err)
		}
	}
	return ids, nil
}

func connect(net *network.Network, a, b string) error {
	if _, err := net.AddChannel(a, b); err != nil {
		return fmt.Errorf("add channel %s-%s: %w", a, b, err)
	}
	return nil
}
