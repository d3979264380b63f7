package network

import (
	"cmp"
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidPoreID is returned by [Network.AddPore] when the pore ID is
	// empty. All pores must have non-empty identifiers.
	ErrInvalidPoreID = errors.New("pore ID must not be empty")

	// ErrDuplicatePoreID is returned by [Network.AddPore] when a pore with the
	// same ID already exists in the network.
	ErrDuplicatePoreID = errors.New("duplicate pore ID")

	// ErrUnknownPore is returned by [Network.AddChannel], [Network.RemovePore]
	// and [Network.DetachPore] when a referenced pore does not exist.
	ErrUnknownPore = errors.New("unknown pore")

	// ErrSelfLoop is returned by [Network.AddChannel] when both endpoints are
	// the same pore. A pore is always connected to itself.
	ErrSelfLoop = errors.New("channel endpoints must differ")

	// ErrNegativeDepth is returned by [Network.AddPore] and [Network.Validate]
	// when a pore has a depth below zero.
	ErrNegativeDepth = errors.New("pore depth must not be negative")

	// ErrAsymmetricChannel is returned by [Network.Validate] when the adjacency
	// index lists u→v without v→u. This indicates network corruption.
	ErrAsymmetricChannel = errors.New("asymmetric channel")
)

// Metadata stores arbitrary key-value pairs attached to the network, such as
// the generator name or the seed used to build it. Metadata maps are never
// nil after [New].
type Metadata map[string]any

// Pore is a void in the soil matrix. Depth is measured positively downward
// from the surface and is assigned once; Air is recomputed every time the
// water table moves.
//
// The zero value is not usable - ID must be set before adding to a Network.
type Pore struct {
	ID    string  // Unique identifier
	Depth float64 // Distance below the surface (>= 0)
	Air   bool    // Connected to a surface pore in the current network
}

// Channel is an undirected connection between two pores. Channels returned by
// [Network.Channels] are normalized so that A < B.
type Channel struct {
	A string
	B string
}

// Network is an undirected pore graph without self loops or parallel
// channels. Pores can be removed entirely or detached (isolated but still
// present), which is how the water table consumes a network.
//
// The zero value is not usable - use New to create a valid Network.
// Network is not safe for concurrent use without external synchronization.
type Network struct {
	pores    map[string]*Pore
	adj      map[string]map[string]struct{}
	channels int
	meta     Metadata
}

// New creates an empty Network with optional network-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Network {
	if meta == nil {
		meta = Metadata{}
	}
	return &Network{
		pores: make(map[string]*Pore),
		adj:   make(map[string]map[string]struct{}),
		meta:  meta,
	}
}

// Meta returns the network-level metadata map.
func (n *Network) Meta() Metadata { return n.meta }

// AddPore adds a pore to the network.
// Returns ErrInvalidPoreID if the ID is empty, ErrDuplicatePoreID if a pore
// with the same ID exists, or ErrNegativeDepth if Depth < 0.
func (n *Network) AddPore(p Pore) error {
	if p.ID == "" {
		return ErrInvalidPoreID
	}
	if _, exists := n.pores[p.ID]; exists {
		return ErrDuplicatePoreID
	}
	if p.Depth < 0 {
		return ErrNegativeDepth
	}
	pore := &p
	n.pores[pore.ID] = pore
	n.adj[pore.ID] = make(map[string]struct{})
	return nil
}

// AddChannel connects two existing pores. Adding a channel that already
// exists is a no-op and reports false.
// Returns ErrUnknownPore if either endpoint is missing, or ErrSelfLoop if
// a == b.
func (n *Network) AddChannel(a, b string) (bool, error) {
	if a == b {
		return false, ErrSelfLoop
	}
	if _, ok := n.pores[a]; !ok {
		return false, ErrUnknownPore
	}
	if _, ok := n.pores[b]; !ok {
		return false, ErrUnknownPore
	}
	if _, exists := n.adj[a][b]; exists {
		return false, nil
	}
	n.adj[a][b] = struct{}{}
	n.adj[b][a] = struct{}{}
	n.channels++
	return true, nil
}

// HasChannel reports whether a and b are directly connected.
func (n *Network) HasChannel(a, b string) bool {
	_, ok := n.adj[a][b]
	return ok
}

// RemoveChannel removes the channel a-b if it exists.
// No error is returned if the channel does not exist.
func (n *Network) RemoveChannel(a, b string) {
	if _, ok := n.adj[a][b]; !ok {
		return
	}
	delete(n.adj[a], b)
	delete(n.adj[b], a)
	n.channels--
}

// DetachPore removes every channel incident to id and returns how many were
// removed. The pore itself stays in the network.
func (n *Network) DetachPore(id string) (int, error) {
	nbrs, ok := n.adj[id]
	if !ok {
		return 0, ErrUnknownPore
	}
	removed := len(nbrs)
	for nbr := range nbrs {
		delete(n.adj[nbr], id)
	}
	n.adj[id] = make(map[string]struct{})
	n.channels -= removed
	return removed, nil
}

// RemovePore deletes the pore and all its incident channels.
func (n *Network) RemovePore(id string) error {
	if _, err := n.DetachPore(id); err != nil {
		return err
	}
	delete(n.adj, id)
	delete(n.pores, id)
	return nil
}

// HasPore reports whether the pore is present.
func (n *Network) HasPore(id string) bool {
	_, ok := n.pores[id]
	return ok
}

// Pore returns the pore with the given ID and true, or nil and false if not
// found. The returned pointer refers to the pore in the network, so depth and
// air updates through it are visible to the network.
func (n *Network) Pore(id string) (*Pore, bool) {
	p, ok := n.pores[id]
	return p, ok
}

// IDs returns all pore IDs sorted ascending. Iterating pores in this order
// keeps seeded runs reproducible.
func (n *Network) IDs() []string {
	return slices.Sorted(maps.Keys(n.pores))
}

// Pores returns all pores in ID order. The returned slice contains pointers
// to the actual pores.
func (n *Network) Pores() []*Pore {
	ids := n.IDs()
	pores := make([]*Pore, len(ids))
	for i, id := range ids {
		pores[i] = n.pores[id]
	}
	return pores
}

// Neighbors returns the IDs of pores directly connected to id, sorted.
// Returns nil if the pore has no channels or doesn't exist.
func (n *Network) Neighbors(id string) []string {
	nbrs := n.adj[id]
	if len(nbrs) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(nbrs))
}

// Degree returns the number of channels incident to id.
// Returns 0 if the pore doesn't exist.
func (n *Network) Degree(id string) int { return len(n.adj[id]) }

// PoreCount returns the number of pores in the network.
func (n *Network) PoreCount() int { return len(n.pores) }

// ChannelCount returns the number of channels in the network.
func (n *Network) ChannelCount() int { return n.channels }

// Channels returns every channel once, normalized (A < B) and sorted.
func (n *Network) Channels() []Channel {
	out := make([]Channel, 0, n.channels)
	for _, a := range n.IDs() {
		for b := range n.adj[a] {
			if a < b {
				out = append(out, Channel{A: a, B: b})
			}
		}
	}
	slices.SortFunc(out, func(x, y Channel) int {
		return cmp.Or(cmp.Compare(x.A, y.A), cmp.Compare(x.B, y.B))
	})
	return out
}

// Clone returns a deep copy of the network. Metadata is copied shallowly.
func (n *Network) Clone() *Network {
	c := New(maps.Clone(n.meta))
	for id, p := range n.pores {
		cp := *p
		c.pores[id] = &cp
		c.adj[id] = maps.Clone(n.adj[id])
	}
	c.channels = n.channels
	return c
}

// Validate checks network integrity and returns nil if valid. It verifies
// that every adjacency entry points at an existing pore, that channels are
// symmetric, and that no pore has a negative depth.
func (n *Network) Validate() error {
	for id, p := range n.pores {
		if p.Depth < 0 {
			return ErrNegativeDepth
		}
		for nbr := range n.adj[id] {
			if _, ok := n.pores[nbr]; !ok {
				return ErrUnknownPore
			}
			if _, ok := n.adj[nbr][id]; !ok {
				return ErrAsymmetricChannel
			}
		}
	}
	return nil
}
