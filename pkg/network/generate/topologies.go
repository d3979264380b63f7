package generate

import (
	"fmt"

	"github.com/matzehuels/porenet/pkg/network"
)

// Uniform returns a G(n, m) constructor: n pores and exactly m distinct
// channels chosen uniformly among all n(n-1)/2 pairs.
//
// Sparse budgets use rejection sampling; when m is more than half of the
// possible pairs the pair list is enumerated and partially shuffled instead.
func Uniform(n, m int) Constructor {
	return func(net *network.Network, cfg config) error {
		if n < 1 {
			return fmt.Errorf("uniform: n=%d: %w", n, ErrTooFewNodes)
		}
		maxEdges := n * (n - 1) / 2
		if m < 0 || m > maxEdges {
			return fmt.Errorf("uniform: m=%d, max=%d: %w", m, maxEdges, ErrTooManyEdges)
		}
		if cfg.rng == nil && m > 0 && m < maxEdges {
			return fmt.Errorf("uniform: %w", ErrNeedRandSource)
		}

		ids, err := addPores(net, cfg, n)
		if err != nil {
			return fmt.Errorf("uniform: %w", err)
		}

		if 2*m <= maxEdges {
			for net.ChannelCount() < m {
				i, j := cfg.rng.IntN(n), cfg.rng.IntN(n)
				if i == j {
					continue
				}
				if _, err := net.AddChannel(ids[i], ids[j]); err != nil {
					return fmt.Errorf("uniform: %w", err)
				}
			}
			return nil
		}

		pairs := make([][2]int, 0, maxEdges)
		for i := range n {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, [2]int{i, j})
			}
		}
		for k := range m {
			if cfg.rng != nil {
				r := k + cfg.rng.IntN(len(pairs)-k)
				pairs[k], pairs[r] = pairs[r], pairs[k]
			}
			if err := connect(net, ids[pairs[k][0]], ids[pairs[k][1]]); err != nil {
				return fmt.Errorf("uniform: %w", err)
			}
		}
		return nil
	}
}

// PreferentialAttachment returns a Barabási-Albert constructor. Growth starts
// from a star over m+1 pores; every later pore attaches to m distinct
// existing pores picked with probability proportional to their degree.
func PreferentialAttachment(n, m int) Constructor {
	return func(net *network.Network, cfg config) error {
		if m < 1 || m >= n {
			return fmt.Errorf("preferential: m=%d, n=%d: %w", m, n, ErrInvalidAttachment)
		}
		if cfg.rng == nil {
			return fmt.Errorf("preferential: %w", ErrNeedRandSource)
		}

		ids, err := addPores(net, cfg, n)
		if err != nil {
			return fmt.Errorf("preferential: %w", err)
		}

		// repeated holds each pore once per incident channel, so a uniform
		// draw from it is a degree-proportional draw.
		repeated := make([]int, 0, 2*m*n)
		for leaf := 1; leaf <= m; leaf++ {
			if err := connect(net, ids[0], ids[leaf]); err != nil {
				return fmt.Errorf("preferential: %w", err)
			}
			repeated = append(repeated, 0, leaf)
		}

		targets := make([]int, 0, m)
		seen := make(map[int]bool, m)
		for source := m + 1; source < n; source++ {
			targets = targets[:0]
			clear(seen)
			for len(targets) < m {
				t := repeated[cfg.rng.IntN(len(repeated))]
				if seen[t] {
					continue
				}
				seen[t] = true
				targets = append(targets, t)
			}
			for _, t := range targets {
				if err := connect(net, ids[source], ids[t]); err != nil {
					return fmt.Errorf("preferential: %w", err)
				}
				repeated = append(repeated, t, source)
			}
		}
		return nil
	}
}

// Complete returns a constructor connecting every pair of n pores.
func Complete(n int) Constructor {
	return func(net *network.Network, cfg config) error {
		if n < 1 {
			return fmt.Errorf("complete: n=%d: %w", n, ErrTooFewNodes)
		}
		ids, err := addPores(net, cfg, n)
		if err != nil {
			return fmt.Errorf("complete: %w", err)
		}
		for i := range n {
			for j := i + 1; j < n; j++ {
				if err := connect(net, ids[i], ids[j]); err != nil {
					return fmt.Errorf("complete: %w", err)
				}
			}
		}
		return nil
	}
}

// Star returns a constructor with one hub (index 0) and n-1 leaves.
func Star(n int) Constructor {
	return func(net *network.Network, cfg config) error {
		if n < 2 {
			return fmt.Errorf("star: n=%d: %w", n, ErrTooFewNodes)
		}
		ids, err := addPores(net, cfg, n)
		if err != nil {
			return fmt.Errorf("star: %w", err)
		}
		for _, leaf := range ids[1:] {
			if err := connect(net, ids[0], leaf); err != nil {
				return fmt.Errorf("star: %w", err)
			}
		}
		return nil
	}
}
