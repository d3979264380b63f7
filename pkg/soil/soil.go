// Package soil assigns the physical attributes of a pore network: the depth
// of every pore and the set of surface pores exposed to ambient air.
package soil

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/porenet/pkg/network"
)

// Defaults used when a Profile field is left at zero.
const (
	DefaultDepth           = 100.0
	DefaultSurfaceFraction = 0.01
)

var (
	// ErrInvalidDepth is returned when the soil depth is not positive.
	ErrInvalidDepth = errors.New("soil depth must be positive")

	// ErrInvalidSurfaceFraction is returned when the surface fraction is
	// outside [0, 1).
	ErrInvalidSurfaceFraction = errors.New("surface fraction must be in [0, 1)")
)

// Profile describes the soil column a network is embedded in.
type Profile struct {
	// Depth is the maximum soil depth. Pore depths lie in [0, Depth).
	Depth float64 `json:"depth" toml:"depth"`

	// SurfaceFraction sets the surface threshold as a fraction of Depth.
	// Pores shallower than SurfaceFraction*Depth are surface pores. Zero
	// means only pores at exactly depth 0 qualify.
	SurfaceFraction float64 `json:"surface_fraction" toml:"surface_fraction"`
}

// DefaultProfile returns a 100-unit column with a 1% surface band.
func DefaultProfile() Profile {
	return Profile{Depth: DefaultDepth, SurfaceFraction: DefaultSurfaceFraction}
}

// Validate checks the profile bounds.
func (p Profile) Validate() error {
	if !(p.Depth > 0) {
		return fmt.Errorf("depth=%g: %w", p.Depth, ErrInvalidDepth)
	}
	if !(p.SurfaceFraction >= 0 && p.SurfaceFraction < 1) {
		return fmt.Errorf("surface_fraction=%g: %w", p.SurfaceFraction, ErrInvalidSurfaceFraction)
	}
	return nil
}

// SurfaceThreshold returns the depth below which a pore counts as surface.
func (p Profile) SurfaceThreshold() float64 {
	return p.SurfaceFraction * p.Depth
}

// InitializeDepths draws an independent uniform depth in [0, depth) for every
// pore and clears its air flag. Pores are visited in ID order, so a seeded
// rng always produces the same assignment for the same network.
func InitializeDepths(net *network.Network, rng *rand.Rand, depth float64) {
	for _, p := range net.Pores() {
		p.Depth = rng.Float64() * depth
		p.Air = false
	}
}

// IsSurface reports whether a pore at depth d is a surface pore for the
// given threshold.
func IsSurface(d, threshold float64) bool {
	if threshold <= 0 {
		return d == 0
	}
	return d < threshold
}

// SurfacePores returns the sorted IDs of pores shallower than threshold.
// The result is fixed for the lifetime of a network: surface pores are never
// removed by the water table.
func SurfacePores(net *network.Network, threshold float64) []string {
	var surface []string
	for _, p := range net.Pores() {
		if IsSurface(p.Depth, threshold) {
			surface = append(surface, p.ID)
		}
	}
	return surface
}
