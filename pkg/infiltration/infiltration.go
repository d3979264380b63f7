// Package infiltration implements the two per-step operations of a water
// table sweep: removing waterlogged pores and recomputing which pores are
// still connected to the surface.
//
// Both operations mutate the network in place. Removal is one-way; air
// filling is a full breadth-first recompute from every surface pore and
// keeps no state between calls.
package infiltration

import (
	"fmt"
	"slices"

	"github.com/matzehuels/porenet/pkg/network"
)

// Mode selects what happens to a pore once it is below the water table.
type Mode int

const (
	// RemovePores deletes waterlogged pores and their channels.
	RemovePores Mode = iota
	// DetachPores deletes only the channels; the pore stays present but
	// isolated and keeps counting toward the present-pore total.
	DetachPores
)

var modeNames = map[Mode]string{
	RemovePores: "remove",
	DetachPores: "detach",
}

// String returns the mode name used in config files and flags.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts "remove" or "detach" into a Mode. An empty string
// selects RemovePores.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "remove":
		return RemovePores, nil
	case "detach":
		return DetachPores, nil
	}
	return 0, fmt.Errorf("invalid removal mode %q (must be one of: remove, detach)", s)
}

// RemoveWaterlogged takes every pore with depth >= level, except surface
// pores, out of the network according to mode. It returns the affected pore
// IDs in sorted order.
//
// In DetachPores mode a pore that is already isolated is not reported again,
// so the returned slice always lists pores that changed during this call.
func RemoveWaterlogged(net *network.Network, level float64, surface []string, mode Mode) ([]string, error) {
	keep := make(map[string]bool, len(surface))
	for _, id := range surface {
		keep[id] = true
	}

	var waterlogged []string
	for _, p := range net.Pores() {
		if p.Depth < level || keep[p.ID] {
			continue
		}
		if mode == DetachPores && net.Degree(p.ID) == 0 {
			continue
		}
		waterlogged = append(waterlogged, p.ID)
	}

	for _, id := range waterlogged {
		var err error
		switch mode {
		case DetachPores:
			_, err = net.DetachPore(id)
		default:
			err = net.RemovePore(id)
		}
		if err != nil {
			return nil, fmt.Errorf("remove waterlogged %s: %w", id, err)
		}
	}
	return waterlogged, nil
}

// FillWithAir clears every pore's air flag, then marks every pore reachable
// from a present surface pore. A surface pore always reaches itself. Surface
// IDs no longer in the network are skipped. Returns the air-filled IDs
// sorted.
func FillWithAir(net *network.Network, surface []string) []string {
	for _, p := range net.Pores() {
		p.Air = false
	}

	reached := make(map[string]bool)
	for _, s := range surface {
		if !net.HasPore(s) {
			continue
		}
		for _, id := range Reachable(net, s) {
			reached[id] = true
		}
	}

	air := make([]string, 0, len(reached))
	for id := range reached {
		p, _ := net.Pore(id)
		p.Air = true
		air = append(air, id)
	}
	slices.Sort(air)
	return air
}

// Reachable returns every pore connected to start, start included, in
// breadth-first visit order. Returns nil if start is not in the network.
func Reachable(net *network.Network, start string) []string {
	if !net.HasPore(start) {
		return nil
	}
	visited := map[string]bool{start: true}
	order := []string{start}
	for head := 0; head < len(order); head++ {
		for _, nbr := range net.Neighbors(order[head]) {
			if !visited[nbr] {
				visited[nbr] = true
				order = append(order, nbr)
			}
		}
	}
	return order
}
