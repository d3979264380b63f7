// Package network provides the undirected pore graph that the infiltration
// simulation mutates.
//
// # Overview
//
// A soil pore network is modeled as a simple undirected graph. Each [Pore]
// carries a depth below the surface and an air flag. [Channel]s connect
// pores; there are no self loops and no parallel channels.
//
// # Basic Usage
//
//	net := network.New(nil)
//	net.AddPore(network.Pore{ID: "0", Depth: 0})
//	net.AddPore(network.Pore{ID: "1", Depth: 12.5})
//	net.AddChannel("0", "1")
//
// # Mutation
//
// The water table consumes a network in one direction only. [Network.RemovePore]
// deletes a pore together with its channels; [Network.DetachPore] drops the
// channels but keeps an isolated pore in place. Nothing is ever restored, so a
// repeat experiment needs a fresh network (or a [Network.Clone] taken before
// the sweep).
//
// # Determinism
//
// [Network.IDs], [Network.Pores], [Network.Neighbors] and [Network.Channels]
// all return sorted results, so algorithms that iterate them and draw from a
// seeded RNG produce the same output on every run.
//
// # Concurrency
//
// Network instances are not safe for concurrent use. Each sweep owns its
// network exclusively.
package network
