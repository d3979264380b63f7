// Package pkg provides the libraries behind porenet, a simulation of water
// infiltrating a porous soil modeled as a network of pores and channels.
//
// # Overview
//
// A water table rises from the bottom of the soil toward the surface. At each
// level the waterlogged pores are removed and every pore still connected to
// the surface is marked air filled. The result is one series of air-filled
// fraction versus water table depth per network topology.
//
// The pkg directory is organized into these areas:
//
//  1. [network] - Pore network graph and its [network/generate] topologies
//  2. [soil] and [infiltration] - Depth assignment, waterlogging, air filling
//  3. [sweep] - The water table driver and its per-step records
//  4. [pipeline] - Options, caching and snapshots around a run
//  5. [cache], [store], [config], [io], [render] - Supporting infrastructure
//  6. [api] - HTTP interface for running and fetching sweeps
//
// # Architecture
//
// The data flow through porenet:
//
//	Variant (kind, nodes, edges)
//	         ↓
//	    [network/generate] (topology)
//	         ↓
//	    [soil] (pore depths, surface set)
//	         ↓
//	    [sweep] + [infiltration] (one record per water table level)
//	         ↓
//	    JSON/CSV series, DOT/SVG snapshots
//
// # Quick Start
//
// Run the default two-variant sweep:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/porenet/pkg/cache"
//	    "github.com/matzehuels/porenet/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	res, err := runner.Execute(context.Background(), pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, s := range res.Series {
//	    fmt.Println(s.Variant.Label(), s.Final().Fraction)
//	}
//
// Or drive a single network by hand:
//
//	net, surface, _ := sweep.Prepare(sweep.Variant{Kind: "uniform", Nodes: 1000, Edges: 1000}, 42, profile)
//	plan, _ := sweep.NewPlan(profile.Depth, 100, infiltration.RemovePores)
//	records, _ := sweep.Sweep(ctx, net, surface, plan, nil)
//
// [network]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/network
// [network/generate]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/network/generate
// [soil]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/soil
// [infiltration]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/infiltration
// [sweep]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/sweep
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/render
// [api]: https://pkg.go.dev/github.com/matzehuels/porenet/pkg/api
package pkg
