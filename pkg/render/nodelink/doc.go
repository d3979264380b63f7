// Package nodelink renders pore networks as node-link diagrams.
//
// # Overview
//
// Each pore becomes a circle and each channel an undirected line. The fill
// and outline encode the pore's state at the moment of the snapshot:
//
//   - Air-filled pores are white
//   - Waterlogged or cut-off pores are filled blue
//   - Surface pores have a double outline
//   - Isolated non-surface pores (detached or cut off with no channels) are dashed
//
// # Usage
//
// Convert a network to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Surface: surface})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With Detailed set, labels include the pore depth. Large networks are best
// rendered without labels via Compact.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion is in the parent render package.
package nodelink
