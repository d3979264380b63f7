// Package render turns pore network snapshots into pictures.
//
// # Overview
//
// The [nodelink] subpackage writes a network as Graphviz DOT and lays it out
// in-process to SVG. This package adds format conversion on top:
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Surface: surface})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg. Use
// [Available] to check for it before offering those formats.
package render
