package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/porenet/pkg/network"
)

// Fill colors for pore states.
const (
	airFill   = "white"
	waterFill = "#6fa8dc"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Surface lists the surface pore IDs; they are drawn with a double outline.
	Surface []string

	// Detailed adds the pore depth to each label.
	Detailed bool

	// Compact draws unlabeled points instead of labeled circles.
	Compact bool
}

// ToDOT converts a network to an undirected Graphviz graph. Pores and
// channels are written in ID order so the output is stable.
func ToDOT(net *network.Network, opts Options) string {
	surface := make(map[string]bool, len(opts.Surface))
	for _, id := range opts.Surface {
		surface[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Compact {
		buf.WriteString("  node [shape=point, width=0.12, style=filled];\n")
	} else {
		buf.WriteString("  node [shape=circle, style=filled, fontsize=10, margin=0];\n")
	}
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, p := range net.Pores() {
		attrs := fmtAttrs(*p, surface[p.ID], net.Degree(p.ID) == 0, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range net.Channels() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", c.A, c.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p network.Pore, detailed bool) string {
	if !detailed {
		return p.ID
	}
	return p.ID + "\n" + strconv.FormatFloat(p.Depth, 'f', 1, 64)
}

func fmtAttrs(p network.Pore, isSurface, isolated bool, opts Options) []string {
	var attrs []string
	if !opts.Compact {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmtLabel(p, opts.Detailed)))
	}
	if p.Air {
		attrs = append(attrs, "fillcolor="+airFill)
	} else {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", waterFill))
	}
	if isSurface {
		attrs = append(attrs, "peripheries=2", "penwidth=1.5")
	} else if isolated {
		attrs = append(attrs, "style=\"filled,dashed\"")
	}
	return attrs
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
