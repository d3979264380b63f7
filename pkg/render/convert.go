package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// converter is the librsvg binary used for raster and PDF output.
const converter = "rsvg-convert"

// DefaultScale is the PNG scale factor used for network snapshots.
const DefaultScale = 2.0

// ErrConverterMissing is returned when rsvg-convert is not on PATH.
var ErrConverterMissing = errors.New("rsvg-convert not found; install librsvg (brew install librsvg, apt install librsvg2-bin)")

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// Convert turns an SVG snapshot into format ("png" or "pdf"). scale only
// applies to PNG; values <= 0 mean DefaultScale.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case "pdf":
		return ToPDF(ctx, svg)
	case "png":
		if scale <= 0 {
			scale = DefaultScale
		}
		return ToPNG(ctx, svg, scale)
	}
	return nil, fmt.Errorf("convert svg to %q: unsupported target", format)
}

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return run(ctx, svg, "-f", "pdf")
}

// ToPNG converts SVG bytes to PNG at the given scale factor.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return run(ctx, svg, "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
}

func run(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	if !Available() {
		return nil, ErrConverterMissing
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %v: %w: %s", converter, args, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
