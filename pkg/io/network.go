package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/porenet/pkg/network"
)

type snapshot struct {
	Pores    []pore           `json:"pores"`
	Channels []channel        `json:"channels"`
	Meta     network.Metadata `json:"meta,omitempty"`
}

type pore struct {
	ID    string  `json:"id"`
	Depth float64 `json:"depth"`
	Air   bool    `json:"air,omitempty"`
}

type channel struct {
	A string `json:"a"`
	B string `json:"b"`
}

// WriteNetworkJSON encodes the current state of net, pores and channels in
// ID order, and writes it to w.
func WriteNetworkJSON(net *network.Network, w io.Writer) error {
	pores := net.Pores()
	chans := net.Channels()
	out := snapshot{
		Pores:    make([]pore, len(pores)),
		Channels: make([]channel, len(chans)),
		Meta:     net.Meta(),
	}
	for i, p := range pores {
		out.Pores[i] = pore{ID: p.ID, Depth: p.Depth, Air: p.Air}
	}
	for i, c := range chans {
		out.Channels[i] = channel{A: c.A, B: c.B}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadNetworkJSON decodes a snapshot written by WriteNetworkJSON into a new
// network. Errors name the pore or channel that failed; use errors.Is with
// the network package's sentinel errors to inspect them.
func ReadNetworkJSON(r io.Reader) (*network.Network, error) {
	var data snapshot
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	net := network.New(data.Meta)
	for _, p := range data.Pores {
		if err := net.AddPore(network.Pore{ID: p.ID, Depth: p.Depth, Air: p.Air}); err != nil {
			return nil, fmt.Errorf("pore %s: %w", p.ID, err)
		}
	}
	for _, c := range data.Channels {
		if _, err := net.AddChannel(c.A, c.B); err != nil {
			return nil, fmt.Errorf("channel %s-%s: %w", c.A, c.B, err)
		}
	}
	return net, nil
}

// ExportNetworkJSON writes a network snapshot to a JSON file at path.
func ExportNetworkJSON(net *network.Network, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteNetworkJSON(net, w) })
}

// ImportNetworkJSON reads a network snapshot from a JSON file at path.
func ImportNetworkJSON(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadNetworkJSON(f)
}
