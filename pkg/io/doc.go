// Package io reads and writes porenet data on disk and over the wire.
//
// # Series
//
// A sweep produces one [sweep.Series] per variant. [WriteSeriesJSON] encodes
// the full list, including variant parameters and seeds, and [ReadSeriesJSON]
// decodes it again. [WriteSeriesCSV] flattens the list into one row per
// variant and step for spreadsheets and plotting tools:
//
//	variant,step,level,step_size,air_filled,present,total,removed,channels,fraction,total_fraction
//	uniform,0,99,1,412,991,1000,9,973,0.415741675,0.412
//
// # Network Snapshots
//
// [WriteNetworkJSON] captures a network at one moment of a sweep:
//
//	{
//	  "pores": [
//	    {"id": "0", "depth": 0.42, "air": true},
//	    {"id": "1", "depth": 71.3}
//	  ],
//	  "channels": [
//	    {"a": "0", "b": "1"}
//	  ],
//	  "meta": {"kind": "uniform", "seed": 42}
//	}
//
// [ReadNetworkJSON] rebuilds an independent [network.Network] from that
// document and rejects duplicate pores, self loops and dangling channels.
//
// The Export and Import variants are file-path conveniences around the
// reader and writer functions.
package io
