package cache

import "strconv"

// keyVersion is bumped whenever the layout of cached payloads changes.
const keyVersion = "v1"

// Keyer builds cache keys for every cached entry type.
type Keyer interface {
	// SweepKey returns the key for a full sweep result. optionsHash is the
	// [Hash] of the normalized run options.
	SweepKey(optionsHash string) string

	// ArtifactKey returns the key for a rendered network snapshot.
	ArtifactKey(optionsHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts identifies one rendered snapshot of a run.
type ArtifactKeyOpts struct {
	Variant string  `json:"variant"`
	Level   float64 `json:"level"`
	Format  string  `json:"format"`
}

// DefaultKeyer produces keys of the form "<type>:<version>:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SweepKey implements Keyer.
func (DefaultKeyer) SweepKey(optionsHash string) string {
	return "sweep:" + keyVersion + ":" + optionsHash
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(optionsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+keyVersion, optionsHash, opts.Variant, strconv.FormatFloat(opts.Level, 'g', -1, 64), opts.Format)
}
