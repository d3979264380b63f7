package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one backend without key collisions.
//
// Example usage:
//
//	// Keys written by the HTTP API
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Keys written by the CLI
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SweepKey generates a prefixed key for sweep results.
func (k *ScopedKeyer) SweepKey(optionsHash string) string {
	return k.prefix + k.inner.SweepKey(optionsHash)
}

// ArtifactKey generates a prefixed key for rendered snapshots.
func (k *ScopedKeyer) ArtifactKey(optionsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(optionsHash, opts)
}
