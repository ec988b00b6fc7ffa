package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "beavr:v1:")
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

// DecomposeKey generates a prefixed decomposition key.
func (k *ScopedKeyer) DecomposeKey(datasetHash string, opts DecomposeKeyOpts) string {
	return k.prefix + k.inner.DecomposeKey(datasetHash, opts)
}

// CombineKey generates a prefixed combine key.
func (k *ScopedKeyer) CombineKey(datasetHash string, opts CombineKeyOpts) string {
	return k.prefix + k.inner.CombineKey(datasetHash, opts)
}
