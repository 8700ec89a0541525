package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when several projects or users share one Redis instance and need
// separate cache namespaces.
//
// Example usage:
//
//	// Per-host keys when the cache is shared
//	hostKeyer := NewScopedKeyer(NewDefaultKeyer(), "host:build-01:")
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

// ScanKey generates a prefixed key for scan result caching.
func (k *ScopedKeyer) ScanKey(root string) string {
	return k.prefix + k.inner.ScanKey(root)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
