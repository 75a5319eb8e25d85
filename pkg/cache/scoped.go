package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. Useful
// when several applications share one redis instance, or when a host wants
// per-user layout caches.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tablet:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(opts)
}
