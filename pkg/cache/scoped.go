package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tools (or several
// projects with private mirrors) can share one cache directory without
// reading each other's entries.
//
// Example usage:
//
//	keyer := cache.NewScopedKeyer(nil, "project:"+cache.Hash([]byte(projectDir))+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys. A nil inner keyer falls
// back to the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ProbeKey generates a prefixed probe key.
func (k *ScopedKeyer) ProbeKey(repoURL, coordinate string) string {
	return k.prefix + k.inner.ProbeKey(repoURL, coordinate)
}
