package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis or MongoDB backend without seeing each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(descriptionHash string) string {
	return k.prefix + k.inner.DocumentKey(descriptionHash)
}

// UpdateKey generates a prefixed update key.
func (k *ScopedKeyer) UpdateKey(descriptionHash, configurationHash string) string {
	return k.prefix + k.inner.UpdateKey(descriptionHash, configurationHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(descriptionHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(descriptionHash, opts)
}
