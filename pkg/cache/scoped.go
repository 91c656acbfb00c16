package cache

// ScopedKeyer wraps a Keyer with a prefix for per-account isolation.
// Different GitHub accounts sharing one cache directory (or one Redis
// instance) must not read each other's responses, in particular because
// private repository data is visible only to its own token.
//
// Example usage:
//
//	// Token-specific keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tok:3f2a9c:")
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

// QueryKey generates a prefixed key for a GraphQL response.
func (k *ScopedKeyer) QueryKey(operation string, vars map[string]any) string {
	return k.prefix + k.inner.QueryKey(operation, vars)
}

// StatsKey generates a prefixed key for contributor statistics.
func (k *ScopedKeyer) StatsKey(owner, name string) string {
	return k.prefix + k.inner.StatsKey(owner, name)
}
