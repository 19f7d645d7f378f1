package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each scope its own key
// space inside one backend. The cache.namespace config setting scopes keys
// per deployment so several servers can share a Redis instance.
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

// SolveKey generates a prefixed key for a solution set.
func (k *ScopedKeyer) SolveKey(fingerprint []byte, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(fingerprint, opts)
}

// TradeKey generates a prefixed key for trade statistics. solveKey is
// expected to carry the prefix already.
func (k *ScopedKeyer) TradeKey(solveKey string) string {
	return k.prefix + k.inner.TradeKey(solveKey)
}
