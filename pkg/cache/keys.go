package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SchemaVersion is mixed into every key. Bump it when the encoding of a
// cached value changes so stale entries are never decoded.
const SchemaVersion = 1

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// SolveKey addresses the solution set of an instance.
	SolveKey(fingerprint []byte, opts SolveKeyOpts) string

	// TradeKey addresses the trade statistics of a solution set.
	TradeKey(solveKey string) string
}

// SolveKeyOpts holds the options that change a solution set. The worker
// count is left out on purpose: it never changes the output.
type SolveKeyOpts struct {
	Limit int `json:"limit,omitempty"`
}

// DefaultKeyer builds keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey hashes the fingerprint together with the options.
func (DefaultKeyer) SolveKey(fingerprint []byte, opts SolveKeyOpts) string {
	return hashKey("solve", SchemaVersion, Hash(fingerprint), opts)
}

// TradeKey hashes the solve key, so trade entries follow their solution set.
func (DefaultKeyer) TradeKey(solveKey string) string {
	return hashKey("trade", SchemaVersion, solveKey)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
