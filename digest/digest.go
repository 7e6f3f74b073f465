// Package digest derives filesystem-safe shard names from logical keys.
//
// Logical keys are opaque caller strings and may contain characters that are
// unsafe in filenames or collide on case-insensitive filesystems. Every shard
// file is therefore named by a keyed BLAKE2b-256 digest of its logical key,
// rendered as a fixed-length hex string.
package digest

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Size is the length of a rendered digest in hex characters.
const Size = blake2b.Size256 * 2

// defaultKey namespaces shard filenames so that digests produced by this
// adapter never collide with plain content hashes of the same keys.
var defaultKey = []byte("shardstore")

// Digester derives shard filenames with a fixed namespace key.
type Digester struct {
	key []byte
}

// New returns a Digester namespaced by key. An empty key selects the
// package default; keys longer than 64 bytes are truncated to the BLAKE2b
// key limit.
func New(key []byte) *Digester {
	if len(key) == 0 {
		key = defaultKey
	}
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}
	return &Digester{key: key}
}

// FileKey returns the deterministic hex filename for a logical key.
func (d *Digester) FileKey(key string) string {
	h, _ := blake2b.New256(d.key)
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}
