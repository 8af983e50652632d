package canon

import (
	"crypto/sha256"
	"encoding/hex"
)

// snapshotDomain is the domain-separation prefix for snapshot digests.
// The version suffix enables future algorithm migration.
const snapshotDomain = "expecttest/snapshot/v1"

// Digest computes the stable content digest of a canonical value.
// Format: hex(SHA256(domain + 0x00 + canonical bytes)); the null byte
// separator prevents domain/data boundary ambiguity.
//
// Digests are used for equality short-circuiting only: two canonical
// values are equal iff their digests are equal (collisions are treated as
// negligible). The digest is never the persisted identity of a record.
func Digest(v Value) string {
	h := sha256.New()
	h.Write([]byte(snapshotDomain))
	h.Write([]byte{0x00})
	h.Write(MarshalCanonical(v))
	return hex.EncodeToString(h.Sum(nil))
}
