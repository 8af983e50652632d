// Package canon converts arbitrary runtime values into a canonical,
// deterministic tree representation used for snapshot comparison and storage.
//
// This package contains the value vocabulary, the canonicalizer, the
// byte-stable serialization, and the content digest. All other internal
// packages import canon; canon imports nothing internal, keeping it the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Canonicalization is pure and total over the supported value space;
//     anything else fails with *SerializationError, never a silent
//     best-effort stringification.
//   - Serialization is byte-stable across runs: sorted map keys, NFC
//     normalized strings, fixed numeric formatting.
//   - Reals are rounded to a fixed decimal precision before encoding so
//     platform float noise cannot produce spurious diffs.
package canon
