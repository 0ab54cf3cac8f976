// Package storage provides local persistence for famcheck.
//
// Two layers:
//
//   - KVEngine: an embedded key-value engine (Badger), on disk or in memory.
//   - Store: the typed facade used by the rest of the client. It keeps
//     plain values (JSON encoded) and secure values (AEAD sealed strings)
//     in disjoint key namespaces of one engine.
//
// Secure values are sealed with AES-256-GCM or ChaCha20-Poly1305 using a
// key derived from a local master key; the entry key is bound as
// additional data so a ciphertext cannot be moved to another entry.
package storage
