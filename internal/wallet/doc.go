// Package wallet is the format-independent wallet model every adapter parses into and writes from.
//
// Ownership boundary:
// - key kinds and their validated construction
// - shielded key entries and their structural invariants
// - wallet-level metadata needed to round-trip a source file
package wallet
