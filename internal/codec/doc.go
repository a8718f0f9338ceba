// Package codec owns the little-endian binary primitives shared by wallet file layouts.
//
// Ownership boundary:
// - forward-only byte cursor and append-only writer
// - CompactSize element counts and allocation limits
// - nullable values and length-prefixed sequences
// - the error taxonomy every decoder reports through
package codec
