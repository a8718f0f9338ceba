// Package sapling is the boundary to shielded key material.
//
// It knows the ZIP-32 byte layouts of extended spending and full viewing keys and their
// Bech32 string forms. Curve arithmetic is not implemented here: address derivation is
// consumed through AddressDeriver, and callers with a Jubjub implementation plug it in.
package sapling
