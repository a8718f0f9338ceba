package wallet

import (
	"fmt"

	"github.com/danmuck/zwalletctl/internal/sapling"
)

// Version marker names shared by adapters.
const (
	VersionWallet = "wallet"
	VersionKeys   = "keys"
	VersionSchema = "schema"
	VersionDoc    = "document"
)

// SeedLen is the size of the HD seed entropy.
const SeedLen = 32

// HDSeed is the wallet's HD seed, either plaintext entropy or its encrypted form.
type HDSeed struct {
	Encrypted bool
	Entropy   []byte
	Sealed    []byte
	Nonce     []byte
}

// Metadata is the source-format information needed to round-trip a wallet.
type Metadata struct {
	SourceFormat string
	Network      sapling.Network
	Versions     map[string]uint64
	Labels       map[int]string
	Seed         *HDSeed
	Birthday     uint64
	// Trailer holds source bytes the adapter does not interpret. It is only meaningful to the
	// adapter named by SourceFormat.
	Trailer []byte
}

// Wallet is the canonical, format-independent wallet.
type Wallet struct {
	Metadata Metadata
	Keys     []ShieldedKey
}

// New creates an empty wallet attributed to format.
func New(format string, network sapling.Network) *Wallet {
	return &Wallet{Metadata: Metadata{
		SourceFormat: format,
		Network:      network,
		Versions:     map[string]uint64{},
		Labels:       map[int]string{},
	}}
}

// Validate checks every entry; strict also enforces the HD index rule.
func (w *Wallet) Validate(strict bool) error {
	for i, k := range w.Keys {
		check := k.Validate
		if strict {
			check = k.ValidateStrict
		}
		if err := check(); err != nil {
			return fmt.Errorf("key[%d]: %w", i, err)
		}
	}
	if s := w.Metadata.Seed; s != nil {
		if s.Encrypted && (len(s.Sealed) == 0 || len(s.Nonce) == 0) {
			return fmt.Errorf("seed: %w: encrypted seed without ciphertext", ErrInconsistentKey)
		}
		if !s.Encrypted && len(s.Entropy) != SeedLen {
			return fmt.Errorf("seed: %w: entropy length %d", ErrInconsistentKey, len(s.Entropy))
		}
	}
	return nil
}

// Label returns the account label of entry i, or "".
func (w *Wallet) Label(i int) string {
	return w.Metadata.Labels[i]
}

// Locked reports whether any entry or the seed is encrypted.
func (w *Wallet) Locked() bool {
	if w.Metadata.Seed != nil && w.Metadata.Seed.Encrypted {
		return true
	}
	for _, k := range w.Keys {
		if k.Sealed() {
			return true
		}
	}
	return false
}

// Counts tallies entries by kind.
func (w *Wallet) Counts() map[KeyKind]int {
	out := make(map[KeyKind]int, 3)
	for _, k := range w.Keys {
		out[k.Kind]++
	}
	return out
}
