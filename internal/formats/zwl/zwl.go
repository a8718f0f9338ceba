// Package zwl reads and writes ZecWallet Lite's zecwallet-light-wallet.dat.
//
// Only the key section is modeled. Everything after the shielded key vector (transparent keys,
// block cache, transactions, wallet options) is carried as an opaque trailer so a same-format
// rewrite is byte-exact.
package zwl

import (
	"bytes"
	"fmt"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/danmuck/zwalletctl/internal/zkey"
)

const (
	ID = "zwl"

	// Wallets up to version 14 store their keys inline without a keys version, a layout this
	// parser does not read.
	MinWalletVersion = 15
	MaxWalletVersion = 25
	MinKeysVersion   = 20
	MaxKeysVersion   = 21

	sealedSeedLen = wallet.SeedLen + 16
)

// Adapter implements formats.Adapter for ZecWallet Lite.
type Adapter struct {
	opts formats.Options
}

func New(opts formats.Options) *Adapter {
	return &Adapter{opts: opts.WithDefaults()}
}

func (a *Adapter) Metadata() formats.Metadata {
	return formats.Metadata{
		ID:          ID,
		Name:        "ZecWallet Lite",
		Description: "ZecWallet Lite binary wallet file",
		DefaultFile: "zecwallet-light-wallet.dat",
	}
}

// Parse decodes the header, seed section and shielded keys, and keeps the rest as the trailer.
func (a *Adapter) Parse(raw []byte) (*wallet.Wallet, error) {
	r := codec.NewReaderWithLimits(raw, a.opts.Limits)

	walletVersion, err := r.ReadU64("wallet_version")
	if err != nil {
		return nil, err
	}
	if err := codec.CheckVersion("zwl wallet", walletVersion, MinWalletVersion, MaxWalletVersion); err != nil {
		return nil, err
	}
	keysVersion, err := r.ReadU64("keys_version")
	if err != nil {
		return nil, err
	}
	if err := codec.CheckVersion("zwl keys", keysVersion, MinKeysVersion, MaxKeysVersion); err != nil {
		return nil, err
	}

	seed, err := readSeed(r)
	if err != nil {
		return nil, err
	}

	keys, err := codec.ReadVector(r, "zkeys", zkey.Reader(a.opts.Deriver))
	if err != nil {
		return nil, err
	}

	w := wallet.New(ID, a.opts.Network)
	w.Metadata.Versions[wallet.VersionWallet] = walletVersion
	w.Metadata.Versions[wallet.VersionKeys] = keysVersion
	w.Metadata.Seed = seed
	w.Metadata.Trailer = r.ReadRest()
	w.Keys = keys

	a.opts.Logger.Debug().
		Uint64("wallet_version", walletVersion).
		Uint64("keys_version", keysVersion).
		Int("keys", len(keys)).
		Int("trailer_bytes", len(w.Metadata.Trailer)).
		Msg("parsed zwl wallet")
	return w, nil
}

func readSeed(r *codec.Reader) (*wallet.HDSeed, error) {
	encrypted, err := r.ReadBool("encrypted")
	if err != nil {
		return nil, err
	}
	sealed, err := r.ReadFixed("encrypted_seed", sealedSeedLen)
	if err != nil {
		return nil, err
	}
	nonce, err := r.ReadByteVector("seed_nonce")
	if err != nil {
		return nil, err
	}
	entropy, err := r.ReadFixed("seed", wallet.SeedLen)
	if err != nil {
		return nil, err
	}

	// Absent parts are written as zeroes; map them back to nil.
	if isZero(sealed) {
		sealed = nil
	}
	if len(nonce) == 0 {
		nonce = nil
	}
	if encrypted && isZero(entropy) {
		entropy = nil
	}
	if !encrypted && sealed == nil && nonce == nil && isZero(entropy) {
		return nil, nil
	}
	return &wallet.HDSeed{Encrypted: encrypted, Entropy: entropy, Sealed: sealed, Nonce: nonce}, nil
}

// Write emits the version markers the wallet came with when it was parsed from this format, and
// the newest supported ones otherwise.
func (a *Adapter) Write(w *wallet.Wallet) ([]byte, error) {
	walletVersion, keysVersion := uint64(MaxWalletVersion), uint64(MaxKeysVersion)
	sameFormat := w.Metadata.SourceFormat == ID
	if sameFormat {
		if v, ok := w.Metadata.Versions[wallet.VersionWallet]; ok {
			walletVersion = v
		}
		if v, ok := w.Metadata.Versions[wallet.VersionKeys]; ok {
			keysVersion = v
		}
	}
	if err := codec.CheckVersion("zwl wallet", walletVersion, MinWalletVersion, MaxWalletVersion); err != nil {
		return nil, err
	}
	if err := codec.CheckVersion("zwl keys", keysVersion, MinKeysVersion, MaxKeysVersion); err != nil {
		return nil, err
	}

	out := codec.NewWriter()
	out.WriteU64(walletVersion)
	out.WriteU64(keysVersion)
	if err := writeSeed(out, w.Metadata.Seed); err != nil {
		return nil, err
	}
	if err := codec.WriteVector(out, w.Keys, zkey.Encode); err != nil {
		return nil, fmt.Errorf("zkeys: %w", err)
	}
	if sameFormat {
		out.WriteFixed(w.Metadata.Trailer)
	}
	if len(w.Metadata.Labels) > 0 {
		a.opts.Logger.Debug().Int("labels", len(w.Metadata.Labels)).Msg("zwl has no account labels; dropping")
	}
	return out.Bytes(), nil
}

func writeSeed(out *codec.Writer, seed *wallet.HDSeed) error {
	if seed == nil {
		seed = &wallet.HDSeed{}
	}
	if len(seed.Sealed) != 0 && len(seed.Sealed) != sealedSeedLen {
		return fmt.Errorf("encrypted_seed: %w: length %d", codec.ErrEncoding, len(seed.Sealed))
	}
	if len(seed.Entropy) != 0 && len(seed.Entropy) != wallet.SeedLen {
		return fmt.Errorf("seed: %w: length %d", codec.ErrEncoding, len(seed.Entropy))
	}
	out.WriteBool(seed.Encrypted)
	out.WriteFixed(padded(seed.Sealed, sealedSeedLen))
	out.WriteByteVector(seed.Nonce)
	out.WriteFixed(padded(seed.Entropy, wallet.SeedLen))
	return nil
}

func padded(b []byte, n int) []byte {
	if len(b) == n {
		return b
	}
	return make([]byte, n)
}

func isZero(b []byte) bool {
	return len(bytes.Trim(b, "\x00")) == 0
}
