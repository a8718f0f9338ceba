// Package zkey reads and writes single shielded key records in the ZecWallet Lite layout.
package zkey

import (
	"errors"
	"fmt"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/wallet"
)

// MaxVersion is the newest record version this package understands. Encode always writes it.
const MaxVersion = 1

// Decode reads one record from r. The address is not stored; it is derived from the viewing key.
func Decode(r *codec.Reader, deriver sapling.AddressDeriver) (wallet.ShieldedKey, error) {
	start := r.Offset()

	version, err := r.ReadU8("version")
	if err != nil {
		return wallet.ShieldedKey{}, err
	}
	if err := codec.CheckVersion("zkey", uint64(version), 0, MaxVersion); err != nil {
		return wallet.ShieldedKey{}, err
	}

	rawKind, err := r.ReadU32("kind")
	if err != nil {
		return wallet.ShieldedKey{}, err
	}
	kind, err := wallet.ParseKeyKind(rawKind)
	if err != nil {
		return wallet.ShieldedKey{}, err
	}

	var k wallet.ShieldedKey
	k.Kind = kind
	if k.Locked, err = r.ReadBool("locked"); err != nil {
		return wallet.ShieldedKey{}, err
	}
	if k.SpendingKey, err = codec.ReadOptional(r, "spending_key", sapling.ReadExtendedSpendingKey); err != nil {
		return wallet.ShieldedKey{}, err
	}

	fvkOffset := r.Offset()
	if k.ViewingKey, err = sapling.ReadExtendedFullViewingKey(r); err != nil {
		return wallet.ShieldedKey{}, err
	}
	if k.Address, err = deriver.DefaultAddress(k.ViewingKey); err != nil {
		return wallet.ShieldedKey{}, &codec.FieldError{Field: "viewing_key", Offset: fvkOffset, Err: err}
	}

	if k.HDIndex, err = codec.ReadOptional(r, "hd_index", func(r *codec.Reader) (uint32, error) {
		return r.ReadU32("hd_index")
	}); err != nil {
		return wallet.ShieldedKey{}, err
	}
	if k.EncryptedKey, err = codec.ReadOptional(r, "encrypted_key", codec.ByteVector("encrypted_key")); err != nil {
		return wallet.ShieldedKey{}, err
	}
	if k.Nonce, err = codec.ReadOptional(r, "nonce", codec.ByteVector("nonce")); err != nil {
		return wallet.ShieldedKey{}, err
	}

	if err := k.Validate(); err != nil {
		field := "zkey"
		var inv *wallet.InvariantError
		if errors.As(err, &inv) {
			field = inv.Field
		}
		return wallet.ShieldedKey{}, &codec.FieldError{Field: field, Offset: start, Err: err}
	}
	return k, nil
}

// Encode writes k at version MaxVersion. It refuses entries that Decode would reject.
func Encode(w *codec.Writer, k wallet.ShieldedKey) error {
	if err := k.Validate(); err != nil {
		return err
	}
	w.WriteU8(MaxVersion)
	w.WriteU32(uint32(k.Kind))
	w.WriteBool(k.Locked)
	if err := codec.WriteOptional(w, k.SpendingKey, sapling.WriteExtendedSpendingKey); err != nil {
		return fmt.Errorf("spending_key: %w", err)
	}
	if err := sapling.WriteExtendedFullViewingKey(w, k.ViewingKey); err != nil {
		return fmt.Errorf("viewing_key: %w", err)
	}
	if err := codec.WriteOptional(w, k.HDIndex, func(w *codec.Writer, v uint32) error {
		w.WriteU32(v)
		return nil
	}); err != nil {
		return err
	}
	if err := codec.WriteOptional(w, k.EncryptedKey, codec.PutByteVector); err != nil {
		return err
	}
	return codec.WriteOptional(w, k.Nonce, codec.PutByteVector)
}

// Reader returns an element reader for codec.ReadVector bound to deriver.
func Reader(deriver sapling.AddressDeriver) func(*codec.Reader) (wallet.ShieldedKey, error) {
	return func(r *codec.Reader) (wallet.ShieldedKey, error) {
		return Decode(r, deriver)
	}
}
