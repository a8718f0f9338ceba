package wallet

import (
	"errors"
	"fmt"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/sapling"
)

var ErrInconsistentKey = errors.New("wallet: inconsistent key entry")

// InvariantError names the entry field that breaks a presence rule.
type InvariantError struct {
	Field  string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("wallet: inconsistent key entry: %s: %s", e.Field, e.Reason)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInconsistentKey
}

// ShieldedKey is one shielded key entry.
type ShieldedKey struct {
	Kind         KeyKind
	Locked       bool
	SpendingKey  codec.Optional[sapling.ExtendedSpendingKey]
	ViewingKey   sapling.ExtendedFullViewingKey
	Address      sapling.PaymentAddress
	HDIndex      codec.Optional[uint32]
	EncryptedKey codec.Optional[[]byte]
	Nonce        codec.Optional[[]byte]
}

// Validate checks the presence rules that tie the kind, lock flag and key material together.
// The lock flag of a view-only entry is carried as read and not checked. Violations are
// *InvariantError.
func (k ShieldedKey) Validate() error {
	if k.EncryptedKey.IsSome() != k.Nonce.IsSome() {
		return inconsistent("nonce", "encrypted key and nonce must be present together")
	}
	if !k.Kind.HasSpendAuthority() {
		switch {
		case k.SpendingKey.IsSome():
			return inconsistent("spending_key", "view-only entry carries a spending key")
		case k.EncryptedKey.IsSome():
			return inconsistent("encrypted_key", "view-only entry carries an encrypted key")
		}
		return nil
	}
	if k.Locked != k.EncryptedKey.IsSome() {
		return inconsistent("locked", "locked=%t but encrypted key present=%t", k.Locked, k.EncryptedKey.IsSome())
	}
	if k.SpendingKey.IsSome() == k.EncryptedKey.IsSome() {
		return inconsistent("spending_key", "exactly one of spending key or encrypted key must be present")
	}
	return nil
}

// ValidateStrict additionally requires an HD index exactly on HD-derived entries.
func (k ShieldedKey) ValidateStrict() error {
	if err := k.Validate(); err != nil {
		return err
	}
	if (k.Kind == HdKey) != k.HDIndex.IsSome() {
		return inconsistent("hd_index", "kind %s with hd index present=%t", k.Kind, k.HDIndex.IsSome())
	}
	return nil
}

func inconsistent(field, format string, args ...any) error {
	return &InvariantError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Sealed reports whether the entry holds an encrypted spending key.
func (k ShieldedKey) Sealed() bool {
	return k.EncryptedKey.IsSome()
}

// CanSpend reports whether plaintext spending key material is available.
func (k ShieldedKey) CanSpend() bool {
	return k.SpendingKey.IsSome()
}
