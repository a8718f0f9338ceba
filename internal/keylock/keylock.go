// Package keylock seals and opens spending keys and the HD seed with the password scheme used by
// ZecWallet Lite: NaCl secretbox keyed by SHA256(SHA256(password)).
package keylock

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"golang.org/x/crypto/nacl/secretbox"
)

const NonceLen = 24

var (
	ErrWrongPassword = errors.New("keylock: wrong password")
	ErrAlreadyLocked = errors.New("keylock: wallet already locked")
	ErrEmptyPassword = errors.New("keylock: empty password")
)

// Key derives the secretbox key from a password.
func Key(password []byte) *[32]byte {
	first := sha256.Sum256(password)
	second := sha256.Sum256(first[:])
	return &second
}

func open(key *[32]byte, sealed, nonce []byte, field string) ([]byte, error) {
	if len(nonce) != NonceLen {
		return nil, fmt.Errorf("%s: %w: nonce length %d", field, codec.ErrEncoding, len(nonce))
	}
	var n [NonceLen]byte
	copy(n[:], nonce)
	plain, ok := secretbox.Open(nil, sealed, &n, key)
	if !ok {
		return nil, fmt.Errorf("%s: %w", field, ErrWrongPassword)
	}
	return plain, nil
}

func seal(key *[32]byte, plain []byte, random io.Reader) (sealed, nonce []byte, err error) {
	var n [NonceLen]byte
	if _, err := io.ReadFull(random, n[:]); err != nil {
		return nil, nil, fmt.Errorf("keylock: nonce: %w", err)
	}
	return secretbox.Seal(nil, plain, &n, key), n[:], nil
}

// Unlock returns a copy of w with every encrypted spending key and the seed opened. Entries that
// are already plaintext are copied unchanged. w is not modified.
func Unlock(w *wallet.Wallet, password []byte) (*wallet.Wallet, error) {
	key := Key(password)
	out := clone(w)

	if s := out.Metadata.Seed; s != nil && s.Encrypted {
		entropy, err := open(key, s.Sealed, s.Nonce, "seed")
		if err != nil {
			return nil, err
		}
		out.Metadata.Seed = &wallet.HDSeed{Entropy: entropy}
	}

	for i := range out.Keys {
		k := &out.Keys[i]
		if !k.Sealed() {
			continue
		}
		field := fmt.Sprintf("key[%d]", i)
		plain, err := open(key, k.EncryptedKey.OrZero(), k.Nonce.OrZero(), field)
		if err != nil {
			return nil, err
		}
		sk, err := sapling.ParseExtendedSpendingKey(plain)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		k.Locked = false
		k.SpendingKey = codec.Some(sk)
		k.EncryptedKey = codec.None[[]byte]()
		k.Nonce = codec.None[[]byte]()
	}
	return out, nil
}

// Lock returns a copy of w with every spending key and the seed sealed under password using fresh
// nonces from crypto/rand.
func Lock(w *wallet.Wallet, password []byte) (*wallet.Wallet, error) {
	return LockWithRand(w, password, rand.Reader)
}

// LockWithRand is Lock with an explicit nonce source.
func LockWithRand(w *wallet.Wallet, password []byte, random io.Reader) (*wallet.Wallet, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if w.Locked() {
		return nil, ErrAlreadyLocked
	}
	key := Key(password)
	out := clone(w)

	if s := out.Metadata.Seed; s != nil {
		sealed, nonce, err := seal(key, s.Entropy, random)
		if err != nil {
			return nil, err
		}
		out.Metadata.Seed = &wallet.HDSeed{Encrypted: true, Sealed: sealed, Nonce: nonce}
	}

	for i := range out.Keys {
		k := &out.Keys[i]
		sk, ok := k.SpendingKey.Get()
		if !ok {
			continue
		}
		sealed, nonce, err := seal(key, sk.Bytes(), random)
		if err != nil {
			return nil, err
		}
		k.Locked = true
		k.SpendingKey = codec.None[sapling.ExtendedSpendingKey]()
		k.EncryptedKey = codec.Some(sealed)
		k.Nonce = codec.Some(nonce)
	}
	return out, nil
}

func clone(w *wallet.Wallet) *wallet.Wallet {
	out := &wallet.Wallet{Metadata: w.Metadata}
	out.Metadata.Versions = make(map[string]uint64, len(w.Metadata.Versions))
	for k, v := range w.Metadata.Versions {
		out.Metadata.Versions[k] = v
	}
	out.Metadata.Labels = make(map[int]string, len(w.Metadata.Labels))
	for k, v := range w.Metadata.Labels {
		out.Metadata.Labels[k] = v
	}
	if w.Metadata.Seed != nil {
		seed := *w.Metadata.Seed
		out.Metadata.Seed = &seed
	}
	out.Keys = append([]wallet.ShieldedKey(nil), w.Keys...)
	return out
}
