package keylock_test

import (
	"bytes"
	"testing"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/keylock"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/testutil/fixtures"
	"github.com/danmuck/zwalletctl/internal/testutil/testlog"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainWallet() *wallet.Wallet {
	w := wallet.New("zwl", sapling.Mainnet)
	w.Metadata.Seed = &wallet.HDSeed{Entropy: bytes.Repeat([]byte{0x42}, wallet.SeedLen)}
	w.Keys = []wallet.ShieldedKey{
		{
			Kind:        wallet.HdKey,
			SpendingKey: codec.Some(fixtures.SpendingKey(1)),
			ViewingKey:  fixtures.ViewingKey(1),
			HDIndex:     codec.Some[uint32](0),
		},
		{Kind: wallet.ImportedViewKey, ViewingKey: fixtures.ViewingKey(2)},
	}
	return w
}

func TestLockUnlockRoundTrip(t *testing.T) {
	testlog.Start(t)

	plain := plainWallet()
	locked, err := keylock.Lock(plain, []byte("hunter2"))
	require.NoError(t, err)
	require.NoError(t, locked.Validate(true))
	assert.True(t, locked.Locked())
	assert.True(t, plain.Keys[0].SpendingKey.IsSome(), "input must not be modified")

	hd := locked.Keys[0]
	assert.True(t, hd.Locked)
	assert.False(t, hd.SpendingKey.IsSome())
	assert.Len(t, hd.EncryptedKey.OrZero(), sapling.ExtendedKeyLen+16)
	assert.Len(t, hd.Nonce.OrZero(), keylock.NonceLen)
	assert.Len(t, locked.Metadata.Seed.Sealed, wallet.SeedLen+16)
	assert.Equal(t, plain.Keys[1], locked.Keys[1])

	unlocked, err := keylock.Unlock(locked, []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, plain, unlocked)
}

func TestLockedViewKeyFlagIsCarried(t *testing.T) {
	testlog.Start(t)

	plain := plainWallet()
	plain.Keys[1].Locked = true
	assert.False(t, plain.Locked())

	locked, err := keylock.Lock(plain, []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, plain.Keys[1], locked.Keys[1])

	unlocked, err := keylock.Unlock(locked, []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, plain, unlocked)
}

func TestUnlockWrongPassword(t *testing.T) {
	testlog.Start(t)

	locked, err := keylock.Lock(plainWallet(), []byte("right"))
	require.NoError(t, err)
	_, err = keylock.Unlock(locked, []byte("wrong"))
	require.ErrorIs(t, err, keylock.ErrWrongPassword)
}

func TestLockDeterministicWithRand(t *testing.T) {
	testlog.Start(t)

	a, err := keylock.LockWithRand(plainWallet(), []byte("pw"), bytes.NewReader(bytes.Repeat([]byte{1}, 64)))
	require.NoError(t, err)
	b, err := keylock.LockWithRand(plainWallet(), []byte("pw"), bytes.NewReader(bytes.Repeat([]byte{1}, 64)))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = keylock.LockWithRand(plainWallet(), []byte("pw"), bytes.NewReader(nil))
	require.Error(t, err)
}

func TestLockRefusesLockedOrEmpty(t *testing.T) {
	testlog.Start(t)

	locked, err := keylock.Lock(plainWallet(), []byte("pw"))
	require.NoError(t, err)
	_, err = keylock.Lock(locked, []byte("pw"))
	require.ErrorIs(t, err, keylock.ErrAlreadyLocked)
	_, err = keylock.Lock(plainWallet(), nil)
	require.ErrorIs(t, err, keylock.ErrEmptyPassword)
}

func TestUnlockRejectsBadNonce(t *testing.T) {
	testlog.Start(t)

	locked, err := keylock.Lock(plainWallet(), []byte("pw"))
	require.NoError(t, err)
	locked.Keys[0].Nonce = codec.Some([]byte{1, 2, 3})
	_, err = keylock.Unlock(locked, []byte("pw"))
	require.ErrorIs(t, err, codec.ErrEncoding)
}

func TestKeyIsDoubleSHA256(t *testing.T) {
	testlog.Start(t)

	k1 := keylock.Key([]byte("a"))
	k2 := keylock.Key([]byte("a"))
	k3 := keylock.Key([]byte("b"))
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
