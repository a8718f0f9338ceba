package zwl_test

import (
	"bytes"
	"testing"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/formats/zwl"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/testutil/fixtures"
	"github.com/danmuck/zwalletctl/internal/testutil/testlog"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/danmuck/zwalletctl/internal/zkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adapter() *zwl.Adapter {
	return zwl.New(formats.Options{Deriver: fixtures.Deriver, Network: sapling.Testnet})
}

func sampleKeys(t *testing.T) []wallet.ShieldedKey {
	t.Helper()
	keys := []wallet.ShieldedKey{
		{
			Kind:        wallet.HdKey,
			SpendingKey: codec.Some(fixtures.SpendingKey(1)),
			ViewingKey:  fixtures.ViewingKey(1),
			HDIndex:     codec.Some[uint32](0),
		},
		{
			Kind:         wallet.ImportedSpendingKey,
			Locked:       true,
			ViewingKey:   fixtures.ViewingKey(2),
			EncryptedKey: codec.Some(bytes.Repeat([]byte{0xaa}, 185)),
			Nonce:        codec.Some(bytes.Repeat([]byte{0xbb}, 24)),
		},
		{Kind: wallet.ImportedViewKey, ViewingKey: fixtures.ViewingKey(3)},
	}
	for i := range keys {
		addr, err := fixtures.Deriver.DefaultAddress(keys[i].ViewingKey)
		require.NoError(t, err)
		keys[i].Address = addr
	}
	return keys
}

// walletFile lays out a file by hand so Parse is checked against the format, not against Write.
func walletFile(t *testing.T, walletVersion, keysVersion uint64, trailer []byte) []byte {
	t.Helper()
	w := codec.NewWriter()
	w.WriteU64(walletVersion)
	w.WriteU64(keysVersion)
	w.WriteU8(0)
	w.WriteFixed(make([]byte, 48))
	w.WriteByteVector(nil)
	w.WriteFixed(bytes.Repeat([]byte{0x5e}, 32))
	require.NoError(t, codec.WriteVector(w, sampleKeys(t), zkey.Encode))
	w.WriteFixed(trailer)
	return w.Bytes()
}

func TestParseWalletFile(t *testing.T) {
	testlog.Start(t)

	trailer := []byte("transparent keys, blocks and txs")
	raw := walletFile(t, 25, 21, trailer)

	w, err := adapter().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, zwl.ID, w.Metadata.SourceFormat)
	assert.Equal(t, sapling.Testnet, w.Metadata.Network)
	assert.Equal(t, map[string]uint64{wallet.VersionWallet: 25, wallet.VersionKeys: 21}, w.Metadata.Versions)
	require.NotNil(t, w.Metadata.Seed)
	assert.False(t, w.Metadata.Seed.Encrypted)
	assert.Equal(t, bytes.Repeat([]byte{0x5e}, 32), w.Metadata.Seed.Entropy)
	assert.Nil(t, w.Metadata.Seed.Sealed)
	assert.Nil(t, w.Metadata.Seed.Nonce)
	assert.Equal(t, trailer, w.Metadata.Trailer)
	assert.Equal(t, sampleKeys(t), w.Keys)
}

func TestSameFormatRewriteIsByteExact(t *testing.T) {
	testlog.Start(t)

	for _, versions := range [][2]uint64{{25, 21}, {7, 20}} {
		raw := walletFile(t, versions[0], versions[1], []byte{1, 2, 3, 4})
		w, err := adapter().Parse(raw)
		require.NoError(t, err)
		out, err := adapter().Write(w)
		require.NoError(t, err)
		assert.Equal(t, raw, out)

		again, err := adapter().Parse(out)
		require.NoError(t, err)
		assert.Equal(t, w, again)
	}
}

func TestEncryptedSeedRoundTrip(t *testing.T) {
	testlog.Start(t)

	w := wallet.New(zwl.ID, sapling.Testnet)
	w.Metadata.Seed = &wallet.HDSeed{
		Encrypted: true,
		Sealed:    bytes.Repeat([]byte{0x11}, 48),
		Nonce:     bytes.Repeat([]byte{0x22}, 24),
	}
	w.Metadata.Versions[wallet.VersionWallet] = 25
	w.Metadata.Versions[wallet.VersionKeys] = 21
	w.Keys = sampleKeys(t)[1:]

	raw, err := adapter().Write(w)
	require.NoError(t, err)
	got, err := adapter().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestForeignWalletGetsNewestVersionsAndNoTrailer(t *testing.T) {
	testlog.Start(t)

	w := wallet.New("ywallet", sapling.Testnet)
	w.Metadata.Versions[wallet.VersionSchema] = 3
	w.Metadata.Trailer = []byte("not ours")
	w.Metadata.Labels[0] = "main"
	w.Keys = sampleKeys(t)[:1]

	raw, err := adapter().Write(w)
	require.NoError(t, err)
	r := codec.NewReader(raw)
	v, _ := r.ReadU64("wallet_version")
	k, _ := r.ReadU64("keys_version")
	assert.Equal(t, uint64(zwl.MaxWalletVersion), v)
	assert.Equal(t, uint64(zwl.MaxKeysVersion), k)

	got, err := adapter().Parse(raw)
	require.NoError(t, err)
	assert.Nil(t, got.Metadata.Trailer)
	assert.Nil(t, got.Metadata.Seed)
	assert.Equal(t, w.Keys, got.Keys)
}

func TestVersionGates(t *testing.T) {
	testlog.Start(t)

	cases := map[string][2]uint64{
		"wallet too new":   {26, 21},
		"wallet zero":      {0, 21},
		"inline keys":      {zwl.MinWalletVersion - 1, 21},
		"keys too old":     {25, 19},
		"keys too new":     {25, 22},
	}
	for name, versions := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := adapter().Parse(walletFile(t, versions[0], versions[1], nil))
			require.ErrorIs(t, err, codec.ErrUnsupportedVersion)
		})
	}

	w, err := adapter().Parse(walletFile(t, zwl.MinWalletVersion, zwl.MinKeysVersion, nil))
	require.NoError(t, err)
	assert.Equal(t, uint64(zwl.MinWalletVersion), w.Metadata.Versions[wallet.VersionWallet])
}

func TestTruncatedKeyVector(t *testing.T) {
	testlog.Start(t)

	raw := walletFile(t, 25, 21, nil)
	_, err := adapter().Parse(raw[:len(raw)-10])
	require.ErrorIs(t, err, codec.ErrEncoding)
	assert.Contains(t, err.Error(), "zkeys[2]")
}

func TestSequenceLimit(t *testing.T) {
	testlog.Start(t)

	a := zwl.New(formats.Options{Deriver: fixtures.Deriver, Limits: codec.Limits{MaxSequenceLen: 2}})
	_, err := a.Parse(walletFile(t, 25, 21, nil))
	require.ErrorIs(t, err, codec.ErrTooLarge)
}

func TestWriteRejectsBadSeed(t *testing.T) {
	testlog.Start(t)

	w := wallet.New(zwl.ID, sapling.Mainnet)
	w.Metadata.Seed = &wallet.HDSeed{Entropy: []byte{1, 2, 3}}
	_, err := adapter().Write(w)
	require.ErrorIs(t, err, codec.ErrEncoding)
}
