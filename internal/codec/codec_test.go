package codec

import (
	"errors"
	"testing"

	"github.com/danmuck/zwalletctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readU32(r *Reader) (uint32, error) {
	return r.ReadU32("value")
}

func putU32(w *Writer, v uint32) error {
	w.WriteU32(v)
	return nil
}

func TestReaderLittleEndian(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f})

	u8, err := r.ReadU8("u8")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)

	u16, err := r.ReadU16("u16")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), u16)

	u32, err := r.ReadU32("u32")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), u32)

	u64, err := r.ReadU64("u64")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0f0e0d0c0b0a0908), u64)
	assert.Equal(t, 15, r.Offset())
	assert.Equal(t, 0, r.Remaining())
}

func TestReaderTruncatedReportsFieldAndOffset(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0xaa, 0x01, 0x02})
	_, err := r.ReadU8("tag")
	require.NoError(t, err)

	_, err = r.ReadU32("count")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
	assert.True(t, errors.Is(err, ErrEncoding))

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "count", fe.Field)
	assert.Equal(t, 1, fe.Offset)
	assert.Equal(t, 1, r.Offset(), "failed read must not advance the cursor")
}

func TestReadBoolTreatsNonZeroAsTrue(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x00, 0x01, 0x7f})
	for _, want := range []bool{false, true, true} {
		got, err := r.ReadBool("flag")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadRest(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{1, 2, 3, 4})
	_, err := r.ReadU8("head")
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, r.ReadRest())
	assert.Nil(t, r.ReadRest())
}

func TestCompactSizeRoundTrip(t *testing.T) {
	testlog.Start(t)
	limits := Limits{MaxSequenceLen: ^uint64(0)}
	for _, v := range []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000} {
		w := NewWriter()
		w.WriteCompactSize(v)
		require.Equal(t, CompactSizeLen(v), w.Len(), "len for %d", v)

		got, err := NewReaderWithLimits(w.Bytes(), limits).ReadCompactSize("n")
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestCompactSizeRejectsNonCanonical(t *testing.T) {
	testlog.Start(t)
	cases := map[string][]byte{
		"u16 below 0xfd":    {0xfd, 0xfc, 0x00},
		"u32 below 0x10000": {0xfe, 0xff, 0xff, 0x00, 0x00},
		"u64 below 2^32":    {0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewReaderWithLimits(raw, Limits{MaxSequenceLen: ^uint64(0)}).ReadCompactSize("n")
			assert.True(t, errors.Is(err, ErrNonCanonical), "got %v", err)
			assert.True(t, errors.Is(err, ErrEncoding))
		})
	}
}

func TestCompactSizeRespectsLimit(t *testing.T) {
	testlog.Start(t)
	w := NewWriter()
	w.WriteCompactSize(1000)
	_, err := NewReaderWithLimits(w.Bytes(), Limits{MaxSequenceLen: 999}).ReadCompactSize("n")
	assert.True(t, errors.Is(err, ErrTooLarge), "got %v", err)
}

func TestOptionalRoundTrip(t *testing.T) {
	testlog.Start(t)
	w := NewWriter()
	require.NoError(t, WriteOptional(w, Some[uint32](5), putU32))
	require.NoError(t, WriteOptional(w, None[uint32](), putU32))
	assert.Equal(t, []byte{1, 5, 0, 0, 0, 0}, w.Bytes())

	r := NewReader(w.Bytes())
	first, err := ReadOptional(r, "first", readU32)
	require.NoError(t, err)
	v, ok := first.Get()
	assert.True(t, ok)
	assert.Equal(t, uint32(5), v)

	second, err := ReadOptional(r, "second", readU32)
	require.NoError(t, err)
	assert.False(t, second.IsSome())
	assert.Equal(t, 0, r.Remaining())
}

func TestOptionalAnyNonZeroFlagIsPresent(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0x02, 7, 0, 0, 0})
	got, err := ReadOptional(r, "value", readU32)
	require.NoError(t, err)
	assert.Equal(t, Some[uint32](7), got)
}

func TestOptionalMissingFlagOrValue(t *testing.T) {
	testlog.Start(t)
	_, err := ReadOptional(NewReader(nil), "flag", readU32)
	assert.True(t, errors.Is(err, ErrEncoding))

	_, err = ReadOptional(NewReader([]byte{1, 0xff}), "flag", readU32)
	assert.True(t, errors.Is(err, ErrTruncated))
	assert.Contains(t, err.Error(), "flag")
}

func TestVectorRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := []uint32{1, 2, 0xdeadbeef}
	w := NewWriter()
	require.NoError(t, WriteVector(w, in, putU32))
	assert.Equal(t, 1+4*len(in), w.Len())

	out, err := ReadVector(NewReader(w.Bytes()), "items", readU32)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestVectorTruncated(t *testing.T) {
	testlog.Start(t)
	w := NewWriter()
	require.NoError(t, WriteVector(w, []uint32{1, 2}, putU32))
	raw := w.Bytes()

	_, err := ReadVector(NewReader(raw[:len(raw)-1]), "items", readU32)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
	assert.Contains(t, err.Error(), "items[1]")
}

func TestVectorHugeCountDoesNotPreallocate(t *testing.T) {
	testlog.Start(t)
	w := NewWriter()
	w.WriteCompactSize(MaxCompactSize)
	_, err := ReadVector(NewReader(w.Bytes()), "items", readU32)
	assert.True(t, errors.Is(err, ErrTruncated), "got %v", err)
}

func TestByteVector(t *testing.T) {
	testlog.Start(t)
	w := NewWriter()
	w.WriteByteVector([]byte("nonce"))
	r := NewReader(w.Bytes())
	got, err := r.ReadByteVector("nonce")
	require.NoError(t, err)
	assert.Equal(t, []byte("nonce"), got)

	_, err = NewReader([]byte{0x05, 'a'}).ReadByteVector("nonce")
	assert.True(t, errors.Is(err, ErrTruncated))
}

func TestOptionalByteVector(t *testing.T) {
	testlog.Start(t)
	w := NewWriter()
	require.NoError(t, WriteOptional(w, Some([]byte{0xaa, 0xbb}), PutByteVector))
	assert.Equal(t, []byte{1, 2, 0xaa, 0xbb}, w.Bytes())

	got, err := ReadOptional(NewReader(w.Bytes()), "blob", ByteVector("blob"))
	require.NoError(t, err)
	assert.Equal(t, Some([]byte{0xaa, 0xbb}), got)
}

func TestCheckVersion(t *testing.T) {
	testlog.Start(t)
	require.NoError(t, CheckVersion("record", 1, 0, 1))

	err := CheckVersion("record", 2, 0, 1)
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
	var ve *VersionError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, uint64(2), ve.Version)
	assert.Equal(t, "codec: unsupported record version 2 (supported 0..1)", err.Error())
}
