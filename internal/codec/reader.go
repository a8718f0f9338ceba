package codec

import "encoding/binary"

// Reader is a forward-only cursor over an in-memory byte slice.
// Reads never backtrack; every failure names the field and the offset it started at.
type Reader struct {
	buf    []byte
	off    int
	limits Limits
}

// NewReader creates a cursor over buf with default limits.
func NewReader(buf []byte) *Reader {
	return NewReaderWithLimits(buf, DefaultLimits())
}

func NewReaderWithLimits(buf []byte, limits Limits) *Reader {
	if limits.MaxSequenceLen == 0 {
		limits.MaxSequenceLen = MaxCompactSize
	}
	return &Reader{buf: buf, limits: limits}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) Limits() Limits {
	return r.limits
}

func (r *Reader) take(field string, n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, &FieldError{Field: field, Offset: r.off, Err: ErrTruncated}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) ReadU8(field string) (uint8, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads one byte; any non-zero value is true.
func (r *Reader) ReadBool(field string) (bool, error) {
	v, err := r.ReadU8(field)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (r *Reader) ReadU16(field string) (uint16, error) {
	b, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32(field string) (uint32, error) {
	b, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64(field string) (uint64, error) {
	b, err := r.take(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFixed copies exactly n bytes.
func (r *Reader) ReadFixed(field string, n int) ([]byte, error) {
	b, err := r.take(field, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadInto fills dst completely.
func (r *Reader) ReadInto(field string, dst []byte) error {
	b, err := r.take(field, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadRest copies every unread byte and leaves the cursor at the end.
func (r *Reader) ReadRest() []byte {
	if r.Remaining() == 0 {
		return nil
	}
	out := make([]byte, r.Remaining())
	copy(out, r.buf[r.off:])
	r.off = len(r.buf)
	return out
}
