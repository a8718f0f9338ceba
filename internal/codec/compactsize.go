package codec

import "math"

// ReadCompactSize reads a Bitcoin-style variable length integer.
// Encodings that could have used fewer bytes are rejected, as are values above the reader's sequence limit.
func (r *Reader) ReadCompactSize(field string) (uint64, error) {
	start := r.off
	discriminant, err := r.ReadU8(field)
	if err != nil {
		return 0, err
	}
	var (
		v   uint64
		min uint64
	)
	switch discriminant {
	case 0xfd:
		sv, err := r.ReadU16(field)
		if err != nil {
			return 0, err
		}
		v, min = uint64(sv), 0xfd
	case 0xfe:
		sv, err := r.ReadU32(field)
		if err != nil {
			return 0, err
		}
		v, min = uint64(sv), 0x10000
	case 0xff:
		sv, err := r.ReadU64(field)
		if err != nil {
			return 0, err
		}
		v, min = sv, 0x100000000
	default:
		v = uint64(discriminant)
	}
	if v < min {
		return 0, &FieldError{Field: field, Offset: start, Err: ErrNonCanonical}
	}
	if v > r.limits.MaxSequenceLen {
		return 0, &FieldError{Field: field, Offset: start, Err: ErrTooLarge}
	}
	return v, nil
}

// WriteCompactSize writes v using the shortest CompactSize form.
func (w *Writer) WriteCompactSize(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteU8(uint8(v))
	case v <= math.MaxUint16:
		w.WriteU8(0xfd)
		w.WriteU16(uint16(v))
	case v <= math.MaxUint32:
		w.WriteU8(0xfe)
		w.WriteU32(uint32(v))
	default:
		w.WriteU8(0xff)
		w.WriteU64(v)
	}
}

// CompactSizeLen returns the encoded size of v.
func CompactSizeLen(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= math.MaxUint16:
		return 3
	case v <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}
