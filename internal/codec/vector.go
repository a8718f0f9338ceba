package codec

import "fmt"

// ReadVector reads a CompactSize count and then exactly that many elements in order.
func ReadVector[T any](r *Reader, field string, read func(*Reader) (T, error)) ([]T, error) {
	count, err := r.ReadCompactSize(field)
	if err != nil {
		return nil, err
	}
	// Every element occupies at least one byte, so the remaining input bounds the preallocation.
	capHint := count
	if remaining := uint64(r.Remaining()); capHint > remaining {
		capHint = remaining
	}
	items := make([]T, 0, capHint)
	for i := uint64(0); i < count; i++ {
		item, err := read(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// WriteVector writes the element count followed by every element in order.
func WriteVector[T any](w *Writer, items []T, write func(*Writer, T) error) error {
	w.WriteCompactSize(uint64(len(items)))
	for i, item := range items {
		if err := write(w, item); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// ReadByteVector is ReadVector specialised to single bytes.
func (r *Reader) ReadByteVector(field string) ([]byte, error) {
	start := r.off
	count, err := r.ReadCompactSize(field)
	if err != nil {
		return nil, err
	}
	if count > uint64(r.Remaining()) {
		return nil, &FieldError{Field: field, Offset: start, Err: ErrTruncated}
	}
	return r.ReadFixed(field, int(count))
}

// WriteByteVector writes a CompactSize length and the bytes.
func (w *Writer) WriteByteVector(b []byte) {
	w.WriteCompactSize(uint64(len(b)))
	w.WriteFixed(b)
}

// ByteVector adapts ReadByteVector to the element-reader signature used by ReadOptional.
func ByteVector(field string) func(*Reader) ([]byte, error) {
	return func(r *Reader) ([]byte, error) {
		return r.ReadByteVector(field)
	}
}

// PutByteVector adapts WriteByteVector to the element-writer signature used by WriteOptional.
func PutByteVector(w *Writer, b []byte) error {
	w.WriteByteVector(b)
	return nil
}
