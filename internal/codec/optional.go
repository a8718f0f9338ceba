package codec

import "fmt"

// Optional is a nullable value. The zero value is absent.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) IsSome() bool {
	return o.ok
}

// OrZero returns the value, or T's zero value when absent.
func (o Optional[T]) OrZero() T {
	return o.value
}

func (o Optional[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// ReadOptional reads a presence byte (0 absent, anything else present) and, when present, decodes T with read.
func ReadOptional[T any](r *Reader, field string, read func(*Reader) (T, error)) (Optional[T], error) {
	present, err := r.ReadBool(field)
	if err != nil {
		return None[T](), err
	}
	if !present {
		return None[T](), nil
	}
	v, err := read(r)
	if err != nil {
		return None[T](), fmt.Errorf("%s: %w", field, err)
	}
	return Some(v), nil
}

// WriteOptional writes 1 and the value, or 0 when absent.
func WriteOptional[T any](w *Writer, o Optional[T], write func(*Writer, T) error) error {
	v, ok := o.Get()
	if !ok {
		w.WriteU8(0)
		return nil
	}
	w.WriteU8(1)
	return write(w, v)
}
