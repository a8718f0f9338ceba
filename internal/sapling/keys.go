package sapling

import (
	"errors"

	"github.com/danmuck/zwalletctl/internal/codec"
)

// ExtendedKeyLen is the serialized size of both extended key kinds.
const ExtendedKeyLen = 1 + 4 + 4 + 32 + 96 + 32

var ErrMalformedKey = errors.New("sapling: malformed key")

// ExtendedSpendingKey is the ZIP-32 extended spending key layout.
type ExtendedSpendingKey struct {
	Depth      uint8
	ParentTag  [4]byte
	ChildIndex uint32
	ChainCode  [32]byte
	Ask        [32]byte
	Nsk        [32]byte
	Ovk        [32]byte
	Dk         [32]byte
}

// ExtendedFullViewingKey is the ZIP-32 extended full viewing key layout.
type ExtendedFullViewingKey struct {
	Depth      uint8
	ParentTag  [4]byte
	ChildIndex uint32
	ChainCode  [32]byte
	Ak         [32]byte
	Nk         [32]byte
	Ovk        [32]byte
	Dk         [32]byte
}

type header struct {
	depth      uint8
	parentTag  [4]byte
	childIndex uint32
	chainCode  [32]byte
}

func readHeader(r *codec.Reader, field string) (header, error) {
	var h header
	start := r.Offset()
	var err error
	if h.depth, err = r.ReadU8(field + ".depth"); err != nil {
		return header{}, err
	}
	if err = r.ReadInto(field+".parent_tag", h.parentTag[:]); err != nil {
		return header{}, err
	}
	if h.childIndex, err = r.ReadU32(field + ".child_index"); err != nil {
		return header{}, err
	}
	if err = r.ReadInto(field+".chain_code", h.chainCode[:]); err != nil {
		return header{}, err
	}
	// A master key has no parent.
	if h.depth == 0 && (h.parentTag != [4]byte{} || h.childIndex != 0) {
		return header{}, &codec.FieldError{Field: field, Offset: start, Err: ErrMalformedKey}
	}
	return h, nil
}

func writeHeader(w *codec.Writer, h header) {
	w.WriteU8(h.depth)
	w.WriteFixed(h.parentTag[:])
	w.WriteU32(h.childIndex)
	w.WriteFixed(h.chainCode[:])
}

// ReadExtendedSpendingKey decodes one spending key from r.
func ReadExtendedSpendingKey(r *codec.Reader) (ExtendedSpendingKey, error) {
	h, err := readHeader(r, "spending_key")
	if err != nil {
		return ExtendedSpendingKey{}, err
	}
	k := ExtendedSpendingKey{Depth: h.depth, ParentTag: h.parentTag, ChildIndex: h.childIndex, ChainCode: h.chainCode}
	for _, part := range []struct {
		name string
		dst  []byte
	}{
		{"spending_key.ask", k.Ask[:]},
		{"spending_key.nsk", k.Nsk[:]},
		{"spending_key.ovk", k.Ovk[:]},
		{"spending_key.dk", k.Dk[:]},
	} {
		if err := r.ReadInto(part.name, part.dst); err != nil {
			return ExtendedSpendingKey{}, err
		}
	}
	return k, nil
}

// WriteExtendedSpendingKey has the element-writer signature used by codec.WriteOptional.
func WriteExtendedSpendingKey(w *codec.Writer, k ExtendedSpendingKey) error {
	writeHeader(w, header{depth: k.Depth, parentTag: k.ParentTag, childIndex: k.ChildIndex, chainCode: k.ChainCode})
	w.WriteFixed(k.Ask[:])
	w.WriteFixed(k.Nsk[:])
	w.WriteFixed(k.Ovk[:])
	w.WriteFixed(k.Dk[:])
	return nil
}

func (k ExtendedSpendingKey) Bytes() []byte {
	w := codec.NewWriter()
	_ = WriteExtendedSpendingKey(w, k)
	return w.Bytes()
}

// ParseExtendedSpendingKey decodes b, which must hold exactly one key.
func ParseExtendedSpendingKey(b []byte) (ExtendedSpendingKey, error) {
	if len(b) != ExtendedKeyLen {
		return ExtendedSpendingKey{}, ErrMalformedKey
	}
	return ReadExtendedSpendingKey(codec.NewReader(b))
}

// ReadExtendedFullViewingKey decodes one full viewing key from r.
func ReadExtendedFullViewingKey(r *codec.Reader) (ExtendedFullViewingKey, error) {
	h, err := readHeader(r, "viewing_key")
	if err != nil {
		return ExtendedFullViewingKey{}, err
	}
	k := ExtendedFullViewingKey{Depth: h.depth, ParentTag: h.parentTag, ChildIndex: h.childIndex, ChainCode: h.chainCode}
	for _, part := range []struct {
		name string
		dst  []byte
	}{
		{"viewing_key.ak", k.Ak[:]},
		{"viewing_key.nk", k.Nk[:]},
		{"viewing_key.ovk", k.Ovk[:]},
		{"viewing_key.dk", k.Dk[:]},
	} {
		if err := r.ReadInto(part.name, part.dst); err != nil {
			return ExtendedFullViewingKey{}, err
		}
	}
	return k, nil
}

func WriteExtendedFullViewingKey(w *codec.Writer, k ExtendedFullViewingKey) error {
	writeHeader(w, header{depth: k.Depth, parentTag: k.ParentTag, childIndex: k.ChildIndex, chainCode: k.ChainCode})
	w.WriteFixed(k.Ak[:])
	w.WriteFixed(k.Nk[:])
	w.WriteFixed(k.Ovk[:])
	w.WriteFixed(k.Dk[:])
	return nil
}

func (k ExtendedFullViewingKey) Bytes() []byte {
	w := codec.NewWriter()
	_ = WriteExtendedFullViewingKey(w, k)
	return w.Bytes()
}

func ParseExtendedFullViewingKey(b []byte) (ExtendedFullViewingKey, error) {
	if len(b) != ExtendedKeyLen {
		return ExtendedFullViewingKey{}, ErrMalformedKey
	}
	return ReadExtendedFullViewingKey(codec.NewReader(b))
}
