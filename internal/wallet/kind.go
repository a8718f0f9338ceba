package wallet

import (
	"fmt"

	"github.com/danmuck/zwalletctl/internal/codec"
)

// KeyKind says how a shielded key entered the wallet.
type KeyKind uint32

const (
	HdKey               KeyKind = 0
	ImportedSpendingKey KeyKind = 1
	ImportedViewKey     KeyKind = 2
)

// KindError reports a key-kind discriminant outside the known set.
type KindError struct {
	Value uint32
}

func (e *KindError) Error() string {
	return fmt.Sprintf("wallet: unknown key kind %d", e.Value)
}

func (e *KindError) Is(target error) bool {
	return target == codec.ErrUnknownKeyKind
}

// ParseKeyKind validates an on-disk discriminant.
func ParseKeyKind(v uint32) (KeyKind, error) {
	switch KeyKind(v) {
	case HdKey, ImportedSpendingKey, ImportedViewKey:
		return KeyKind(v), nil
	default:
		return 0, &KindError{Value: v}
	}
}

// HasSpendAuthority reports whether entries of this kind carry spending key material.
func (k KeyKind) HasSpendAuthority() bool {
	return k != ImportedViewKey
}

func (k KeyKind) String() string {
	switch k {
	case HdKey:
		return "hd"
	case ImportedSpendingKey:
		return "imported-spending"
	case ImportedViewKey:
		return "imported-view"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(k))
	}
}

// ParseKeyKindName is the inverse of String, used by text formats.
func ParseKeyKindName(s string) (KeyKind, error) {
	for _, k := range []KeyKind{HdKey, ImportedSpendingKey, ImportedViewKey} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", codec.ErrUnknownKeyKind, s)
}
