package sapling

import (
	"fmt"

	"lukechampine.com/blake3"
)

// PaymentAddressLen is the raw size of a shielded payment address.
const PaymentAddressLen = 11 + 32

// PaymentAddress is a diversified shielded address.
type PaymentAddress struct {
	Diversifier [11]byte
	PkD         [32]byte
}

func (a PaymentAddress) Bytes() []byte {
	out := make([]byte, 0, PaymentAddressLen)
	out = append(out, a.Diversifier[:]...)
	return append(out, a.PkD[:]...)
}

func ParsePaymentAddress(b []byte) (PaymentAddress, error) {
	if len(b) != PaymentAddressLen {
		return PaymentAddress{}, fmt.Errorf("%w: address length %d", ErrMalformedKey, len(b))
	}
	var a PaymentAddress
	copy(a.Diversifier[:], b[:11])
	copy(a.PkD[:], b[11:])
	return a, nil
}

// AddressDeriver maps a full viewing key to its default payment address.
// Implementations must be pure and deterministic.
type AddressDeriver interface {
	DefaultAddress(fvk ExtendedFullViewingKey) (PaymentAddress, error)
}

// DeriverFunc adapts a function to AddressDeriver.
type DeriverFunc func(ExtendedFullViewingKey) (PaymentAddress, error)

func (f DeriverFunc) DefaultAddress(fvk ExtendedFullViewingKey) (PaymentAddress, error) {
	return f(fvk)
}

const fingerprintContext = "zwalletctl 2024-05-01 sapling viewing key fingerprint"

// FingerprintDeriver is used when no Jubjub implementation is linked in. It maps each viewing
// key to a stable 43-byte identifier so entries can be told apart and round-tripped, but the
// result is not a spendable address and must never be shown to a payer.
type FingerprintDeriver struct{}

func (FingerprintDeriver) DefaultAddress(fvk ExtendedFullViewingKey) (PaymentAddress, error) {
	// ak is a curve point; the all-zero encoding is never a valid one.
	if fvk.Ak == [32]byte{} {
		return PaymentAddress{}, fmt.Errorf("%w: zero ak", ErrMalformedKey)
	}
	var out [PaymentAddressLen]byte
	blake3.DeriveKey(out[:], fingerprintContext, fvk.Bytes())
	return ParsePaymentAddress(out[:])
}
