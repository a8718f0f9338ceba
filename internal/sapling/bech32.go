package sapling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// Network selects the Bech32 prefixes used for string encodings.
type Network string

const (
	Mainnet Network = "main"
	Testnet Network = "test"
)

var ErrUnknownNetwork = errors.New("sapling: unknown network")

type prefixes struct {
	spendingKey string
	viewingKey  string
	address     string
}

var networkPrefixes = map[Network]prefixes{
	Mainnet: {spendingKey: "secret-extended-key-main", viewingKey: "zxviews", address: "zs"},
	Testnet: {spendingKey: "secret-extended-key-test", viewingKey: "zxviewtestsapling", address: "ztestsapling"},
}

// ParseNetwork accepts the chain names wallets record ("main", "mainnet", "test", "testnet").
func ParseNetwork(raw string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "main", "mainnet", "":
		return Mainnet, nil
	case "test", "testnet":
		return Testnet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, raw)
	}
}

func (n Network) prefixes() (prefixes, error) {
	p, ok := networkPrefixes[n]
	if !ok {
		return prefixes{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, string(n))
	}
	return p, nil
}

func encode(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}

func decode(wantHRP, s string) ([]byte, error) {
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	if hrp != wantHRP {
		return nil, fmt.Errorf("%w: prefix %q, want %q", ErrMalformedKey, hrp, wantHRP)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return raw, nil
}

func (n Network) EncodeSpendingKey(k ExtendedSpendingKey) (string, error) {
	p, err := n.prefixes()
	if err != nil {
		return "", err
	}
	return encode(p.spendingKey, k.Bytes())
}

func (n Network) DecodeSpendingKey(s string) (ExtendedSpendingKey, error) {
	p, err := n.prefixes()
	if err != nil {
		return ExtendedSpendingKey{}, err
	}
	raw, err := decode(p.spendingKey, s)
	if err != nil {
		return ExtendedSpendingKey{}, err
	}
	return ParseExtendedSpendingKey(raw)
}

func (n Network) EncodeViewingKey(k ExtendedFullViewingKey) (string, error) {
	p, err := n.prefixes()
	if err != nil {
		return "", err
	}
	return encode(p.viewingKey, k.Bytes())
}

func (n Network) DecodeViewingKey(s string) (ExtendedFullViewingKey, error) {
	p, err := n.prefixes()
	if err != nil {
		return ExtendedFullViewingKey{}, err
	}
	raw, err := decode(p.viewingKey, s)
	if err != nil {
		return ExtendedFullViewingKey{}, err
	}
	return ParseExtendedFullViewingKey(raw)
}

func (n Network) EncodeAddress(a PaymentAddress) (string, error) {
	p, err := n.prefixes()
	if err != nil {
		return "", err
	}
	return encode(p.address, a.Bytes())
}

func (n Network) DecodeAddress(s string) (PaymentAddress, error) {
	p, err := n.prefixes()
	if err != nil {
		return PaymentAddress{}, err
	}
	raw, err := decode(p.address, s)
	if err != nil {
		return PaymentAddress{}, err
	}
	return ParsePaymentAddress(raw)
}
