// Package portable is a YAML backup document holding the canonical wallet with hex-encoded key
// material. It is lossless for everything except the opaque trailer of binary formats.
package portable

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/tyler-smith/go-bip39"
	"gopkg.in/yaml.v3"
)

const ID = "portable"

type Adapter struct {
	opts formats.Options
}

func New(opts formats.Options) *Adapter {
	return &Adapter{opts: opts.WithDefaults()}
}

func (a *Adapter) Metadata() formats.Metadata {
	return formats.Metadata{
		ID:          ID,
		Name:        "Portable backup",
		Description: "Human-readable YAML wallet backup",
		DefaultFile: "wallet-backup.yaml",
	}
}

func (a *Adapter) Parse(raw []byte) (*wallet.Wallet, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &codec.FieldError{Field: "document", Offset: -1, Err: err}
	}
	if err := codec.CheckVersion("portable document", doc.Version, DocumentVersion, DocumentVersion); err != nil {
		return nil, err
	}

	network := a.opts.Network
	if doc.Network != "" {
		n, err := sapling.ParseNetwork(doc.Network)
		if err != nil {
			return nil, malformed("network", err)
		}
		network = n
	}

	w := wallet.New(ID, network)
	for k, v := range doc.Versions {
		w.Metadata.Versions[k] = v
	}
	w.Metadata.Versions[wallet.VersionDoc] = doc.Version
	w.Metadata.Birthday = doc.Birthday

	if doc.Seed != nil {
		seed, err := parseSeed(doc.Seed)
		if err != nil {
			return nil, err
		}
		w.Metadata.Seed = seed
	}

	for i, kd := range doc.Keys {
		k, err := a.parseKey(kd, fmt.Sprintf("keys[%d]", i))
		if err != nil {
			return nil, err
		}
		if kd.Label != "" {
			w.Metadata.Labels[i] = kd.Label
		}
		w.Keys = append(w.Keys, k)
	}
	a.opts.Logger.Debug().Int("keys", len(w.Keys)).Str("network", string(network)).Msg("parsed portable document")
	return w, nil
}

func parseSeed(sd *seedDoc) (*wallet.HDSeed, error) {
	var (
		seed wallet.HDSeed
		err  error
	)
	seed.Encrypted = sd.Encrypted
	if seed.Entropy, err = decodeHex("seed.entropy", sd.Entropy); err != nil {
		return nil, err
	}
	if seed.Entropy == nil && sd.Mnemonic != "" {
		if seed.Entropy, err = bip39.EntropyFromMnemonic(sd.Mnemonic); err != nil {
			return nil, malformed("seed.mnemonic", err)
		}
	}
	if seed.Sealed, err = decodeHex("seed.sealed", sd.Sealed); err != nil {
		return nil, err
	}
	if seed.Nonce, err = decodeHex("seed.nonce", sd.Nonce); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (a *Adapter) parseKey(kd keyDoc, field string) (wallet.ShieldedKey, error) {
	kind, err := wallet.ParseKeyKindName(kd.Kind)
	if err != nil {
		return wallet.ShieldedKey{}, fmt.Errorf("%s.kind: %w", field, err)
	}
	k := wallet.ShieldedKey{Kind: kind, Locked: kd.Locked}

	raw, err := decodeHex(field+".viewing_key", kd.ViewingKey)
	if err != nil {
		return wallet.ShieldedKey{}, err
	}
	if k.ViewingKey, err = sapling.ParseExtendedFullViewingKey(raw); err != nil {
		return wallet.ShieldedKey{}, malformed(field+".viewing_key", err)
	}
	if k.Address, err = a.opts.Deriver.DefaultAddress(k.ViewingKey); err != nil {
		return wallet.ShieldedKey{}, malformed(field+".viewing_key", err)
	}

	if kd.SpendingKey != "" {
		raw, err := decodeHex(field+".spending_key", kd.SpendingKey)
		if err != nil {
			return wallet.ShieldedKey{}, err
		}
		sk, err := sapling.ParseExtendedSpendingKey(raw)
		if err != nil {
			return wallet.ShieldedKey{}, malformed(field+".spending_key", err)
		}
		k.SpendingKey = codec.Some(sk)
	}
	if kd.HDIndex != nil {
		k.HDIndex = codec.Some(*kd.HDIndex)
	}
	if k.EncryptedKey, err = optionalHex(field+".encrypted_key", kd.EncryptedKey); err != nil {
		return wallet.ShieldedKey{}, err
	}
	if k.Nonce, err = optionalHex(field+".nonce", kd.Nonce); err != nil {
		return wallet.ShieldedKey{}, err
	}

	if err := k.Validate(); err != nil {
		var inv *wallet.InvariantError
		if errors.As(err, &inv) {
			return wallet.ShieldedKey{}, malformed(field+"."+inv.Field, err)
		}
		return wallet.ShieldedKey{}, malformed(field, err)
	}
	return k, nil
}

// Write drops the trailer; it only has meaning to the format that produced it.
func (a *Adapter) Write(w *wallet.Wallet) ([]byte, error) {
	network := w.Metadata.Network
	if network == "" {
		network = a.opts.Network
	}
	doc := document{
		Version:  DocumentVersion,
		Network:  string(network),
		Birthday: w.Metadata.Birthday,
		Keys:     make([]keyDoc, 0, len(w.Keys)),
	}
	for k, v := range w.Metadata.Versions {
		if k == wallet.VersionDoc {
			continue
		}
		if doc.Versions == nil {
			doc.Versions = map[string]uint64{}
		}
		doc.Versions[k] = v
	}
	if s := w.Metadata.Seed; s != nil {
		sd := &seedDoc{
			Encrypted: s.Encrypted,
			Entropy:   hex.EncodeToString(s.Entropy),
			Sealed:    hex.EncodeToString(s.Sealed),
			Nonce:     hex.EncodeToString(s.Nonce),
		}
		if !s.Encrypted {
			m, err := bip39.NewMnemonic(s.Entropy)
			if err != nil {
				return nil, fmt.Errorf("seed: %w", err)
			}
			sd.Mnemonic = m
		}
		doc.Seed = sd
	}

	for i, k := range w.Keys {
		if err := k.Validate(); err != nil {
			return nil, fmt.Errorf("key[%d]: %w", i, err)
		}
		kd := keyDoc{
			Kind:       k.Kind.String(),
			Label:      w.Label(i),
			Locked:     k.Locked,
			ViewingKey: hex.EncodeToString(k.ViewingKey.Bytes()),
			Address:    hex.EncodeToString(k.Address.Bytes()),
		}
		if sk, ok := k.SpendingKey.Get(); ok {
			kd.SpendingKey = hex.EncodeToString(sk.Bytes())
		}
		if idx, ok := k.HDIndex.Get(); ok {
			kd.HDIndex = &idx
		}
		kd.EncryptedKey = hexPtr(k.EncryptedKey)
		kd.Nonce = hexPtr(k.Nonce)
		doc.Keys = append(doc.Keys, kd)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("portable: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("portable: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeHex(field, s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, malformed(field, err)
	}
	return b, nil
}

func optionalHex(field string, s *string) (codec.Optional[[]byte], error) {
	if s == nil {
		return codec.None[[]byte](), nil
	}
	b, err := hex.DecodeString(*s)
	if err != nil {
		return codec.None[[]byte](), malformed(field, err)
	}
	return codec.Some(b), nil
}

func hexPtr(o codec.Optional[[]byte]) *string {
	b, ok := o.Get()
	if !ok {
		return nil
	}
	s := hex.EncodeToString(b)
	return &s
}

func malformed(field string, err error) error {
	return &codec.FieldError{Field: field, Offset: -1, Err: err}
}
