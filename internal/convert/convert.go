// Package convert drives a conversion: source bytes to the canonical wallet through one adapter,
// optionally unlocked, and back to bytes through another.
package convert

import (
	"fmt"
	"os"

	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/keylock"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/rs/zerolog"
)

type Converter struct {
	registry *formats.Registry
	logger   zerolog.Logger
	password []byte
	strict   bool
}

type Option func(*Converter)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithPassword makes Convert unlock encrypted keys before writing.
func WithPassword(password []byte) Option {
	return func(c *Converter) { c.password = password }
}

// WithStrictHDIndex rejects wallets whose HD index presence disagrees with the key kind.
func WithStrictHDIndex(strict bool) Option {
	return func(c *Converter) { c.strict = strict }
}

func New(registry *formats.Registry, opts ...Option) *Converter {
	c := &Converter{registry: registry, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse decodes raw with the adapter registered as format.
func (c *Converter) Parse(format string, raw []byte) (*wallet.Wallet, error) {
	adapter, err := c.registry.Resolve(format)
	if err != nil {
		return nil, err
	}
	w, err := adapter.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", adapter.Metadata().ID, err)
	}
	if err := w.Validate(c.strict); err != nil {
		return nil, fmt.Errorf("parse %s: %w", adapter.Metadata().ID, err)
	}
	c.logger.Debug().
		Str("format", adapter.Metadata().ID).
		Int("keys", len(w.Keys)).
		Bool("locked", w.Locked()).
		Msg("wallet parsed")
	return w, nil
}

// Convert parses raw as from and writes it as to. It returns the written bytes and the wallet
// that was handed to the destination adapter.
func (c *Converter) Convert(from string, raw []byte, to string) ([]byte, *wallet.Wallet, error) {
	dst, err := c.registry.Resolve(to)
	if err != nil {
		return nil, nil, err
	}
	w, err := c.Parse(from, raw)
	if err != nil {
		return nil, nil, err
	}

	if c.password != nil && w.Locked() {
		if w, err = keylock.Unlock(w, c.password); err != nil {
			return nil, nil, err
		}
		c.logger.Debug().Msg("wallet unlocked")
	}

	dstID := dst.Metadata().ID
	if w.Metadata.SourceFormat != dstID && len(w.Metadata.Trailer) > 0 {
		c.logger.Debug().
			Str("from", w.Metadata.SourceFormat).
			Str("to", dstID).
			Int("trailer_bytes", len(w.Metadata.Trailer)).
			Msg("dropping source-only data")
		shallow := *w
		shallow.Metadata.Trailer = nil
		w = &shallow
	}

	out, err := dst.Write(w)
	if err != nil {
		return nil, nil, fmt.Errorf("write %s: %w", dstID, err)
	}
	c.logger.Info().
		Str("from", from).
		Str("to", dstID).
		Int("keys", len(w.Keys)).
		Int("bytes", len(out)).
		Msg("wallet converted")
	return out, w, nil
}

// ReadFile reads a whole wallet file. Failures match codec.ErrIO.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrIO, err)
	}
	return raw, nil
}

// WriteFile writes data with owner-only permissions. Failures match codec.ErrIO.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", codec.ErrIO, err)
	}
	return nil
}
