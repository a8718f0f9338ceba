package formats

import (
	"github.com/danmuck/zwalletctl/internal/codec"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/rs/zerolog"
)

// Metadata is the contract for adapter identity and display data.
type Metadata struct {
	ID          string
	Name        string
	Description string
	// DefaultFile is the file name the owning application uses.
	DefaultFile string
}

// Adapter converts between one application's wallet bytes and the canonical model.
type Adapter interface {
	Metadata() Metadata
	Parse(raw []byte) (*wallet.Wallet, error)
	Write(w *wallet.Wallet) ([]byte, error)
}

// Options are shared by every built-in adapter.
type Options struct {
	Deriver sapling.AddressDeriver
	Limits  codec.Limits
	// Network is used when the source does not record one.
	Network sapling.Network
	Logger  zerolog.Logger
}

// DefaultOptions uses the fingerprint deriver, default limits, mainnet and a disabled logger.
func DefaultOptions() Options {
	return Options{
		Deriver: sapling.FingerprintDeriver{},
		Limits:  codec.DefaultLimits(),
		Network: sapling.Mainnet,
		Logger:  zerolog.Nop(),
	}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	def := DefaultOptions()
	if o.Deriver == nil {
		o.Deriver = def.Deriver
	}
	if o.Limits.MaxSequenceLen == 0 {
		o.Limits = def.Limits
	}
	if o.Network == "" {
		o.Network = def.Network
	}
	return o
}
