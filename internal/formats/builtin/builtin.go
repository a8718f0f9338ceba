// Package builtin registers the wallet formats shipped with zwalletctl.
package builtin

import (
	"fmt"

	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/formats/portable"
	"github.com/danmuck/zwalletctl/internal/formats/ywallet"
	"github.com/danmuck/zwalletctl/internal/formats/zwl"
)

// Default returns a registry holding the zwl, ywallet and portable adapters.
func Default(opts formats.Options) *formats.Registry {
	r := formats.NewRegistry()
	for _, a := range []formats.Adapter{
		zwl.New(opts),
		ywallet.New(opts),
		portable.New(opts),
	} {
		if err := r.Register(a); err != nil {
			panic(fmt.Sprintf("builtin: register %s: %v", a.Metadata().ID, err))
		}
	}
	return r
}
