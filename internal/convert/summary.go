package convert

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/danmuck/zwalletctl/internal/wallet"
	"github.com/davecgh/go-spew/spew"
)

// Summary writes a table of the wallet without any secret material.
func Summary(out io.Writer, w *wallet.Wallet) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	meta := w.Metadata

	fmt.Fprintf(tw, "format:\t%s\n", meta.SourceFormat)
	fmt.Fprintf(tw, "network:\t%s\n", meta.Network)
	if len(meta.Versions) > 0 {
		fmt.Fprintf(tw, "versions:\t%s\n", formatVersions(meta.Versions))
	}
	fmt.Fprintf(tw, "seed:\t%s\n", seedState(meta.Seed))
	if meta.Birthday > 0 {
		fmt.Fprintf(tw, "birthday:\t%d\n", meta.Birthday)
	}
	if len(meta.Trailer) > 0 {
		fmt.Fprintf(tw, "unparsed:\t%d bytes\n", len(meta.Trailer))
	}
	fmt.Fprintf(tw, "keys:\t%d\n", len(w.Keys))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "#\tKIND\tSTATE\tHD INDEX\tLABEL\tADDRESS")
	for i, k := range w.Keys {
		state := "view-only"
		switch {
		case k.Sealed():
			state = "locked"
		case k.CanSpend():
			state = "spendable"
		}
		index := "-"
		if v, ok := k.HDIndex.Get(); ok {
			index = fmt.Sprintf("%d", v)
		}
		addr, err := meta.Network.EncodeAddress(k.Address)
		if err != nil {
			addr = fmt.Sprintf("<%v>", err)
		}
		label := w.Label(i)
		if label == "" {
			label = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i, k.Kind, state, index, label, addr)
	}
	return tw.Flush()
}

// Dump writes the full structure, secret key material included.
func Dump(out io.Writer, w *wallet.Wallet) {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	cfg.Fdump(out, w)
}

func formatVersions(v map[string]uint64) string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, v[name]))
	}
	return strings.Join(parts, " ")
}

func seedState(s *wallet.HDSeed) string {
	switch {
	case s == nil:
		return "none"
	case s.Encrypted:
		return "encrypted"
	default:
		return "plaintext"
	}
}
