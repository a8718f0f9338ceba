package main

import (
	"fmt"
	"os"

	"github.com/danmuck/zwalletctl/internal/convert"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		from, to string
		in, out  string
		unlock   bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rewrite a wallet file in another application's format",
		Long: `Rewrite a wallet file in another application's format.

Encrypted keys can only be written to formats that store them encrypted. Pass --unlock to be
prompted for the wallet password and write plaintext keys instead.

Examples:
  zwalletctl convert --from zwl --in zecwallet-light-wallet.dat --to portable
  zwalletctl convert --from zwl --in zecwallet-light-wallet.dat --to ywallet --out zec.db --unlock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				from = a.cfg.DefaultFrom
			}
			if to == "" {
				to = a.cfg.DefaultTo
			}
			dst, err := a.registry.Resolve(to)
			if err != nil {
				return err
			}
			if out == "" {
				out = dst.Metadata().DefaultFile
			}
			if !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("output already exists: %s (use --force to overwrite)", out)
				}
			}

			raw, err := convert.ReadFile(in)
			if err != nil {
				return err
			}
			opts := a.converterOptions()
			if unlock {
				password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer clear(password)
				opts = append(opts, convert.WithPassword(password))
			}

			data, w, err := convert.New(a.registry, opts...).Convert(from, raw, to)
			if err != nil {
				return err
			}
			if err := convert.WriteFile(out, data); err != nil {
				return err
			}
			log.Info().Str("out", out).Msg("wallet written")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d keys to %s (%s)\n", len(w.Keys), out, dst.Metadata().ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source format id (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "destination format id (default from config)")
	cmd.Flags().StringVar(&in, "in", "", "source wallet file")
	cmd.Flags().StringVar(&out, "out", "", "destination file (default: the format's usual file name)")
	cmd.Flags().BoolVar(&unlock, "unlock", false, "prompt for the wallet password and decrypt keys")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func (a *app) converterOptions() []convert.Option {
	return []convert.Option{
		convert.WithLogger(log.Logger),
		convert.WithStrictHDIndex(a.cfg.StrictHDIndex),
	}
}
