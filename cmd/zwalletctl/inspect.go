package main

import (
	"github.com/danmuck/zwalletctl/internal/convert"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		from string
		dump bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a wallet file and print its keys",
		Long: `Parse a wallet file and print a summary of its keys. No secret material is printed
unless --dump is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				from = a.cfg.DefaultFrom
			}
			raw, err := convert.ReadFile(args[0])
			if err != nil {
				return err
			}
			c := convert.New(a.registry, a.converterOptions()...)
			w, err := c.Parse(from, raw)
			if err != nil {
				return err
			}
			if dump {
				convert.Dump(cmd.OutOrStdout(), w)
				return nil
			}
			return convert.Summary(cmd.OutOrStdout(), w)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source format id (default from config)")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the full structure, including secret key material")
	return cmd
}
