package main

import (
	"github.com/danmuck/zwalletctl/internal/config"
	"github.com/danmuck/zwalletctl/internal/formats"
	"github.com/danmuck/zwalletctl/internal/formats/builtin"
	"github.com/danmuck/zwalletctl/internal/logging"
	"github.com/danmuck/zwalletctl/internal/sapling"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is the state shared by subcommands once the root pre-run has loaded configuration.
type app struct {
	configPath string
	logLevel   string

	cfg      config.Config
	registry *formats.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "zwalletctl",
		Short: "Convert shielded wallet files between applications",
		Long: `zwalletctl reads a wallet file written by one shielded wallet application and
rewrites its keys in another application's format.

Examples:
  zwalletctl inspect --from zwl zecwallet-light-wallet.dat
  zwalletctl convert --from zwl --in zecwallet-light-wallet.dat --to ywallet --out zec.db --unlock
  zwalletctl formats`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a zwalletctl.toml file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error, off)")

	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newFormatsCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

func (a *app) setup() error {
	logging.ConfigureRuntime()
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	logging.SetLevel(level)

	a.cfg = cfg
	a.registry = builtin.Default(formats.Options{
		Deriver: sapling.FingerprintDeriver{},
		Limits:  cfg.Limits(),
		Network: cfg.Network,
		Logger:  log.Logger,
	})
	return nil
}
