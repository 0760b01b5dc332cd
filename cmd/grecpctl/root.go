package main

import (
	"fmt"

	"github.com/danmuck/grecp/internal/config"
	"github.com/danmuck/grecp/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type globalOptions struct {
	configPath      string
	envFile         string
	protocols       []string
	payloadOnly     bool
	strict          bool
	maxPayloadBytes int
	logLevel        string
	metricsTextfile string

	cfg config.Config
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "grecpctl",
		Short:         "Decode, build and serve GRE Control Protocol messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.Flags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	flags.StringVar(&opts.envFile, "env-file", "", "Load GRECP_* variables from a dotenv file")
	flags.StringSliceVar(&opts.protocols, "proto", nil, "GRE protocol types to accept (observed, documented, any, or a number)")
	flags.BoolVar(&opts.payloadOnly, "payload-only", false, "Input is GRECP payload without a GRE header")
	flags.BoolVar(&opts.strict, "strict", false, "Validate required attributes per message type")
	flags.IntVar(&opts.maxPayloadBytes, "max-payload-bytes", 0, "Largest GRE payload accepted")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	flags.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write metrics to this node exporter textfile on exit")

	cmd.AddCommand(
		newDecodeCommand(opts),
		newServeCommand(opts),
		newBuildCommand(opts),
		newConfigCommand(),
	)
	return cmd
}

// load resolves the effective config: defaults, file, environment, then
// flags that were set explicitly.
func (o *globalOptions) load(flags *pflag.FlagSet) error {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if flags.Changed("proto") {
		cfg.Protocols = o.protocols
	}
	if flags.Changed("payload-only") {
		cfg.PayloadOnly = o.payloadOnly
	}
	if flags.Changed("strict") {
		cfg.Strict = o.strict
	}
	if flags.Changed("max-payload-bytes") {
		cfg.MaxPayloadBytes = o.maxPayloadBytes
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile = o.metricsTextfile
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	o.cfg = cfg
	return nil
}

func newConfigCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage grecpctl configuration files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write a config file with default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(args[0], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
