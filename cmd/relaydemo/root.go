package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/relaycore/relay/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "relaydemo",
	Short: "Demo application for the relay notification dispatch core",
	Long: `relaydemo wires a small scoreboard application through relay:
a JSON proxy holds the scores, a mediator prints updates, and commands
mutate the proxy in response to notifications. It demonstrates macro
commands, Lua-scripted commands, live TOML config reload, and
Prometheus metrics export.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "relay.toml", "path to TOML config file")
	rootCmd.AddCommand(runCmd)
}

// newLogger builds a zerolog logger from the loaded configuration.
func newLogger(cfg config.Config) zerolog.Logger {
	var log zerolog.Logger
	if cfg.Logging.Format == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	log = log.With().Timestamp().Logger()

	switch cfg.Logging.Level {
	case "trace":
		return log.Level(zerolog.TraceLevel)
	case "debug":
		return log.Level(zerolog.DebugLevel)
	case "warn":
		return log.Level(zerolog.WarnLevel)
	case "error":
		return log.Level(zerolog.ErrorLevel)
	case "off":
		return zerolog.Nop()
	default:
		return log.Level(zerolog.InfoLevel)
	}
}
