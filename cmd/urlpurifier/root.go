package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aleister1102/urlpurifier/internal/common/errorwrapper"
	"github.com/aleister1102/urlpurifier/internal/config"
	"github.com/aleister1102/urlpurifier/internal/logger"
)

// Version is set at build time via -ldflags.
var Version = "v0.1.0-dev"

// app carries state shared by all subcommands of one invocation
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	verbose bool

	cfg    *config.GlobalConfig
	log    *logger.Logger
	logger zerolog.Logger
}

// NewRootCmd creates the root command. Cleaned output goes to stdout; everything else goes to stderr.
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "urlpurifier",
		Short: "Strip tracking parameters from URLs",
		Long: `urlpurifier removes tracking query parameters (utm_*, fbclid, gclid and friends)
from URLs, one per line, and can canonicalize Amazon product links to /dp/ASIN.

Lines that are not URLs are passed through unchanged, so output always has
one line per input line.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.log != nil {
				return a.log.Close()
			}
			return nil
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Configuration file path (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.AddCommand(newCleanCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newBlocklistCmd(a))

	return rootCmd
}

// setup loads and validates configuration and builds the logger
func (a *app) setup() error {
	cfg, err := config.LoadGlobalConfig(a.cfgFile)
	if err != nil {
		return errorwrapper.WrapError(err, "could not load config")
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, err.Error())
	}
	a.cfg = cfg

	builder := logger.NewLoggerBuilder().
		WithConfig(cfg.LogConfig).
		WithConsoleOutput(a.stderr)
	if a.verbose {
		builder = builder.WithLevel(zerolog.DebugLevel)
	}
	log, err := builder.Build()
	if err != nil {
		return errorwrapper.WrapError(err, "could not initialize logger")
	}
	a.log = log
	a.logger = *log.GetZerolog()
	return nil
}
