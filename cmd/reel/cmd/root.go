package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/corey/reel/internal/app"
	"github.com/corey/reel/internal/config"
	"github.com/corey/reel/internal/logging"
)

var (
	configPath string
	logLevel   string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "reel — biomedical entity normalization",
	Long: "Links chemical and disease mentions to ChEBI, CTD-Chemicals or MEDIC concepts.\n" +
		"Candidates come from fuzzy matching; ppr_ic runs rank them over a disambiguation graph.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default reel.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// openApp loads configuration and wires the application. The returned
// function closes the match store and flushes the logger.
func openApp() (*app.App, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.New(cfg, log)
	if err != nil {
		log.Sync()
		return nil, nil, err
	}
	return a, func() {
		if err := a.Close(); err != nil {
			log.Warn("close match store", logging.Err(err))
		}
		log.Sync()
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
