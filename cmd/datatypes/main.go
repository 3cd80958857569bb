package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datatypes/pkg/config"
	"github.com/ajitpratap0/datatypes/pkg/logger"
	"github.com/ajitpratap0/datatypes/pkg/metrics"
	"github.com/ajitpratap0/datatypes/pkg/observability"
)

var version = "0.1.0"

// app carries state shared by all commands
type app struct {
	configFile string
	logLevel   string
	output     string

	cfg      *config.Config
	shutdown func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	// teardown also runs after failed commands
	if terr := a.teardown(); err == nil {
		err = terr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "datatypes",
		Short: "Table data-type fixtures, checks and conversions",
		Long: `datatypes holds example tables in every supported machine representation
(mtype), together with a flag saying whether each representation loses
information. It checks and converts the examples, verifies that conversions
reproduce the registered fixtures and exports the fixtures to files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "Output format (text, json)")

	root.AddCommand(
		a.versionCmd(),
		a.mtypesCmd(),
		a.listCmd(),
		a.showCmd(),
		a.checkCmd(),
		a.convertCmd(),
		a.verifyCmd(),
		a.exportCmd(),
		a.configCmd(),
	)
	return root, a
}

// setup loads the configuration and starts logging and tracing
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.output != "text" && a.output != "json" {
		return fmt.Errorf("unsupported output format %q", a.output)
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg.Tracing.ServiceVersion = version
	shutdown, err := observability.InitTracing(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.shutdown = shutdown

	logger.Debug("configuration loaded",
		zap.String("config", a.configFile),
		zap.String("command", cmd.Name()))
	return nil
}

// teardown flushes traces and writes the metrics textfile. It is safe to
// call when setup did not run.
func (a *app) teardown() error {
	defer func() { _ = logger.Sync() }()

	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			logger.Warn("failed to shut down tracing", zap.Error(err))
		}
		a.shutdown = nil
	}
	if a.cfg != nil && a.cfg.Metrics.Enabled {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info("metrics written", zap.String("path", a.cfg.Metrics.Textfile))
	}
	return nil
}
