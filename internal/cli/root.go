// Package cli implements the cpusim command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/internal/logging"
	"github.com/me/cpusim/internal/runner"
	"github.com/me/cpusim/internal/telemetry"
)

var (
	flagServer    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string
	flagOTLP      string

	logger   *slog.Logger
	client   *Client // nil when simulating locally
	defaults config.SimulationConfig
	shutdown telemetry.ShutdownFunc
)

// NewRootCmd creates the root cobra command for the cpusim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cpusim",
		Short: "cpusim: single-CPU scheduling and paging simulator",
		Long: "cpusim replays FIFO, SJF, Round-Robin and EDF scheduling tick by tick,\n" +
			"with context-switch overhead and FIFO/LRU page residency.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)
			defaults = config.DefaultSimulationConfig()
			client = nil
			if flagServer != "" {
				client = NewClient(flagServer, logger)
			}

			tcfg := config.DefaultTelemetryConfig()
			if flagOTLP != "" {
				tcfg.OTLPEndpoint = flagOTLP
			}
			var err error
			shutdown, err = telemetry.Init(commandContext(cmd), tcfg, logger)
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(context.Background())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", os.Getenv(config.EnvServer), "cpusim server URL; simulate locally when empty (or "+config.EnvServer+" env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().StringVar(&flagOTLP, "otlp-endpoint", "", "OTLP gRPC endpoint for traces (or "+config.EnvOTLPEndpoint+" env)")

	root.AddCommand(
		newSimulateCmd(),
		newReplayCmd(),
		newCompareCmd(),
		newWatchCmd(),
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
	)

	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newRunner() *runner.Runner {
	return runner.New(logger, defaults)
}

// requireServer fails commands that only make sense against a server.
func requireServer() error {
	if client == nil {
		return fmt.Errorf("this command needs a server: pass --server or set %s", config.EnvServer)
	}
	return nil
}
