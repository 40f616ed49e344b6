package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/arloliu/partab"
	"github.com/arloliu/partab/metrics"
	"github.com/arloliu/partab/table"
)

// cli carries the state shared by every subcommand once the root has parsed its
// persistent flags.
type cli struct {
	configPath string
	logLevel   string

	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.PrometheusCollector
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "partab",
		Short:        "Inspect, convert and benchmark partition table checkpoints",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newInspectCmd(c),
		newConvertCmd(c),
		newBenchCmd(c),
	)

	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	c.registry = prometheus.NewRegistry()
	c.metrics = metrics.NewPrometheus(c.registry, "partab")

	return nil
}

// tableOptions wires the CLI logger and metrics into every table it builds.
func (c *cli) tableOptions(name string) []table.Option {
	return []table.Option{
		partab.WithLogger(partab.NewSlogLogger(c.logger)),
		partab.WithMetrics(c.metrics),
		partab.WithName(name),
	}
}
