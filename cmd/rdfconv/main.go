// Package main provides the rdfconv binary entry point. rdfconv converts RDF
// documents between N-Triples, Turtle, TriX, RDF/XML and JSON-LD.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfgraph/internal/config"
	"github.com/geoknoesis/rdfgraph/metrics"
	"github.com/geoknoesis/rdfgraph/rdf"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "rdfconv"
)

func main() {
	if err := rootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	stdout   io.Writer
	stderr   io.Writer
	config   *config.Config
	registry *rdf.Registry
	logger   *slog.Logger
	metrics  *metrics.Collector
	gatherer prometheus.Gatherer
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert RDF documents between serialization formats",
		Long: `rdfconv reads and writes RDF graphs as N-Triples, Turtle, TriX,
RDF/XML and JSON-LD.

Formats are inferred from file extensions unless --from or --to is given.
Namespaces and datatypes can be registered through rdfconv.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		convertCmd(a),
		batchCmd(a),
		watchCmd(a),
		validateCmd(a),
		formatsCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(a.stdout, "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	bootstrap := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: parseLevel(a.logLevel)}))
	cfg, err := config.NewLoader(bootstrap).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	a.config = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	a.registry = rdf.NewRegistry()
	if err := cfg.Apply(a.registry); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	a.metrics = collector
	a.gatherer = reg
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (a *app) options(extra ...rdf.Option) []rdf.Option {
	opts := append(a.config.Options(a.registry), rdf.OptLogger(a.logger))
	return append(opts, extra...)
}

// codec returns the instrumented codec for format.
func (a *app) codec(format rdf.Format, extra ...rdf.Option) (rdf.Codec, error) {
	codec, err := rdf.NewCodec(format, a.options(extra...)...)
	if err != nil {
		return nil, err
	}
	return a.metrics.Instrument(codec), nil
}

// resolveFormat picks the explicit flag value, then the path extension, then
// fallback.
func resolveFormat(flag, path string, fallback rdf.Format) (rdf.Format, error) {
	if flag != "" {
		format, ok := rdf.ParseFormat(flag)
		if !ok {
			return "", fmt.Errorf("%w: %q", rdf.ErrUnsupportedFormat, flag)
		}
		return format, nil
	}
	if path != "" && path != "-" {
		if format, err := rdf.FormatFromPath(path); err == nil {
			return format, nil
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("%w: cannot infer format of %q", rdf.ErrUnsupportedFormat, path)
	}
	return fallback, nil
}

func (a *app) defaultFormat() rdf.Format {
	format, _ := rdf.ParseFormat(a.config.DefaultFormat)
	return format
}
