// Package commands implements the axeline CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/axeline/axeline/pkg/config"
	"github.com/axeline/axeline/pkg/engine"
	"github.com/axeline/axeline/pkg/metadata"
	"github.com/axeline/axeline/pkg/observability"
	"github.com/axeline/axeline/pkg/resolved"
	"github.com/axeline/axeline/pkg/ruledsl"
	"github.com/axeline/axeline/pkg/rules"
	"github.com/axeline/axeline/pkg/version"
)

// Sentinel errors for the analyze command.
var (
	ErrNoFilesSpecified = errors.New("no files specified for analysis")
	ErrViolationsFound  = errors.New("accessibility violations found")
)

// NewAnalyzeCommand creates the analyze subcommand.
func NewAnalyzeCommand() *cobra.Command {
	var (
		configPath string
		format     string
		failOn     string
	)

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze resolved widget-construction dumps",
		Long: `Analyze one or more resolved-dump files produced by the host
frontend and report accessibility violations.

Examples:
  axeline analyze login_screen.json          # Analyze a single dump
  axeline analyze screens/*.json             # Analyze many dumps
  axeline analyze -f json screens/*.json     # Machine-readable output
  axeline analyze --fail-on error *.json     # Nonzero exit on errors only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args, configPath, format, failOn)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().StringVar(&failOn, "fail-on", "warning", "minimum severity for a nonzero exit (error, warning, info)")

	return cmd
}

func runAnalyze(ctx context.Context, files []string, configPath, format, failOn string) error {
	if len(files) == 0 {
		return ErrNoFilesSpecified
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := providers.Shutdown(ctx); shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", slog.Any("error", shutdownErr))
		}
	}()

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	ruleSet, err := buildRuleSet(cfg, providers.Logger)
	if err != nil {
		return err
	}

	metrics, err := observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		return err
	}

	eng := engine.New(table, ruleSet,
		engine.WithTracer(providers.Tracer),
		engine.WithMetrics(metrics),
		engine.WithLogger(providers.Logger),
	)

	inputs, err := loadInputs(files, providers.Logger)
	if err != nil {
		return err
	}

	results := engine.NewRunner(eng, cfg.Analysis.Workers).Run(ctx, inputs)

	return report(results, format, failOn)
}

func initObservability(cfg *config.Config) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogLevel = parseLogLevel(cfg.Logging.Level)

	return observability.Init(obsCfg)
}

func parseLogLevel(name string) slog.Level {
	switch name {
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

func loadTable(cfg *config.Config) (*metadata.Table, error) {
	if cfg.Analysis.MetadataPath == "" {
		return metadata.Default(), nil
	}

	return metadata.LoadFile(cfg.Analysis.MetadataPath)
}

// buildRuleSet assembles built-in rules with configured overrides, then
// appends any declarative pack.
func buildRuleSet(cfg *config.Config, logger *slog.Logger) ([]*rules.Rule, error) {
	ruleSet := rules.Conservative()

	heuristics := rules.DefaultHeuristics()
	config.ApplyThresholds(cfg.Rules, heuristics)

	for _, h := range heuristics {
		ruleSet = append(ruleSet, h.Rule())
	}

	if cfg.Rules.PackDir != "" {
		pack, err := ruledsl.LoadPack(cfg.Rules.PackDir)
		if err != nil {
			return nil, err
		}

		for _, diag := range pack.Diagnostics {
			logger.Warn("skipped rule file", slog.String("diagnostic", diag.String()))
		}

		ruleSet = append(ruleSet, pack.Rules...)
	}

	config.ApplySeverities(cfg.Rules, ruleSet)

	return config.SelectRules(cfg.Rules, ruleSet), nil
}

func loadInputs(files []string, logger *slog.Logger) ([]engine.Input, error) {
	inputs := make([]engine.Input, 0, len(files))

	for _, path := range files {
		doc, err := resolved.LoadDocument(path)
		if err != nil {
			logger.Warn("skipping unreadable dump", slog.String("file", path), slog.Any("error", err))

			continue
		}

		file := doc.File
		if file == "" {
			file = path
		}

		inputs = append(inputs, engine.Input{
			File:     file,
			Root:     doc.Root,
			Eval:     doc.Evaluator(),
			Resolver: doc.Resolver(),
		})
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: none of the given files were readable", ErrNoFilesSpecified)
	}

	return inputs, nil
}

func report(results []engine.Result, format, failOn string) error {
	failed, err := renderResults(os.Stdout, results, format, failOn)
	if err != nil {
		return err
	}

	if failed {
		return ErrViolationsFound
	}

	return nil
}
