package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chris-regnier/plumb/internal/analyzer"
	"github.com/chris-regnier/plumb/internal/config"
	"github.com/chris-regnier/plumb/internal/evaluator"
	"github.com/chris-regnier/plumb/internal/input"
	"github.com/chris-regnier/plumb/internal/metrics"
	"github.com/chris-regnier/plumb/internal/output"
	"github.com/chris-regnier/plumb/internal/rules"
	"github.com/chris-regnier/plumb/internal/sarif"
	"github.com/chris-regnier/plumb/internal/store"
	"github.com/chris-regnier/plumb/internal/telemetry"
)

var (
	flagFiles      []string
	flagDiff       string
	flagDir        string
	flagFormat     string
	flagOutput     string
	flagPolicyDir  string
	flagStats      bool
	flagMetricsOut string
)

func init() {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze source files for structural-complexity findings",
		RunE:  runAnalyze,
	}

	analyzeCmd.Flags().StringSliceVar(&flagFiles, "files", nil, "Files to analyze")
	analyzeCmd.Flags().StringVar(&flagDiff, "diff", "", "Path to diff file (or - for stdin)")
	analyzeCmd.Flags().StringVar(&flagDir, "dir", "", "Directory to analyze")
	analyzeCmd.Flags().StringVar(&flagFormat, "format", "", "Output format: json, sarif, markdown, pretty")
	analyzeCmd.Flags().StringVar(&flagOutput, "output", ".plumb/results", "Output directory for results")
	analyzeCmd.Flags().StringVar(&flagPolicyDir, "policies", ".plumb/policy", "Directory containing .rego gate policies")
	analyzeCmd.Flags().BoolVar(&flagStats, "stats", false, "Include run statistics in the output")
	analyzeCmd.Flags().StringVar(&flagMetricsOut, "metrics-out", "", "Write a JSON metrics report to this path")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := context.Background()

	logger := output.SetupLogger(flagQuiet, flagVerbose, flagDebug, os.Stderr)
	slog.SetDefault(logger)

	machineConfig := os.ExpandEnv("$HOME/.config/plumb/config.yaml")
	cfg, err := config.LoadTiered(machineConfig, filepath.Join(".plumb", "config.yaml"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, version)
	if err != nil {
		logger.Warn("telemetry init failed", "err", err)
	} else {
		defer shutdown(ctx)
	}

	artifacts, inputScope, err := readInput(logger)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	disabled, severity := cfg.AnalyzerOverrides()
	a := analyzer.New(analyzer.Options{
		Disabled:  disabled,
		Severity:  severity,
		Collector: collector,
		Logger:    logger,
	})
	results, err := a.Analyze(ctx, artifacts)
	if err != nil {
		return fmt.Errorf("analyzing: %w", err)
	}

	sarifLog := sarif.NewAssembler("plumb", version).
		AddResults(results).
		AddRules(reportingDescriptors()).
		WithInputScope(inputScope).
		Build()

	fs := store.NewFileStore(flagOutput)
	id, err := fs.WriteSARIF(ctx, sarifLog)
	if err != nil {
		return fmt.Errorf("storing SARIF: %w", err)
	}
	logger.Info("stored analysis run", "id", id, "findings", len(results))

	eval, err := evaluator.NewEvaluator(flagPolicyDir)
	if err != nil {
		return fmt.Errorf("creating evaluator: %w", err)
	}
	verdict, err := eval.Evaluate(ctx, sarifLog)
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}
	if err := fs.WriteVerdict(ctx, id, verdict); err != nil {
		return fmt.Errorf("storing verdict: %w", err)
	}

	if flagMetricsOut != "" {
		if err := metrics.NewExporter(collector).ExportJSON(flagMetricsOut); err != nil {
			return fmt.Errorf("exporting metrics: %w", err)
		}
	}

	out := &output.AnalysisOutput{Verdict: verdict, SARIFLog: sarifLog}
	if flagStats {
		stats := collector.Stats()
		out.Stats = &stats
	}

	format := output.ResolveFormat(firstNonEmpty(flagFormat, cfg.Output.Format), stdoutIsTTY())
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}
	rendered, err := formatter.Format(out)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Println(string(rendered))

	if verdict.Decision == "reject" {
		return errRejected
	}
	return nil
}

func readInput(logger *slog.Logger) ([]input.Artifact, string, error) {
	h := input.NewHandler(logger)
	switch {
	case len(flagFiles) > 0:
		artifacts, err := h.ReadFiles(flagFiles)
		return artifacts, "files", err
	case flagDiff != "":
		var data []byte
		var err error
		if flagDiff == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(flagDiff)
		}
		if err != nil {
			return nil, "", err
		}
		artifacts, err := h.ReadDiff(string(data))
		return artifacts, "diff", err
	case flagDir != "":
		artifacts, err := h.ReadDirectory(flagDir)
		return artifacts, "directory", err
	default:
		return nil, "", fmt.Errorf("specify --files, --diff, or --dir")
	}
}

// reportingDescriptors converts the rule table into SARIF descriptors.
func reportingDescriptors() []sarif.ReportingDescriptor {
	var out []sarif.ReportingDescriptor
	for _, d := range rules.All() {
		out = append(out, sarif.ReportingDescriptor{
			ID:               string(d.ID),
			Name:             d.Title,
			ShortDescription: sarif.Message{Text: d.Title},
			FullDescription:  &sarif.Message{Text: d.Description},
			DefaultConfig: &sarif.ReportingConfiguration{
				Level:   string(d.Severity),
				Enabled: d.EnabledByDefault,
			},
		})
	}
	return out
}

func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
