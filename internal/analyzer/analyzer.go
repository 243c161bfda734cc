// Package analyzer is the host around the astcheck engine: it parses input
// artifacts with tree-sitter, dispatches the parsed trees to the checks,
// and converts the raw diagnostics into SARIF results using the rule
// descriptor table.
package analyzer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/chris-regnier/plumb/internal/astcheck"
	"github.com/chris-regnier/plumb/internal/input"
	"github.com/chris-regnier/plumb/internal/metrics"
	"github.com/chris-regnier/plumb/internal/rules"
	"github.com/chris-regnier/plumb/internal/sarif"
)

var tracer = otel.Tracer("github.com/chris-regnier/plumb/internal/analyzer")

const defaultWorkers = 4

// Options tunes one analyzer instance. Zero values mean: all rules at their
// default enablement and severity, no metrics, defaultWorkers goroutines.
type Options struct {
	// Disabled turns individual rules off.
	Disabled map[astcheck.RuleID]bool
	// Severity overrides a rule's default SARIF level.
	Severity map[astcheck.RuleID]rules.Severity
	// Collector receives per-file events when non-nil.
	Collector *metrics.Collector
	// Workers bounds concurrent file analysis.
	Workers int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type Analyzer struct {
	opts    Options
	engines map[string]*astcheck.Engine
	logger  *slog.Logger
}

// New builds an Analyzer with one check engine per supported language.
func New(opts Options) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engines := make(map[string]*astcheck.Engine)
	for _, lang := range astcheck.Languages() {
		syn, _ := astcheck.SyntaxFor(lang)
		engines[lang] = astcheck.NewEngine(syn)
	}
	return &Analyzer{opts: opts, engines: engines, logger: logger}
}

// Analyze checks every artifact and returns the combined SARIF results,
// sorted by file, location, and rule for stable output. Artifacts in
// unrecognized languages, or that fail to parse, are skipped with a log
// line; neither is an error.
func (a *Analyzer) Analyze(ctx context.Context, artifacts []input.Artifact) ([]sarif.Result, error) {
	ctx, span := tracer.Start(ctx, "analyze")
	defer span.End()
	span.SetAttributes(attribute.Int("plumb.artifacts", len(artifacts)))

	var (
		mu      sync.Mutex
		results []sarif.Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for _, art := range artifacts {
		g.Go(func() error {
			rs, err := a.analyzeFile(ctx, art)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, rs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	sortResults(results)
	span.SetAttributes(attribute.Int("plumb.findings", len(results)))
	return results, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, art input.Artifact) ([]sarif.Result, error) {
	ctx, span := tracer.Start(ctx, "analyze file")
	defer span.End()
	span.SetAttributes(attribute.String("plumb.path", art.Path))

	syn, ok := astcheck.Detect(art.Path)
	if !ok {
		a.logger.Debug("skipping file with unrecognized extension", "path", art.Path)
		return nil, nil
	}
	span.SetAttributes(attribute.String("plumb.language", syn.Name))

	source := []byte(art.Content)
	parser := sitter.NewParser()
	parser.SetLanguage(syn.Language)

	parseStart := time.Now()
	tree, err := parser.ParseCtx(ctx, nil, source)
	parseDur := time.Since(parseStart)
	if err != nil || tree == nil {
		a.logger.Warn("skipping unparseable file", "path", art.Path, "err", err)
		return nil, nil
	}
	defer tree.Close()

	checkStart := time.Now()
	diags := a.engines[syn.Name].CheckFile(tree, source)
	checkDur := time.Since(checkStart)

	if a.opts.Collector != nil {
		a.opts.Collector.Record(metrics.FileEvent{
			Path:          art.Path,
			Language:      syn.Name,
			Bytes:         len(source),
			ParseDuration: parseDur,
			CheckDuration: checkDur,
			Findings:      countByRule(diags),
		})
	}

	return a.toResults(art.Path, diags), nil
}

// toResults renders diagnostics through the descriptor table, dropping
// disabled rules and applying severity overrides.
func (a *Analyzer) toResults(path string, diags []astcheck.Diagnostic) []sarif.Result {
	var out []sarif.Result
	for _, d := range diags {
		desc, ok := rules.Get(d.Rule)
		if !ok {
			continue
		}
		enabled := desc.EnabledByDefault
		if disabled, set := a.opts.Disabled[d.Rule]; set {
			enabled = !disabled
		}
		if !enabled {
			continue
		}
		level := desc.Severity
		if override, set := a.opts.Severity[d.Rule]; set {
			level = override
		}

		out = append(out, sarif.Result{
			RuleID:  string(d.Rule),
			Level:   string(level),
			Message: sarif.Message{Text: desc.Message(d.Args)},
			Locations: []sarif.Location{{
				PhysicalLocation: sarif.PhysicalLocation{
					ArtifactLocation: sarif.ArtifactLocation{URI: path},
					Region: sarif.Region{
						StartLine:   d.Span.StartLine,
						StartColumn: d.Span.StartCol,
						EndLine:     d.Span.EndLine,
						EndColumn:   d.Span.EndCol,
					},
				},
			}},
			Properties: map[string]any{
				"plumb/category": string(desc.Category),
			},
		})
	}
	return out
}

func countByRule(diags []astcheck.Diagnostic) map[string]int {
	counts := make(map[string]int)
	for _, d := range diags {
		counts[string(d.Rule)]++
	}
	return counts
}

func sortResults(results []sarif.Result) {
	sort.Slice(results, func(i, j int) bool {
		ki, kj := sortKey(results[i]), sortKey(results[j])
		if ki.uri != kj.uri {
			return ki.uri < kj.uri
		}
		if ki.line != kj.line {
			return ki.line < kj.line
		}
		if ki.col != kj.col {
			return ki.col < kj.col
		}
		return results[i].RuleID < results[j].RuleID
	})
}

type key struct {
	uri  string
	line int
	col  int
}

func sortKey(r sarif.Result) key {
	if len(r.Locations) == 0 {
		return key{}
	}
	loc := r.Locations[0].PhysicalLocation
	return key{uri: loc.ArtifactLocation.URI, line: loc.Region.StartLine, col: loc.Region.StartColumn}
}
