// Package output provides formatters for rendering plumb analysis results
// in different output formats (JSON, SARIF, Markdown, pretty terminal).
package output

import (
	"fmt"

	"github.com/chris-regnier/plumb/internal/metrics"
	"github.com/chris-regnier/plumb/internal/sarif"
	"github.com/chris-regnier/plumb/internal/store"
)

// Formatter renders an AnalysisOutput into a byte slice in a specific format.
type Formatter interface {
	Format(result *AnalysisOutput) ([]byte, error)
}

// AnalysisOutput holds the complete results of a plumb analysis run: the
// policy verdict, the SARIF log, and optional run statistics.
type AnalysisOutput struct {
	Verdict  *store.Verdict
	SARIFLog *sarif.Log
	Stats    *metrics.AggregateStats // nil unless --stats
}

// ResolveFormat determines the output format to use. An explicit choice wins;
// otherwise "pretty" for TTY output and "json" for piped output.
func ResolveFormat(choice string, stdoutIsTTY bool) string {
	if choice != "" {
		return choice
	}
	if stdoutIsTTY {
		return "pretty"
	}
	return "json"
}

// NewFormatter returns a Formatter for the given format name.
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "json":
		return &JSONFormatter{}, nil
	case "sarif":
		return &SARIFFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "pretty":
		return &PrettyFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q (supported: json, sarif, markdown, pretty)", format)
	}
}
