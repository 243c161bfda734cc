package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chris-regnier/plumb/internal/sarif"
)

// MarkdownFormatter renders analysis output as GitHub-Flavored Markdown
// suitable for PR comments: a verdict banner, a per-rule summary table, and
// findings grouped by file under collapsible sections.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(result *AnalysisOutput) ([]byte, error) {
	if result == nil || result.Verdict == nil || result.SARIFLog == nil {
		return nil, fmt.Errorf("markdown formatter: verdict and SARIF log are required")
	}

	var b strings.Builder
	b.WriteString("## plumb analysis\n\n")
	b.WriteString(decisionBanner(result.Verdict.Decision))
	b.WriteString("\n\n")
	b.WriteString(result.Verdict.Reason)
	b.WriteString("\n\n")

	results := allResults(result.SARIFLog)
	if len(results) == 0 {
		b.WriteString("No findings.\n")
		return []byte(b.String()), nil
	}

	writeSummaryTable(&b, results)
	writeFindingsByFile(&b, results)

	if result.Stats != nil {
		fmt.Fprintf(&b, "\n_%d files analyzed, %d findings._\n",
			result.Stats.Files, result.Stats.TotalFindings)
	}

	return []byte(b.String()), nil
}

func allResults(log *sarif.Log) []sarif.Result {
	var out []sarif.Result
	for _, run := range log.Runs {
		out = append(out, run.Results...)
	}
	return out
}

func writeSummaryTable(b *strings.Builder, results []sarif.Result) {
	type ruleCount struct {
		rule  string
		level string
		n     int
	}
	byRule := make(map[string]*ruleCount)
	for _, r := range results {
		rc, ok := byRule[r.RuleID]
		if !ok {
			rc = &ruleCount{rule: r.RuleID, level: r.Level}
			byRule[r.RuleID] = rc
		}
		rc.n++
	}

	counts := make([]*ruleCount, 0, len(byRule))
	for _, rc := range byRule {
		counts = append(counts, rc)
	}
	sort.Slice(counts, func(i, j int) bool {
		pi, pj := severityPriority(counts[i].level), severityPriority(counts[j].level)
		if pi != pj {
			return pi < pj
		}
		return counts[i].rule < counts[j].rule
	})

	b.WriteString("| Rule | Severity | Findings |\n|---|---|---|\n")
	for _, rc := range counts {
		fmt.Fprintf(b, "| `%s` | %s %s | %d |\n", rc.rule, severityEmoji(rc.level), rc.level, rc.n)
	}
	b.WriteString("\n")
}

func writeFindingsByFile(b *strings.Builder, results []sarif.Result) {
	byFile := make(map[string][]sarif.Result)
	for _, r := range results {
		byFile[resultFilePath(r)] = append(byFile[resultFilePath(r)], r)
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintf(b, "<details>\n<summary><code>%s</code> (%d)</summary>\n\n", file, len(byFile[file]))
		for _, r := range byFile[file] {
			fmt.Fprintf(b, "- %s **%s** (line %s): %s\n",
				severityEmoji(r.Level), r.RuleID, resultLineRange(r), r.Message.Text)
		}
		b.WriteString("\n</details>\n")
	}
}

// severityPriority returns a sort priority for SARIF severity levels.
// Lower values sort first: error (0) > warning (1) > note (2).
func severityPriority(level string) int {
	switch level {
	case "error":
		return 0
	case "warning":
		return 1
	case "note":
		return 2
	default:
		return 3
	}
}

// severityEmoji returns the GitHub emoji shortcode for a SARIF severity level.
func severityEmoji(level string) string {
	switch level {
	case "error":
		return ":red_circle:"
	case "warning":
		return ":warning:"
	case "note":
		return ":information_source:"
	default:
		return ":grey_question:"
	}
}

// decisionBanner returns the emoji + text for a verdict decision.
func decisionBanner(decision string) string {
	switch decision {
	case "merge":
		return ":white_check_mark: **Merge**"
	case "reject":
		return ":x: **Reject**"
	case "review":
		return ":warning: **Review Required**"
	default:
		return decision
	}
}

// resultFilePath extracts the file URI from the first location of a result.
func resultFilePath(r sarif.Result) string {
	if len(r.Locations) > 0 {
		return r.Locations[0].PhysicalLocation.ArtifactLocation.URI
	}
	return ""
}

// resultLineRange returns a human-readable line range string (e.g. "42" or
// "10-75").
func resultLineRange(r sarif.Result) string {
	if len(r.Locations) == 0 {
		return ""
	}
	region := r.Locations[0].PhysicalLocation.Region
	if region.StartLine == 0 {
		return ""
	}
	if region.EndLine == 0 || region.EndLine == region.StartLine {
		return fmt.Sprintf("%d", region.StartLine)
	}
	return fmt.Sprintf("%d-%d", region.StartLine, region.EndLine)
}
