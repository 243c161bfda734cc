package output

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/chris-regnier/plumb/internal/sarif"
)

var (
	fileHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	lineRefStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	warningBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	noteBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	verdictStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)
)

// PrettyFormatter renders analysis output as colored, human-readable
// terminal output: findings grouped by file with syntax-highlighted source
// snippets, then the verdict.
type PrettyFormatter struct{}

func (f *PrettyFormatter) Format(result *AnalysisOutput) ([]byte, error) {
	if result == nil || result.Verdict == nil || result.SARIFLog == nil {
		return nil, fmt.Errorf("pretty formatter: verdict and SARIF log are required")
	}

	var b strings.Builder

	results := allResults(result.SARIFLog)
	byFile := make(map[string][]sarif.Result)
	for _, r := range results {
		byFile[resultFilePath(r)] = append(byFile[resultFilePath(r)], r)
	}
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		b.WriteString(fileHeaderStyle.Render(file))
		b.WriteString("\n")
		lines := sourceLines(file)
		for _, r := range byFile[file] {
			writeFinding(&b, r, file, lines)
		}
		b.WriteString("\n")
	}

	if len(results) == 0 {
		b.WriteString("No findings.\n\n")
	}

	b.WriteString(renderVerdict(result.Verdict.Decision))
	b.WriteString(" ")
	b.WriteString(result.Verdict.Reason)
	b.WriteString("\n")

	if result.Stats != nil {
		fmt.Fprintf(&b, "%d files, %d findings (parse %s, check %s)\n",
			result.Stats.Files, result.Stats.TotalFindings,
			result.Stats.ParseTime.Round(1e6), result.Stats.CheckTime.Round(1e6))
	}

	return []byte(b.String()), nil
}

func writeFinding(b *strings.Builder, r sarif.Result, file string, lines []string) {
	line := 0
	if len(r.Locations) > 0 {
		line = r.Locations[0].PhysicalLocation.Region.StartLine
	}

	fmt.Fprintf(b, "  %s %s %s %s\n",
		lineRefStyle.Render(fmt.Sprintf("%4d", line)),
		severityBadge(r.Level),
		r.Message.Text,
		ruleStyle.Render("["+r.RuleID+"]"),
	)

	if line >= 1 && line <= len(lines) {
		snippet := highlight(file, lines[line-1])
		fmt.Fprintf(b, "       %s\n", strings.TrimRight(snippet, "\n"))
	}
}

func severityBadge(level string) string {
	switch level {
	case "error":
		return errorBadge.Render("error")
	case "warning":
		return warningBadge.Render("warning")
	default:
		return noteBadge.Render("note")
	}
}

func renderVerdict(decision string) string {
	switch decision {
	case "merge":
		return verdictStyle.Background(lipgloss.Color("28")).Render("MERGE")
	case "reject":
		return verdictStyle.Background(lipgloss.Color("124")).Render("REJECT")
	default:
		return verdictStyle.Background(lipgloss.Color("172")).Render("REVIEW")
	}
}

// sourceLines reads the file's lines for snippet display. Diff artifacts and
// deleted files simply yield no snippet.
func sourceLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}

// highlight runs one source line through chroma for the file's language.
func highlight(path, line string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return line
	}
	return buf.String()
}
