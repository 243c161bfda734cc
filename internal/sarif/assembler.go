package sarif

import "fmt"

// Assembler builds a SARIF log from results, rule descriptors, and run
// metadata.
type Assembler struct {
	toolName    string
	toolVersion string
	results     []Result
	rules       []ReportingDescriptor
	inputScope  string
}

// NewAssembler creates an Assembler for the given tool identity.
func NewAssembler(toolName, toolVersion string) *Assembler {
	return &Assembler{
		toolName:    toolName,
		toolVersion: toolVersion,
		results:     []Result{},
		rules:       []ReportingDescriptor{},
	}
}

// AddResults appends results to the log under construction.
func (a *Assembler) AddResults(results []Result) *Assembler {
	a.results = append(a.results, results...)
	return a
}

// AddRules appends reporting descriptors to the tool driver.
func (a *Assembler) AddRules(rules []ReportingDescriptor) *Assembler {
	a.rules = append(a.rules, rules...)
	return a
}

// WithInputScope records how the inputs were selected (files, directory, diff).
func (a *Assembler) WithInputScope(scope string) *Assembler {
	a.inputScope = scope
	return a
}

// Build constructs the final log. Duplicate results (same rule, location,
// and message) are collapsed to one.
func (a *Assembler) Build() *Log {
	log := NewLog(a.toolName, a.toolVersion)
	log.Runs[0].Tool.Driver.Rules = a.rules
	log.Runs[0].Results = dedup(a.results)

	if a.inputScope != "" {
		log.Runs[0].Properties = map[string]any{
			"plumb/inputScope": a.inputScope,
		}
	}
	return log
}

func dedup(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		key := resultKey(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func resultKey(r Result) string {
	uri := ""
	line := 0
	col := 0
	if len(r.Locations) > 0 {
		loc := r.Locations[0].PhysicalLocation
		uri = loc.ArtifactLocation.URI
		line = loc.Region.StartLine
		col = loc.Region.StartColumn
	}
	return fmt.Sprintf("%s|%s|%d|%d|%s", r.RuleID, uri, line, col, r.Message.Text)
}
