package output

import (
	"encoding/json"
	"fmt"

	"github.com/chris-regnier/plumb/internal/metrics"
	"github.com/chris-regnier/plumb/internal/store"
)

// JSONFormatter renders the verdict (and stats, when collected) as indented
// JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(result *AnalysisOutput) ([]byte, error) {
	if result == nil || result.Verdict == nil {
		return nil, fmt.Errorf("json formatter: verdict is required")
	}

	doc := struct {
		Verdict *store.Verdict          `json:"verdict"`
		Stats   *metrics.AggregateStats `json:"stats,omitempty"`
	}{
		Verdict: result.Verdict,
		Stats:   result.Stats,
	}
	return json.MarshalIndent(doc, "", "  ")
}
