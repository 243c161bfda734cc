package store

import (
	"context"

	"github.com/chris-regnier/plumb/internal/sarif"
)

// Verdict is the policy gate's decision over one analysis run.
type Verdict struct {
	Decision         string         `json:"decision"`
	Reason           string         `json:"reason"`
	RelevantFindings []sarif.Result `json:"relevant_findings,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type Store interface {
	WriteSARIF(ctx context.Context, doc *sarif.Log) (string, error)
	WriteVerdict(ctx context.Context, sarifID string, verdict *Verdict) error
	ReadSARIF(ctx context.Context, id string) (*sarif.Log, error)
	ReadVerdict(ctx context.Context, sarifID string) (*Verdict, error)
	List(ctx context.Context) ([]string, error)
}
