package analyzer

import (
	"context"
	"sort"
	"testing"

	"github.com/chris-regnier/plumb/internal/astcheck"
	"github.com/chris-regnier/plumb/internal/input"
	"github.com/chris-regnier/plumb/internal/metrics"
	"github.com/chris-regnier/plumb/internal/rules"
	"github.com/chris-regnier/plumb/internal/sarif"
)

const goFixture = `package main

func wide(a, b, c, d int) int {
	x := 1
	return a + b + c + d
}
`

func ruleIDs(results []sarif.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.RuleID
	}
	return out
}

func TestAnalyzeGoFile(t *testing.T) {
	a := New(Options{})
	results, err := a.Analyze(context.Background(), []input.Artifact{
		{Path: "main.go", Content: goFixture},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	got := ruleIDs(results)
	if len(got) != 2 {
		t.Fatalf("results = %v, want [param-count unused-local] in some order", got)
	}

	for _, r := range results {
		switch r.RuleID {
		case "param-count":
			if r.Level != "note" {
				t.Errorf("param-count level = %q, want note", r.Level)
			}
		case "unused-local":
			if r.Level != "warning" {
				t.Errorf("unused-local level = %q, want warning", r.Level)
			}
			if r.Message.Text != "local variable 'x' is declared but never read" {
				t.Errorf("message = %q", r.Message.Text)
			}
		default:
			t.Errorf("unexpected rule %q", r.RuleID)
		}

		loc := r.Locations[0].PhysicalLocation
		if loc.ArtifactLocation.URI != "main.go" {
			t.Errorf("URI = %q, want main.go", loc.ArtifactLocation.URI)
		}
		if loc.Region.StartLine == 0 {
			t.Errorf("result %s has no line", r.RuleID)
		}
		if r.Properties["plumb/category"] == "" {
			t.Errorf("result %s has no category property", r.RuleID)
		}
	}
}

func TestAnalyzeSkipsUnknownAndUnparseable(t *testing.T) {
	a := New(Options{})
	results, err := a.Analyze(context.Background(), []input.Artifact{
		{Path: "notes.txt", Content: "not code"},
		{Path: "weird.py", Content: "def f(): pass"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none for unrecognized files", ruleIDs(results))
	}
}

func TestAnalyzeDisabledRule(t *testing.T) {
	a := New(Options{
		Disabled: map[astcheck.RuleID]bool{astcheck.RuleParamCount: true},
	})
	results, err := a.Analyze(context.Background(), []input.Artifact{
		{Path: "main.go", Content: goFixture},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, r := range results {
		if r.RuleID == "param-count" {
			t.Errorf("disabled rule still reported: %+v", r)
		}
	}
	if len(results) != 1 {
		t.Errorf("results = %v, want only unused-local", ruleIDs(results))
	}
}

func TestAnalyzeSeverityOverride(t *testing.T) {
	a := New(Options{
		Severity: map[astcheck.RuleID]rules.Severity{
			astcheck.RuleParamCount: rules.SeverityError,
		},
	})
	results, err := a.Analyze(context.Background(), []input.Artifact{
		{Path: "main.go", Content: goFixture},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for _, r := range results {
		if r.RuleID == "param-count" && r.Level != "error" {
			t.Errorf("param-count level = %q, want error", r.Level)
		}
	}
}

func TestAnalyzeSortedStable(t *testing.T) {
	a := New(Options{Workers: 8})
	artifacts := []input.Artifact{
		{Path: "b.go", Content: goFixture},
		{Path: "a.go", Content: goFixture},
		{Path: "c.go", Content: goFixture},
	}

	results, err := a.Analyze(context.Background(), artifacts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("got %d results, want 6", len(results))
	}
	if !sort.SliceIsSorted(results, func(i, j int) bool {
		ki, kj := sortKey(results[i]), sortKey(results[j])
		if ki.uri != kj.uri {
			return ki.uri < kj.uri
		}
		if ki.line != kj.line {
			return ki.line < kj.line
		}
		return ki.col <= kj.col
	}) {
		t.Error("results are not sorted by file and location")
	}

	// Runs with different worker counts agree.
	again, err := New(Options{Workers: 1}).Analyze(context.Background(), artifacts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(again) != len(results) {
		t.Fatalf("worker count changed result count: %d vs %d", len(again), len(results))
	}
	for i := range results {
		if results[i].RuleID != again[i].RuleID {
			t.Errorf("order differs at %d: %s vs %s", i, results[i].RuleID, again[i].RuleID)
		}
	}
}

func TestAnalyzeRecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	a := New(Options{Collector: collector})
	if _, err := a.Analyze(context.Background(), []input.Artifact{
		{Path: "main.go", Content: goFixture},
		{Path: "skip.txt", Content: "text"},
	}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	events := collector.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (skipped files are not recorded)", len(events))
	}
	ev := events[0]
	if ev.Path != "main.go" || ev.Language != "go" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Bytes != len(goFixture) {
		t.Errorf("bytes = %d, want %d", ev.Bytes, len(goFixture))
	}
	if ev.Findings["param-count"] != 1 || ev.Findings["unused-local"] != 1 {
		t.Errorf("findings = %v", ev.Findings)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	results, err := New(Options{}).Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", ruleIDs(results))
	}
}
