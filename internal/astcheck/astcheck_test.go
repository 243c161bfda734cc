package astcheck

import (
	"context"
	"reflect"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func parseLang(t *testing.T, lang, source string) (*sitter.Tree, *Syntax) {
	t.Helper()
	syn, ok := SyntaxFor(lang)
	if !ok {
		t.Fatalf("no syntax for %q", lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(syn.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		t.Fatalf("failed to parse source: %v", err)
	}
	return tree, syn
}

func checkSource(t *testing.T, lang, source string) []Diagnostic {
	t.Helper()
	tree, syn := parseLang(t, lang, source)
	defer tree.Close()
	return NewEngine(syn).CheckFile(tree, []byte(source))
}

func diagsFor(diags []Diagnostic, rule RuleID) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d)
		}
	}
	return out
}

// firstMethod extracts the Method view of the first method declaration.
func firstMethod(t *testing.T, lang, source string) (Method, *Syntax) {
	t.Helper()
	tree, syn := parseLang(t, lang, source)
	t.Cleanup(tree.Close)

	var node *sitter.Node
	findNodes(tree.RootNode(), syn.MethodKinds, func(n *sitter.Node) {
		if node == nil {
			node = n
		}
	})
	if node == nil {
		t.Fatal("no method declaration found")
	}
	return newMethod(node, syn, []byte(source)), syn
}

// ---------------------------------------------------------------------------
// Language detection
// ---------------------------------------------------------------------------

func TestDetect(t *testing.T) {
	tests := []struct {
		path     string
		wantName string
		wantOK   bool
	}{
		{"main.go", "go", true},
		{"lib.c", "c", true},
		{"lib.h", "c", true},
		{"Main.java", "java", true},
		{"app.js", "javascript", true},
		{"app.jsx", "javascript", true},
		{"app.ts", "typescript", true},
		{"app.tsx", "typescript", true},
		{"main.rs", "rust", true},
		{"script.py", "", false},
		{"readme.md", "", false},
		{"/path/to/file.GO", "go", true}, // case insensitive
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			syn, ok := Detect(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Detect(%q) ok=%v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if syn.Name != tt.wantName {
				t.Errorf("Detect(%q) name=%q, want %q", tt.path, syn.Name, tt.wantName)
			}
			if syn.Language == nil {
				t.Errorf("Detect(%q) returned nil language", tt.path)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Parameter count
// ---------------------------------------------------------------------------

func TestParamCountBoundary(t *testing.T) {
	three := checkSource(t, "go", `package main

func ok(a, b, c int) {}
`)
	if got := diagsFor(three, RuleParamCount); len(got) != 0 {
		t.Fatalf("3 params should not fire, got %v", got)
	}

	four := checkSource(t, "go", `package main

func wide(a, b, c, d int) {}
`)
	got := diagsFor(four, RuleParamCount)
	if len(got) != 1 {
		t.Fatalf("4 params should fire once, got %v", got)
	}
	if want := []string{"wide", "4"}; !reflect.DeepEqual(got[0].Args, want) {
		t.Errorf("args = %v, want %v", got[0].Args, want)
	}
}

func TestParamCountGroupedAndUngrouped(t *testing.T) {
	// `a, b int, c, d string` is four parameters despite two declarations.
	diags := checkSource(t, "go", `package main

func grouped(a, b int, c, d string) {}
`)
	got := diagsFor(diags, RuleParamCount)
	if len(got) != 1 || got[0].Args[1] != "4" {
		t.Fatalf("grouped params miscounted: %v", got)
	}
}

func TestParamCountDiagnosticAtIdentifier(t *testing.T) {
	diags := checkSource(t, "go", `package main

func wide(a, b, c, d int) {}
`)
	got := diagsFor(diags, RuleParamCount)
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %v", got)
	}
	// The identifier `wide` sits on line 3, column 6.
	if got[0].Span.StartLine != 3 || got[0].Span.StartCol != 6 {
		t.Errorf("span = %+v, want identifier location 3:6", got[0].Span)
	}
}

func TestParamCountJava(t *testing.T) {
	diags := checkSource(t, "java", `class A {
	void m(int a, int b, int c, int d, int e) {}
}
`)
	got := diagsFor(diags, RuleParamCount)
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %v", got)
	}
	if want := []string{"m", "5"}; !reflect.DeepEqual(got[0].Args, want) {
		t.Errorf("args = %v, want %v", got[0].Args, want)
	}
}

func TestParamCountNoParams(t *testing.T) {
	m := Method{Name: "x"}
	syn, _ := SyntaxFor("go")
	if got := CheckParamCount(m, syn); got != nil {
		t.Fatalf("nil params should not fire, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Nesting depth
// ---------------------------------------------------------------------------

func TestNestingDepthFlatBody(t *testing.T) {
	m, syn := firstMethod(t, "go", `package main

func flat() {
	x := 1
	_ = x
}
`)
	if depth := maxBlockDepth(m.Body, syn.BlockKinds, 0); depth != 0 {
		t.Errorf("flat body depth = %d, want 0", depth)
	}
	if got := CheckNestingDepth(m, syn); got != nil {
		t.Errorf("flat body should not fire, got %v", got)
	}
}

func TestNestingDepthCountsBlocksBelowBody(t *testing.T) {
	m, syn := firstMethod(t, "go", `package main

func two(a, b bool) {
	if a {
		if b {
		}
	}
}
`)
	if depth := maxBlockDepth(m.Body, syn.BlockKinds, 0); depth != 2 {
		t.Errorf("depth = %d, want 2", depth)
	}
	if got := CheckNestingDepth(m, syn); got != nil {
		t.Errorf("depth 2 should not fire, got %v", got)
	}
}

func TestNestingDepthBoundary(t *testing.T) {
	atLimit := checkSource(t, "go", `package main

func deep3(a, b, c bool) {
	if a {
		if b {
			if c {
			}
		}
	}
}
`)
	if got := diagsFor(atLimit, RuleNestingDepth); len(got) != 0 {
		t.Fatalf("depth 3 should not fire, got %v", got)
	}

	overLimit := checkSource(t, "go", `package main

func deep4(a, b, c bool) {
	if a {
		if b {
			if c {
				if a {
				}
			}
		}
	}
}
`)
	got := diagsFor(overLimit, RuleNestingDepth)
	if len(got) != 1 {
		t.Fatalf("depth 4 should fire once, got %v", got)
	}
	if want := []string{"deep4", "4"}; !reflect.DeepEqual(got[0].Args, want) {
		t.Errorf("args = %v, want %v", got[0].Args, want)
	}
}

func TestNestingDepthExplicitBlocks(t *testing.T) {
	m, syn := firstMethod(t, "go", `package main

func braces() {
	{
		{
		}
	}
}
`)
	if depth := maxBlockDepth(m.Body, syn.BlockKinds, 0); depth != 2 {
		t.Errorf("depth = %d, want 2", depth)
	}
}

// ---------------------------------------------------------------------------
// Unused locals
// ---------------------------------------------------------------------------

func TestUnusedLocal(t *testing.T) {
	diags := checkSource(t, "go", `package main

func f() int {
	x := 1
	y := 2
	return y
}
`)
	got := diagsFor(diags, RuleUnusedLocal)
	if len(got) != 1 {
		t.Fatalf("expected one unused local, got %v", got)
	}
	if want := []string{"x"}; !reflect.DeepEqual(got[0].Args, want) {
		t.Errorf("args = %v, want %v", got[0].Args, want)
	}
	// Located at the declaring identifier, line 4.
	if got[0].Span.StartLine != 4 {
		t.Errorf("span = %+v, want declaration on line 4", got[0].Span)
	}
}

func TestUnusedLocalAllRead(t *testing.T) {
	diags := checkSource(t, "go", `package main

func f() int {
	x := 1
	y := x + 1
	return y
}
`)
	if got := diagsFor(diags, RuleUnusedLocal); len(got) != 0 {
		t.Fatalf("all locals read, got %v", got)
	}
}

func TestUnusedLocalWriteOnly(t *testing.T) {
	// x is written again but never read; still unused.
	diags := checkSource(t, "go", `package main

func f() {
	x := 1
	x = 2
}
`)
	got := diagsFor(diags, RuleUnusedLocal)
	if len(got) != 1 || got[0].Args[0] != "x" {
		t.Fatalf("write-only local should be unused, got %v", got)
	}
}

func TestUnusedLocalDeclarationOrder(t *testing.T) {
	diags := checkSource(t, "go", `package main

func f() {
	a := 1
	b := 2
	c := 3
	_ = 0
}
`)
	got := diagsFor(diags, RuleUnusedLocal)
	if len(got) != 3 {
		t.Fatalf("expected three unused locals, got %v", got)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Args[0] != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Args[0], want)
		}
	}
}

// ---------------------------------------------------------------------------
// String compare
// ---------------------------------------------------------------------------

func TestStringCompareMatch(t *testing.T) {
	diags := checkSource(t, "go", `package main

import "strings"

func f(a, b string) bool {
	return strings.Compare(a, b) == 0
}
`)
	got := diagsFor(diags, RuleStringCompare)
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %v", got)
	}
	if want := "strings.Compare(a, b) == 0"; got[0].Args[0] != want {
		t.Errorf("args[0] = %q, want %q", got[0].Args[0], want)
	}
}

func TestStringCompareNonZeroLiteral(t *testing.T) {
	diags := checkSource(t, "go", `package main

import "strings"

func f(a, b string) bool {
	return strings.Compare(a, b) == 1
}
`)
	if got := diagsFor(diags, RuleStringCompare); len(got) != 0 {
		t.Fatalf("== 1 should not fire, got %v", got)
	}
}

func TestStringCompareInequality(t *testing.T) {
	diags := checkSource(t, "go", `package main

import "strings"

func f(a, b string) bool {
	return strings.Compare(a, b) != 0
}
`)
	if got := diagsFor(diags, RuleStringCompare); len(got) != 0 {
		t.Fatalf("!= 0 should not fire, got %v", got)
	}
}

func TestStringCompareC(t *testing.T) {
	diags := checkSource(t, "c", `int f(const char *a, const char *b) {
	return strcmp(a, b) == 0;
}
`)
	if got := diagsFor(diags, RuleStringCompare); len(got) != 1 {
		t.Fatalf("strcmp == 0 should fire, got %v", got)
	}
}

// The prefixes include the opening paren, so lookalike identifiers that
// merely share the function name as a prefix do not match.
func TestStringCompareLookalikeIdentifier(t *testing.T) {
	diags := checkSource(t, "c", `int f(void) {
	return strcmpish(a, b) == 0;
}
`)
	if got := diagsFor(diags, RuleStringCompare); len(got) != 0 {
		t.Fatalf("lookalike identifier should not fire, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Complex if
// ---------------------------------------------------------------------------

func TestComplexIfBoundary(t *testing.T) {
	two := checkSource(t, "go", `package main

func f(a, b, c bool) {
	if a && b && c {
	}
}
`)
	if got := diagsFor(two, RuleComplexIf); len(got) != 0 {
		t.Fatalf("2 operators should not fire, got %v", got)
	}

	three := checkSource(t, "go", `package main

func f(a, b, c, d bool) {
	if a && b && c && d {
	}
}
`)
	got := diagsFor(three, RuleComplexIf)
	if len(got) != 1 {
		t.Fatalf("3 operators should fire once, got %v", got)
	}
	if want := []string{"3"}; !reflect.DeepEqual(got[0].Args, want) {
		t.Errorf("args = %v, want %v", got[0].Args, want)
	}
}

func TestComplexIfFlatTotalAcrossNesting(t *testing.T) {
	// (a && b) || (c && d) is three operators in one flat total, however
	// the parentheses group them.
	diags := checkSource(t, "go", `package main

func f(a, b, c, d bool) {
	if (a && b) || (c && d) {
	}
}
`)
	got := diagsFor(diags, RuleComplexIf)
	if len(got) != 1 || got[0].Args[0] != "3" {
		t.Fatalf("nested condition should count 3 total, got %v", got)
	}
}

func TestComplexIfMixedOperators(t *testing.T) {
	diags := checkSource(t, "java", `class A {
	void m(boolean a, boolean b, boolean c, boolean d) {
		if (a && b || c && d) {
		}
	}
}
`)
	got := diagsFor(diags, RuleComplexIf)
	if len(got) != 1 || got[0].Args[0] != "3" {
		t.Fatalf("expected count 3, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

func TestEngineIdempotent(t *testing.T) {
	source := `package main

func wide(a, b, c, d int) int {
	x := 1
	if a > 0 && b > 0 && c > 0 && d > 0 {
		return a
	}
	return 0
}
`
	tree, syn := parseLang(t, "go", source)
	defer tree.Close()
	engine := NewEngine(syn)

	first := engine.CheckFile(tree, []byte(source))
	second := engine.CheckFile(tree, []byte(source))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("engine is not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected findings from the fixture")
	}
}

// The canonical end-to-end fixture: four parameters fire, the unused local
// fires, two logical operators and two nested blocks stay under their
// thresholds.
func TestEngineEndToEnd(t *testing.T) {
	diags := checkSource(t, "c", `void M(int a, int b, int c, int d) {
	int x;
	if (a > 0 && b > 0 && c > 0) {
		if (d > 0) {
		}
	}
}
`)

	if got := diagsFor(diags, RuleParamCount); len(got) != 1 || got[0].Args[1] != "4" {
		t.Errorf("param-count: got %v, want one finding with count 4", got)
	}
	if got := diagsFor(diags, RuleUnusedLocal); len(got) != 1 || got[0].Args[0] != "x" {
		t.Errorf("unused-local: got %v, want one finding for x", got)
	}
	if got := diagsFor(diags, RuleComplexIf); len(got) != 0 {
		t.Errorf("complex-if: got %v, want none (2 operators)", got)
	}
	if got := diagsFor(diags, RuleNestingDepth); len(got) != 0 {
		t.Errorf("nesting-depth: got %v, want none (depth 2)", got)
	}
	if got := diagsFor(diags, RuleStringCompare); len(got) != 0 {
		t.Errorf("string-compare: got %v, want none", got)
	}
}

func TestEngineJavaScript(t *testing.T) {
	diags := checkSource(t, "javascript", `function wide(a, b, c, d) {
	let x = 1;
	return a + b + c + d;
}
`)
	if got := diagsFor(diags, RuleParamCount); len(got) != 1 || got[0].Args[1] != "4" {
		t.Errorf("param-count: got %v, want one finding with count 4", got)
	}
	if got := diagsFor(diags, RuleUnusedLocal); len(got) != 1 || got[0].Args[0] != "x" {
		t.Errorf("unused-local: got %v, want one finding for x", got)
	}
}
