package astcheck

import sitter "github.com/smacker/go-tree-sitter"

// RuleID identifies one of the built-in structural checks.
type RuleID string

const (
	RuleUnusedLocal   RuleID = "unused-local"
	RuleParamCount    RuleID = "param-count"
	RuleNestingDepth  RuleID = "nesting-depth"
	RuleStringCompare RuleID = "string-compare"
	RuleComplexIf     RuleID = "complex-if"
)

// Fixed thresholds. These are deliberately not configurable: the checks are
// meant to flag only unambiguous outliers, and a tunable knob invites
// per-project bikeshedding.
const (
	maxParams       = 3
	maxNestingDepth = 3
	maxLogicalOps   = 2
)

// Span is a 1-indexed source region.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// spanOf converts a tree-sitter node's zero-based points to a Span.
func spanOf(node *sitter.Node) Span {
	return Span{
		StartLine: int(node.StartPoint().Row) + 1,
		StartCol:  int(node.StartPoint().Column) + 1,
		EndLine:   int(node.EndPoint().Row) + 1,
		EndCol:    int(node.EndPoint().Column) + 1,
	}
}

// Diagnostic is a single finding from a detector. Args feed the rule's
// message template; formatting is the caller's concern.
type Diagnostic struct {
	Rule RuleID
	Span Span
	Args []string
}
