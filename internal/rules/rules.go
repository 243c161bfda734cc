// Package rules holds the immutable identity table for the built-in checks:
// one descriptor per rule with its title, message template, category,
// severity, and default enablement. The table is built once on first access
// and never mutated, so it is safe to share without synchronization.
package rules

import (
	"fmt"
	"sync"

	"github.com/chris-regnier/plumb/internal/astcheck"
)

type Category string

const (
	CategoryMaintainability Category = "maintainability"
	CategoryReadability     Category = "readability"
)

// Severity values are SARIF levels.
type Severity string

const (
	SeverityNote    Severity = "note"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Descriptor struct {
	ID               astcheck.RuleID
	Title            string
	MessageTemplate  string
	Category         Category
	Severity         Severity
	EnabledByDefault bool
	Description      string
}

// Message renders the descriptor's template with the diagnostic's arguments.
func (d Descriptor) Message(args []string) string {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = a
	}
	return fmt.Sprintf(d.MessageTemplate, vals...)
}

// ruleOrder fixes the presentation order of All().
var ruleOrder = []astcheck.RuleID{
	astcheck.RuleUnusedLocal,
	astcheck.RuleParamCount,
	astcheck.RuleNestingDepth,
	astcheck.RuleStringCompare,
	astcheck.RuleComplexIf,
}

var table = sync.OnceValue(func() map[astcheck.RuleID]Descriptor {
	return map[astcheck.RuleID]Descriptor{
		astcheck.RuleUnusedLocal: {
			ID:               astcheck.RuleUnusedLocal,
			Title:            "Unused local variable",
			MessageTemplate:  "local variable '%s' is declared but never read",
			Category:         CategoryMaintainability,
			Severity:         SeverityWarning,
			EnabledByDefault: true,
			Description:      "A local variable that is declared, and possibly written, but never read is dead weight and often hides a logic error.",
		},
		astcheck.RuleParamCount: {
			ID:               astcheck.RuleParamCount,
			Title:            "Too many parameters",
			MessageTemplate:  "function '%s' has %s parameters (maximum 3)",
			Category:         CategoryMaintainability,
			Severity:         SeverityNote,
			EnabledByDefault: true,
			Description:      "Functions with more than three parameters are hard to call correctly. Group related parameters into a struct or options type.",
		},
		astcheck.RuleNestingDepth: {
			ID:               astcheck.RuleNestingDepth,
			Title:            "Deeply nested blocks",
			MessageTemplate:  "function '%s' nests blocks %s levels deep (maximum 3)",
			Category:         CategoryMaintainability,
			Severity:         SeverityWarning,
			EnabledByDefault: true,
			Description:      "Blocks nested more than three levels below the function body usually want early returns or an extracted helper.",
		},
		astcheck.RuleStringCompare: {
			ID:               astcheck.RuleStringCompare,
			Title:            "Three-way compare tested against zero",
			MessageTemplate:  "use an equality check instead of '%s'",
			Category:         CategoryReadability,
			Severity:         SeverityNote,
			EnabledByDefault: true,
			Description:      "Testing an ordinal comparison function's result against the literal 0 obscures a plain equality check. The match is textual and may false-positive on lookalike identifiers.",
		},
		astcheck.RuleComplexIf: {
			ID:               astcheck.RuleComplexIf,
			Title:            "Overly compound if-condition",
			MessageTemplate:  "if-condition chains %s logical operators (maximum 2)",
			Category:         CategoryReadability,
			Severity:         SeverityNote,
			EnabledByDefault: true,
			Description:      "Conditions combining more than two logical operators are hard to reason about. Name the sub-conditions or split the branch.",
		},
	}
})

// Get returns the descriptor for a rule ID.
func Get(id astcheck.RuleID) (Descriptor, bool) {
	d, ok := table()[id]
	return d, ok
}

// All returns every descriptor in fixed presentation order.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(ruleOrder))
	for _, id := range ruleOrder {
		out = append(out, table()[id])
	}
	return out
}
