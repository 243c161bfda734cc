package astcheck

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CheckStringCompare flags the idiom of testing an ordinal/culture string
// comparison call for equality against the literal 0, e.g.
// `strings.Compare(a, b) == 0`. Equality comparison functions exist for
// exactly this reason; spelling it through a three-way compare obscures
// intent.
//
// The match is purely textual: the left operand's source text must start
// with one of the language's compare-call prefixes and the right operand
// must be exactly `0`. No type resolution happens, so an identifier that
// merely shares the prefix will false-positive. That is a known and accepted
// limitation of the rule.
func CheckStringCompare(node *sitter.Node, source []byte, syn *Syntax) []Diagnostic {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	op := node.ChildByFieldName("operator")
	if left == nil || right == nil || op == nil {
		return nil
	}
	if !syn.EqualityOps[op.Content(source)] {
		return nil
	}
	if right.Content(source) != "0" {
		return nil
	}

	leftText := left.Content(source)
	for _, prefix := range syn.ComparePrefixes {
		if strings.HasPrefix(leftText, prefix) {
			return []Diagnostic{{
				Rule: RuleStringCompare,
				Span: spanOf(node),
				Args: []string{node.Content(source)},
			}}
		}
	}
	return nil
}
