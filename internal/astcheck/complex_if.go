package astcheck

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
)

var logicalOps = map[string]bool{"&&": true, "||": true}

// CheckComplexIf reports if-statements whose condition chains more than
// maxLogicalOps logical operators. The count is a single flat total over the
// whole condition subtree, not per nesting level: `(a && b) || (c && d)` is
// three operators. If-statements without a condition report nothing.
func CheckComplexIf(node *sitter.Node, source []byte, syn *Syntax) []Diagnostic {
	cond := node.ChildByFieldName("condition")
	if cond == nil {
		return nil
	}

	count := countTokens(cond, logicalOps)
	if count <= maxLogicalOps {
		return nil
	}
	return []Diagnostic{{
		Rule: RuleComplexIf,
		Span: spanOf(cond),
		Args: []string{strconv.Itoa(count)},
	}}
}
