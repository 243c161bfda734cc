package astcheck

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
)

// CheckNestingDepth reports methods whose lexical blocks nest deeper than
// maxNestingDepth below the body. The body itself is the depth-0 block; only
// blocks nested inside it raise the depth. A method with no body, or a flat
// body, reports nothing.
func CheckNestingDepth(m Method, syn *Syntax) []Diagnostic {
	if m.Body == nil {
		return nil
	}

	depth := maxBlockDepth(m.Body, syn.BlockKinds, 0)
	if depth <= maxNestingDepth {
		return nil
	}
	return []Diagnostic{{
		Rule: RuleNestingDepth,
		Span: m.identSpan(),
		Args: []string{m.Name, strconv.Itoa(depth)},
	}}
}

// maxBlockDepth records the current depth at every block node before
// descending into it one level deeper; non-block nodes pass the depth
// through unchanged. The result is the maximum recorded depth, or 0 when
// the subtree holds no blocks at all.
func maxBlockDepth(node *sitter.Node, blockKinds map[string]bool, depth int) int {
	if node == nil {
		return 0
	}

	max := 0
	childDepth := depth
	if blockKinds[node.Type()] {
		max = depth
		childDepth = depth + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if d := maxBlockDepth(node.Child(i), blockKinds, childDepth); d > max {
			max = d
		}
	}
	return max
}
