package astcheck

import (
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
)

// CheckParamCount reports methods declaring more than maxParams parameters.
// The diagnostic sits on the method identifier. Bodiless signatures are
// checked too: the count is independent of whether a body exists.
func CheckParamCount(m Method, syn *Syntax) []Diagnostic {
	if m.Params == nil {
		return nil
	}

	count := countParams(m.Params, syn)
	if count <= maxParams {
		return nil
	}
	return []Diagnostic{{
		Rule: RuleParamCount,
		Span: m.identSpan(),
		Args: []string{m.Name, strconv.Itoa(count)},
	}}
}

func countParams(paramsNode *sitter.Node, syn *Syntax) int {
	if paramsNode.Type() == "identifier" {
		// Unparenthesized arrow-function parameter.
		return 1
	}
	if syn.Name == "go" {
		return countGoParams(paramsNode)
	}
	if len(syn.ParamKinds) == 0 {
		return int(paramsNode.NamedChildCount())
	}

	count := 0
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		child := paramsNode.NamedChild(i)
		if child != nil && syn.ParamKinds[child.Type()] {
			count++
		}
	}
	return count
}

// countGoParams handles Go's grouped parameter declarations (e.g. `a, b int`).
// Each parameter_declaration may contain multiple identifiers.
func countGoParams(paramsNode *sitter.Node) int {
	count := 0
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		child := paramsNode.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}
		idCount := 0
		for j := 0; j < int(child.NamedChildCount()); j++ {
			grandchild := child.NamedChild(j)
			if grandchild != nil && grandchild.Type() == "identifier" {
				idCount++
			}
		}
		// Unnamed params like `func(int, string)` still count as one each.
		if idCount == 0 {
			count++
		} else {
			count += idCount
		}
	}
	return count
}
