// Package dataflow computes declared-vs-read variable sets for one method
// body. It is a deliberately shallow, name-based approximation: scoping and
// shadowing are not modeled, so two locals with the same name share their
// reads. The structural checks that consume these facts tolerate that.
package dataflow

import sitter "github.com/smacker/go-tree-sitter"

// Symbol identifies one declared local by its declaring identifier node.
// Identity is the declaration site, not the name.
type Symbol struct {
	Name string
	Node *sitter.Node
}

// Facts holds the declared and read sets for a single method body.
// Computed once per body; detectors never mutate it.
type Facts struct {
	declared []Symbol
	read     map[string]bool
}

// Declared returns the declared locals in source-declaration order.
func (f *Facts) Declared() []Symbol { return f.declared }

// IsRead reports whether any local with the given name is read in the body.
func (f *Facts) IsRead(name string) bool { return f.read[name] }

// Unused returns declared minus read, in source-declaration order.
func (f *Facts) Unused() []Symbol {
	var unused []Symbol
	for _, sym := range f.declared {
		if !f.read[sym.Name] {
			unused = append(unused, sym)
		}
	}
	return unused
}

// Collect walks a method body and derives its data-flow facts. A use is any
// identifier occurrence matching a declared name, except the declaring
// identifier itself and identifiers that only appear as the target of a
// plain `=` assignment (a write alone is not a read; compound assignments
// like `+=` both read and write, and count).
func Collect(body *sitter.Node, source []byte, lang string) *Facts {
	f := &Facts{read: make(map[string]bool)}
	if body == nil {
		return f
	}

	declSites := make(map[uint32]bool)
	collectDeclarations(body, source, lang, func(name *sitter.Node) {
		f.declared = append(f.declared, Symbol{Name: name.Content(source), Node: name})
		declSites[name.StartByte()] = true
	})

	names := make(map[string]bool, len(f.declared))
	for _, sym := range f.declared {
		names[sym.Name] = true
	}

	walk(body, func(node *sitter.Node) {
		if node.Type() != "identifier" {
			return
		}
		name := node.Content(source)
		if !names[name] || declSites[node.StartByte()] {
			return
		}
		if isPlainWrite(node, source, lang) {
			return
		}
		f.read[name] = true
	})

	return f
}

func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), fn)
	}
}

// collectDeclarations finds local-variable declaration sites and calls emit
// with each declaring identifier node, in source order.
func collectDeclarations(body *sitter.Node, source []byte, lang string, emit func(*sitter.Node)) {
	walk(body, func(node *sitter.Node) {
		switch lang {
		case "go":
			switch node.Type() {
			case "short_var_declaration", "range_clause":
				if left := node.ChildByFieldName("left"); left != nil {
					emitIdents(left, emit)
				}
			case "var_spec":
				for i := 0; i < int(node.NamedChildCount()); i++ {
					child := node.NamedChild(i)
					if child != nil && child.Type() == "identifier" {
						emit(child)
					}
				}
			}
		case "c":
			if node.Type() == "declaration" {
				for i := 0; i < int(node.NamedChildCount()); i++ {
					child := node.NamedChild(i)
					if child == nil {
						continue
					}
					switch child.Type() {
					case "init_declarator":
						if ident := drillDeclarator(child.ChildByFieldName("declarator")); ident != nil {
							emit(ident)
						}
					case "identifier":
						emit(child)
					case "pointer_declarator", "array_declarator":
						if ident := drillDeclarator(child); ident != nil {
							emit(ident)
						}
					}
				}
			}
		case "java":
			if node.Type() == "variable_declarator" {
				if name := node.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
					emit(name)
				}
			}
		case "javascript", "typescript":
			if node.Type() == "variable_declarator" {
				if name := node.ChildByFieldName("name"); name != nil {
					emitIdents(name, emit)
				}
			}
		case "rust":
			if node.Type() == "let_declaration" {
				if pat := node.ChildByFieldName("pattern"); pat != nil {
					emitIdents(pat, emit)
				}
			}
		}
	})
}

// emitIdents emits node itself if it is an identifier, otherwise every
// identifier inside it (destructuring patterns, expression lists).
func emitIdents(node *sitter.Node, emit func(*sitter.Node)) {
	walk(node, func(n *sitter.Node) {
		if n.Type() == "identifier" {
			emit(n)
		}
	})
}

// drillDeclarator unwraps pointer/array declarators down to the identifier.
func drillDeclarator(node *sitter.Node) *sitter.Node {
	for node != nil {
		if node.Type() == "identifier" {
			return node
		}
		inner := node.ChildByFieldName("declarator")
		if inner == nil {
			return nil
		}
		node = inner
	}
	return nil
}

// assignKinds are the per-language assignment node kinds whose plain `=`
// form writes without reading the target.
var assignKinds = map[string]map[string]bool{
	"go":         {"assignment_statement": true},
	"c":          {"assignment_expression": true},
	"java":       {"assignment_expression": true},
	"javascript": {"assignment_expression": true},
	"typescript": {"assignment_expression": true},
	"rust":       {"assignment_expression": true},
}

// isPlainWrite reports whether the identifier sits on the left side of a
// plain `=` assignment. Go assignment targets are wrapped in an
// expression_list, so one extra hop up is allowed.
func isPlainWrite(node *sitter.Node, source []byte, lang string) bool {
	target := node
	parent := node.Parent()
	if parent != nil && parent.Type() == "expression_list" {
		target = parent
		parent = parent.Parent()
	}
	if parent == nil || !assignKinds[lang][parent.Type()] {
		return false
	}
	left := parent.ChildByFieldName("left")
	if left == nil {
		return false
	}
	if target.StartByte() < left.StartByte() || target.EndByte() > left.EndByte() {
		return false
	}
	// Rust's assignment_expression has no operator field and is always `=`.
	if op := parent.ChildByFieldName("operator"); op != nil {
		return op.Content(source) == "="
	}
	return true
}
