package astcheck

import sitter "github.com/smacker/go-tree-sitter"

// Method is a normalized view over a function or method declaration node.
// Body is nil for bodiless signatures (prototypes, interface members).
type Method struct {
	Node   *sitter.Node
	Name   string
	Ident  *sitter.Node
	Params *sitter.Node
	Body   *sitter.Node
}

// newMethod extracts the name, parameter list, and body from a
// method-declaration node. C hides the name and parameters inside the
// declarator; everything else exposes them as direct fields.
func newMethod(node *sitter.Node, syn *Syntax, source []byte) Method {
	m := Method{Node: node, Name: "<anonymous>"}

	nameNode := node.ChildByFieldName("name")
	paramsNode := node.ChildByFieldName("parameters")

	if syn.Name == "c" {
		if decl := cFunctionDeclarator(node); decl != nil {
			nameNode = decl.ChildByFieldName("declarator")
			paramsNode = decl.ChildByFieldName("parameters")
		}
	}
	if paramsNode == nil {
		// Single-identifier arrow functions: x => x + 1
		paramsNode = node.ChildByFieldName("parameter")
	}

	if nameNode != nil {
		m.Name = nameNode.Content(source)
		m.Ident = nameNode
	}
	m.Params = paramsNode
	m.Body = node.ChildByFieldName("body")
	return m
}

// cFunctionDeclarator drills through pointer declarators to the
// function_declarator of a C function_definition.
func cFunctionDeclarator(node *sitter.Node) *sitter.Node {
	decl := node.ChildByFieldName("declarator")
	for decl != nil {
		if decl.Type() == "function_declarator" {
			return decl
		}
		decl = decl.ChildByFieldName("declarator")
	}
	return nil
}

// identSpan returns the span of the method's identifier, falling back to the
// whole declaration when the method is anonymous.
func (m Method) identSpan() Span {
	if m.Ident != nil {
		return spanOf(m.Ident)
	}
	return spanOf(m.Node)
}
