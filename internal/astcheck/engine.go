// Package astcheck implements structural-complexity checks over tree-sitter
// syntax trees: unused locals, oversized parameter lists, deep block
// nesting, three-way string comparison against zero, and overly compound
// if-conditions. Checks are pure functions of the subtree they are handed
// and are safe to run concurrently across files.
package astcheck

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/chris-regnier/plumb/internal/dataflow"
)

// handler runs one or more checks against a node of a kind it registered for.
type handler func(node *sitter.Node, source []byte) []Diagnostic

// Engine routes syntax nodes to checks by node kind. The dispatch table is
// built once per language at construction and never mutated, so a single
// Engine may be shared across goroutines.
type Engine struct {
	syn      *Syntax
	dispatch map[string][]handler
}

// NewEngine builds the dispatch table for one language: method-declaration
// kinds feed the unused-local, param-count, and nesting-depth checks;
// equality-expression kinds feed the string-compare check; if-statement
// kinds feed the complex-if check.
func NewEngine(syn *Syntax) *Engine {
	e := &Engine{syn: syn, dispatch: make(map[string][]handler)}

	for kind := range syn.MethodKinds {
		e.register(kind, e.checkMethod)
	}
	for kind := range syn.EqualityKinds {
		e.register(kind, func(node *sitter.Node, source []byte) []Diagnostic {
			return CheckStringCompare(node, source, e.syn)
		})
	}
	for kind := range syn.IfKinds {
		e.register(kind, func(node *sitter.Node, source []byte) []Diagnostic {
			return CheckComplexIf(node, source, e.syn)
		})
	}
	return e
}

func (e *Engine) register(kind string, h handler) {
	e.dispatch[kind] = append(e.dispatch[kind], h)
}

// Language returns the name of the language this engine was built for.
func (e *Engine) Language() string { return e.syn.Name }

// CheckFile walks the whole tree once and collects every diagnostic. Nodes
// with no registered handler are only traversed, never inspected.
func (e *Engine) CheckFile(tree *sitter.Tree, source []byte) []Diagnostic {
	return e.checkNode(tree.RootNode(), source)
}

func (e *Engine) checkNode(node *sitter.Node, source []byte) []Diagnostic {
	if node == nil {
		return nil
	}
	var diags []Diagnostic
	for _, h := range e.dispatch[node.Type()] {
		diags = append(diags, h(node, source)...)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		diags = append(diags, e.checkNode(node.Child(i), source)...)
	}
	return diags
}

// checkMethod runs the three method-level checks. Data-flow facts are
// computed once here and handed to the unused-local check read-only.
func (e *Engine) checkMethod(node *sitter.Node, source []byte) []Diagnostic {
	m := newMethod(node, e.syn, source)

	var diags []Diagnostic
	diags = append(diags, CheckParamCount(m, e.syn)...)
	if m.Body != nil {
		facts := dataflow.Collect(m.Body, source, e.syn.Name)
		diags = append(diags, CheckUnusedLocals(m, facts)...)
		diags = append(diags, CheckNestingDepth(m, e.syn)...)
	}
	return diags
}
