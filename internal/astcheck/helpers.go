package astcheck

import sitter "github.com/smacker/go-tree-sitter"

// findNodes performs a recursive DFS and calls fn for every node whose Type()
// is in the nodeTypes set.
func findNodes(node *sitter.Node, nodeTypes map[string]bool, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	if nodeTypes[node.Type()] {
		fn(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		findNodes(node.Child(i), nodeTypes, fn)
	}
}

// countTokens returns how many leaf tokens under node have a type in the
// tokenTypes set. The count for a subtree is composed by addition from the
// counts of its children, so each call is a pure function of its node and
// the running total spans the entire descent.
func countTokens(node *sitter.Node, tokenTypes map[string]bool) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.ChildCount() == 0 && tokenTypes[node.Type()] {
		count = 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countTokens(node.Child(i), tokenTypes)
	}
	return count
}
