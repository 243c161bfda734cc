package astcheck

import "github.com/chris-regnier/plumb/internal/dataflow"

// CheckUnusedLocals reports locals that are declared but never read within
// the method body. Facts are computed externally, once per body; this check
// only takes the set difference. Methods without a body are skipped.
// Diagnostics come out in source-declaration order.
func CheckUnusedLocals(m Method, facts *dataflow.Facts) []Diagnostic {
	if m.Body == nil || facts == nil {
		return nil
	}

	var diags []Diagnostic
	for _, sym := range facts.Unused() {
		diags = append(diags, Diagnostic{
			Rule: RuleUnusedLocal,
			Span: spanOf(sym.Node),
			Args: []string{sym.Name},
		})
	}
	return diags
}
