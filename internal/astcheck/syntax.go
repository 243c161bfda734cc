package astcheck

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/rust"
	typescript "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Syntax describes the node kinds and tokens one language's grammar uses for
// the shapes the checks care about. The checks themselves are language
// agnostic; everything grammar-specific lives in these tables.
type Syntax struct {
	Name     string
	Language *sitter.Language

	// MethodKinds are node kinds that declare a function or method.
	MethodKinds map[string]bool
	// BlockKinds are brace-delimited statement groups (lexical blocks).
	BlockKinds map[string]bool
	// EqualityKinds are node kinds that can be an equality expression.
	EqualityKinds map[string]bool
	// IfKinds are if-statement node kinds.
	IfKinds map[string]bool
	// ParamKinds are node kinds counted as a single parameter. Empty for Go,
	// which groups names under one parameter_declaration (see countParams).
	ParamKinds map[string]bool
	// EqualityOps are operator token texts accepted as equality.
	EqualityOps map[string]bool
	// ComparePrefixes are textual prefixes of ordinal/culture string
	// comparison calls, matched against the left operand's source text.
	ComparePrefixes []string
}

var syntaxes = map[string]*Syntax{
	"go": {
		Name:     "go",
		Language: golang.GetLanguage(),
		MethodKinds: map[string]bool{
			"function_declaration": true,
			"method_declaration":   true,
		},
		BlockKinds:      map[string]bool{"block": true},
		EqualityKinds:   map[string]bool{"binary_expression": true},
		IfKinds:         map[string]bool{"if_statement": true},
		EqualityOps:     map[string]bool{"==": true},
		ComparePrefixes: []string{"strings.Compare(", "bytes.Compare("},
	},
	"c": {
		Name:     "c",
		Language: c.GetLanguage(),
		MethodKinds: map[string]bool{
			"function_definition": true,
		},
		BlockKinds:    map[string]bool{"compound_statement": true},
		EqualityKinds: map[string]bool{"binary_expression": true},
		IfKinds:       map[string]bool{"if_statement": true},
		ParamKinds: map[string]bool{
			"parameter_declaration": true,
		},
		EqualityOps:     map[string]bool{"==": true},
		ComparePrefixes: []string{"strcmp(", "strncmp(", "strcasecmp(", "memcmp("},
	},
	"java": {
		Name:     "java",
		Language: java.GetLanguage(),
		MethodKinds: map[string]bool{
			"method_declaration":      true,
			"constructor_declaration": true,
		},
		BlockKinds:    map[string]bool{"block": true},
		EqualityKinds: map[string]bool{"binary_expression": true},
		IfKinds:       map[string]bool{"if_statement": true},
		ParamKinds: map[string]bool{
			"formal_parameter": true,
			"spread_parameter": true,
		},
		EqualityOps: map[string]bool{"==": true},
		ComparePrefixes: []string{
			"String.CASE_INSENSITIVE_ORDER.compare(",
			"Objects.compare(",
			"Integer.compare(",
		},
	},
	"javascript": {
		Name:     "javascript",
		Language: javascript.GetLanguage(),
		MethodKinds: map[string]bool{
			"function_declaration": true,
			"method_definition":    true,
			"arrow_function":       true,
		},
		BlockKinds:    map[string]bool{"statement_block": true},
		EqualityKinds: map[string]bool{"binary_expression": true},
		IfKinds:       map[string]bool{"if_statement": true},
		ParamKinds: map[string]bool{
			"identifier":         true,
			"assignment_pattern": true,
			"rest_pattern":       true,
			"object_pattern":     true,
			"array_pattern":      true,
		},
		EqualityOps:     map[string]bool{"==": true, "===": true},
		ComparePrefixes: []string{"Intl.Collator().compare("},
	},
	"typescript": {
		Name:     "typescript",
		Language: typescript.GetLanguage(),
		MethodKinds: map[string]bool{
			"function_declaration": true,
			"method_definition":    true,
			"arrow_function":       true,
		},
		BlockKinds:    map[string]bool{"statement_block": true},
		EqualityKinds: map[string]bool{"binary_expression": true},
		IfKinds:       map[string]bool{"if_statement": true},
		ParamKinds: map[string]bool{
			"required_parameter": true,
			"optional_parameter": true,
			"identifier":         true,
			"assignment_pattern": true,
			"rest_pattern":       true,
		},
		EqualityOps:     map[string]bool{"==": true, "===": true},
		ComparePrefixes: []string{"Intl.Collator().compare("},
	},
	"rust": {
		Name:     "rust",
		Language: rust.GetLanguage(),
		MethodKinds: map[string]bool{
			"function_item": true,
		},
		BlockKinds:    map[string]bool{"block": true},
		EqualityKinds: map[string]bool{"binary_expression": true},
		IfKinds:       map[string]bool{"if_expression": true},
		ParamKinds: map[string]bool{
			"parameter":      true,
			"self_parameter": true,
		},
		EqualityOps:     map[string]bool{"==": true},
		ComparePrefixes: []string{"Ord::cmp("},
	},
}

var extToSyntax = map[string]string{
	".go":   "go",
	".c":    "c",
	".h":    "c",
	".java": "java",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".rs":   "rust",
}

// SyntaxFor returns the syntax tables for a language name.
func SyntaxFor(lang string) (*Syntax, bool) {
	s, ok := syntaxes[lang]
	return s, ok
}

// Detect maps a file path to its language's syntax tables by extension.
// The second result is false for unrecognized extensions.
func Detect(path string) (*Syntax, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := extToSyntax[ext]
	if !ok {
		return nil, false
	}
	return syntaxes[name], true
}

// Languages returns the supported language names in no particular order.
func Languages() []string {
	names := make([]string, 0, len(syntaxes))
	for name := range syntaxes {
		names = append(names, name)
	}
	return names
}
