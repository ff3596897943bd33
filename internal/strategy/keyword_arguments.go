package strategy

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"pyshrink/internal/analysis"
	"pyshrink/internal/parser"
)

// KwargFinding flags a call passing keyword arguments, which could be
// replaced with positional ones.
type KwargFinding struct {
	Name   string
	Amount int
	Line   int
}

// Passing one keyword argument costs 3 bytes: a QSTR with the key has
// to be loaded for each.
func (f KwargFinding) SavedBytes() int {
	return f.Amount * 3
}

func (f KwargFinding) String() string {
	return fmt.Sprintf("%d :: %s (%dx) (%d bytes)", f.Line, f.Name, f.Amount, f.SavedBytes())
}

// KeywordArguments looks for calls with at least one keyword argument.
// For attribute calls (x.y(...)) the reported name is the attribute.
func KeywordArguments(facts *analysis.Facts, settings Settings) []Finding {
	tree := facts.Tree()

	var findings []Finding
	for _, node := range facts.AllNodes() {
		if node.Kind() != "call" {
			continue
		}
		amount := keywordCount(node)
		if amount == 0 {
			continue
		}
		findings = append(findings, KwargFinding{
			Name:   analysis.CallName(tree, node),
			Amount: amount,
			Line:   parser.Line(node),
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].(KwargFinding).Line < findings[j].(KwargFinding).Line
	})
	return findings
}

func keywordCount(call *sitter.Node) int {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.Kind() != "argument_list" {
		return 0
	}

	count := 0
	for _, arg := range parser.Children(args) {
		switch arg.Kind() {
		case "keyword_argument", "dictionary_splat":
			count++
		}
	}
	return count
}
