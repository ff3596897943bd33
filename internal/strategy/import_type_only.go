package strategy

import (
	"fmt"

	"pyshrink/internal/analysis"
)

// TypeOnlyImportFinding flags a top-level symbol whose every use is in
// a type hint; its import belongs in a TYPE_CHECKING branch.
type TypeOnlyImportFinding struct {
	Symbol string
}

func (f TypeOnlyImportFinding) SavedBytes() int {
	return 7
}

func (f TypeOnlyImportFinding) String() string {
	return fmt.Sprintf("%s (~%d bytes)", f.Symbol, f.SavedBytes())
}

// TypeOnlyImport looks for imports used only as type hints: the symbol's
// total usage count equals its type-hint usage count.
func TypeOnlyImport(facts *analysis.Facts, settings Settings) []Finding {
	hints := facts.TypeHintUsages()
	usages := facts.SymbolUsages()

	var findings []Finding
	for _, symbol := range usages.Keys() {
		if hints.Has(symbol) && hints.Get(symbol) == usages.Get(symbol) {
			findings = append(findings, TypeOnlyImportFinding{Symbol: symbol})
		}
	}
	return findings
}
