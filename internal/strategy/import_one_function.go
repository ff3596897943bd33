package strategy

import (
	"fmt"
	"sort"

	"pyshrink/internal/analysis"
)

// OneFunctionImportFinding flags a top-level import used in exactly one
// function, so the import statement can move into that function.
type OneFunctionImportFinding struct {
	Func           analysis.Function
	Symbol         string
	UsagesInFunc   int
	UsedAsTypeHint bool
}

// A global import costs 16 bytes, a local one 14. Accessing a global
// symbol costs 3 bytes, a local one 1.
func (f OneFunctionImportFinding) SavedBytes() int {
	const (
		globalImport = 16
		localImport  = 14
		globalAccess = 3
		localAccess  = 1
	)
	return f.UsagesInFunc*(globalAccess-localAccess) + (globalImport - localImport)
}

func (f OneFunctionImportFinding) String() string {
	hint := ""
	if f.UsedAsTypeHint {
		hint = " (WARNING: used as type-hint)"
	}
	return fmt.Sprintf("%s - %s (~%d bytes)%s", f.Func, f.Symbol, f.SavedBytes(), hint)
}

// OneFunctionImport looks for symbols that can be imported only in one
// function: used in that function and nowhere else, neither at top
// level nor in other functions. A warning is attached when the symbol
// is also used as a type hint, since it would need a TYPE_CHECKING
// import branch.
func OneFunctionImport(facts *analysis.Facts, settings Settings) []Finding {
	var findings []Finding
	for _, entry := range facts.TopLevelUsagesInFunctions() {
		if len(entry.Usages) != 1 {
			continue // used in more than one function
		}
		if facts.IsUsedOutsideFunction(entry.Symbol) {
			continue // used on top level
		}

		findings = append(findings, OneFunctionImportFinding{
			Func:           entry.Usages[0].Func,
			Symbol:         entry.Symbol,
			UsagesInFunc:   entry.Usages[0].Usages,
			UsedAsTypeHint: facts.IsUsedAsTypeHint(entry.Symbol),
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].(OneFunctionImportFinding).Func.Line < findings[j].(OneFunctionImportFinding).Func.Line
	})
	return findings
}
