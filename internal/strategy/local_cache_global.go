package strategy

import (
	"fmt"
	"sort"

	"pyshrink/internal/analysis"
)

// LocalCacheGlobalFinding flags a module-level symbol that a function
// reads often enough that aliasing it to a local pays off.
type LocalCacheGlobalFinding struct {
	Candidate analysis.CacheCandidate
	Func      analysis.Function
}

// A global load costs 3 bytes, a local load 1. Caching needs one
// global load plus a store.
func (f LocalCacheGlobalFinding) SavedBytes() int {
	const (
		investment   = 4
		oneUseBefore = 3
		oneUseAfter  = 1
	)
	return f.Candidate.Amount*(oneUseBefore-oneUseAfter) - investment
}

func (f LocalCacheGlobalFinding) String() string {
	return fmt.Sprintf("%s - %s (~%d bytes)", f.Func, f.Candidate, f.SavedBytes())
}

// LocalCacheGlobal looks for heavily used globals inside functions.
// Imported symbols are left to the import strategies.
func LocalCacheGlobal(facts *analysis.Facts, settings Settings) []Finding {
	var findings []Finding
	for _, fn := range facts.AllFunctions() {
		imported := make(map[string]struct{})
		for _, symbol := range facts.FunctionImportedSymbols(fn) {
			imported[symbol] = struct{}{}
		}
		used := facts.UsedFunctionSymbols(fn)
		for _, symbol := range used.Keys() {
			if _, ok := imported[symbol]; ok {
				continue
			}
			if !facts.IsGlobalSymbol(symbol) {
				continue
			}
			amount := used.Get(symbol)
			if amount < settings.LocalGlobalThreshold {
				continue
			}
			findings = append(findings, LocalCacheGlobalFinding{
				Candidate: analysis.CacheCandidate{CacheString: symbol, Amount: amount},
				Func:      fn,
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].(LocalCacheGlobalFinding).Func.Line < findings[j].(LocalCacheGlobalFinding).Func.Line
	})
	return findings
}
