package strategy

import (
	"fmt"
	"sort"

	"pyshrink/internal/analysis"
)

// LocalCacheFinding flags an attribute repeatedly looked up on a local
// base within one function, a candidate for a local alias. The
// warnings flag lookups that are not safely cacheable: the attribute
// gets mutated, or the base symbol itself gets reassigned.
type LocalCacheFinding struct {
	Candidate        analysis.CacheCandidate
	Func             analysis.Function
	AttributeMutated bool
	SymbolAssigned   bool
}

// Accessing an attribute on a local variable costs 4 bytes (load the
// local, 1, plus load its attribute, 3). Caching it costs 5 (one
// access plus a store); every use after that costs 1.
func (f LocalCacheFinding) SavedBytes() int {
	const (
		investment   = 5
		oneUseBefore = 4
		oneUseAfter  = 1
	)
	return f.Candidate.Amount*(oneUseBefore-oneUseAfter) - investment
}

func (f LocalCacheFinding) String() string {
	warnings := ""
	if f.AttributeMutated {
		warnings += " (WARNING: attr gets mutated)"
	}
	if f.SymbolAssigned {
		warnings += " (WARNING: symbol gets (re)assigned)"
	}
	return fmt.Sprintf("%s - %s (~%d bytes)%s", f.Func, f.Candidate, f.SavedBytes(), warnings)
}

// LocalCacheAttribute looks for repeated attribute lookups on
// non-imported bases within each function.
func LocalCacheAttribute(facts *analysis.Facts, settings Settings) []Finding {
	var findings []Finding
	for _, fn := range facts.AllFunctions() {
		for _, lookup := range facts.FunctionLocalAttributeLookups(fn) {
			if lookup.Count < settings.LocalAttrThreshold {
				continue
			}
			findings = append(findings, LocalCacheFinding{
				Candidate: analysis.CacheCandidate{
					CacheString: lookup.Base + "." + lookup.Attribute,
					Amount:      lookup.Count,
				},
				Func:             fn,
				AttributeMutated: facts.IsAttrMutated(fn, lookup.Base, lookup.Attribute),
				SymbolAssigned:   facts.IsSymbolAssigned(fn, lookup.Base),
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].(LocalCacheFinding).Func.Line < findings[j].(LocalCacheFinding).Func.Line
	})
	return findings
}
