package strategy

import (
	"fmt"

	"pyshrink/internal/analysis"
)

// GlobalImportCacheFinding flags an attribute repeatedly accessed on a
// top-level imported module, a candidate for a module-level alias.
type GlobalImportCacheFinding struct {
	Candidate analysis.CacheCandidate
}

func (f GlobalImportCacheFinding) SavedBytes() int {
	return f.Candidate.Amount
}

func (f GlobalImportCacheFinding) String() string {
	return fmt.Sprintf("%s (~%d bytes)", f.Candidate, f.SavedBytes())
}

// GlobalImportCache looks for attribute lookups on imported bases that
// occur often enough to be worth caching globally. Type hint
// occurrences are not counted.
func GlobalImportCache(facts *analysis.Facts, settings Settings) []Finding {
	var findings []Finding
	for _, lookup := range facts.GlobalAttributeLookups(false) {
		if lookup.Count >= settings.GlobalAttrThreshold {
			findings = append(findings, GlobalImportCacheFinding{
				Candidate: analysis.CacheCandidate{
					CacheString: lookup.Base + "." + lookup.Attribute,
					Amount:      lookup.Count,
				},
			})
		}
	}
	return findings
}
