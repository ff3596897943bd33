package strategy

import (
	"fmt"
	"sort"

	"pyshrink/internal/analysis"
)

// InlineFunctionFinding flags a function called from exactly one call
// site in the file, a hint it might be a one-time helper worth inlining.
type InlineFunctionFinding struct {
	Func analysis.Function
}

func (f InlineFunctionFinding) SavedBytes() int {
	return 50
}

func (f InlineFunctionFinding) String() string {
	return fmt.Sprintf("%s (~ %d bytes)", f.Func, f.SavedBytes())
}

// FunctionInline looks for functions called exactly once by bare name.
// The function might still be imported and used from another module;
// verifying that is up to the user, and settings can exclude known
// cases from reporting.
func FunctionInline(facts *analysis.Facts, settings Settings) []Finding {
	calls := facts.FunctionCallCounts()

	var findings []Finding
	for _, fn := range facts.AllFunctions() {
		if _, excluded := settings.NotInlineable[fn.Name]; excluded {
			continue
		}
		if calls.Has(fn.Name) && calls.Get(fn.Name) == 1 {
			findings = append(findings, InlineFunctionFinding{Func: fn})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].(InlineFunctionFinding).Func.Line < findings[j].(InlineFunctionFinding).Func.Line
	})
	return findings
}
