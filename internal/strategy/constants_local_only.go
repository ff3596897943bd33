package strategy

import (
	"fmt"
	"strings"

	"pyshrink/internal/analysis"
)

// LocalConstantFinding flags a const() assignment that is used within
// the module itself. If no other module imports it, prefixing its name
// with an underscore keeps it out of the module's global dict. Whether
// other modules really import it is up to the caller to verify.
type LocalConstantFinding struct {
	Name   string
	Usages int
}

func (f LocalConstantFinding) SavedBytes() int {
	return 4
}

func (f LocalConstantFinding) String() string {
	return fmt.Sprintf("%s (%d x) (~%d bytes)", f.Name, f.Usages, f.SavedBytes())
}

// LocalOnlyConstants looks for const() assignments that are likely
// local to the module. Underscore-prefixed names are already fine.
func LocalOnlyConstants(facts *analysis.Facts, settings Settings) []Finding {
	usages := facts.SymbolUsages()

	var findings []Finding
	for _, name := range facts.Constants() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		if !usages.Has(name) {
			continue
		}
		findings = append(findings, LocalConstantFinding{Name: name, Usages: usages.Get(name)})
	}
	return findings
}
