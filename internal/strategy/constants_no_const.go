package strategy

import (
	"fmt"

	"pyshrink/internal/analysis"
)

// NoConstNumberFinding flags a module-level integer assigned exactly
// once without a const() wrapper. Wrapping it saves flash and RAM.
type NoConstNumberFinding struct {
	Name string
}

func (f NoConstNumberFinding) SavedBytes() int {
	return 4
}

func (f NoConstNumberFinding) String() string {
	return fmt.Sprintf("%s (~%d bytes)", f.Name, f.SavedBytes())
}

// NoConstNumber looks for constant number assignments missing const().
func NoConstNumber(facts *analysis.Facts, settings Settings) []Finding {
	var findings []Finding
	for _, assign := range facts.TopLevelAssignments() {
		if !facts.IsConstantNumberAssignment(assign) {
			continue
		}
		findings = append(findings, NoConstNumberFinding{Name: facts.AssignmentName(assign)})
	}
	return findings
}
