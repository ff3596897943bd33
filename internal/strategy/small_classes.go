package strategy

import (
	"fmt"
	"sort"

	"pyshrink/internal/analysis"
)

// InitOnlyClassFinding flags a class whose only method is __init__.
// When such a class just holds data for a short while, a tuple can be
// cheaper. The byte estimate depends on usage, so it stays at zero.
type InitOnlyClassFinding struct {
	Name string
	Line int
}

func (f InitOnlyClassFinding) SavedBytes() int {
	return 0
}

func (f InitOnlyClassFinding) String() string {
	return fmt.Sprintf("%d :: %s", f.Line, f.Name)
}

// InitOnlyClasses looks for classes with only an __init__ constructor.
func InitOnlyClasses(facts *analysis.Facts, settings Settings) []Finding {
	var findings []Finding
	for _, class := range facts.TopLevelClasses() {
		methods := facts.MethodNames(class)
		if len(methods) != 1 || methods[0] != "__init__" {
			continue
		}
		findings = append(findings, InitOnlyClassFinding{Name: class.Name, Line: class.Line})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].(InitOnlyClassFinding).Line < findings[j].(InitOnlyClassFinding).Line
	})
	return findings
}
