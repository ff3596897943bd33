package strategy

import (
	"fmt"

	"pyshrink/internal/analysis"
)

// Settings is the per-file configuration every strategy receives.
// Immutable for the duration of one file's analysis.
type Settings struct {
	FilePath      string
	NotInlineable map[string]struct{}

	// Minimum occurrence counts before a caching opportunity is reported.
	GlobalAttrThreshold  int
	LocalAttrThreshold   int
	LocalGlobalThreshold int
}

func DefaultSettings() Settings {
	return Settings{
		GlobalAttrThreshold:  3,
		LocalAttrThreshold:   4,
		LocalGlobalThreshold: 5,
	}
}

// Finding is one reported space-saving opportunity. Each strategy has
// its own concrete finding type; SavedBytes is a pure function of the
// finding's fields.
type Finding interface {
	SavedBytes() int
	String() string
}

// Func is one heuristic analysis: pure, stateless, no dependency on
// any other strategy's output.
type Func func(facts *analysis.Facts, settings Settings) []Finding

type Registered struct {
	Name string
	Run  Func
}

// All returns every strategy in its fixed evaluation order. The names
// are part of the cache file format.
func All() []Registered {
	return []Registered{
		{Name: "function_inline", Run: FunctionInline},
		{Name: "global_import_cache", Run: GlobalImportCache},
		{Name: "one_function_import", Run: OneFunctionImport},
		{Name: "type_only_import", Run: TypeOnlyImport},
		{Name: "keyword_arguments", Run: KeywordArguments},
		{Name: "local_cache_attribute", Run: LocalCacheAttribute},
		{Name: "local_cache_global", Run: LocalCacheGlobal},
		{Name: "local_only_constants", Run: LocalOnlyConstants},
		{Name: "no_const_number", Run: NoConstNumber},
		{Name: "init_only_classes", Run: InitOnlyClasses},
	}
}

// Result is one strategy's findings for one file.
type Result struct {
	Strategy   string
	SavedBytes int
	Findings   []Finding
}

// Diagnostic records a strategy failure without stopping the others.
type Diagnostic struct {
	Strategy string
	FilePath string
	Message  string
}

// RunAll evaluates every strategy against the shared facts. A panic in
// one strategy is recorded as a diagnostic; the remaining strategies
// still run. Strategies with no findings produce no Result.
func RunAll(facts *analysis.Facts, settings Settings) ([]Result, []Diagnostic) {
	var results []Result
	var diags []Diagnostic

	for _, reg := range All() {
		findings, err := runOne(reg, facts, settings)
		if err != nil {
			diags = append(diags, Diagnostic{
				Strategy: reg.Name,
				FilePath: settings.FilePath,
				Message:  err.Error(),
			})
			continue
		}
		if len(findings) == 0 {
			continue
		}

		saved := 0
		for _, finding := range findings {
			saved += finding.SavedBytes()
		}
		results = append(results, Result{
			Strategy:   reg.Name,
			SavedBytes: saved,
			Findings:   findings,
		})
	}

	return results, diags
}

func runOne(reg Registered, facts *analysis.Facts, settings Settings) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("strategy %s panicked: %v", reg.Name, r)
		}
	}()
	return reg.Run(facts, settings), nil
}
