package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/trace"

	"pyshrink/internal/analysis"
	"pyshrink/internal/cache"
	"pyshrink/internal/config"
	"pyshrink/internal/history"
	"pyshrink/internal/observability"
	"pyshrink/internal/parser"
	"pyshrink/internal/report"
	"pyshrink/internal/strategy"
)

// App ties scanning, parsing, strategy evaluation, caching and
// reporting together for one run (or one watch session).
type App struct {
	Config  *config.Config
	Cache   *cache.ResultCache
	Ignore  *IgnoreData
	History *history.Store

	parser  *parser.Parser
	printer *report.Printer

	// Lines for the end-of-run error report, three per failure.
	errorLines []string
}

type Options struct {
	Config     *config.Config
	CachePath  string
	NoCache    bool
	IgnoreData *IgnoreData
	History    *history.Store
	Printer    *report.Printer
}

func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	cachePath := opts.CachePath
	if cachePath == "" {
		cachePath = cfg.Cache.Path
	}
	return &App{
		Config:  cfg,
		Cache:   cache.Open(cachePath, opts.NoCache),
		Ignore:  opts.IgnoreData,
		History: opts.History,
		parser:  parser.NewParser(),
		printer: opts.Printer,
	}
}

// Summary aggregates one run over a set of files.
type Summary struct {
	FileCount         int
	FilesWithFindings int
	FindingCount      int
	SavedBytes        int
	ErrorLines        []string
}

// Run analyzes every Python file under root, prints per-file results
// and the final total, and persists cache and history.
func (a *App) Run(ctx context.Context, root string) (Summary, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run", trace.WithAttributes())
	defer span.End()

	files, err := ScanPath(root, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return Summary{}, err
	}

	summary, err := a.analyzeAll(ctx, files)
	if err != nil {
		return summary, err
	}

	if a.printer != nil {
		a.printer.Total(summary.SavedBytes)
		a.printer.Errors(summary.ErrorLines)
	}

	if err := a.Cache.Save(); err != nil {
		slog.Warn("failed to save result cache", "error", err)
	}
	a.recordSnapshot(summary)

	return summary, nil
}

func (a *App) analyzeAll(ctx context.Context, files []string) (Summary, error) {
	summary := Summary{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := a.AnalyzeFile(ctx, file)
		if err != nil {
			slog.Warn("failed to analyze file", "path", file, "error", err)
			continue
		}

		summary.FileCount++
		summary.SavedBytes += result.SavedBytes
		if len(result.Results) > 0 {
			summary.FilesWithFindings++
			for _, outcome := range result.Results {
				summary.FindingCount += len(outcome.Lines)
			}
		}

		if a.printer != nil {
			a.printer.File(result)
		}
	}
	summary.ErrorLines = a.errorLines

	observability.SavedBytes.Set(float64(summary.SavedBytes))
	return summary, nil
}

// AnalyzeFile analyzes one file, consulting the result cache first.
func (a *App) AnalyzeFile(ctx context.Context, path string) (cache.FileResult, error) {
	_, span := observability.Tracer.Start(ctx, "app.AnalyzeFile", trace.WithAttributes())
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return cache.FileResult{}, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return cache.FileResult{}, err
	}
	hash := cache.ContentHash(content)

	if cached, ok := a.Cache.Lookup(absPath, hash); ok {
		observability.CacheHitsTotal.Inc()
		return cached, nil
	}

	results, diags := a.runStrategies(path, absPath, content)
	a.recordDiagnostics(diags)

	fileResult := cache.FileResult{
		AbsFilePath: absPath,
		FileHash:    hash,
	}
	for _, result := range results {
		lines := make([]string, 0, len(result.Findings))
		for _, finding := range result.Findings {
			lines = append(lines, finding.String())
		}
		fileResult.Results = append(fileResult.Results, cache.StrategyOutcome{
			ValidatorName: result.Strategy,
			SavedBytes:    result.SavedBytes,
			Lines:         lines,
		})
		fileResult.SavedBytes += result.SavedBytes
		observability.FindingsTotal.WithLabelValues(result.Strategy).Add(float64(len(result.Findings)))
	}

	a.Cache.Store(fileResult)
	observability.FilesAnalyzedTotal.Inc()
	return fileResult, nil
}

func (a *App) runStrategies(path, absPath string, content []byte) ([]strategy.Result, []strategy.Diagnostic) {
	start := time.Now()
	tree, err := a.parser.Parse(path, content)
	observability.ParsingDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// A file that does not parse fails every strategy at once.
		return nil, []strategy.Diagnostic{{
			Strategy: "parser",
			FilePath: path,
			Message:  err.Error(),
		}}
	}
	defer tree.Close()

	settings := strategy.DefaultSettings()
	settings.FilePath = path
	settings.GlobalAttrThreshold = a.Config.Thresholds.GlobalAttrCache
	settings.LocalAttrThreshold = a.Config.Thresholds.LocalAttrCache
	settings.LocalGlobalThreshold = a.Config.Thresholds.LocalGlobal

	notInlineable := append([]string(nil), a.Config.Inline.NotInlineable...)
	notInlineable = append(notInlineable, a.Ignore.NotInlineable(absPath)...)
	if len(notInlineable) > 0 {
		settings.NotInlineable = make(map[string]struct{}, len(notInlineable))
		for _, name := range notInlineable {
			settings.NotInlineable[name] = struct{}{}
		}
	}

	facts := analysis.NewFacts(tree)
	return strategy.RunAll(facts, settings)
}

func (a *App) recordDiagnostics(diags []strategy.Diagnostic) {
	for _, diag := range diags {
		observability.StrategyPanicsTotal.WithLabelValues(diag.Strategy).Inc()
		a.errorLines = append(a.errorLines,
			fmt.Sprintf("Error happened while validating file %s", diag.FilePath),
			fmt.Sprintf("Validator: %s", diag.Strategy),
			fmt.Sprintf("Err: %s", diag.Message),
		)
	}
}

func (a *App) recordSnapshot(summary Summary) {
	if a.History == nil {
		return
	}
	err := a.History.SaveSnapshot("default", history.Snapshot{
		FileCount:         summary.FileCount,
		FilesWithFindings: summary.FilesWithFindings,
		FindingCount:      summary.FindingCount,
		SavedBytes:        summary.SavedBytes,
		DiagnosticCount:   len(summary.ErrorLines) / 3,
	})
	if err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}

// HasErrors reports whether any strategy failed during this run.
func (a *App) HasErrors() bool {
	return len(a.errorLines) > 0
}
