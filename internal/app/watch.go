package app

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"pyshrink/internal/watcher"
)

// Watch re-analyzes files as they change until ctx is cancelled. Each
// debounced batch re-runs analysis only for the changed files; results
// print incrementally and the cache is saved after every batch. A
// token bucket keeps pathological event storms from pinning the CPU.
func (a *App) Watch(ctx context.Context, root string) error {
	batches := make(chan []string, 1)

	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			select {
			case batches <- paths:
			case <-ctx.Done():
			}
		},
	)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch([]string{root}); err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Limit(2), 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case paths := <-batches:
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			a.analyzeBatch(ctx, paths)
		}
	}
}

func (a *App) analyzeBatch(ctx context.Context, paths []string) {
	for _, path := range paths {
		result, err := a.AnalyzeFile(ctx, path)
		if err != nil {
			slog.Warn("failed to analyze changed file", "path", path, "error", err)
			continue
		}
		if a.printer != nil {
			a.printer.File(result)
		}
	}

	if err := a.Cache.Save(); err != nil {
		slog.Warn("failed to save result cache", "error", err)
	}
}
