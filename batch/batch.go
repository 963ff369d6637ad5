// Package batch outlines every supported document in a directory with a
// pool of workers and writes one JSON result per document.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Options configures a Runner.
type Options struct {
	// Workers is the number of documents processed at once.
	// Default: runtime.NumCPU()
	Workers int

	// Budget is the per-document processing budget. Zero uses
	// outline.DefaultBudget; a negative budget disables it.
	Budget time.Duration

	// Layout is the heuristic profile
	Layout layout.Config

	Logger *slog.Logger
}

// Summary reports the outcome of a run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Fallbacks int // written with the fallback outline
	Failed    int // no output written
	Duration  time.Duration
}

// Result is the outcome for one document.
type Result struct {
	File     string
	Output   string
	Outline  *model.Outline
	Fallback bool
	Err      error // extraction error behind a fallback, or the write error
	Duration time.Duration
}

// Runner processes directories of documents.
type Runner struct {
	opts Options
}

// NewRunner creates a Runner. Zero-valued options take their defaults.
func NewRunner(opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Budget == 0 {
		opts.Budget = outline.DefaultBudget
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Layout.DefaultBodySize == 0 {
		opts.Layout = layout.DefaultConfig()
	}
	return &Runner{opts: opts}
}

// Files lists the supported documents directly inside dir, sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if source.IsSupported(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputName returns the result file name for an input document
func OutputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// Run outlines every supported document in inputDir and writes the results
// to outputDir, which is created if needed. A document that cannot be
// processed gets the fallback outline; only write failures count as
// failed. Cancelling ctx stops dispatching new documents.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.opts.Logger.With("run_id", runID)

	files, err := Files(inputDir)
	if err != nil {
		return Summary{RunID: runID}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{RunID: runID}, fmt.Errorf("batch: create output dir: %w", err)
	}

	log.Info("batch started",
		"input", inputDir,
		"output", outputDir,
		"files", len(files),
		"workers", r.opts.Workers,
	)

	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for range r.opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- r.process(ctx, path, outputDir, log)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := Summary{RunID: runID}
	for res := range results {
		summary.Total++
		switch {
		case res.Output == "":
			summary.Failed++
		case res.Fallback:
			summary.Fallbacks++
		default:
			summary.Succeeded++
		}
	}
	summary.Duration = time.Since(start)

	log.Info("batch finished",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"fallbacks", summary.Fallbacks,
		"failed", summary.Failed,
		"duration_ms", summary.Duration.Milliseconds(),
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// process outlines one document and writes its result. It never panics.
func (r *Runner) process(ctx context.Context, path, outputDir string, log *slog.Logger) (res Result) {
	start := time.Now()
	res.File = path

	defer func() {
		if p := recover(); p != nil {
			res.Output = ""
			res.Err = fmt.Errorf("batch: panic processing %s: %v", path, p)
			log.Error("document failed", "file", path, "error", res.Err)
		}
	}()

	res.Outline, res.Err = r.Outline(ctx, path)
	if res.Err != nil {
		res.Fallback = true
		res.Outline = model.Fallback(path)
		log.Warn("using fallback outline", "file", path, "reason", res.Err.Error())
	}

	out := filepath.Join(outputDir, OutputName(path))
	if err := writeOutline(out, res.Outline); err != nil {
		res.Err = errors.Join(res.Err, err)
		log.Error("write failed", "file", path, "output", out, "error", err)
		return res
	}
	res.Output = out
	res.Duration = time.Since(start)

	log.Info("processed",
		"file", filepath.Base(path),
		"headings", len(res.Outline.Outline),
		"title", res.Outline.Title,
		"duration_ms", res.Duration.Milliseconds(),
		"fallback", res.Fallback,
	)
	return res
}

// Outline extracts the outline of one file with the runner's settings
func (r *Runner) Outline(ctx context.Context, path string) (*model.Outline, error) {
	return outline.Open(path).
		Config(r.opts.Layout).
		Budget(r.opts.Budget).
		Context(ctx).
		Logger(r.opts.Logger).
		Outline()
}

func writeOutline(path string, o *model.Outline) error {
	var buf bytes.Buffer
	if err := outline.EncodeJSON(&buf, o); err != nil {
		return fmt.Errorf("batch: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("batch: write: %w", err)
	}
	return nil
}
