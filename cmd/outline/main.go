// Command outline extracts titles and heading outlines from documents.
//
// Batch mode (default) outlines every supported file in the input directory
// and writes <name>.json files to the output directory:
//
//	outline -input ./pdfs -output ./out -workers 4
//
// Single-file mode writes one outline to stdout:
//
//	outline -file report.pdf
//	outline -file report.pdf -explain
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/batch"
	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("outline", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to a YAML settings file")
	input := fs.String("input", "", "Directory of documents to outline")
	output := fs.String("output", "", "Directory for the JSON results")
	workers := fs.Int("workers", 0, "Number of documents processed at once")
	budget := fs.Duration("budget", 0, "Per-document processing budget, e.g. 10s (negative disables)")
	profile := fs.String("profile", "", "Path to a heuristics profile YAML file")
	file := fs.String("file", "", "Outline a single file and print the JSON to stdout")
	explain := fs.Bool("explain", false, "With -file, print the classification of every heading span")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "workers":
			cfg.Workers = *workers
		case "budget":
			cfg.Budget = *budget
		case "profile":
			cfg.Profile = *profile
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log := cfg.NewLoggerTo(stderr)

	profileCfg, err := cfg.LayoutConfig()
	if err != nil {
		log.Error("invalid heuristics profile", "profile", cfg.Profile, "error", err)
		return 1
	}

	if *explain && *file == "" {
		fmt.Fprintln(stderr, "-explain requires -file")
		return 2
	}

	if *file != "" {
		limit := cfg.Budget
		if limit == 0 {
			limit = outline.DefaultBudget
		}
		ext := outline.Open(*file).
			Config(profileCfg).
			Budget(limit).
			Context(ctx).
			Logger(log)
		if *explain {
			return explainFile(ext, stdout, log)
		}
		if err := outline.EncodeJSON(stdout, ext.OutlineOrFallback()); err != nil {
			log.Error("write outline", "error", err)
			return 1
		}
		return 0
	}

	runner := batch.NewRunner(batch.Options{
		Workers: cfg.Workers,
		Budget:  cfg.Budget,
		Layout:  profileCfg,
		Logger:  log,
	})
	summary, err := runner.Run(ctx, cfg.Input, cfg.Output)
	if err != nil {
		log.Error("batch failed", "error", err)
		return 1
	}
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func explainFile(ext *outline.Extractor, w io.Writer, log *slog.Logger) int {
	start := time.Now()
	explanations, err := ext.Explain()
	if err != nil {
		log.Error("explain failed", "error", err)
		return 1
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tLEVEL\tSIZE\tREL\tBASE\tNUM\tGEOM\tSIGNALS\tTEXT")
	for _, e := range explanations {
		c := e.Classification
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.2f\t%s\t%s\t%s\t%s\t%s\n",
			e.Heading.Page+1,
			levelName(c.Level),
			e.Heading.Style.MaxSize,
			c.RelativeSize,
			levelName(c.BaseLevel),
			levelName(c.NumberingLevel),
			levelName(c.GeometryLevel),
			signalNames(c.Signals),
			e.Heading.TrimmedText(),
		)
	}
	if err := tw.Flush(); err != nil {
		return 1
	}
	log.Debug("explained", "headings", len(explanations), "duration_ms", time.Since(start).Milliseconds())
	return 0
}

func levelName(l model.Level) string {
	if !l.Valid() {
		return "-"
	}
	return l.String()
}

func signalNames(s layout.Signals) string {
	var out []byte
	add := func(on bool, name string) {
		if !on {
			return
		}
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, name...)
	}
	add(s.Bold, "bold")
	add(s.AllCaps, "caps")
	add(s.Pattern, "pattern")
	add(s.Structural, "structural")
	add(s.Short, "short")
	if len(out) == 0 {
		return "-"
	}
	return string(out)
}
