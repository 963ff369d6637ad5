package outline

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsawler/outline/layout"
)

// DefaultBudget is the default per-document processing budget
const DefaultBudget = 10 * time.Second

// ExtractOptions holds configuration for outline extraction.
type ExtractOptions struct {
	// Heuristic profile for classification and title selection
	config layout.Config

	// Soft wall-clock budget, checked between processing stages; zero or
	// negative disables it
	budget time.Duration

	// Cancellation, checked at the same stages as the budget
	ctx context.Context

	// Time source for the budget
	clock func() time.Time

	// Degradations are logged here at Warn level
	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		config: layout.DefaultConfig(),
		budget: DefaultBudget,
		ctx:    context.Background(),
		clock:  time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
}

// clone creates a copy of ExtractOptions. The layout.Config slices are
// shared; configs are never modified after construction.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		config: o.config,
		budget: o.budget,
		ctx:    o.ctx,
		clock:  o.clock,
		logger: o.logger,
	}
}
