package entity

import (
	"context"
	"log/slog"
	"slices"
	"sort"

	"github.com/C0oki3s/scribdt/internal/model"
)

// Scanner detects entity spans in text.
//
// kinds restricts detection to the listed kinds. A nil slice means every
// supported kind; an empty non-nil slice means none.
type Scanner interface {
	Scan(ctx context.Context, text string, kinds []model.EntityKind) ([]model.EntityFinding, error)
}

// Recognizer finds spans of a single entity kind.
type Recognizer interface {
	Kind() model.EntityKind
	Recognize(ctx context.Context, text string) ([]model.EntityFinding, error)
}

// Analyzer coordinates a set of recognizers.
type Analyzer struct {
	recognizers []Recognizer
	logger      *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets the logger used for recognizer errors.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRecognizers replaces the default recognizer set.
func WithRecognizers(rs ...Recognizer) AnalyzerOption {
	return func(a *Analyzer) {
		a.recognizers = rs
	}
}

// NewAnalyzer creates an Analyzer with the built-in recognizers.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		recognizers: DefaultRecognizers(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds a recognizer.
func (a *Analyzer) Register(r Recognizer) {
	a.recognizers = append(a.recognizers, r)
}

// Kinds returns the entity kinds this analyzer can detect, in registration order.
func (a *Analyzer) Kinds() []model.EntityKind {
	var kinds []model.EntityKind
	for _, r := range a.recognizers {
		if !slices.Contains(kinds, r.Kind()) {
			kinds = append(kinds, r.Kind())
		}
	}
	return kinds
}

// Scan runs every selected recognizer over text and returns all spans
// ordered by start offset. A failing recognizer is logged and skipped.
func (a *Analyzer) Scan(ctx context.Context, text string, kinds []model.EntityKind) ([]model.EntityFinding, error) {
	var findings []model.EntityFinding

	for _, r := range a.recognizers {
		if err := ctx.Err(); err != nil {
			return findings, err
		}
		if kinds != nil && !slices.Contains(kinds, r.Kind()) {
			continue
		}

		spans, err := r.Recognize(ctx, text)
		if err != nil {
			a.logger.Warn("recognizer failed", "kind", r.Kind(), "error", err)
			continue
		}
		findings = append(findings, spans...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Start != findings[j].Start {
			return findings[i].Start < findings[j].Start
		}
		return findings[i].End > findings[j].End
	})
	return findings, nil
}

// ResolveKinds maps filter names onto the kinds supported by a.
// Unknown names are logged and ignored. An empty names list yields nil,
// meaning every kind.
func (a *Analyzer) ResolveKinds(names []string, logger *slog.Logger) []model.EntityKind {
	if len(names) == 0 {
		return nil
	}
	if logger == nil {
		logger = a.logger
	}

	supported := a.Kinds()
	kinds := make([]model.EntityKind, 0, len(names))
	for _, name := range names {
		k := model.EntityKind(name)
		if !slices.Contains(supported, k) {
			logger.Warn("ignoring unknown entity kind", "kind", name)
			continue
		}
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
