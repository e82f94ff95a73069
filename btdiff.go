package btdiff

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/btkit/btdiff/internal/comparator"
	"github.com/btkit/btdiff/internal/parser"
	"github.com/btkit/btdiff/internal/resolver"
	"github.com/btkit/btdiff/pkg/domain"
	"github.com/btkit/btdiff/pkg/ports"
)

// Version is the released version of btdiff.
var Version = "0.3.0"

// Document is one comparison input: raw text plus a label used in errors
// and reports. The analyzer never opens the label as a path.
type Document struct {
	Text   []byte
	Source string
}

// Analyzer wires parser, resolver and comparator into one entry point.
// It is stateless across comparisons; a single Analyzer may serve
// concurrent comparisons of independent document pairs.
type Analyzer struct {
	parserOpts     []parser.Option
	resolverOpts   []resolver.Option
	comparatorOpts []comparator.Option
	logger         *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTree selects a named tree definition instead of the automatic
// MainTree selection.
func WithTree(name string) Option {
	return func(a *Analyzer) {
		if name != "" {
			a.parserOpts = append(a.parserOpts, parser.WithTree(name))
		}
	}
}

// WithSimilarityThreshold tunes the moved/modified reclassification pass.
func WithSimilarityThreshold(t float64) Option {
	return func(a *Analyzer) {
		if t > 0 {
			a.comparatorOpts = append(a.comparatorOpts, comparator.WithSimilarityThreshold(t))
		}
	}
}

// WithMaxExpansionDepth bounds nested subtree expansion.
func WithMaxExpansionDepth(limit int) Option {
	return func(a *Analyzer) {
		if limit > 0 {
			a.resolverOpts = append(a.resolverOpts, resolver.WithMaxDepth(limit))
		}
	}
}

// WithIgnoredAttributes excludes attribute names from comparison.
func WithIgnoredAttributes(names ...string) Option {
	return func(a *Analyzer) {
		if len(names) > 0 {
			a.comparatorOpts = append(a.comparatorOpts, comparator.WithIgnoredAttributes(names...))
		}
	}
}

// WithLogger sets a structured logger. The default logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ParseDocument parses and expands a single document, without comparing.
// Useful for inspecting a tree's structure or statistics.
func (a *Analyzer) ParseDocument(doc Document) (*domain.ExpandedTree, error) {
	tree, err := parser.New(a.parserOpts...).Parse(doc.Text, doc.Source)
	if err != nil {
		return nil, err
	}
	return resolver.New(a.resolverOpts...).Expand(tree)
}

// CompareDocuments parses, expands and compares two document versions.
// Parser failures surface as ParseError; resolver failures of either input
// are wrapped in InputError. No partial diff is ever produced.
func (a *Analyzer) CompareDocuments(oldDoc, newDoc Document) (*domain.DiffResult, error) {
	oldTree, err := a.expandSide(oldDoc, "old")
	if err != nil {
		return nil, err
	}
	newTree, err := a.expandSide(newDoc, "new")
	if err != nil {
		return nil, err
	}

	a.logger.Debug("comparing trees",
		"old", oldDoc.Source, "new", newDoc.Source,
		"old_nodes", oldTree.Stats().TotalNodes, "new_nodes", newTree.Stats().TotalNodes)

	return comparator.New(a.comparatorOpts...).Compare(oldTree, newTree)
}

// CompareFiles reads both paths from disk and compares them.
func (a *Analyzer) CompareFiles(oldPath, newPath string) (*domain.DiffResult, error) {
	oldText, err := os.ReadFile(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read old document: %w", err)
	}
	newText, err := os.ReadFile(newPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read new document: %w", err)
	}
	return a.CompareDocuments(
		Document{Text: oldText, Source: oldPath},
		Document{Text: newText, Source: newPath},
	)
}

// CompareRevisions compares the same path at two revisions, reading content
// through the given source (e.g. a git repository).
func (a *Analyzer) CompareRevisions(ctx context.Context, src ports.ContentSource, path, oldRev, newRev string) (*domain.DiffResult, error) {
	oldText, err := src.Read(ctx, path, oldRev)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, oldRev, err)
	}
	newText, err := src.Read(ctx, path, newRev)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", path, newRev, err)
	}
	return a.CompareDocuments(
		Document{Text: oldText, Source: fmt.Sprintf("%s@%s", path, oldRev)},
		Document{Text: newText, Source: fmt.Sprintf("%s@%s", path, newRev)},
	)
}

// expandSide parses and resolves one input, labeling resolver failures with
// the side they came from.
func (a *Analyzer) expandSide(doc Document, side string) (*domain.ExpandedTree, error) {
	tree, err := parser.New(a.parserOpts...).Parse(doc.Text, doc.Source)
	if err != nil {
		return nil, err
	}
	expanded, err := resolver.New(a.resolverOpts...).Expand(tree)
	if err != nil {
		return nil, &domain.InputError{Source: side, Err: err}
	}
	return expanded, nil
}
