// Package resolver expands subtree references into their defining structure.
// Expansion is depth-first and every reference site receives its own deep
// copy of the definition, so the comparator can treat each node as uniquely
// owned. Reference nodes survive expansion as boundary markers: a modified
// attachment point stays distinguishable from modified subtree content.
package resolver

import (
	"github.com/btkit/btdiff/pkg/domain"
)

// DefaultMaxDepth bounds nested expansion. It is a defensive limit distinct
// from true-cycle detection, which catches self-referencing definitions at
// any depth.
const DefaultMaxDepth = 64

// Resolver expands the subtree references of a Tree.
type Resolver struct {
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth overrides the expansion depth limit.
func WithMaxDepth(limit int) Option {
	return func(r *Resolver) {
		if limit > 0 {
			r.maxDepth = limit
		}
	}
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Expand inlines every subtree reference below the tree's root.
// It fails with UnresolvedSubtreeError, CyclicSubtreeError or
// ExpansionDepthError; no partially expanded tree is ever returned.
func (r *Resolver) Expand(tree *domain.Tree) (*domain.ExpandedTree, error) {
	st := &state{
		defs:     tree.Definitions,
		maxDepth: r.maxDepth,
	}
	root, err := st.expand(tree.Root.Clone(), nil, 0)
	if err != nil {
		return nil, err
	}
	return &domain.ExpandedTree{Root: root, SourcePath: tree.SourcePath}, nil
}

type state struct {
	defs     map[string]*domain.Node
	onPath   []string // definition names on the current expansion path
	maxDepth int
}

// expand rewrites node in place. The node is already a private copy.
func (s *state) expand(node *domain.Node, path []string, depth int) (*domain.Node, error) {
	path = append(path, node.IdentityKey)

	if node.Kind == domain.KindSubtree && !node.IsExpandedSubtree {
		name := node.SubtreeName
		for _, seen := range s.onPath {
			if seen == name {
				return nil, &domain.CyclicSubtreeError{
					Name:  name,
					Cycle: append(append([]string{}, s.onPath...), name),
				}
			}
		}
		def, ok := s.defs[name]
		if !ok {
			return nil, &domain.UnresolvedSubtreeError{
				Name: name,
				Path: append([]string{}, path...),
			}
		}
		if depth >= s.maxDepth {
			return nil, &domain.ExpansionDepthError{
				Limit: s.maxDepth,
				Path:  append([]string{}, path...),
			}
		}

		// The reference becomes a non-removable wrapper around its own
		// copy of the definition.
		node.IsExpandedSubtree = true
		node.Children = []*domain.Node{def.Clone()}

		s.onPath = append(s.onPath, name)
		for i, c := range node.Children {
			expanded, err := s.expand(c, path, depth+1)
			if err != nil {
				return nil, err
			}
			node.Children[i] = expanded
		}
		s.onPath = s.onPath[:len(s.onPath)-1]
		return node, nil
	}

	for i, c := range node.Children {
		expanded, err := s.expand(c, path, depth)
		if err != nil {
			return nil, err
		}
		node.Children[i] = expanded
	}
	return node, nil
}
