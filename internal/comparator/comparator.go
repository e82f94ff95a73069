// Package comparator aligns two expanded behavior trees node-by-node and
// produces a classified diff.
//
// Matching happens per sibling list, by identity-key equality first, so a
// reordering that preserves identity is distinguishable from structural
// churn. Nodes left unmatched are tentatively removed/added and then run
// through a similarity-based reclassification pass that recovers moved and
// modified pairs; identity keys synthesized from (type, sibling position)
// are inherently fragile under reordering, and the heuristic trades a
// provable minimum-edit answer (exponential in general) for an informative
// one. The whole computation is pure and deterministic: ties are never
// resolved by traversal order alone.
package comparator

import (
	"sort"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// DefaultSimilarityThreshold accepts a tentative removed/added pair when at
// least half of its attribute keys are shared with equal values.
const DefaultSimilarityThreshold = 0.5

// Comparator produces DiffResults from pairs of expanded trees.
type Comparator struct {
	threshold float64
	ignored   map[string]struct{}
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithSimilarityThreshold overrides the reclassification threshold.
// Values outside (0, 1] are ignored.
func WithSimilarityThreshold(t float64) Option {
	return func(c *Comparator) {
		if t > 0 && t <= 1 {
			c.threshold = t
		}
	}
}

// WithIgnoredAttributes excludes attribute names from all comparisons
// (e.g. purely cosmetic attributes such as _description).
func WithIgnoredAttributes(names ...string) Option {
	return func(c *Comparator) {
		for _, n := range names {
			c.ignored[n] = struct{}{}
		}
	}
}

// New creates a comparator.
func New(opts ...Option) *Comparator {
	c := &Comparator{
		threshold: DefaultSimilarityThreshold,
		ignored:   map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare aligns old and new and returns the classified diff.
// Both trees must be fully expanded; the result is owned by the caller.
func (c *Comparator) Compare(oldTree, newTree *domain.ExpandedTree) (*domain.DiffResult, error) {
	if oldTree == nil || oldTree.Root == nil {
		return nil, &domain.InputError{Source: "old", Err: errNoRoot}
	}
	if newTree == nil || newTree.Root == nil {
		return nil, &domain.InputError{Source: "new", Err: errNoRoot}
	}

	s := &session{cmp: c}

	// Roots are always matched to each other.
	root := &match{
		old:     oldTree.Root,
		new:     newTree.Root,
		oldPath: []string{oldTree.Root.IdentityKey},
		newPath: []string{newTree.Root.IdentityKey},
	}
	s.matchChildren(root)
	s.reclassify()

	res := &domain.DiffResult{
		OldSource: oldTree.SourcePath,
		NewSource: newTree.SourcePath,
	}
	s.emit(root)
	res.Entries = s.entries
	res.Summary = domain.Summarize(res.Entries)
	return res, nil
}

type errString string

func (e errString) Error() string { return string(e) }

const errNoRoot = errString("tree has no root node")

// match is one aligned position in the comparison. Either side may be nil
// (tentative addition/removal) until reclassification pairs it up.
type match struct {
	old, new *domain.Node
	oldPath  []string // full path including own key
	newPath  []string
	oldPos   int // sibling position, tie-breaking only
	newPos   int
	moved    bool
	consumed bool // removal that was absorbed into a moved pair

	// children holds matched and added positions in new-document order,
	// followed by removals in old-document order.
	children []*match
}

type session struct {
	cmp     *Comparator
	removed []*match // reclassification pools, in discovery order
	added   []*match
	entries []domain.DiffEntry
}

// matchChildren aligns the children of an already-matched pair by identity
// key and queues the leftovers for reclassification. It recurses through
// every matched child pair.
func (s *session) matchChildren(m *match) {
	// Index new children by identity key; duplicate keys are consumed in
	// document order.
	byKey := map[string][]int{}
	for i, c := range m.new.Children {
		byKey[c.IdentityKey] = append(byKey[c.IdentityKey], i)
	}

	taken := make([]bool, len(m.new.Children))
	paired := make(map[int]*match, len(m.new.Children)) // new index -> match

	var removals []*match
	for i, oc := range m.old.Children {
		idxs := byKey[oc.IdentityKey]
		if len(idxs) > 0 {
			j := idxs[0]
			byKey[oc.IdentityKey] = idxs[1:]
			taken[j] = true
			nc := m.new.Children[j]
			child := &match{
				old:     oc,
				new:     nc,
				oldPath: childPath(m.oldPath, oc),
				newPath: childPath(m.newPath, nc),
				oldPos:  i,
				newPos:  j,
			}
			paired[j] = child
			s.matchChildren(child)
			continue
		}
		rm := &match{
			old:     oc,
			oldPath: childPath(m.oldPath, oc),
			oldPos:  i,
		}
		removals = append(removals, rm)
		s.removed = append(s.removed, rm)
	}

	for j, nc := range m.new.Children {
		if taken[j] {
			m.children = append(m.children, paired[j])
			continue
		}
		ad := &match{
			new:     nc,
			newPath: childPath(m.newPath, nc),
			newPos:  j,
		}
		m.children = append(m.children, ad)
		s.added = append(s.added, ad)
	}
	m.children = append(m.children, removals...)
}

func childPath(parent []string, n *domain.Node) []string {
	p := make([]string, len(parent)+1)
	copy(p, parent)
	p[len(parent)] = n.IdentityKey
	return p
}

// reclassify pairs tentative removals with tentative additions of the same
// node type whose attributes are similar enough. Pools may grow while we
// iterate: pairing two subtree roots feeds their unmatched descendants back
// in, so a moved parent never reports its stable descendants as churn.
func (s *session) reclassify() {
	for progress := true; progress; {
		progress = false
		for i := 0; i < len(s.removed); i++ {
			if s.reclassifyOne(s.removed[i]) {
				progress = true
			}
		}
	}
}

func (s *session) reclassifyOne(rm *match) bool {
	if rm.consumed {
		return false
	}
	best := s.bestCounterpart(rm)
	if best == nil {
		return false
	}

	// Absorb the addition into a single matched position.
	rm.consumed = true
	best.old = rm.old
	best.oldPath = rm.oldPath
	best.oldPos = rm.oldPos
	// A pair with identical ancestors is a move only when the node
	// actually changed position; otherwise it is a modification.
	if samePath(parentOf(rm.oldPath), parentOf(best.newPath)) {
		if s.attributesEqual(rm.old.Attributes, best.new.Attributes) {
			best.moved = rm.oldPos != best.newPos
		} else {
			best.moved = false
		}
	} else {
		best.moved = true
	}
	s.matchChildren(best)
	return true
}

// bestCounterpart picks the most similar unconsumed addition for a removal,
// deterministically. Candidates must share the node type and clear the
// similarity threshold.
func (s *session) bestCounterpart(rm *match) *match {
	var best *match
	var bestSim float64
	var bestPrefix, bestDist int

	for _, ad := range s.added {
		if ad.old != nil || ad.new.Type != rm.old.Type {
			continue
		}
		sim := s.similarity(rm.old.Attributes, ad.new.Attributes)
		if sim < s.cmp.threshold {
			continue
		}
		prefix := s.commonPrefix(rm.old.Attributes, ad.new.Attributes)
		dist := abs(rm.oldPos - ad.newPos)
		switch {
		case best == nil,
			sim > bestSim,
			sim == bestSim && prefix > bestPrefix,
			sim == bestSim && prefix == bestPrefix && dist < bestDist,
			sim == bestSim && prefix == bestPrefix && dist == bestDist &&
				strings.Join(ad.newPath, "/") < strings.Join(best.newPath, "/"):
			best, bestSim, bestPrefix, bestDist = ad, sim, prefix, dist
		}
	}
	return best
}

// similarity is the fraction of attribute keys shared with equal values,
// relative to the larger attribute set. Two empty sets are identical.
func (s *session) similarity(a, b map[string]string) float64 {
	fa, fb := s.filter(a), s.filter(b)
	if len(fa) == 0 && len(fb) == 0 {
		return 1
	}
	shared := 0
	for k, v := range fa {
		if bv, ok := fb[k]; ok && bv == v {
			shared++
		}
	}
	return float64(shared) / float64(max(len(fa), len(fb)))
}

// commonPrefix counts, over the union of keys in name order, how many
// leading keys agree in presence and value.
func (s *session) commonPrefix(a, b map[string]string) int {
	fa, fb := s.filter(a), s.filter(b)
	keys := make([]string, 0, len(fa)+len(fb))
	seen := map[string]struct{}{}
	for k := range fa {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range fb {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	n := 0
	for _, k := range keys {
		av, aok := fa[k]
		bv, bok := fb[k]
		if !aok || !bok || av != bv {
			break
		}
		n++
	}
	return n
}

func (s *session) attributesEqual(a, b map[string]string) bool {
	fa, fb := s.filter(a), s.filter(b)
	if len(fa) != len(fb) {
		return false
	}
	for k, v := range fa {
		if bv, ok := fb[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func (s *session) filter(attrs map[string]string) map[string]string {
	if len(s.cmp.ignored) == 0 || len(attrs) == 0 {
		return attrs
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if _, skip := s.cmp.ignored[k]; !skip {
			out[k] = v
		}
	}
	return out
}

// emit materializes entries for a match and its subtree, parents first.
// It returns true when the entire subtree compared unchanged.
func (s *session) emit(m *match) bool {
	// A removal absorbed into a moved pair is reported at its new location,
	// but the old parent's subtree did change.
	if m.consumed {
		return false
	}

	switch {
	case m.old != nil && m.new != nil:
		entry := domain.DiffEntry{
			IdentityKey: m.new.IdentityKey,
			NodeType:    m.new.Type,
			Path:        m.newPath,
		}
		attrsEqual := s.attributesEqual(m.old.Attributes, m.new.Attributes)
		switch {
		case m.moved:
			entry.ChangeKind = domain.ChangeMoved
			entry.OldPath = m.oldPath
			entry.NewPath = m.newPath
			if !attrsEqual {
				entry.OldAttributes = m.old.Attributes
				entry.NewAttributes = m.new.Attributes
			}
		case !attrsEqual:
			entry.ChangeKind = domain.ChangeModified
			entry.OldAttributes = m.old.Attributes
			entry.NewAttributes = m.new.Attributes
		default:
			entry.ChangeKind = domain.ChangeUnchanged
		}

		idx := len(s.entries)
		s.entries = append(s.entries, entry)

		childrenUnchanged := true
		for _, c := range m.children {
			if !s.emit(c) {
				childrenUnchanged = false
			}
		}
		// An unchanged boundary marker still advertises interior changes
		// so renderers know it cannot be collapsed.
		if !childrenUnchanged && m.new.IsExpandedSubtree &&
			entry.ChangeKind == domain.ChangeUnchanged {
			s.entries[idx].SubtreeChanged = true
		}
		return entry.ChangeKind == domain.ChangeUnchanged && childrenUnchanged

	case m.new != nil:
		s.emitLeafKind(m.new, m.newPath, domain.ChangeAdded)
		return false

	default:
		s.emitLeafKind(m.old, m.oldPath, domain.ChangeRemoved)
		return false
	}
}

// emitLeafKind reports a whole unmatched subtree as added or removed.
func (s *session) emitLeafKind(n *domain.Node, path []string, kind domain.ChangeKind) {
	entry := domain.DiffEntry{
		ChangeKind:  kind,
		IdentityKey: n.IdentityKey,
		NodeType:    n.Type,
		Path:        path,
	}
	if kind == domain.ChangeAdded {
		entry.NewAttributes = n.Attributes
	} else {
		entry.OldAttributes = n.Attributes
	}
	s.entries = append(s.entries, entry)
	for _, c := range n.Children {
		s.emitLeafKind(c, childPath(path, c), kind)
	}
}

func parentOf(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	return path[:len(path)-1]
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
