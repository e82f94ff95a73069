package domain

// Tree is the parser's output: a literal root node plus the named subtree
// definitions discovered in the same document.
type Tree struct {
	// Root is the main tree's root node. Subtree references below it are
	// not inlined; that is the resolver's job.
	Root *Node `json:"root"`

	// Definitions maps subtree name to its defining root node. The map is
	// scoped to one comparison; it is never shared across invocations.
	Definitions map[string]*Node `json:"definitions,omitempty"`

	// SourcePath identifies the originating document.
	SourcePath string `json:"source_path,omitempty"`
}

// ExpandedTree is a Tree after all subtree references have been inlined.
// Reference nodes survive as boundary markers (IsExpandedSubtree).
type ExpandedTree struct {
	Root       *Node  `json:"root"`
	SourcePath string `json:"source_path,omitempty"`
}

// TreeStats summarizes an expanded tree's composition.
type TreeStats struct {
	TotalNodes     int `json:"total_nodes"`
	ControlNodes   int `json:"control_nodes"`
	ActionNodes    int `json:"action_nodes"`
	ConditionNodes int `json:"condition_nodes"`
	DecoratorNodes int `json:"decorator_nodes"`
	SubtreeNodes   int `json:"subtree_nodes"`
	MaxDepth       int `json:"max_depth"`
}

// Stats walks the tree and counts nodes per kind.
func (t *ExpandedTree) Stats() TreeStats {
	var stats TreeStats
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil {
			return
		}
		stats.TotalNodes++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		switch n.Kind {
		case KindControl:
			stats.ControlNodes++
		case KindAction:
			stats.ActionNodes++
		case KindCondition:
			stats.ConditionNodes++
		case KindDecorator:
			stats.DecoratorNodes++
		case KindSubtree:
			stats.SubtreeNodes++
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
	return stats
}
