package domain

import "fmt"

// TextAttribute is the pseudo-attribute under which a leaf element's
// non-blank text content is stored. Whitespace-only text is discarded.
const TextAttribute = "#text"

// Node represents one behavior-tree element and its literal subtree.
// Sibling order is semantically meaningful: it encodes execution priority.
type Node struct {
	// Type is the element tag (e.g. "Sequence", "Wait").
	Type string `json:"node_type"`

	// Kind is the coarse classification of Type (see ClassifyTag).
	Kind string `json:"kind"`

	// IdentityKey is the stable identifier used to match this node across
	// versions. It is derived from an explicit name/ID attribute when one
	// exists, and synthesized from (Type, sibling position) otherwise.
	IdentityKey string `json:"identity_key"`

	// Attributes holds the element attributes verbatim, as strings.
	Attributes map[string]string `json:"attributes,omitempty"`

	// Children in document order.
	Children []*Node `json:"children,omitempty"`

	// SourcePath identifies the originating document. Reporting only.
	SourcePath string `json:"source_path,omitempty"`

	// SubtreeName is the referenced definition name for subtree references.
	SubtreeName string `json:"subtree_name,omitempty"`

	// IsExpandedSubtree marks a reference node whose children have been
	// replaced by the referenced definition (a boundary marker).
	IsExpandedSubtree bool `json:"is_expanded_subtree,omitempty"`
}

// DeriveIdentityKey computes the identity key for a node with the given tag
// and attributes, sitting at position pos in its sibling list.
func DeriveIdentityKey(tag string, attrs map[string]string, pos int) string {
	if name, ok := attrs["name"]; ok && name != "" {
		return tag + ":" + name
	}
	if id, ok := attrs["ID"]; ok && id != "" {
		return tag + ":" + id
	}
	return fmt.Sprintf("%s[%d]", tag, pos)
}

// HasExplicitIdentity reports whether the node's key came from a name/ID
// attribute rather than from its sibling position.
func (n *Node) HasExplicitIdentity() bool {
	return n.Attributes["name"] != "" || n.Attributes["ID"] != ""
}

// Clone returns a deep copy of the node and its subtree.
// Copies never share attribute maps or child slices with the original, so a
// comparison can treat every node as uniquely owned.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Attributes != nil {
		cp.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			cp.Attributes[k] = v
		}
	}
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Clone()
		}
	}
	return &cp
}

// Walk visits the node and every descendant in depth-first document order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}
