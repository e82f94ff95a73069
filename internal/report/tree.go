package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// keyAttributes are shown inline in the tree rendering when present.
var keyAttributes = []string{"ID", "name", "goal", "service_name"}

// RenderTree draws an ASCII tree of the expanded structure, annotating each
// node with its change kind from the result (if any).
func RenderTree(root *domain.Node, res *domain.DiffResult) string {
	marks := map[string]domain.ChangeKind{}
	if res != nil {
		for _, e := range res.Entries {
			if e.ChangeKind != domain.ChangeUnchanged {
				marks[strings.Join(e.Path, "/")] = e.ChangeKind
			}
		}
	}

	var sb strings.Builder
	drawNode(&sb, root, "", "", []string{root.IdentityKey}, marks)
	return sb.String()
}

func drawNode(sb *strings.Builder, n *domain.Node, prefix, childPrefix string, path []string, marks map[string]domain.ChangeKind) {
	label := fmt.Sprintf("%s (%s)%s", n.Type, n.Kind, inlineAttrs(n))
	if kind, ok := marks[strings.Join(path, "/")]; ok {
		label = fmt.Sprintf("%s %s [%s]", changeGlyphs[kind], label, kind)
	}
	sb.WriteString(prefix)
	sb.WriteString(label)
	sb.WriteString("\n")

	for i, c := range n.Children {
		last := i == len(n.Children)-1
		branch, cont := "├─ ", "│  "
		if last {
			branch, cont = "└─ ", "   "
		}
		drawNode(sb, c, childPrefix+branch, childPrefix+cont, append(path, c.IdentityKey), marks)
	}
}

// inlineAttrs renders the handful of naming attributes that make a node
// recognizable, in a stable order.
func inlineAttrs(n *domain.Node) string {
	parts := make([]string, 0, 2)
	for _, k := range keyAttributes {
		if v, ok := n.Attributes[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%q", k, v))
		}
	}
	sort.Strings(parts)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
