package report

import (
	"fmt"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the expanded tree with
// per-change styling. Shapes follow node kind:
//   - control: [Rectangle]
//   - decorator: ((Circle))
//   - condition: {Diamond}
//   - subtree boundary: [[Subroutine]]
//   - action: [/Parallelogram/]
func GenerateMermaid(root *domain.Node, res *domain.DiffResult) string {
	marks := map[string]domain.ChangeKind{}
	if res != nil {
		for _, e := range res.Entries {
			if e.ChangeKind != domain.ChangeUnchanged {
				marks[strings.Join(e.Path, "/")] = e.ChangeKind
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var classes []string
	var walk func(n *domain.Node, path []string, id string)
	seq := 0
	walk = func(n *domain.Node, path []string, id string) {
		opener, closer := "[", "]"
		switch n.Kind {
		case domain.KindDecorator:
			opener, closer = "((", "))"
		case domain.KindCondition:
			opener, closer = "{", "}"
		case domain.KindSubtree:
			opener, closer = "[[", "]]"
		case domain.KindAction:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, escapeMermaid(n.IdentityKey), closer)

		if kind, ok := marks[strings.Join(path, "/")]; ok {
			classes = append(classes, fmt.Sprintf("    class %s %s\n", id, kind))
		}

		for _, c := range n.Children {
			seq++
			childID := fmt.Sprintf("n%d", seq)
			fmt.Fprintf(&sb, "    %s --> %s\n", id, childID)
			walk(c, append(path, c.IdentityKey), childID)
		}
	}
	walk(root, []string{root.IdentityKey}, "n0")

	sb.WriteString("    classDef added fill:#bbf7d0,stroke:#15803d\n")
	sb.WriteString("    classDef removed fill:#fecaca,stroke:#b91c1c\n")
	sb.WriteString("    classDef modified fill:#fde68a,stroke:#b45309\n")
	sb.WriteString("    classDef moved fill:#bfdbfe,stroke:#1d4ed8\n")
	for _, c := range classes {
		sb.WriteString(c)
	}
	return sb.String()
}

func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return strings.ReplaceAll(s, "\n", " ")
}
