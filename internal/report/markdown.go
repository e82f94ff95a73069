// Package report renders a DiffResult for humans: markdown for terminals,
// an annotated ASCII tree, a Mermaid graph, and a standalone HTML page.
// Rendering is a presentation concern: it consumes the comparator's output
// and never re-derives structure from the documents.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// changeGlyphs decorate the per-change headings.
var changeGlyphs = map[domain.ChangeKind]string{
	domain.ChangeAdded:    "+",
	domain.ChangeRemoved:  "-",
	domain.ChangeModified: "*",
	domain.ChangeMoved:    "→",
}

// RenderMarkdown produces the textual diff report.
// Unchanged entries are omitted; unchanged expanded subtrees collapse into
// their boundary marker (a presentation choice the comparator leaves open).
func RenderMarkdown(res *domain.DiffResult) string {
	var sb strings.Builder

	sb.WriteString("# Behavior Tree Structural Diff\n\n")
	if res.OldSource != "" || res.NewSource != "" {
		fmt.Fprintf(&sb, "Old: `%s`  \nNew: `%s`\n\n", res.OldSource, res.NewSource)
	}

	s := res.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Added | Removed | Modified | Moved | Unchanged |\n")
	sb.WriteString("|------:|--------:|---------:|------:|----------:|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %d |\n\n", s.Added, s.Removed, s.Modified, s.Moved, s.Unchanged)

	changes := res.Changes()
	if len(changes) == 0 {
		sb.WriteString("No structural changes.\n")
		return sb.String()
	}

	sb.WriteString("## Changes\n\n")
	for _, e := range changes {
		writeChange(&sb, e)
	}
	return sb.String()
}

func writeChange(sb *strings.Builder, e domain.DiffEntry) {
	glyph := changeGlyphs[e.ChangeKind]
	fmt.Fprintf(sb, "### %s %s `%s`\n\n", glyph, strings.ToUpper(string(e.ChangeKind)), e.IdentityKey)
	fmt.Fprintf(sb, "- Node: `%s`\n", e.NodeType)
	fmt.Fprintf(sb, "- Path: `%s`\n", strings.Join(e.Path, " / "))

	switch e.ChangeKind {
	case domain.ChangeMoved:
		fmt.Fprintf(sb, "- From: `%s`\n", strings.Join(e.OldPath, " / "))
		fmt.Fprintf(sb, "- To: `%s`\n", strings.Join(e.NewPath, " / "))
		if e.OldAttributes != nil || e.NewAttributes != nil {
			writeAttrDelta(sb, e.OldAttributes, e.NewAttributes)
		}
	case domain.ChangeModified:
		writeAttrDelta(sb, e.OldAttributes, e.NewAttributes)
	case domain.ChangeAdded:
		writeAttrs(sb, e.NewAttributes)
	case domain.ChangeRemoved:
		writeAttrs(sb, e.OldAttributes)
	}
	sb.WriteString("\n")
}

// writeAttrDelta lists attribute-level changes, keys sorted for stability.
func writeAttrDelta(sb *strings.Builder, oldAttrs, newAttrs map[string]string) {
	keys := map[string]struct{}{}
	for k := range oldAttrs {
		keys[k] = struct{}{}
	}
	for k := range newAttrs {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		ov, oOK := oldAttrs[k]
		nv, nOK := newAttrs[k]
		switch {
		case oOK && nOK && ov != nv:
			fmt.Fprintf(sb, "- `%s`: `%s` → `%s`\n", k, ov, nv)
		case oOK && !nOK:
			fmt.Fprintf(sb, "- `%s`: `%s` → (removed)\n", k, ov)
		case !oOK && nOK:
			fmt.Fprintf(sb, "- `%s`: (added) → `%s`\n", k, nv)
		}
	}
}

func writeAttrs(sb *strings.Builder, attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "- `%s` = `%s`\n", k, attrs[k])
	}
}
