package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// HTMLData feeds the standalone report template.
type HTMLData struct {
	Result  *domain.DiffResult
	OldTree string // ASCII rendering of the old tree (optional)
	NewTree string // ASCII rendering of the new tree (optional)
}

// WriteHTML renders res as a self-contained HTML document.
// No external assets are referenced, so the file can be archived or
// attached to a review as-is.
func WriteHTML(w io.Writer, data HTMLData) error {
	return htmlTemplate.Execute(w, data)
}

var htmlFuncs = template.FuncMap{
	"joinPath": func(p []string) string { return strings.Join(p, " / ") },
	"upper":    strings.ToUpper,
	"attrDelta": func(e domain.DiffEntry) template.HTML {
		var sb strings.Builder
		writeAttrDelta(&sb, e.OldAttributes, e.NewAttributes)
		out := strings.ReplaceAll(template.HTMLEscapeString(sb.String()), "\n", "<br>")
		out = strings.ReplaceAll(out, "`", "")
		return template.HTML(out)
	},
	"badgeClass": func(k domain.ChangeKind) string { return fmt.Sprintf("badge badge-%s", k) },
}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Behavior Tree Structural Diff</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 64rem; color: #1f2937; }
  h1 { font-size: 1.5rem; }
  .summary { display: flex; gap: .75rem; margin: 1rem 0; }
  .badge { padding: .35rem .8rem; border-radius: .5rem; font-weight: 600; }
  .badge-added { background: #bbf7d0; color: #15803d; }
  .badge-removed { background: #fecaca; color: #b91c1c; }
  .badge-modified { background: #fde68a; color: #b45309; }
  .badge-moved { background: #bfdbfe; color: #1d4ed8; }
  .badge-unchanged { background: #e5e7eb; color: #4b5563; }
  .change { border: 1px solid #e5e7eb; border-radius: .5rem; padding: .75rem 1rem; margin: .75rem 0; }
  .path { color: #6b7280; font-family: ui-monospace, monospace; font-size: .85rem; }
  pre { background: #f9fafb; border: 1px solid #e5e7eb; border-radius: .5rem; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>Behavior Tree Structural Diff</h1>
{{with .Result}}
<p class="path">Old: {{.OldSource}}<br>New: {{.NewSource}}</p>
<div class="summary">
  <span class="badge badge-added">+{{.Summary.Added}} added</span>
  <span class="badge badge-removed">−{{.Summary.Removed}} removed</span>
  <span class="badge badge-modified">~{{.Summary.Modified}} modified</span>
  <span class="badge badge-moved">→{{.Summary.Moved}} moved</span>
  <span class="badge badge-unchanged">{{.Summary.Unchanged}} unchanged</span>
</div>
{{range .Changes}}
<div class="change">
  <span class="{{badgeClass .ChangeKind}}">{{upper (printf "%s" .ChangeKind)}}</span>
  <strong>{{.IdentityKey}}</strong> <em>({{.NodeType}})</em>
  <div class="path">{{joinPath .Path}}</div>
  {{if eq (printf "%s" .ChangeKind) "moved"}}
  <div class="path">from {{joinPath .OldPath}}<br>to {{joinPath .NewPath}}</div>
  {{end}}
  <div>{{attrDelta .}}</div>
</div>
{{else}}
<p>No structural changes.</p>
{{end}}
{{end}}
{{if .NewTree}}
<h2>New tree</h2>
<pre>{{.NewTree}}</pre>
{{end}}
{{if .OldTree}}
<h2>Old tree</h2>
<pre>{{.OldTree}}</pre>
{{end}}
</body>
</html>
`))
