package domain

// ChangeKind classifies one DiffEntry.
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeRemoved   ChangeKind = "removed"
	ChangeModified  ChangeKind = "modified"
	ChangeMoved     ChangeKind = "moved"
	ChangeUnchanged ChangeKind = "unchanged"
)

// DiffEntry is one classified change. Field names are stable when
// serialized so downstream report generators stay decoupled from the
// comparator internals.
type DiffEntry struct {
	ChangeKind  ChangeKind `json:"change_kind"`
	IdentityKey string     `json:"identity_key"`
	NodeType    string     `json:"node_type"`

	// Path is the sequence of identity keys from the root down to, and
	// including, this node. For moved entries it equals NewPath.
	Path []string `json:"path"`

	// OldAttributes/NewAttributes are set for modified entries (and, as a
	// convenience for renderers, on removed/added entries respectively).
	OldAttributes map[string]string `json:"old_attributes,omitempty"`
	NewAttributes map[string]string `json:"new_attributes,omitempty"`

	// OldPath/NewPath are set for moved entries.
	OldPath []string `json:"old_path,omitempty"`
	NewPath []string `json:"new_path,omitempty"`

	// SubtreeChanged is set on unchanged expanded-subtree boundary markers
	// whose interior contains changes. Renderers use it to decide whether
	// an unchanged boundary may be collapsed.
	SubtreeChanged bool `json:"subtree_changed,omitempty"`
}

// DiffSummary counts entries per change kind.
type DiffSummary struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Moved     int `json:"moved"`
	Unchanged int `json:"unchanged"`
}

// Total returns the number of classified entries.
func (s DiffSummary) Total() int {
	return s.Added + s.Removed + s.Modified + s.Moved + s.Unchanged
}

// Changed reports whether any entry is not unchanged.
func (s DiffSummary) Changed() bool {
	return s.Added+s.Removed+s.Modified+s.Moved > 0
}

// DiffResult is the ordered sequence of entries for one comparison, plus
// summary counts. It is built once per comparison and immutable thereafter;
// ownership passes to the caller.
type DiffResult struct {
	Entries []DiffEntry `json:"entries"`
	Summary DiffSummary `json:"summary"`

	// OldSource/NewSource identify the compared documents. Reporting only.
	OldSource string `json:"old_source,omitempty"`
	NewSource string `json:"new_source,omitempty"`
}

// Summarize recounts the summary from the entries.
func Summarize(entries []DiffEntry) DiffSummary {
	var s DiffSummary
	for _, e := range entries {
		switch e.ChangeKind {
		case ChangeAdded:
			s.Added++
		case ChangeRemoved:
			s.Removed++
		case ChangeModified:
			s.Modified++
		case ChangeMoved:
			s.Moved++
		case ChangeUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// Changes returns the entries that are not unchanged, preserving order.
func (r *DiffResult) Changes() []DiffEntry {
	out := make([]DiffEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.ChangeKind != ChangeUnchanged {
			out = append(out, e)
		}
	}
	return out
}
