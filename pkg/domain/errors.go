package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContentNotFound is returned by content sources when a path does not
// exist at the requested revision.
var ErrContentNotFound = errors.New("content not found")

// ErrResultNotFound is returned by result stores when a key is absent.
var ErrResultNotFound = errors.New("result not found")

// ParseError reports a malformed document: bad markup, unclosed elements,
// more than one root element, or duplicate subtree definition names.
type ParseError struct {
	Source string // originating document identifier
	Reason string
	Err    error // underlying decoder error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnresolvedSubtreeError reports a reference to a subtree name that has no
// definition in the document set.
type UnresolvedSubtreeError struct {
	Name string   // the missing definition name
	Path []string // identity keys from the root to the reference node
}

func (e *UnresolvedSubtreeError) Error() string {
	return fmt.Sprintf("subtree %q is not defined (referenced at %s)", e.Name, strings.Join(e.Path, "/"))
}

// CyclicSubtreeError reports a reference graph that revisits a name already
// on the current expansion path.
type CyclicSubtreeError struct {
	Name  string   // the name that closed the cycle
	Cycle []string // expansion path, ending at the repeated name
}

func (e *CyclicSubtreeError) Error() string {
	return fmt.Sprintf("cyclic subtree reference: %s", strings.Join(e.Cycle, " -> "))
}

// ExpansionDepthError reports that expansion exceeded the configured depth
// limit. This is a defensive bound distinct from true-cycle detection.
type ExpansionDepthError struct {
	Limit int
	Path  []string
}

func (e *ExpansionDepthError) Error() string {
	return fmt.Sprintf("subtree expansion exceeded depth limit %d at %s", e.Limit, strings.Join(e.Path, "/"))
}

// InputError wraps a failure of either input of a comparison. No partial
// diff is ever produced alongside it.
type InputError struct {
	Source string // "old" or "new", or a document identifier
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s input: %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
