/*
Package btdiff analyzes two versions of a behavior-tree XML document and
reports their structural differences: which nodes were added, removed,
modified, or moved, with named subtree references expanded recursively.

The two versions may come from two arbitrary files, in-memory text, or the
same file at two git revisions. The output is a DiffResult: an ordered
sequence of classified entries plus summary counts, ready for rendering.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/btkit/btdiff"
	)

	func main() {
		a := btdiff.New()
		res, err := a.CompareFiles("mission_v1.xml", "mission_v2.xml")
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range res.Changes() {
			fmt.Println(e.ChangeKind, e.IdentityKey)
		}
	}

A comparison is pure and deterministic: the same two documents always yield
the same DiffResult, and independent comparisons may run concurrently with
no coordination. Errors are typed (ParseError, UnresolvedSubtreeError,
CyclicSubtreeError, ExpansionDepthError, InputError) and carry the node or
subtree they refer to, so callers can render them without re-deriving
context.
*/
package btdiff
