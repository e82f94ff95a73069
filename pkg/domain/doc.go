// Package domain holds the core data model of btdiff: the behavior-tree
// node structure produced by the parser, the expanded tree produced by the
// resolver, and the classified diff produced by the comparator.
//
// Values in this package are plain data. They carry no behavior beyond
// construction helpers and are safe to hand across package boundaries: a
// DiffResult is built once per comparison and owned by its caller.
package domain
