/*
Package ports defines the driven ports (interfaces) of btdiff.

These interfaces decouple the comparison core from its external
collaborators, so the same analysis runs against plain files, git
revisions, or in-memory documents, and results can be cached anywhere.

# Key Interfaces

  - ContentSource: reads document content at a given revision (e.g. git).
  - ResultStore: caches DiffResults for the serving layer (memory, Redis).
*/
package ports
