/*
Package ports defines the driven ports (interfaces) of the line editor.

These interfaces decouple the reconciliation flow from concrete storage, so the same
editor works against a byte-stream file, a record-oriented dataset member or an
in-memory buffer.

# Key Interfaces

  - Resource: reads and writes the ordered lines of one logical text resource.
  - Resolver: turns a validated destination name into a Resource.
  - Backupper: copies a resource aside before it is rewritten.
  - DistributedLocker: provides cross-process single-writer locking per resource.
*/
package ports
