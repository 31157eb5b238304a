/*
Package domain contains the core types shared by the line reconciler and its collaborators.

It defines what an edit request looks like, what the reconciler hands back, and the
error taxonomy every layer reports with. The package is kept pure and free of I/O,
following the same ports-and-adapters split as the rest of the module.

# Key Entities

  - Request: an immutable description of the desired state of one line.
  - Outcome: the new line sequence, the changed verdict and the affected index.
  - ReconcileError: failures raised by the reconciler itself.
  - ResourceError: failures raised by resource adapters (not found, permission, encoding).
  - LifecycleHooks: callbacks fired by the editor around each reconciliation.

# Present vs. Absent

Present mode edits one canonical line: when the pattern matches several lines, only the
last match is replaced. Absent mode is a set-membership operation: every matching line
is removed. The asymmetry is intentional and easy to get wrong when porting playbooks.
*/
package domain
