package domain

import (
	"errors"
	"fmt"
)

// Sentinels for the reconciliation failure kinds. Use errors.Is to test for them.
var (
	ErrInvalidPattern       = errors.New("invalid pattern")
	ErrMissingLine          = errors.New("line is required with state=present")
	ErrMissingCriterion     = errors.New("one of line or regexp is required with state=absent")
	ErrConflictingPlacement = errors.New("insertafter and insertbefore are mutually exclusive")
	ErrBackrefExpansion     = errors.New("backreference expansion failed")
)

// Sentinels for resource access failures.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrPermission       = errors.New("permission denied")
	ErrRecordTooLong    = errors.New("line exceeds record length")
)

// ReconcileError is raised by the reconciler when a request cannot be applied.
type ReconcileError struct {
	// Kind is one of the Err* reconciliation sentinels.
	Kind error
	// Detail names the offending field or placeholder.
	Detail string
	// Err is the underlying cause, if any (e.g. a regexp compile error).
	Err error
}

func (e *ReconcileError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is lets errors.Is match a ReconcileError against its Kind.
func (e *ReconcileError) Is(target error) bool {
	return e.Kind == target
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// NewReconcileError is a shorthand used by the reconciler.
func NewReconcileError(kind error, detail string, cause error) *ReconcileError {
	return &ReconcileError{Kind: kind, Detail: detail, Err: cause}
}

// ResourceOp names the adapter operation that failed.
type ResourceOp string

const (
	OpRead   ResourceOp = "read"
	OpWrite  ResourceOp = "write"
	OpBackup ResourceOp = "backup"
	OpLock   ResourceOp = "lock"
)

// ResourceError is raised by resource adapters and the backup collaborator.
type ResourceError struct {
	Op       ResourceOp
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
