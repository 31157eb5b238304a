package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventReconciled EventType = "reconciled"
	EventFailed     EventType = "failed"
	EventBackedUp   EventType = "backed_up"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Resource  string    `json:"resource"`
}

// ReconcileEvent is emitted after a reconciliation finished, written or not.
type ReconcileEvent struct {
	EventBase
	Kind     ResourceKind  `json:"kind"`
	Mode     Mode          `json:"mode"`
	Changed  bool          `json:"changed"`
	Action   Action        `json:"action"`
	DryRun   bool          `json:"dry_run,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ErrorEvent is emitted when an invocation fails at any stage.
type ErrorEvent struct {
	EventBase
	Stage string `json:"stage"`
	Err   error  `json:"-"`
}

// BackupEvent is emitted after a backup copy was written.
type BackupEvent struct {
	EventBase
	BackupName string `json:"backup_name"`
}

// LifecycleHooks defines callbacks for editor observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnReconciled func(context.Context, *ReconcileEvent)
	OnError      func(context.Context, *ErrorEvent)
	OnBackup     func(context.Context, *BackupEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnReconciled: chain(h.OnReconciled, other.OnReconciled),
		OnError:      chain(h.OnError, other.OnError),
		OnBackup:     chain(h.OnBackup, other.OnBackup),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
