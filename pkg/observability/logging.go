package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/ensureline/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one record per event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReconciled: func(ctx context.Context, e *domain.ReconcileEvent) {
			logger.InfoContext(ctx, "reconciled",
				"resource", e.Resource,
				"kind", e.Kind,
				"mode", e.Mode,
				"changed", e.Changed,
				"action", e.Action,
				"dry_run", e.DryRun,
				"duration", e.Duration,
			)
		},
		OnError: func(ctx context.Context, e *domain.ErrorEvent) {
			logger.ErrorContext(ctx, "reconcile failed",
				"resource", e.Resource,
				"stage", e.Stage,
				"kind", ErrorKind(e.Err),
				"err", e.Err,
			)
		},
		OnBackup: func(ctx context.Context, e *domain.BackupEvent) {
			logger.InfoContext(ctx, "backed up", "resource", e.Resource, "backup", e.BackupName)
		},
	}
}
