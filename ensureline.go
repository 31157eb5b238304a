package ensureline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/aretw0/ensureline/internal/logging"
	"github.com/aretw0/ensureline/internal/reconcile"
	"github.com/aretw0/ensureline/pkg/adapters"
	"github.com/aretw0/ensureline/pkg/backup"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/lock"
	"github.com/aretw0/ensureline/pkg/params"
	"github.com/aretw0/ensureline/pkg/ports"
)

// Stages reported in domain.ErrorEvent.
const (
	StageValidate  = "validate"
	StageResolve   = "resolve"
	StageLock      = "lock"
	StageRead      = "read"
	StageBackup    = "backup"
	StageReconcile = "reconcile"
	StageWrite     = "write"
)

// Editor applies ensure-line edits to files and datasets.
// It is safe for concurrent use; edits of the same resource are serialized.
type Editor struct {
	resolver  ports.Resolver
	backupper ports.Backupper
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	locks     *lock.Manager
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	now       func() time.Time
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithResolver replaces the default resolver (files by absolute path, datasets in
// the default catalog).
func WithResolver(r ports.Resolver) Option {
	return func(e *Editor) {
		e.resolver = r
	}
}

// WithBackupper replaces the default backupper.
func WithBackupper(b ports.Backupper) Option {
	return func(e *Editor) {
		e.backupper = b
	}
}

// WithLocker enables cross-process locking in addition to the in-process one.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Editor) {
		e.locker = l
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Editor) {
		e.lockTTL = ttl
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithClock overrides time.Now for events and default backup names.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

// New creates an Editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.resolver == nil {
		e.resolver = adapters.NewResolver(DefaultCatalog())
	}
	if e.backupper == nil {
		var bopts []backup.Option
		if r, ok := e.resolver.(*adapters.Resolver); ok {
			bopts = append(bopts, backup.WithCatalog(r.Catalog()))
		}
		e.backupper = backup.New(e.now, bopts...)
	}

	lockOpts := []lock.Option{lock.WithLogger(e.logger), lock.WithTTL(e.lockTTL)}
	if e.locker != nil {
		lockOpts = append(lockOpts, lock.WithLocker(e.locker))
	}
	e.locks = lock.NewManager(lockOpts...)
	return e
}

// DefaultCatalog is $ENSURELINE_CATALOG or ~/.ensureline/catalog.
func DefaultCatalog() string {
	if dir := os.Getenv("ENSURELINE_CATALOG"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".ensureline", "catalog")
	}
	return ".ensureline-catalog"
}

// Result reports what one invocation did.
type Result struct {
	Destination string              `json:"destination"`
	Kind        domain.ResourceKind `json:"kind"`
	Changed     bool                `json:"changed"`
	Action      domain.Action       `json:"action"`
	// Index is the edited line (0-based), or -1.
	Index      int    `json:"index"`
	Removed    int    `json:"removed,omitempty"`
	BackupName string `json:"backup_name,omitempty"`
	DryRun     bool   `json:"dry_run,omitempty"`

	Before []string `json:"-"`
	After  []string `json:"-"`
}

// Apply validates p, edits the destination and writes it back when it changed.
func (e *Editor) Apply(ctx context.Context, p params.Params) (*Result, error) {
	return e.run(ctx, p, false)
}

// Preview computes the result of Apply without taking a backup or writing.
func (e *Editor) Preview(ctx context.Context, p params.Params) (*Result, error) {
	return e.run(ctx, p, true)
}

// ApplyMap decodes raw parameters (see params.Decode) and applies them.
func (e *Editor) ApplyMap(ctx context.Context, raw map[string]any, dryRun bool) (*Result, error) {
	p, err := params.Decode(raw)
	if err != nil {
		e.fail(ctx, "", StageValidate, err)
		return nil, err
	}
	return e.run(ctx, p, dryRun)
}

func (e *Editor) run(ctx context.Context, p params.Params, dryRun bool) (*Result, error) {
	v, err := params.Validate(p)
	if err != nil {
		e.fail(ctx, p.Destination, StageValidate, err)
		return nil, err
	}

	res, err := e.resolver.Resolve(v.Destination, v.Encoding)
	if err != nil {
		e.fail(ctx, v.Destination, StageResolve, err)
		return nil, err
	}

	var (
		result *Result
		stage  = StageLock
	)
	err = e.locks.WithLock(ctx, res.Name(), func(ctx context.Context) error {
		var editErr error
		stage, result, editErr = e.edit(ctx, res, v, dryRun)
		return editErr
	})
	if err != nil {
		e.fail(ctx, res.Name(), stage, err)
		return nil, err
	}
	return result, nil
}

// edit runs the read-backup-reconcile-write cycle under the resource lock.
func (e *Editor) edit(ctx context.Context, res ports.Resource, v *params.Validated, dryRun bool) (string, *Result, error) {
	start := e.now()
	logger := e.logger.With("resource", res.Name(), "kind", res.Kind())

	lines, err := res.ReadLines(ctx)
	if err != nil {
		return StageRead, nil, err
	}
	logger.Debug("read resource", "lines", len(lines))

	result := &Result{
		Destination: res.Name(),
		Kind:        res.Kind(),
		DryRun:      dryRun,
		Before:      lines,
	}

	if v.Backup && !dryRun {
		name, err := e.backupper.Backup(ctx, res, v.BackupDest)
		if err != nil {
			return StageBackup, nil, err
		}
		result.BackupName = name
		logger.Debug("backup written", "backup", name)
		if e.hooks.OnBackup != nil {
			e.hooks.OnBackup(ctx, &domain.BackupEvent{
				EventBase:  e.base(domain.EventBackedUp, res.Name()),
				BackupName: name,
			})
		}
	}

	out, err := reconcileFor(res, lines, v.Request)
	if err != nil {
		return StageReconcile, nil, err
	}
	result.Changed = out.Changed
	result.Action = out.Action
	result.Index = out.Index
	result.Removed = len(out.Removed)
	result.After = out.Lines

	if out.Changed && !dryRun {
		if err := res.WriteLines(ctx, out.Lines); err != nil {
			return StageWrite, nil, err
		}
	}
	logger.Debug("reconciled", "changed", out.Changed, "action", out.Action, "dry_run", dryRun)

	if e.hooks.OnReconciled != nil {
		e.hooks.OnReconciled(ctx, &domain.ReconcileEvent{
			EventBase: e.base(domain.EventReconciled, res.Name()),
			Kind:      res.Kind(),
			Mode:      v.Request.Mode,
			Changed:   out.Changed,
			Action:    out.Action,
			DryRun:    dryRun,
			Duration:  e.now().Sub(start),
		})
	}
	return "", result, nil
}

// reconcileFor reconciles against the lines res will actually read back, so an edit
// whose difference the storage cannot keep is not reported as a change.
func reconcileFor(res ports.Resource, lines []string, req domain.Request) (domain.Outcome, error) {
	n, ok := res.(ports.LineNormalizer)
	if !ok {
		return reconcile.Reconcile(lines, req)
	}
	if req.Line != nil && !req.Backrefs {
		req.Line = domain.String(n.NormalizeLine(*req.Line))
	}
	out, err := reconcile.Reconcile(lines, req)
	if err != nil || !out.Changed {
		return out, err
	}
	for i, line := range out.Lines {
		out.Lines[i] = n.NormalizeLine(line)
	}
	if slices.Equal(out.Lines, lines) {
		return domain.Unchanged(lines), nil
	}
	return out, nil
}

func (e *Editor) fail(ctx context.Context, resource, stage string, err error) {
	e.logger.Debug("invocation failed", "resource", resource, "stage", stage, "err", err)
	if e.hooks.OnError != nil {
		e.hooks.OnError(ctx, &domain.ErrorEvent{
			EventBase: e.base(domain.EventFailed, resource),
			Stage:     stage,
			Err:       err,
		})
	}
}

func (e *Editor) base(t domain.EventType, resource string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, Resource: resource}
}
