// Package cli holds the command logic behind cmd/ensureline: building the Editor
// from configuration, running single and batch edits, and serving.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/ensureline"
	"github.com/aretw0/ensureline/internal/config"
	"github.com/aretw0/ensureline/pkg/adapters"
	"github.com/aretw0/ensureline/pkg/adapters/redis"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/observability"
)

// EditorOptions tunes NewEditor.
type EditorOptions struct {
	Logger *slog.Logger
	// Registerer receives the edit metrics; nil disables them.
	Registerer prometheus.Registerer
	// LogEvents writes one log record per reconcile, backup and failure.
	LogEvents bool
}

// NewEditor builds an Editor from cfg. The returned close function releases the
// Redis client when a distributed lock is configured.
func NewEditor(ctx context.Context, cfg config.Config, opts EditorOptions) (*ensureline.Editor, func() error, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	catalog := cfg.Catalog
	if catalog == "" {
		catalog = ensureline.DefaultCatalog()
	}

	edOpts := []ensureline.Option{
		ensureline.WithResolver(adapters.NewResolver(catalog)),
		ensureline.WithLogger(logger),
	}
	if opts.Registerer != nil {
		edOpts = append(edOpts, ensureline.WithHooks(observability.NewMetrics(opts.Registerer).Hooks()))
	}
	if opts.LogEvents {
		edOpts = append(edOpts, ensureline.WithHooks(observability.LogHooks(logger)))
	}

	closer := func() error { return nil }
	if cfg.Redis.Addr != "" {
		locker, err := redis.Dial(ctx, cfg.Redis.Addr, redis.WithPrefix(cfg.Redis.Prefix))
		if err != nil {
			return nil, nil, fmt.Errorf("distributed lock: %w", err)
		}
		logger.Debug("using redis lock", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		edOpts = append(edOpts, ensureline.WithLocker(locker), ensureline.WithLockTTL(cfg.Redis.LockTTL))
		closer = locker.Close
	}

	return ensureline.New(edOpts...), closer, nil
}

// Applier runs one edit from raw parameters.
type Applier interface {
	ApplyMap(ctx context.Context, raw map[string]any, dryRun bool) (*ensureline.Result, error)
}

// Defaults fills the configured encoding and dialect into raw parameter maps that
// do not set them.
type Defaults struct {
	Applier
	Encoding domain.Encoding
	Dialect  string
}

// WithDefaults wraps a with the defaults of cfg.
func WithDefaults(a Applier, cfg config.Config) *Defaults {
	return &Defaults{Applier: a, Encoding: cfg.Encoding, Dialect: cfg.Dialect}
}

// ApplyMap implements Applier.
func (d *Defaults) ApplyMap(ctx context.Context, raw map[string]any, dryRun bool) (*ensureline.Result, error) {
	filled := make(map[string]any, len(raw)+2)
	set := make(map[string]bool, len(raw))
	for k, v := range raw {
		filled[k] = v
		set[strings.ToLower(k)] = true
	}
	if !set["encoding"] && d.Encoding != (domain.Encoding{}) {
		filled["encoding"] = map[string]any{"from": d.Encoding.From, "to": d.Encoding.To}
	}
	if !set["dialect"] && d.Dialect != "" {
		filled["dialect"] = d.Dialect
	}
	return d.Applier.ApplyMap(ctx, filled, dryRun)
}
