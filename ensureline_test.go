package ensureline_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensureline"
	"github.com/aretw0/ensureline/pkg/adapters"
	"github.com/aretw0/ensureline/pkg/adapters/dataset"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
)

var (
	fixed = time.Date(2026, time.October, 19, 10, 15, 0, 0, time.UTC)
	utf8  = &domain.Encoding{From: "UTF-8", To: "UTF-8"}
)

func clock() time.Time { return fixed }

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newEditor(t *testing.T, opts ...ensureline.Option) *ensureline.Editor {
	t.Helper()
	base := []ensureline.Option{
		ensureline.WithResolver(adapters.NewResolver(t.TempDir())),
		ensureline.WithClock(clock),
	}
	return ensureline.New(append(base, opts...)...)
}

func TestApply_FileIdempotent(t *testing.T) {
	path := writeFile(t, "PATH=/bin\numask 077\n")
	ed := newEditor(t)
	ctx := context.Background()

	edit := params.Params{
		Destination: path,
		Regexp:      domain.String(`^umask`),
		Line:        domain.String("umask 022"),
		Encoding:    utf8,
	}

	res, err := ed.Apply(ctx, edit)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, domain.ActionReplaced, res.Action)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, domain.KindUSS, res.Kind)
	assert.Equal(t, []string{"PATH=/bin", "umask 077"}, res.Before)
	assert.Equal(t, "PATH=/bin\numask 022\n", readFile(t, path))

	res, err = ed.Apply(ctx, edit)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "PATH=/bin\numask 022\n", readFile(t, path))
}

func TestApply_Absent(t *testing.T) {
	path := writeFile(t, "a=1\n#x\nb=2\n#y\n")
	res, err := newEditor(t).Apply(context.Background(), params.Params{
		Destination: path,
		State:       "absent",
		Regexp:      domain.String(`^#`),
		Encoding:    utf8,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, "a=1\nb=2\n", readFile(t, path))
}

func TestApply_EBCDICFile(t *testing.T) {
	// "A=1" NL in IBM-1047.
	path := writeFile(t, string([]byte{0xC1, 0x7E, 0xF1, 0x15}))
	res, err := newEditor(t).Apply(context.Background(), params.Params{
		Destination: path,
		Line:        domain.String("B=2"),
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, string([]byte{0xC1, 0x7E, 0xF1, 0x15, 0xC2, 0x7E, 0xF2, 0x15}), readFile(t, path))
}

func TestApply_Dataset(t *testing.T) {
	root := t.TempDir()
	resolver := adapters.NewResolver(root)
	require.NoError(t, resolver.Catalog().Allocate("SYS1.PARMLIB", dataset.Attributes{RecFM: dataset.FixedBlocked, LRECL: 16}, true))

	ed := ensureline.New(ensureline.WithResolver(resolver), ensureline.WithClock(clock))
	ctx := context.Background()
	dest := "SYS1.PARMLIB(IEASYS00)"

	seed := params.Params{Destination: dest, Line: domain.String("CLOCK=00"), Encoding: utf8}
	res, err := ed.Apply(ctx, seed)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound, "members are not created implicitly")
	assert.Nil(t, res)

	m, err := resolver.Catalog().Resolve(dest, *utf8)
	require.NoError(t, err)
	require.NoError(t, m.WriteLines(ctx, []string{"CLOCK=00", "SYSNAME=A"}))

	res, err = ed.Apply(ctx, params.Params{
		Destination: dest,
		Regexp:      domain.String(`^CLOCK=`),
		Line:        domain.String("CLOCK=01"),
		Backup:      true,
		Encoding:    utf8,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, domain.KindDataset, res.Kind)
	assert.Equal(t, "SYS1.PARMLIB.B26292.T101500(IEASYS00)", res.BackupName)

	lines, err := m.ReadLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CLOCK=01", "SYSNAME=A"}, lines)

	_, err = ed.Apply(ctx, params.Params{
		Destination: dest,
		Line:        domain.String("THIS LINE DOES NOT FIT"),
		Encoding:    utf8,
	})
	assert.ErrorIs(t, err, domain.ErrRecordTooLong)
	lines, err = m.ReadLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CLOCK=01", "SYSNAME=A"}, lines)
}

func TestApply_FixedBlockedTrailingBlanks(t *testing.T) {
	root := t.TempDir()
	resolver := adapters.NewResolver(root)
	require.NoError(t, resolver.Catalog().Allocate("USER.CONF", dataset.Attributes{RecFM: dataset.FixedBlocked, LRECL: 16}, true))

	ctx := context.Background()
	dest := "USER.CONF(SIT)"
	m, err := resolver.Catalog().Resolve(dest, *utf8)
	require.NoError(t, err)
	require.NoError(t, m.WriteLines(ctx, []string{"SEC=NO", "APPL=CICS"}))

	ed := ensureline.New(ensureline.WithResolver(resolver), ensureline.WithClock(clock))
	edits := map[string]params.Params{
		"no pattern": {Destination: dest, Line: domain.String("GRPLIST=X   "), Encoding: utf8},
		"replace":    {Destination: dest, Regexp: domain.String(`^SEC=`), Line: domain.String("SEC=YES  "), Encoding: utf8},
		"backrefs":   {Destination: dest, Regexp: domain.String(`^APPL=(\w+)`), Line: domain.String(`APPL=\1  `), Backrefs: true, Encoding: utf8},
	}

	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			_, err := ed.Apply(ctx, edit)
			require.NoError(t, err)
			before, err := m.ReadLines(ctx)
			require.NoError(t, err)

			res, err := ed.Apply(ctx, edit)
			require.NoError(t, err)
			assert.False(t, res.Changed, "second application must be a no-op")
			assert.Equal(t, domain.ActionNone, res.Action)

			after, err := m.ReadLines(ctx)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}

	lines, err := m.ReadLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"SEC=YES", "APPL=CICS", "GRPLIST=X"}, lines)
}

func TestApply_BackupEvenWhenUnchanged(t *testing.T) {
	path := writeFile(t, "umask 022\n")
	res, err := newEditor(t).Apply(context.Background(), params.Params{
		Destination: path,
		Line:        domain.String("umask 022"),
		Backup:      true,
		Encoding:    utf8,
	})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, path+".2026-10-19@10:15:00~", res.BackupName)
	assert.Equal(t, "umask 022\n", readFile(t, res.BackupName))
}

func TestPreview_DoesNotWrite(t *testing.T) {
	path := writeFile(t, "a=1\n")
	res, err := newEditor(t).Preview(context.Background(), params.Params{
		Destination: path,
		Line:        domain.String("b=2"),
		Backup:      true,
		Encoding:    utf8,
	})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.DryRun)
	assert.Empty(t, res.BackupName)
	assert.Equal(t, []string{"a=1", "b=2"}, res.After)
	assert.Equal(t, "a=1\n", readFile(t, path))
}

func TestApply_Errors(t *testing.T) {
	path := writeFile(t, "a=1\n")
	tests := []struct {
		name   string
		in     params.Params
		target error
		stage  string
	}{
		{
			name:   "validation",
			in:     params.Params{Destination: path},
			target: params.ErrValidation,
			stage:  ensureline.StageValidate,
		},
		{
			name:   "invalid pattern",
			in:     params.Params{Destination: path, Regexp: domain.String("(["), Line: domain.String("x"), Encoding: utf8},
			target: domain.ErrInvalidPattern,
			stage:  ensureline.StageReconcile,
		},
		{
			name: "bad backref",
			in: params.Params{
				Destination: path, Regexp: domain.String(`^(a)=(1)$`), Line: domain.String(`\3`),
				Backrefs: true, Encoding: utf8,
			},
			target: domain.ErrBackrefExpansion,
			stage:  ensureline.StageReconcile,
		},
		{
			name:   "missing file",
			in:     params.Params{Destination: path + ".missing", Line: domain.String("x"), Encoding: utf8},
			target: domain.ErrResourceNotFound,
			stage:  ensureline.StageRead,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []*domain.ErrorEvent
			ed := newEditor(t, ensureline.WithHooks(domain.LifecycleHooks{
				OnError: func(ctx context.Context, e *domain.ErrorEvent) { events = append(events, e) },
			}))

			_, err := ed.Apply(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.target)
			require.Len(t, events, 1)
			assert.Equal(t, tt.stage, events[0].Stage)
			assert.Equal(t, fixed, events[0].Timestamp)
		})
	}
	assert.Equal(t, "a=1\n", readFile(t, path))
}

func TestApply_Hooks(t *testing.T) {
	path := writeFile(t, "a=1\n")
	var (
		reconciled []*domain.ReconcileEvent
		backups    []*domain.BackupEvent
	)
	ed := newEditor(t, ensureline.WithHooks(domain.LifecycleHooks{
		OnReconciled: func(ctx context.Context, e *domain.ReconcileEvent) { reconciled = append(reconciled, e) },
		OnBackup:     func(ctx context.Context, e *domain.BackupEvent) { backups = append(backups, e) },
	}))

	_, err := ed.Apply(context.Background(), params.Params{
		Destination: path, Line: domain.String("b=2"), Backup: true, Encoding: utf8,
	})
	require.NoError(t, err)
	require.Len(t, reconciled, 1)
	assert.Equal(t, domain.ModePresent, reconciled[0].Mode)
	assert.True(t, reconciled[0].Changed)
	assert.Equal(t, domain.ActionInserted, reconciled[0].Action)
	require.Len(t, backups, 1)
	assert.Equal(t, path, backups[0].Resource)
}

func TestApplyMap(t *testing.T) {
	path := writeFile(t, "a=1\n")
	res, err := newEditor(t).ApplyMap(context.Background(), map[string]any{
		"path":     path,
		"value":    "b=2",
		"encoding": map[string]any{"from": "UTF-8", "to": "UTF-8"},
	}, false)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "a=1\nb=2\n", readFile(t, path))
}

func TestApply_ConcurrentWritersSerialize(t *testing.T) {
	path := writeFile(t, "")
	ed := newEditor(t)

	var wg sync.WaitGroup
	for _, line := range []string{"one", "two", "three", "four", "five"} {
		wg.Add(1)
		go func(line string) {
			defer wg.Done()
			_, err := ed.Apply(context.Background(), params.Params{
				Destination: path, Line: domain.String(line), Encoding: utf8,
			})
			assert.NoError(t, err)
		}(line)
	}
	wg.Wait()

	data := readFile(t, path)
	for _, line := range []string{"one", "two", "three", "four", "five"} {
		assert.Contains(t, data, line+"\n", "no update is lost")
	}
}
