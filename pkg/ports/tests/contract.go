package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/ports"
)

// ResourceContractTest is a reusable test suite that verifies if an adapter complies with ports.Resource.
// fresh must return a resource that does not exist yet; every call must address the same resource.
func ResourceContractTest(t *testing.T, fresh func(t *testing.T) ports.Resource) {
	t.Helper()
	ctx := context.Background()

	t.Run("Read_NotFound", func(t *testing.T) {
		res := fresh(t)
		_, err := res.ReadLines(ctx)
		if !errors.Is(err, domain.ErrResourceNotFound) {
			t.Fatalf("expected ErrResourceNotFound, got %v", err)
		}
	})

	t.Run("Write_Read_RoundTrip", func(t *testing.T) {
		res := fresh(t)
		want := []string{"FIRST=1", "", "  indented", "LAST=2"}
		if err := res.WriteLines(ctx, want); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got, err := res.ReadLines(ctx)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("line count mismatch. got %q, want %q", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("line %d mismatch. got %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("Write_Replaces_Content", func(t *testing.T) {
		res := fresh(t)
		if err := res.WriteLines(ctx, []string{"a", "b", "c"}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := res.WriteLines(ctx, []string{"z"}); err != nil {
			t.Fatalf("rewrite failed: %v", err)
		}
		got, err := res.ReadLines(ctx)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != 1 || got[0] != "z" {
			t.Errorf("expected [z], got %q", got)
		}
	})

	t.Run("Write_Empty", func(t *testing.T) {
		res := fresh(t)
		if err := res.WriteLines(ctx, nil); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		got, err := res.ReadLines(ctx)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no lines, got %q", got)
		}
	})

	t.Run("Name_And_Kind", func(t *testing.T) {
		res := fresh(t)
		if res.Name() == "" {
			t.Error("resource name must not be empty")
		}
		if res.Kind() == "" {
			t.Error("resource kind must not be empty")
		}
	})
}
