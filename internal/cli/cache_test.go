package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/timelane/pkg/cache"
)

func TestClearCache(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		out := captureStdout(t)
		if err := clearCache(t.TempDir(), false); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Cache is empty") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("all", func(t *testing.T) {
		dir := t.TempDir()
		fc, _ := cache.NewFileCache(dir)
		_ = fc.Set(ctx, "a", []byte("1"), 0)
		_ = fc.Set(ctx, "b", []byte("2"), time.Hour)

		out := captureStdout(t)
		if err := clearCache(dir, false); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Cleared 2 cached entries") {
			t.Errorf("output = %q", out.String())
		}
		if fc.Len() != 0 {
			t.Errorf("%d entries left", fc.Len())
		}
	})

	t.Run("expired", func(t *testing.T) {
		dir := t.TempDir()
		fc, _ := cache.NewFileCache(dir)
		_ = fc.Set(ctx, "fresh", []byte("1"), time.Hour)
		_ = fc.Set(ctx, "stale", []byte("2"), time.Nanosecond)
		time.Sleep(2 * time.Millisecond)

		out := captureStdout(t)
		if err := clearCache(dir, true); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "Pruned 1 expired of 2") {
			t.Errorf("output = %q", out.String())
		}
		if _, hit, _ := fc.Get(ctx, "fresh"); !hit {
			t.Error("fresh entry pruned")
		}
	})
}
