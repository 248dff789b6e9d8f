package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rr-restro/pos/internal/store"
)

func TestFileGetMissing(t *testing.T) {
	f, err := store.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, err := f.Get(context.Background(), store.KeyOrders); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestFilePutGet(t *testing.T) {
	dir := t.TempDir()
	f, err := store.NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if err := f.Put(ctx, store.KeyBranches, []byte(`[{"id":"b1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := f.Put(ctx, store.KeyBranches, []byte(`[{"id":"b2"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := f.Get(ctx, store.KeyBranches)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"b2"}]` {
		t.Errorf("value: got %s", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "app-branches.json")); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestFilePutAll(t *testing.T) {
	f, err := store.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	err = f.PutAll(ctx, map[string][]byte{
		store.KeyOrders:  []byte(`[]`),
		store.KeyEntries: []byte(`[{"id":"INC-1"}]`),
	})
	if err != nil {
		t.Fatalf("put all: %v", err)
	}
	got, err := f.Get(ctx, store.KeyEntries)
	if err != nil || string(got) != `[{"id":"INC-1"}]` {
		t.Errorf("entries: got %s, %v", got, err)
	}
}

func TestFileRejectsBadKeys(t *testing.T) {
	f, err := store.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"", "../etc/passwd", "Orders", "a/b"} {
		if err := f.Put(ctx, key, []byte(`{}`)); !errors.Is(err, store.ErrInvalidKey) {
			t.Errorf("put %q: got %v, want ErrInvalidKey", key, err)
		}
	}
	if err := f.PutAll(ctx, map[string][]byte{"../x": nil}); !errors.Is(err, store.ErrInvalidKey) {
		t.Errorf("put all: got %v, want ErrInvalidKey", err)
	}
}
