package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

const poolJSON = `[
  {"id": "1", "name": "Alex", "photo": "https://example.com/a.png", "major": "CS", "courses": ["CS 106B", "MATH 51"]},
  {"id": "2", "name": "Sam", "courses": ["BIO 82"]}
]`

const poolYAML = `
- id: "1"
  name: Alex
  major: CS
  courses: ["CS 106B", "MATH 51"]
- id: "2"
  name: Sam
  courses:
    - BIO 82
`

func writePool(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write pool: %v", err)
	}
	return path
}

func TestFileStore_JSON(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writePool(t, "students.json", poolJSON))

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0 before load, got %d", count)
	}

	pool, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(pool))
	}
	if pool[0].Name != "Alex" || pool[0].Photo == "" || len(pool[0].Courses) != 2 {
		t.Errorf("unexpected first candidate: %+v", pool[0])
	}
	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestFileStore_YAML(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writePool(t, "students.yaml", poolYAML))

	pool, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool) != 2 || pool[1].Courses[0] != "BIO 82" {
		t.Errorf("unexpected pool: %+v", pool)
	}
}

func TestFileStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(writePool(t, "students.json", poolJSON))

	first, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first[0], first[1] = first[1], first[0]

	second, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second[0].ID != "1" {
		t.Errorf("caller reordering leaked into the store: %+v", second)
	}
}

func TestFileStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
		if _, err := store.List(ctx); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		store := NewFileStore(writePool(t, "students.json", `{"id":`))
		if _, err := store.List(ctx); !errors.Is(err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		store := NewFileStore(writePool(t, "students.json", `[]`))
		if _, err := store.List(ctx); !errors.Is(err, ErrEmptyPool) {
			t.Errorf("expected ErrEmptyPool, got %v", err)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		store := NewFileStore(writePool(t, "students.csv", "id,name"))
		if _, err := store.List(ctx); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestFileStore_LoadsOnce(t *testing.T) {
	ctx := context.Background()
	var reads atomic.Int32
	store := NewFileStore("students.json", WithReadFile(func(string) ([]byte, error) {
		reads.Add(1)
		return []byte(poolJSON), nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.List(ctx); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := reads.Load(); n != 1 {
		t.Errorf("expected a single read, got %d", n)
	}
}

func TestFileStore_RetriesFailedLoad(t *testing.T) {
	ctx := context.Background()
	var fail atomic.Bool
	fail.Store(true)
	store := NewFileStore("students.json", WithReadFile(func(string) ([]byte, error) {
		if fail.Load() {
			return nil, os.ErrNotExist
		}
		return []byte(poolJSON), nil
	}))

	if err := store.Load(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	fail.Store(false)
	if err := store.Load(ctx); err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if store.Count(ctx) != 2 {
		t.Errorf("expected 2 candidates after recovery")
	}
}
