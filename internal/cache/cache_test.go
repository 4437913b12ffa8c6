package cache

import (
	"context"
	"errors"
	"testing"
)

// storeUnderTest builds each backend fresh per subtest. Redis is excluded
// here since it needs a running server.
func storesUnderTest(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"Memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"SQLite": func(t *testing.T) Store {
			store, err := NewSQLiteStore(":memory:")
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			return store
		},
	}
}

func TestStoreConformance(t *testing.T) {
	ctx := context.Background()

	for name, build := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("Miss Returns Not Found", func(t *testing.T) {
				store := build(t)
				defer store.Close()

				_, ok, err := store.Get(ctx, "absent")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if ok {
					t.Error("expected miss for absent key")
				}
			})

			t.Run("Set Then Get Roundtrip", func(t *testing.T) {
				store := build(t)
				defer store.Close()

				if err := store.Set(ctx, "k1", []byte(`{"a":1}`)); err != nil {
					t.Fatalf("set failed: %v", err)
				}

				data, ok, err := store.Get(ctx, "k1")
				if err != nil || !ok {
					t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
				}
				if string(data) != `{"a":1}` {
					t.Errorf("unexpected value %s", data)
				}
			})

			t.Run("Set Replaces Previous Value", func(t *testing.T) {
				store := build(t)
				defer store.Close()

				_ = store.Set(ctx, "k1", []byte("old"))
				if err := store.Set(ctx, "k1", []byte("new")); err != nil {
					t.Fatalf("overwrite failed: %v", err)
				}

				data, _, _ := store.Get(ctx, "k1")
				if string(data) != "new" {
					t.Errorf("expected overwrite, got %s", data)
				}
			})

			t.Run("DeleteMatched Removes Only The Prefix", func(t *testing.T) {
				store := build(t)
				defer store.Close()

				keys := []string{
					"spotify_u1_profile",
					"spotify_u1_search_q=x",
					"spotify_u2_profile",
					"spotify_u10_profile",
				}
				for _, key := range keys {
					if err := store.Set(ctx, key, []byte("v")); err != nil {
						t.Fatalf("seed failed: %v", err)
					}
				}

				if err := store.DeleteMatched(ctx, "spotify_u1_"); err != nil {
					t.Fatalf("delete failed: %v", err)
				}

				for _, gone := range []string{"spotify_u1_profile", "spotify_u1_search_q=x"} {
					if _, ok, _ := store.Get(ctx, gone); ok {
						t.Errorf("expected %s deleted", gone)
					}
				}
				for _, kept := range []string{"spotify_u2_profile", "spotify_u10_profile"} {
					if _, ok, _ := store.Get(ctx, kept); !ok {
						t.Errorf("expected %s kept", kept)
					}
				}
			})

			t.Run("DeleteMatched With No Matches Is Fine", func(t *testing.T) {
				store := build(t)
				defer store.Close()

				if err := store.DeleteMatched(ctx, "nothing_"); err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			})
		})
	}
}

func TestSQLiteStoreEscapesWildcards(t *testing.T) {
	ctx := context.Background()

	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	defer store.Close()

	// A literal % in the prefix must not match arbitrary keys.
	_ = store.Set(ctx, "spotify_a%b_profile", []byte("v"))
	_ = store.Set(ctx, "spotify_aXb_profile", []byte("v"))

	if err := store.DeleteMatched(ctx, "spotify_a%b_"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "spotify_a%b_profile"); ok {
		t.Error("expected literal match deleted")
	}
	if _, ok, _ := store.Get(ctx, "spotify_aXb_profile"); !ok {
		t.Error("wildcard expansion deleted an unrelated key")
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("Computes Once Then Serves From Store", func(t *testing.T) {
		store := NewMemoryStore()
		computes := 0
		compute := func() ([]string, error) {
			computes++
			return []string{"a", "b"}, nil
		}

		first, err := Fetch(ctx, store, "k", compute)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := Fetch(ctx, store, "k", compute)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if computes != 1 {
			t.Errorf("expected one compute, got %d", computes)
		}
		if len(first) != 2 || len(second) != 2 || second[0] != "a" {
			t.Errorf("unexpected values %v %v", first, second)
		}
	})

	t.Run("Compute Error Propagates Without Store Write", func(t *testing.T) {
		store := NewMemoryStore()
		boom := errors.New("boom")

		_, err := Fetch(ctx, store, "k", func() (int, error) { return 0, boom })
		if !errors.Is(err, boom) {
			t.Errorf("expected compute error, got %v", err)
		}
		if store.Len() != 0 {
			t.Errorf("expected no entry, got %d", store.Len())
		}
	})

	t.Run("Distinct Keys Compute Separately", func(t *testing.T) {
		store := NewMemoryStore()
		computes := 0
		compute := func() (int, error) {
			computes++
			return computes, nil
		}

		a, _ := Fetch(ctx, store, "a", compute)
		b, _ := Fetch(ctx, store, "b", compute)
		if a == b {
			t.Errorf("expected distinct computes, got %d and %d", a, b)
		}
	})
}
