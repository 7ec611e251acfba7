package form

import (
	"sync"
	"testing"
)

func TestStoreSetGet(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	if _, ok := s.Get("firstName"); ok {
		t.Error("empty store should not have firstName")
	}

	s.Set("firstName", "Asha")
	v, ok := s.Get("firstName")
	if !ok || v != "Asha" {
		t.Errorf("Get(firstName) = %v, %v; want Asha, true", v, ok)
	}

	s.Set("firstName", "Rani")
	if v, _ := s.Get("firstName"); v != "Rani" {
		t.Errorf("Get after overwrite = %v, want Rani", v)
	}
}

func TestStoreInitialValues(t *testing.T) {
	t.Parallel()

	initial := map[string]any{"firstName": "", "age": 21}
	s := NewStore(initial)
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}

	// The store must copy the initial map, not alias it.
	initial["firstName"] = "mutated"
	if v, _ := s.Get("firstName"); v != "" {
		t.Errorf("store aliased the initial map: %v", v)
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore(map[string]any{"a": 1})
	snap := s.Snapshot()
	snap["a"] = 99
	snap["b"] = 2

	if v, _ := s.Get("a"); v != 1 {
		t.Errorf("mutating the snapshot leaked into the store: %v", v)
	}
	if _, ok := s.Get("b"); ok {
		t.Error("snapshot addition leaked into the store")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Set("field", j)
				s.Get("field")
				s.Snapshot()
			}
		}()
	}
	wg.Wait()

	if _, ok := s.Get("field"); !ok {
		t.Error("field missing after concurrent writes")
	}
}
