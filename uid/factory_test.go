package uid

import (
	"sync"
	"testing"
)

func TestFactory_NextIsDense(t *testing.T) {
	f := NewFactory()
	for want := Min; want <= 5; want++ {
		if got := f.Next(); got != want {
			t.Fatalf("Next() = %d, expected %d", got, want)
		}
	}
}

func TestFactory_ObserveAdvances(t *testing.T) {
	f := NewFactory()
	for i := 0; i < 3; i++ {
		f.Next()
	}

	f.Observe(10)
	if got := f.Next(); got != 11 {
		t.Fatalf("Next() after Observe(10) = %d, expected 11", got)
	}
}

func TestFactory_ObserveSmallerIsNoop(t *testing.T) {
	f := NewFactory()
	f.Observe(7)
	f.Observe(3)
	if got := f.Next(); got != 8 {
		t.Fatalf("Next() = %d, expected 8", got)
	}
}

func TestFactory_Reset(t *testing.T) {
	f := NewFactory()
	f.Observe(40)
	f.Reset()
	if got := f.Peek(); got != None {
		t.Fatalf("Peek() after Reset = %d, expected %d", got, None)
	}
	if got := f.Next(); got != Min {
		t.Fatalf("Next() after Reset = %d, expected %d", got, Min)
	}
}

func TestFactory_ConcurrentNextNeverCollides(t *testing.T) {
	f := NewFactory()

	const workers = 8
	const perWorker = 250

	var mu sync.Mutex
	seen := make(map[UID]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]UID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, f.Next())
				if i%50 == 0 {
					f.Observe(UID(i))
				}
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if seen[id] {
					t.Errorf("UID %d issued twice", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct UIDs, got %d", workers*perWorker, len(seen))
	}
	if got := f.Peek(); got != UID(workers*perWorker) {
		t.Fatalf("Peek() = %d, expected %d", got, workers*perWorker)
	}
}

func TestUID_String(t *testing.T) {
	if got := UID(42).String(); got != "uid=42" {
		t.Fatalf("String() = %q", got)
	}
}
