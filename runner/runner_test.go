package runner

import (
	"sync"
	"testing"
)

func TestDefaultRunnerRunsFunction(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	if err := Default().Go(func() {
		defer wg.Done()
		ran = true
	}); err != nil {
		t.Fatalf("Go: %v", err)
	}
	wg.Wait()
	if !ran {
		t.Fatal("function did not run")
	}
}

func TestPoolRunnerRunsFunction(t *testing.T) {
	r, err := NewDefaultPoolRunner()
	if err != nil {
		t.Fatalf("NewDefaultPoolRunner: %v", err)
	}
	defer r.Release()

	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	if err := r.Go(func() {
		defer wg.Done()
		ran = true
	}); err != nil {
		t.Fatalf("Go: %v", err)
	}
	wg.Wait()
	if !ran {
		t.Fatal("function did not run")
	}
}
