package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryItemOnce(t *testing.T) {
	for _, tc := range []struct {
		items   int
		workers int
	}{
		{items: 1, workers: 4},
		{items: 10, workers: 3},
		{items: 100, workers: 0},
		{items: 7, workers: 7},
	} {
		hits := make([]int32, tc.items)
		err := Parallelize(tc.items, tc.workers, func(start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Parallelize(%d, %d) returned %v", tc.items, tc.workers, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Errorf("items=%d workers=%d: item %d visited %d times", tc.items, tc.workers, i, h)
			}
		}
	}
}

func TestParallelizeReportsError(t *testing.T) {
	boom := errors.New("boom")
	err := Parallelize(10, 5, func(start, end int) error {
		if start == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestParallelizeWithThreshold(t *testing.T) {
	var calls int32
	err := ParallelizeWithThreshold(5, 10, 4, func(start, end int) error {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 5 {
			t.Errorf("sequential path got range [%d, %d)", start, end)
		}
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("expected one sequential call, got %d calls, err %v", calls, err)
	}

	if err := ParallelizeWithThreshold(0, 10, 4, func(int, int) error {
		t.Error("fn must not run for zero items")
		return nil
	}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}
