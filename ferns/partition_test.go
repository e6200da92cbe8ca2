package ferns

import (
	"reflect"
	"sort"
	"testing"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

func TestNewPartitionerRejectsGroupSize(t *testing.T) {
	for _, k := range []int{0, -1} {
		_, err := NewPartitioner(k, 1)
		if !errors.Is(err, errors.ErrConfiguration) {
			t.Errorf("NewPartitioner(%d) error = %v, want configuration error", k, err)
		}
		var ve *errors.ValidationError
		if !errors.As(err, &ve) || ve.ParamName != "group_size" {
			t.Errorf("NewPartitioner(%d) should return a ValidationError for group_size, got %v", k, err)
		}
	}
}

func TestPartitionIsPartition(t *testing.T) {
	for _, n := range []int{1, 2, 5, 7, 10} {
		for k := 1; k <= n+1; k++ {
			p, err := NewPartitioner(k, 42)
			if err != nil {
				t.Fatal(err)
			}
			ferns := p.Partition(positions(n))

			wantFerns := (n + k - 1) / k
			if len(ferns) != wantFerns {
				t.Errorf("n=%d k=%d: got %d ferns, want %d", n, k, len(ferns), wantFerns)
			}

			var all []int
			for i, fern := range ferns {
				last := i == len(ferns)-1
				if !last && len(fern) != k {
					t.Errorf("n=%d k=%d: fern %d has size %d", n, k, i, len(fern))
				}
				if last && (len(fern) < 1 || len(fern) > k) {
					t.Errorf("n=%d k=%d: last fern has size %d", n, k, len(fern))
				}
				all = append(all, fern...)
			}
			sort.Ints(all)
			if !reflect.DeepEqual(all, positions(n)) {
				t.Errorf("n=%d k=%d: ferns %v do not partition the positions", n, k, ferns)
			}
		}
	}
}

func TestPartitionDeterministic(t *testing.T) {
	input := positions(9)
	p1, _ := NewPartitioner(2, 7)
	p2, _ := NewPartitioner(2, 7)

	a := p1.Partition(input)
	b := p2.Partition(input)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different ferns: %v vs %v", a, b)
	}
	if !reflect.DeepEqual(input, positions(9)) {
		t.Errorf("Partition modified its input: %v", input)
	}
}

func TestPartitionSeedChangesOrder(t *testing.T) {
	first := func(seed int64) []Fern {
		p, _ := NewPartitioner(10, seed)
		return p.Partition(positions(10))
	}
	base := first(1)
	for seed := int64(2); seed < 10; seed++ {
		if !reflect.DeepEqual(first(seed), base) {
			return
		}
	}
	t.Error("seeds 1..9 all produced the same permutation")
}

func TestPartitionEmpty(t *testing.T) {
	p, _ := NewPartitioner(3, 1)
	if ferns := p.Partition(nil); len(ferns) != 0 {
		t.Errorf("expected no ferns, got %v", ferns)
	}
	if p.GroupSize() != 3 || p.Seed() != 1 {
		t.Errorf("accessors returned %d, %d", p.GroupSize(), p.Seed())
	}
}
