package ferns

import (
	"reflect"
	"testing"

	"github.com/YuminosukeSato/randomferns/dataset"
)

func TestObserveCountsGrowByOne(t *testing.T) {
	g := newGroupModel([]Fern{{1, 0}}, []int{3, 2}, 2)
	values := []int{2, 1}
	key := g.Key(0, values)

	if got := g.Count(0, 1, key); got != 0 {
		t.Fatalf("unseen key count = %d, want 0", got)
	}
	for n := 1; n <= 5; n++ {
		g.observe(0, values, 1)
		if got := g.Count(0, 1, key); got != n {
			t.Fatalf("after %d observations count = %d", n, got)
		}
	}
	if got := g.Count(0, 0, key); got != 0 {
		t.Errorf("other class table changed: %d", got)
	}
	if g.TableEntries() != 1 {
		t.Errorf("TableEntries() = %d, want 1", g.TableEntries())
	}
}

func TestLikelihoodSmoothingFloor(t *testing.T) {
	g := newGroupModel([]Fern{{0, 1}, {2}}, []int{3, 2, 4}, 2)
	for i := 0; i < 4; i++ {
		g.observeInstance([]int{0, 0, i}, 0)
	}
	g.observeInstance([]int{1, 1, 0}, 1)

	if d := g.GroupDomainSize(0); d != 6 {
		t.Errorf("GroupDomainSize(0) = %v, want 6", d)
	}
	if d := g.GroupDomainSize(1); d != 4 {
		t.Errorf("GroupDomainSize(1) = %v, want 4", d)
	}

	unseen := g.Key(0, []int{2, 1, 0})
	if got, want := g.Likelihood(0, 0, unseen), 1.0/(4+6); got != want {
		t.Errorf("floor likelihood = %v, want %v", got, want)
	}
	if got, want := g.Likelihood(0, 1, unseen), 1.0/(1+6); got != want {
		t.Errorf("floor likelihood = %v, want %v", got, want)
	}

	seen := g.Key(0, []int{0, 0, 0})
	if got, want := g.Likelihood(0, 0, seen), 5.0/10.0; got != want {
		t.Errorf("likelihood = %v, want %v", got, want)
	}

	if got, want := g.Prior(0)+g.Prior(1), 1.0; !approxEqual(got, want, 1e-15) {
		t.Errorf("priors sum to %v", got)
	}
	if g.ClassCount(0) != 4 || g.ClassCount(1) != 1 || g.Total() != 5 {
		t.Errorf("class counts %d, %d, total %d", g.ClassCount(0), g.ClassCount(1), g.Total())
	}
}

func TestKeyEncoding(t *testing.T) {
	fern := Fern{0, 1}
	a := makeKey(fern, []int{1, 2})
	b := makeKey(fern, []int{2, 1})
	if a == b {
		t.Error("keys must be order sensitive")
	}
	if makeKey(fern, []int{1, 2}) != a {
		t.Error("equal values must give equal keys")
	}
	missing := makeKey(fern, []int{dataset.Missing, 0})
	if missing == makeKey(fern, []int{0, 0}) {
		t.Error("missing must not collide with value 0")
	}

	if got := makeKey(Fern{1, 0}, []int{300, 7}).Values(); !reflect.DeepEqual(got, []int{7, 300}) {
		t.Errorf("Values() = %v, want [7 300]", got)
	}
	if got := missing.Values(); !reflect.DeepEqual(got, []int{dataset.Missing, 0}) {
		t.Errorf("Values() = %v", got)
	}
}

func TestEntriesSorted(t *testing.T) {
	g := newGroupModel([]Fern{{0}}, []int{3}, 1)
	for _, v := range []int{2, 0, 2, 1} {
		g.observe(0, []int{v}, 0)
	}
	entries := g.Entries(0, 0)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []struct{ value, count int }{{0, 1}, {1, 1}, {2, 2}} {
		if entries[i].Values[0] != want.value || entries[i].Count != want.count {
			t.Errorf("entry %d = %+v, want value %d count %d", i, entries[i], want.value, want.count)
		}
	}
}
