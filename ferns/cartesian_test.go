package ferns

import (
	"reflect"
	"testing"

	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// TestCartesianFernsMatchesRandomFerns checks that both backends compute the
// same estimator on complete data, including group sizes that do not divide
// the attribute count.
func TestCartesianFernsMatchesRandomFerns(t *testing.T) {
	ds := weatherDataset(t)
	for k := 1; k <= 5; k++ {
		for _, seed := range []int64{1, 2, 3} {
			cfg := Config{GroupSize: k, Seed: seed}
			rf := mustFit(t, ds, WithConfig(cfg))
			cf, err := NewCartesianFerns(cfg)
			if err != nil {
				t.Fatal(err)
			}
			if err := cf.Fit(ds); err != nil {
				t.Fatalf("k=%d seed=%d: Fit failed: %v", k, seed, err)
			}

			if !reflect.DeepEqual(cf.Ferns(), rf.Ferns()) {
				t.Fatalf("k=%d seed=%d: ferns differ: %v vs %v", k, seed, cf.Ferns(), rf.Ferns())
			}
			for i, inst := range ds.Instances {
				want, err := rf.PredictProba(inst.Values)
				if err != nil {
					t.Fatal(err)
				}
				got, err := cf.PredictProba(inst.Values)
				if err != nil {
					t.Fatal(err)
				}
				for c := range want {
					if !approxEqual(got[c], want[c], 1e-9) {
						t.Fatalf("k=%d seed=%d row %d class %d: cartesian %v, ferns %v", k, seed, i, c, got[c], want[c])
					}
				}
			}

			pr, err := rf.Predict(ds)
			if err != nil {
				t.Fatal(err)
			}
			pc, err := cf.Predict(ds)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < ds.Len(); i++ {
				if pr.AtVec(i) != pc.AtVec(i) {
					t.Errorf("k=%d seed=%d row %d: predictions differ", k, seed, i)
				}
			}
		}
	}
}

func TestCartesianFernsMatchesRandomFernsOnWideData(t *testing.T) {
	ds := wideDataset(t, 400, 50)
	for _, k := range []int{1, 3} {
		cfg := Config{GroupSize: k, Seed: 5}
		rf := mustFit(t, ds, WithConfig(cfg))
		cf, err := NewCartesianFerns(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if err := cf.Fit(ds); err != nil {
			t.Fatalf("k=%d: Fit failed: %v", k, err)
		}

		for i, inst := range ds.Instances {
			want, err := rf.PredictProba(inst.Values)
			if err != nil {
				t.Fatalf("k=%d row %d: ferns: %v", k, i, err)
			}
			got, err := cf.PredictProba(inst.Values)
			if err != nil {
				t.Fatalf("k=%d row %d: cartesian: %v", k, i, err)
			}
			for c := range want {
				if !approxEqual(got[c], want[c], 1e-9) {
					t.Fatalf("k=%d row %d class %d: cartesian %v, ferns %v", k, i, c, got[c], want[c])
				}
			}
		}
	}
}

func TestCartesianFernsScenario(t *testing.T) {
	cf, _ := NewCartesianFerns(Config{GroupSize: 2, Seed: 1})
	if err := cf.Fit(scenarioDataset(t)); err != nil {
		t.Fatal(err)
	}
	proba, err := cf.PredictProba([]int{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := 40.0 / 47.0; !approxEqual(proba[0], want, 1e-12) {
		t.Errorf("P(yes) = %v, want %v", proba[0], want)
	}
	if got := cf.Classes(); !reflect.DeepEqual(got, []string{"yes", "no"}) {
		t.Errorf("Classes() = %v", got)
	}
}

func TestCartesianFernsErrors(t *testing.T) {
	if _, err := NewCartesianFerns(Config{GroupSize: 0}); !errors.Is(err, errors.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}

	cf, _ := NewCartesianFerns(DefaultConfig())
	if _, err := cf.PredictProba([]int{0, 0}); !errors.Is(err, errors.ErrState) {
		t.Errorf("expected state error before Fit, got %v", err)
	}
	if cf.Classes() != nil || cf.Ferns() != nil {
		t.Error("unfitted backend should report no state")
	}
	if err := cf.Fit(dataset.New(scenarioDataset(t).Schema)); !errors.Is(err, errors.ErrCapability) {
		t.Errorf("expected capability error, got %v", err)
	}

	if err := cf.Fit(scenarioDataset(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := cf.PredictProba([]int{0, 5}); !errors.Is(err, errors.ErrState) {
		t.Errorf("expected state error for an out-of-domain value, got %v", err)
	}
}
