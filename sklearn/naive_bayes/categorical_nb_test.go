package naive_bayes

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// TestCategoricalNBBasicFit tests counts and smoothing of a small fit
func TestCategoricalNBBasicFit(t *testing.T) {
	// Features: [outlook (3 values), windy (2 values)]
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 1,
		2, 1,
		1, 1,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewCategoricalNB()
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !nb.state.IsFitted() {
		t.Error("Model should be fitted after Fit()")
	}
	if len(nb.Classes()) != 2 {
		t.Errorf("Expected 2 classes, got %d", len(nb.Classes()))
	}
	if got := nb.CategoryCount(0, 1, 2); got != 2 {
		t.Errorf("count(outlook=2 | class 1) = %v, want 2", got)
	}

	// P(outlook=0 | class 0) = (2+1)/(3+3)
	want := math.Log(3.0 / 6.0)
	if got := nb.featureLogProb[0][0][0]; math.Abs(got-want) > 1e-12 {
		t.Errorf("feature log prob = %v, want %v", got, want)
	}
}

// TestCategoricalNBPredictProba checks the posterior against a hand computation
func TestCategoricalNBPredictProba(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 0, 0, 1})
	y := mat.NewDense(4, 1, []float64{0, 0, 0, 1})

	nb := NewCategoricalNB(WithClassPriorAlpha(1))
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	proba, err := nb.PredictProba(mat.NewDense(1, 1, []float64{0}))
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	// prior: (3+1)/(4+2), (1+1)/(4+2); likelihood: (3+1)/(3+2), (0+1)/(1+2)
	s0 := 4.0 / 6.0 * 4.0 / 5.0
	s1 := 2.0 / 6.0 * 1.0 / 3.0
	want := []float64{s0 / (s0 + s1), s1 / (s0 + s1)}
	for c, w := range want {
		if got := proba.At(0, c); math.Abs(got-w) > 1e-12 {
			t.Errorf("P(class %d) = %v, want %v", c, got, w)
		}
	}

	pred, err := nb.Predict(mat.NewDense(2, 1, []float64{0, 1}))
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.At(0, 0) != 0 || pred.At(1, 0) != 1 {
		t.Errorf("unexpected predictions: %v", mat.Formatted(pred))
	}
}

// TestCategoricalNBMissingValues checks that NaN is skipped in fit and predict
func TestCategoricalNBMissingValues(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, math.NaN(),
		1, 1,
		0, 0,
	})
	y := mat.NewDense(3, 1, []float64{0, 1, 0})

	nb := NewCategoricalNB(WithNCategories([]int{2, 2}), WithNClasses(3))
	if err := nb.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if got := nb.CategoryCount(1, 0, 0) + nb.CategoryCount(1, 0, 1); got != 1 {
		t.Errorf("missing value should not be counted, got %v", got)
	}
	if len(nb.ClassCount()) != 3 {
		t.Errorf("WithNClasses should fix the class count, got %d", len(nb.ClassCount()))
	}

	full, err := nb.PredictProba(mat.NewDense(1, 2, []float64{0, math.NaN()}))
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	only, err := nb.PredictProba(X.Slice(0, 1, 0, 1))
	if err == nil {
		t.Fatalf("expected dimension error, got %v", mat.Formatted(only))
	}
	sum := 0.0
	for c := 0; c < 3; c++ {
		sum += full.At(0, c)
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("probabilities sum to %v", sum)
	}
}

func TestCategoricalNBErrors(t *testing.T) {
	nb := NewCategoricalNB()
	if _, err := nb.PredictProba(mat.NewDense(1, 1, nil)); !errors.Is(err, errors.ErrState) {
		t.Errorf("expected not fitted error, got %v", err)
	}

	X := mat.NewDense(2, 1, []float64{0, 1})
	if err := nb.Fit(X, mat.NewDense(3, 1, nil)); err == nil {
		t.Error("expected dimension error")
	}
	if err := nb.Fit(mat.NewDense(2, 1, []float64{0, 0.5}), mat.NewDense(2, 1, nil)); err == nil {
		t.Error("expected error for fractional category")
	}
	if err := NewCategoricalNB(WithAlpha(0)).Fit(X, mat.NewDense(2, 1, nil)); !errors.Is(err, errors.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if err := NewCategoricalNB(WithNCategories([]int{1})).Fit(X, mat.NewDense(2, 1, nil)); err == nil {
		t.Error("expected error for category outside the fixed domain")
	}
}
