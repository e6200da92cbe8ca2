package ferns

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/YuminosukeSato/randomferns/dataset"
)

// scenarioDataset: two binary attributes, {(0,0,yes)x3, (1,1,no)x1}
func scenarioDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(dataset.Schema{
		Attributes: []dataset.Attribute{
			dataset.NewNominal("A", "0", "1"),
			dataset.NewNominal("B", "0", "1"),
		},
		Class: dataset.NewNominal("C", "yes", "no"),
	})
	for i := 0; i < 3; i++ {
		mustAppend(t, ds, dataset.Instance{Values: []int{0, 0}, Class: 0})
	}
	mustAppend(t, ds, dataset.Instance{Values: []int{1, 1}, Class: 1})
	return ds
}

var weatherRows = [][]string{
	{"sunny", "hot", "high", "FALSE", "no"},
	{"sunny", "hot", "high", "TRUE", "no"},
	{"overcast", "hot", "high", "FALSE", "yes"},
	{"rainy", "mild", "high", "FALSE", "yes"},
	{"rainy", "cool", "normal", "FALSE", "yes"},
	{"rainy", "cool", "normal", "TRUE", "no"},
	{"overcast", "cool", "normal", "TRUE", "yes"},
	{"sunny", "mild", "high", "FALSE", "no"},
	{"sunny", "cool", "normal", "FALSE", "yes"},
	{"rainy", "mild", "normal", "FALSE", "yes"},
	{"sunny", "mild", "normal", "TRUE", "yes"},
	{"overcast", "mild", "high", "TRUE", "yes"},
	{"overcast", "hot", "normal", "FALSE", "yes"},
	{"rainy", "mild", "high", "TRUE", "no"},
}

// weatherDataset is the nominal weather data with four attributes.
func weatherDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(dataset.Schema{
		Attributes: []dataset.Attribute{
			dataset.NewNominal("outlook", "sunny", "overcast", "rainy"),
			dataset.NewNominal("temperature", "hot", "mild", "cool"),
			dataset.NewNominal("humidity", "high", "normal"),
			dataset.NewNominal("windy", "TRUE", "FALSE"),
		},
		Class: dataset.NewNominal("play", "yes", "no"),
	})
	for _, row := range weatherRows {
		if err := ds.AppendStrings(row[:4], row[4]); err != nil {
			t.Fatalf("AppendStrings(%v) failed: %v", row, err)
		}
	}
	return ds
}

func mustAppend(t *testing.T, ds *dataset.Dataset, inst dataset.Instance) {
	t.Helper()
	if err := ds.Append(inst); err != nil {
		t.Fatalf("Append(%+v) failed: %v", inst, err)
	}
}

func mustFit(t *testing.T, ds *dataset.Dataset, opts ...Option) *RandomFerns {
	t.Helper()
	rf, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := rf.Fit(ds); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	return rf
}

func checkDistribution(t *testing.T, proba []float64, numClasses int) {
	t.Helper()
	if len(proba) != numClasses {
		t.Fatalf("distribution has %d entries, want %d", len(proba), numClasses)
	}
	sum := 0.0
	for c, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			t.Fatalf("P(class %d) = %v is not a valid probability", c, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("distribution sums to %v", sum)
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// wideDataset builds rows random rows over numAttrs attributes with ten values
// each and two classes. Long fern products over such data underflow float64
// when computed as plain products.
func wideDataset(t *testing.T, numAttrs, rows int) *dataset.Dataset {
	t.Helper()
	values := make([]string, 10)
	for v := range values {
		values[v] = fmt.Sprintf("v%d", v)
	}
	schema := dataset.Schema{
		Attributes: make([]dataset.Attribute, numAttrs),
		Class:      dataset.NewNominal("class", "a", "b"),
	}
	for i := range schema.Attributes {
		schema.Attributes[i] = dataset.NewNominal(fmt.Sprintf("x%d", i), values...)
	}

	r := rand.New(rand.NewPCG(7, 7))
	ds := dataset.New(schema)
	for i := 0; i < rows; i++ {
		inst := dataset.Instance{Values: make([]int, numAttrs), Class: i % 2}
		for j := range inst.Values {
			inst.Values[j] = r.IntN(10)
		}
		mustAppend(t, ds, inst)
	}
	return ds
}
