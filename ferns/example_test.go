package ferns_test

import (
	"fmt"

	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/ferns"
)

func ExampleRandomFerns() {
	ds := dataset.New(dataset.Schema{
		Attributes: []dataset.Attribute{
			dataset.NewNominal("A", "0", "1"),
			dataset.NewNominal("B", "0", "1"),
		},
		Class: dataset.NewNominal("C", "yes", "no"),
	})
	for _, row := range [][]string{{"0", "0", "yes"}, {"0", "0", "yes"}, {"0", "0", "yes"}, {"1", "1", "no"}} {
		if err := ds.AppendStrings(row[:2], row[2]); err != nil {
			panic(err)
		}
	}

	rf, err := ferns.New(ferns.WithGroupSize(2))
	if err != nil {
		panic(err)
	}
	if err := rf.Fit(ds); err != nil {
		panic(err)
	}

	proba, err := rf.PredictProba([]int{0, 0})
	if err != nil {
		panic(err)
	}
	fmt.Printf("ferns: %d\n", len(rf.Ferns()))
	fmt.Printf("P(%s) = %.3f, P(%s) = %.3f\n", rf.Classes()[0], proba[0], rf.Classes()[1], proba[1])
	// Output:
	// ferns: 1
	// P(yes) = 0.851, P(no) = 0.149
}

func ExampleParseConfig() {
	cfg, err := ferns.ParseConfig([]byte("group_size: 3\nseed: 42\n"))
	fmt.Println(cfg.GroupSize, cfg.Seed, err)
	// Output: 3 42 <nil>
}
