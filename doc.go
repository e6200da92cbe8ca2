// Package randomferns provides a Random Ferns classifier for nominal data,
// together with the dataset, evaluation and persistence tooling around it.
//
// A Random Ferns model shuffles the attributes with a seeded generator, splits
// them into groups ("ferns") of a configurable size and treats every fern as a
// single joint attribute. Training counts, per class, how often each
// combination of a fern's values occurs. Prediction multiplies the
// Laplace-smoothed class prior with the Laplace-smoothed likelihood of every
// fern and normalizes the result. A group size of 1 gives naive Bayes.
//
// # Packages
//
//   - dataset: nominal schemas and instances, golearn grid and CSV conversion
//   - ferns: the RandomFerns classifier, its YAML config and gob persistence,
//     and CartesianFerns, which computes the same estimate through
//     preprocessing.CartesianProduct and naive_bayes.CategoricalNB
//   - sklearn/model_selection: KFold, StratifiedKFold and CrossValidate
//   - metrics: accuracy, confusion matrix and log loss
//   - pkg/errors, pkg/log: error kinds and structured logging
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/randomferns/dataset"
//	    "github.com/YuminosukeSato/randomferns/ferns"
//	)
//
//	func main() {
//	    ds, err := dataset.LoadCSV("weather.csv", true)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    rf, err := ferns.New(ferns.WithGroupSize(2), ferns.WithSeed(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := rf.Fit(ds); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    proba, err := rf.PredictProba(ds.Instances[0].Values)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(rf.Classes(), proba)
//	}
//
// # Error Handling
//
// Errors carry one of four kinds, tested with errors.Is against
// errors.ErrCapability, errors.ErrState, errors.ErrComputation and
// errors.ErrConfiguration from pkg/errors.
//
// For more examples, see the examples directory.
package randomferns
