// Package model_selection provides cross-validation splitters and evaluation
// of nominal classifiers.
package model_selection

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// Splitter divides row indices into train/test folds.
type Splitter interface {
	Split(labels []int) ([]Fold, error)
	NSplits() int
}

// Fold is one train/test split of row indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold は k 分割交差検証の分割器
type KFold struct {
	nSplits int
	shuffle bool
	seed    int64
}

// NewKFold creates a k-fold splitter; nSplits must be at least 2.
func NewKFold(nSplits int, shuffle bool, seed int64) (*KFold, error) {
	if nSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", nSplits)
	}
	return &KFold{nSplits: nSplits, shuffle: shuffle, seed: seed}, nil
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int {
	return kf.nSplits
}

func shuffled(indices []int, seed int64) {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}

func checkSplit(op string, n, nSplits int) error {
	if n < nSplits {
		return errors.NewValueError(op, fmt.Sprintf("cannot split %d rows into %d folds", n, nSplits))
	}
	return nil
}

// buildFolds は各行の所属フォールドから Fold を組み立てる
func buildFolds(assign []int, nSplits int) []Fold {
	folds := make([]Fold, nSplits)
	for i, f := range assign {
		for k := range folds {
			if k == f {
				folds[k].TestIndices = append(folds[k].TestIndices, i)
			} else {
				folds[k].TrainIndices = append(folds[k].TrainIndices, i)
			}
		}
	}
	return folds
}

// Split assigns consecutive blocks of the (optionally shuffled) rows to folds.
// The first n % k folds get one extra row.
func (kf *KFold) Split(labels []int) ([]Fold, error) {
	n := len(labels)
	if err := checkSplit("KFold.Split", n, kf.nSplits); err != nil {
		return nil, err
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.shuffle {
		shuffled(indices, kf.seed)
	}

	assign := make([]int, n)
	foldSize := n / kf.nSplits
	remainder := n % kf.nSplits
	current := 0
	for f := 0; f < kf.nSplits; f++ {
		size := foldSize
		if f < remainder {
			size++
		}
		for _, idx := range indices[current : current+size] {
			assign[idx] = f
		}
		current += size
	}
	return buildFolds(assign, kf.nSplits), nil
}

// StratifiedKFold は各フォールドのクラス比率を保つ k 分割の分割器
type StratifiedKFold struct {
	nSplits int
	shuffle bool
	seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter; nSplits must be at least 2.
func NewStratifiedKFold(nSplits int, shuffle bool, seed int64) (*StratifiedKFold, error) {
	if nSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", nSplits)
	}
	return &StratifiedKFold{nSplits: nSplits, shuffle: shuffle, seed: seed}, nil
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int {
	return skf.nSplits
}

// Split deals the rows of every class round-robin over the folds. Classes are
// visited in label order and each class continues where the previous one
// stopped, so fold sizes differ by at most one.
func (skf *StratifiedKFold) Split(labels []int) ([]Fold, error) {
	n := len(labels)
	if err := checkSplit("StratifiedKFold.Split", n, skf.nSplits); err != nil {
		return nil, err
	}

	byClass := make(map[int][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for label := range byClass {
		classes = append(classes, label)
	}
	sort.Ints(classes)

	assign := make([]int, n)
	next := 0
	for _, label := range classes {
		indices := byClass[label]
		if skf.shuffle {
			shuffled(indices, skf.seed+int64(label))
		}
		for _, idx := range indices {
			assign[idx] = next % skf.nSplits
			next++
		}
	}
	return buildFolds(assign, skf.nSplits), nil
}
