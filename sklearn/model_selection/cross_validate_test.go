package model_selection_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/ferns"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
	"github.com/YuminosukeSato/randomferns/sklearn/model_selection"
)

// separableDataset の "a" 属性はクラスを決定する
func separableDataset(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	ds := dataset.New(dataset.Schema{
		Attributes: []dataset.Attribute{
			dataset.NewNominal("a", "x", "y"),
			dataset.NewNominal("noise", "p", "q", "r"),
		},
		Class: dataset.NewNominal("class", "pos", "neg"),
	})
	noise := []string{"p", "q", "r"}
	for i := 0; i < n; i++ {
		a, class := "x", "pos"
		if i%2 == 1 {
			a, class = "y", "neg"
		}
		require.NoError(t, ds.AppendStrings([]string{a, noise[i%3]}, class))
	}
	return ds
}

// brokenClassifier panics while fitting, as a classifier with a broken
// invariant would.
type brokenClassifier struct{}

func (brokenClassifier) Fit(*dataset.Dataset) error { panic("frequency table missing") }

func (brokenClassifier) PredictProba([]int) ([]float64, error) { return nil, nil }

func (brokenClassifier) Predict(*dataset.Dataset) (*mat.VecDense, error) { return nil, nil }

func (brokenClassifier) Classes() []string { return nil }

func newFerns() (model.NominalClassifier, error) {
	return ferns.New(ferns.WithGroupSize(1), ferns.WithSeed(1))
}

func TestCrossValidate(t *testing.T) {
	ds := separableDataset(t, 40)
	skf, err := model_selection.NewStratifiedKFold(4, true, 5)
	require.NoError(t, err)

	result, err := model_selection.CrossValidate(newFerns, ds, skf)
	require.NoError(t, err)

	assert.Len(t, result.TestScores, 4)
	assert.Len(t, result.FitTimes, 4)
	assert.InDelta(t, 1.0, result.MeanScore(), 1e-12)
	assert.InDelta(t, 0.0, result.StdScore(), 1e-12)
	assert.Less(t, result.MeanLogLoss(), 0.5)

	rows, cols := result.Confusion.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2, cols)
	assert.Equal(t, 20.0, result.Confusion.At(0, 0))
	assert.Equal(t, 20.0, result.Confusion.At(1, 1))
	assert.Equal(t, 0.0, result.Confusion.At(0, 1))
}

func TestCrossValidateBackendsAgree(t *testing.T) {
	ds := separableDataset(t, 30)
	kf, err := model_selection.NewKFold(3, true, 9)
	require.NoError(t, err)

	cfg := ferns.Config{GroupSize: 2, Seed: 4}
	rf, err := model_selection.CrossValidate(func() (model.NominalClassifier, error) {
		return ferns.New(ferns.WithConfig(cfg))
	}, ds, kf)
	require.NoError(t, err)
	cf, err := model_selection.CrossValidate(func() (model.NominalClassifier, error) {
		return ferns.NewCartesianFerns(cfg)
	}, ds, kf)
	require.NoError(t, err)

	assert.Equal(t, rf.TestScores, cf.TestScores)
	assert.InDeltaSlice(t, rf.LogLosses, cf.LogLosses, 1e-9)
}

func TestCrossValidateErrors(t *testing.T) {
	kf, err := model_selection.NewKFold(2, false, 0)
	require.NoError(t, err)

	t.Run("Empty dataset", func(t *testing.T) {
		empty := dataset.New(dataset.Schema{Class: dataset.NewNominal("c", "a")})
		_, err := model_selection.CrossValidate(newFerns, empty, kf)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("Factory error", func(t *testing.T) {
		ds := separableDataset(t, 4)
		_, err := model_selection.CrossValidate(func() (model.NominalClassifier, error) {
			return ferns.New(ferns.WithGroupSize(0))
		}, ds, kf)
		assert.Error(t, err)
	})

	t.Run("Panicking classifier", func(t *testing.T) {
		ds := separableDataset(t, 10)
		_, err := model_selection.CrossValidate(func() (model.NominalClassifier, error) {
			return brokenClassifier{}, nil
		}, ds, kf)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrComputation))
		var panicErr *errors.PanicError
		assert.True(t, errors.As(err, &panicErr))
	})

	t.Run("Too few rows", func(t *testing.T) {
		ds := separableDataset(t, 1)
		_, err := model_selection.CrossValidate(newFerns, ds, kf)
		assert.Error(t, err)
	})
}
