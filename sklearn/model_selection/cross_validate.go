package model_selection

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/metrics"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
	"github.com/YuminosukeSato/randomferns/pkg/log"
)

// CVResult stores cross-validation results
type CVResult struct {
	TestScores []float64  // フォールドごとの正解率
	LogLosses  []float64  // フォールドごとの対数損失
	FitTimes   []float64  // フォールドごとの学習時間（秒）
	Confusion  *mat.Dense // 全フォールドを合計した混同行列
}

// MeanScore returns the mean test accuracy.
func (cv *CVResult) MeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0
	}
	return stat.Mean(cv.TestScores, nil)
}

// StdScore returns the sample standard deviation of the test accuracy.
func (cv *CVResult) StdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0
	}
	return stat.StdDev(cv.TestScores, nil)
}

// MeanLogLoss returns the mean test log loss.
func (cv *CVResult) MeanLogLoss() float64 {
	if len(cv.LogLosses) == 0 {
		return 0
	}
	return stat.Mean(cv.LogLosses, nil)
}

type foldResult struct {
	accuracy  float64
	logLoss   float64
	fitTime   float64
	confusion *mat.Dense
}

// CrossValidate fits a fresh classifier from newModel on the training rows of
// every fold and scores it on the test rows. Folds run concurrently; a panic
// inside a fold is returned as a computation error for that fold.
func CrossValidate(newModel func() (model.NominalClassifier, error), ds *dataset.Dataset, splitter Splitter) (*CVResult, error) {
	const op = "CrossValidate"
	if ds.Len() == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	folds, err := splitter.Split(ds.Labels())
	if err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("model_selection.cross_validate")
	nClasses := ds.Schema.NumClasses()
	results := make([]foldResult, len(folds))
	errs := make([]error, len(folds))

	var wg sync.WaitGroup
	for idx := range folds {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			var res foldResult
			err := errors.SafeExecute(op, func() (err error) {
				res, err = runFold(newModel, ds, folds[idx], nClasses)
				return err
			})
			if err != nil {
				errs[idx] = errors.Wrapf(err, "fold %d", idx)
				return
			}
			results[idx] = res
			logger.Debug("fold evaluated",
				log.OperationKey, log.OperationCrossValidate,
				log.PhaseKey, log.PhaseValidation,
				log.FoldKey, idx,
				log.AccuracyKey, res.accuracy,
			)
		}(idx)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := &CVResult{
		TestScores: make([]float64, len(folds)),
		LogLosses:  make([]float64, len(folds)),
		FitTimes:   make([]float64, len(folds)),
		Confusion:  mat.NewDense(nClasses, nClasses, nil),
	}
	for i, res := range results {
		out.TestScores[i] = res.accuracy
		out.LogLosses[i] = res.logLoss
		out.FitTimes[i] = res.fitTime
		out.Confusion.Add(out.Confusion, res.confusion)
	}
	return out, nil
}

func runFold(newModel func() (model.NominalClassifier, error), ds *dataset.Dataset, fold Fold, nClasses int) (foldResult, error) {
	clf, err := newModel()
	if err != nil {
		return foldResult{}, err
	}

	start := time.Now()
	if err := clf.Fit(ds.Subset(fold.TrainIndices)); err != nil {
		return foldResult{}, err
	}
	fitTime := time.Since(start).Seconds()

	test := ds.Subset(fold.TestIndices)
	n := test.Len()
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	proba := mat.NewDense(n, nClasses, nil)
	for i, inst := range test.Instances {
		p, err := clf.PredictProba(inst.Values)
		if err != nil {
			return foldResult{}, err
		}
		proba.SetRow(i, p)
		best := 0
		for c := range p {
			if p[c] > p[best] {
				best = c
			}
		}
		yTrue.SetVec(i, float64(inst.Class))
		yPred.SetVec(i, float64(best))
	}

	acc, err := metrics.Accuracy(yTrue, yPred)
	if err != nil {
		return foldResult{}, err
	}
	loss, err := metrics.LogLoss(yTrue, proba)
	if err != nil {
		return foldResult{}, err
	}
	cm, err := metrics.ConfusionMatrix(yTrue, yPred, nClasses)
	if err != nil {
		return foldResult{}, err
	}
	return foldResult{accuracy: acc, logLoss: loss, fitTime: fitTime, confusion: cm}, nil
}
