package ferns

import (
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
	"github.com/YuminosukeSato/randomferns/preprocessing"
	"github.com/YuminosukeSato/randomferns/sklearn/naive_bayes"
)

// CartesianFerns は RandomFerns と同じ推定量を、ファーンごとの直積カテゴリ列と
// CategoricalNB（alpha=1、事前確率もラプラス平滑化）で計算する別実装
//
// 欠損値のない入力では RandomFerns と同じ分布を返す。欠損値を含むファーンは
// CategoricalNB が無視するため、欠損値があると結果は一致しない。
type CartesianFerns struct {
	cfg Config

	mu      sync.RWMutex
	schema  dataset.Schema
	ferns   []Fern
	product *preprocessing.CartesianProduct
	nb      *naive_bayes.CategoricalNB
}

// NewCartesianFerns creates an untrained CartesianFerns.
func NewCartesianFerns(cfg Config) (*CartesianFerns, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CartesianFerns{cfg: cfg}, nil
}

// toMatrix は値インデックスを float64 に変換し、欠損値を NaN にする
func toMatrix(rows [][]int, nCols int) *mat.Dense {
	X := mat.NewDense(len(rows), nCols, nil)
	for i, values := range rows {
		for j, v := range values {
			if v == dataset.Missing {
				X.Set(i, j, math.NaN())
			} else {
				X.Set(i, j, float64(v))
			}
		}
	}
	return X
}

// Fit partitions the attributes, materializes one column per fern and fits CategoricalNB.
func (cf *CartesianFerns) Fit(ds *dataset.Dataset) (err error) {
	const op = "CartesianFerns.Fit"
	defer errors.Recover(&err, op)
	if err := checkTrainable(op, ds); err != nil {
		return err
	}
	p, err := NewPartitioner(cf.cfg.GroupSize, cf.cfg.Seed)
	if err != nil {
		return err
	}

	schema := cloneSchema(ds.Schema)
	ferns := p.Partition(positions(schema.NumAttributes()))
	groups := make([][]int, len(ferns))
	for f, fern := range ferns {
		groups[f] = fern
	}
	product, err := preprocessing.NewCartesianProduct(groups, schema.DomainSizes())
	if err != nil {
		return err
	}

	rows := make([][]int, ds.Len())
	y := mat.NewDense(ds.Len(), 1, nil)
	for i, inst := range ds.Instances {
		rows[i] = inst.Values
		y.Set(i, 0, float64(inst.Class))
	}
	Xt, err := product.Transform(toMatrix(rows, schema.NumAttributes()))
	if err != nil {
		return err
	}

	nb := naive_bayes.NewCategoricalNB(
		naive_bayes.WithAlpha(1),
		naive_bayes.WithClassPriorAlpha(1),
		naive_bayes.WithNCategories(product.OutputDomainSizes()),
		naive_bayes.WithNClasses(schema.NumClasses()),
	)
	if err := nb.Fit(Xt, y); err != nil {
		return err
	}

	cf.mu.Lock()
	defer cf.mu.Unlock()
	cf.schema, cf.ferns, cf.product, cf.nb = schema, ferns, product, nb
	return nil
}

func (cf *CartesianFerns) predictRows(method string, rows [][]int) (*mat.Dense, error) {
	op := "CartesianFerns." + method
	cf.mu.RLock()
	schema, product, nb := cf.schema, cf.product, cf.nb
	cf.mu.RUnlock()
	if nb == nil {
		return nil, errors.NewNotFittedError("CartesianFerns", method)
	}
	if len(rows) == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	for _, values := range rows {
		if err := schema.CheckValues(op, values); err != nil {
			return nil, err
		}
	}
	Xt, err := product.Transform(toMatrix(rows, schema.NumAttributes()))
	if err != nil {
		return nil, err
	}
	proba, err := nb.PredictProba(Xt)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(proba), nil
}

// PredictProba returns the class distribution of one row.
func (cf *CartesianFerns) PredictProba(values []int) ([]float64, error) {
	proba, err := cf.predictRows("PredictProba", [][]int{values})
	if err != nil {
		return nil, err
	}
	return mat.Row(nil, 0, proba), nil
}

// Predict returns the most probable class index of every row.
func (cf *CartesianFerns) Predict(ds *dataset.Dataset) (*mat.VecDense, error) {
	rows := make([][]int, ds.Len())
	for i := range rows {
		rows[i] = ds.Instances[i].Values
	}
	proba, err := cf.predictRows("Predict", rows)
	if err != nil {
		return nil, err
	}
	pred := mat.NewVecDense(len(rows), nil)
	for i := range rows {
		pred.SetVec(i, float64(argmax(proba.RawRowView(i))))
	}
	return pred, nil
}

// Classes returns the class values of the trained schema, nil before Fit.
func (cf *CartesianFerns) Classes() []string {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	if cf.nb == nil {
		return nil
	}
	return slices.Clone(cf.schema.Class.Values)
}

// Ferns returns the attribute positions of every fern, nil before Fit.
func (cf *CartesianFerns) Ferns() [][]int {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	out := make([][]int, len(cf.ferns))
	for f, fern := range cf.ferns {
		out[f] = slices.Clone(fern)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var _ model.NominalClassifier = (*CartesianFerns)(nil)
