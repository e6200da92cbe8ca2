// Package naive_bayes provides naive Bayes classifiers over matrix input.
package naive_bayes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// CategoricalNB はカテゴリ特徴量用のナイーブベイズ分類器
// scikit-learn の CategoricalNB と同じ平滑化を行う
//
// X の各値はカテゴリインデックス（0, 1, ...）で、NaN は欠損値として
// 学習・予測の両方で無視される。y はクラスインデックス。
type CategoricalNB struct {
	state *model.StateManager

	alpha           float64 // 特徴量の尤度に加える平滑化パラメータ
	classPriorAlpha float64 // 事前確率に加える平滑化パラメータ（0 なら経験分布）
	nCategories     []int   // 特徴量ごとのカテゴリ数（nil なら学習データから推定）
	nClasses        int     // クラス数（0 なら学習データから推定）

	classCount     []float64
	categoryCount  [][][]float64 // [feature][class][category]
	featureLogProb [][][]float64 // [feature][class][category]
	classLogPrior  []float64
	nFeatures      int
}

// CategoricalNBOption is a functional option for CategoricalNB.
type CategoricalNBOption func(*CategoricalNB)

// WithAlpha sets the additive smoothing of feature likelihoods (default 1).
func WithAlpha(alpha float64) CategoricalNBOption {
	return func(nb *CategoricalNB) {
		nb.alpha = alpha
	}
}

// WithClassPriorAlpha sets the additive smoothing of the class prior.
// 0 (default) uses the empirical class frequencies.
func WithClassPriorAlpha(alpha float64) CategoricalNBOption {
	return func(nb *CategoricalNB) {
		nb.classPriorAlpha = alpha
	}
}

// WithNCategories fixes the number of categories of every feature.
func WithNCategories(n []int) CategoricalNBOption {
	return func(nb *CategoricalNB) {
		nb.nCategories = append([]int(nil), n...)
	}
}

// WithNClasses fixes the number of classes, so that classes absent from y still get a prior.
func WithNClasses(n int) CategoricalNBOption {
	return func(nb *CategoricalNB) {
		nb.nClasses = n
	}
}

// NewCategoricalNB は新しい CategoricalNB を作成する
func NewCategoricalNB(opts ...CategoricalNBOption) *CategoricalNB {
	nb := &CategoricalNB{
		state: model.NewStateManager(),
		alpha: 1.0,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

func category(op string, v float64, row, col int) (int, error) {
	if v < 0 || v != math.Trunc(v) {
		return 0, errors.NewValueError(op, fmt.Sprintf("row %d column %d: %v is not a category index", row, col, v))
	}
	return int(v), nil
}

// Fit はカテゴリ行列 X とクラス列ベクトル y で学習する
func (nb *CategoricalNB) Fit(X, y mat.Matrix) (err error) {
	const op = "CategoricalNB.Fit"
	defer errors.Recover(&err, op)

	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}
	if nb.alpha <= 0 {
		return errors.NewValidationError("alpha", "must be positive", nb.alpha)
	}
	if nb.classPriorAlpha < 0 {
		return errors.NewValidationError("class_prior_alpha", "must not be negative", nb.classPriorAlpha)
	}
	if nb.nCategories != nil && len(nb.nCategories) != c {
		return errors.NewDimensionError(op, len(nb.nCategories), c, 1)
	}

	labels := make([]int, r)
	nClasses := nb.nClasses
	for i := 0; i < r; i++ {
		label, err := category(op, y.At(i, 0), i, 0)
		if err != nil {
			return err
		}
		if nb.nClasses > 0 && label >= nb.nClasses {
			return errors.NewValueError(op, fmt.Sprintf("class %d outside [0, %d)", label, nb.nClasses))
		}
		labels[i] = label
		nClasses = max(nClasses, label+1)
	}

	nCategories := make([]int, c)
	if nb.nCategories != nil {
		copy(nCategories, nb.nCategories)
	}
	cats := make([][]int, r)
	for i := 0; i < r; i++ {
		cats[i] = make([]int, c)
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				cats[i][j] = -1
				continue
			}
			k, err := category(op, v, i, j)
			if err != nil {
				return err
			}
			if nb.nCategories != nil && k >= nb.nCategories[j] {
				return errors.NewValueError(op, fmt.Sprintf("row %d column %d: category %d outside [0, %d)", i, j, k, nb.nCategories[j]))
			}
			cats[i][j] = k
			if nb.nCategories == nil {
				nCategories[j] = max(nCategories[j], k+1)
			}
		}
	}

	classCount := make([]float64, nClasses)
	categoryCount := make([][][]float64, c)
	for j := range categoryCount {
		categoryCount[j] = make([][]float64, nClasses)
		for k := range categoryCount[j] {
			categoryCount[j][k] = make([]float64, nCategories[j])
		}
	}
	for i, label := range labels {
		classCount[label]++
		for j, k := range cats[i] {
			if k >= 0 {
				categoryCount[j][label][k]++
			}
		}
	}

	nb.classCount = classCount
	nb.categoryCount = categoryCount
	nb.nFeatures = c
	nb.updateLogProbs(nCategories)
	nb.state.SetFitted(c, r, nClasses)
	return nil
}

func (nb *CategoricalNB) updateLogProbs(nCategories []int) {
	nClasses := len(nb.classCount)
	total := 0.0
	for _, n := range nb.classCount {
		total += n
	}
	nb.classLogPrior = make([]float64, nClasses)
	for k, n := range nb.classCount {
		nb.classLogPrior[k] = math.Log(n+nb.classPriorAlpha) - math.Log(total+nb.classPriorAlpha*float64(nClasses))
	}

	nb.featureLogProb = make([][][]float64, len(nb.categoryCount))
	for j, perClass := range nb.categoryCount {
		nb.featureLogProb[j] = make([][]float64, nClasses)
		for k, counts := range perClass {
			sum := 0.0
			for _, n := range counts {
				sum += n
			}
			denom := math.Log(sum + nb.alpha*float64(nCategories[j]))
			nb.featureLogProb[j][k] = make([]float64, len(counts))
			for v, n := range counts {
				nb.featureLogProb[j][k][v] = math.Log(n+nb.alpha) - denom
			}
		}
	}
}

// jointLogLikelihood は1行分のクラスごとの対数同時確率を返す
func (nb *CategoricalNB) jointLogLikelihood(op string, X mat.Matrix, i int) ([]float64, error) {
	jll := append([]float64(nil), nb.classLogPrior...)
	for j := 0; j < nb.nFeatures; j++ {
		v := X.At(i, j)
		if math.IsNaN(v) {
			continue
		}
		k, err := category(op, v, i, j)
		if err != nil {
			return nil, err
		}
		if k >= len(nb.featureLogProb[j][0]) {
			return nil, errors.NewValueError(op, fmt.Sprintf("row %d column %d: unknown category %d", i, j, k))
		}
		for c := range jll {
			jll[c] += nb.featureLogProb[j][c][k]
		}
	}
	return jll, nil
}

// PredictProba は各行のクラス確率（行: サンプル, 列: クラス）を返す
func (nb *CategoricalNB) PredictProba(X mat.Matrix) (_ mat.Matrix, err error) {
	const op = "CategoricalNB.PredictProba"
	defer errors.Recover(&err, op)
	if err := nb.state.RequireFitted("CategoricalNB", "PredictProba"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if c != nb.nFeatures {
		return nil, errors.NewDimensionError(op, nb.nFeatures, c, 1)
	}

	out := mat.NewDense(r, len(nb.classLogPrior), nil)
	for i := 0; i < r; i++ {
		jll, err := nb.jointLogLikelihood(op, X, i)
		if err != nil {
			return nil, err
		}
		norm := errors.LogSumExp(jll)
		for k := range jll {
			jll[k] = math.Exp(jll[k] - norm)
		}
		if err := errors.CheckNumericalStability(op, jll, i); err != nil {
			return nil, err
		}
		out.SetRow(i, jll)
	}
	return out, nil
}

// Predict は各行の最尤クラスを列ベクトルで返す
func (nb *CategoricalNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := nb.PredictProba(X)
	if err != nil {
		return nil, err
	}
	r, k := proba.Dims()
	pred := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best := 0
		for c := 1; c < k; c++ {
			if proba.At(i, c) > proba.At(i, best) {
				best = c
			}
		}
		pred.Set(i, 0, float64(best))
	}
	return pred, nil
}

// Classes は学習済みのクラスインデックスを返す
func (nb *CategoricalNB) Classes() []int {
	classes := make([]int, len(nb.classCount))
	for i := range classes {
		classes[i] = i
	}
	return classes
}

// ClassCount returns the number of training rows per class.
func (nb *CategoricalNB) ClassCount() []float64 {
	return append([]float64(nil), nb.classCount...)
}

// CategoryCount returns the training count of category v of feature j in class c.
func (nb *CategoricalNB) CategoryCount(j, c, v int) float64 {
	return nb.categoryCount[j][c][v]
}

// GetParams returns the hyperparameters.
func (nb *CategoricalNB) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":             nb.alpha,
		"class_prior_alpha": nb.classPriorAlpha,
	}
}

var (
	_ model.ProbabilisticClassifier = (*CategoricalNB)(nil)
	_ model.ParameterGetter         = (*CategoricalNB)(nil)
)
