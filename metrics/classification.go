// Package metrics provides evaluation metrics for classifiers.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// logLossEps は log(0) を避けるためのクリップ幅
const logLossEps = 1e-15

func checkLabels(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// Accuracy は正解率（予測クラスが正解と一致する割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkLabels("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError は誤分類率（1 - Accuracy）を計算する
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix は混同行列を計算する（行: 正解クラス, 列: 予測クラス）
//
// パラメータ:
//   - yTrue, yPred: クラスインデックスのベクトル
//   - nClasses: クラス数。ラベルは [0, nClasses) でなければならない
func ConfusionMatrix(yTrue, yPred *mat.VecDense, nClasses int) (*mat.Dense, error) {
	const op = "ConfusionMatrix"
	n, err := checkLabels(op, yTrue, yPred)
	if err != nil {
		return nil, err
	}
	if nClasses < 1 {
		return nil, errors.NewValidationError("n_classes", "must be at least 1", nClasses)
	}
	cm := mat.NewDense(nClasses, nClasses, nil)
	for i := 0; i < n; i++ {
		t, p := int(yTrue.AtVec(i)), int(yPred.AtVec(i))
		if t < 0 || t >= nClasses || p < 0 || p >= nClasses {
			return nil, errors.NewValueError(op, fmt.Sprintf("row %d: label outside [0, %d)", i, nClasses))
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// LogLoss は多クラスの対数損失（交差エントロピー）を計算する
//
// proba は (n_samples × n_classes) のクラス確率行列で、確率は [eps, 1-eps] にクリップされる。
func LogLoss(yTrue *mat.VecDense, proba mat.Matrix) (float64, error) {
	const op = "LogLoss"
	if yTrue == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	r, k := proba.Dims()
	if r != n {
		return 0, errors.NewDimensionError(op, n, r, 0)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		label := int(yTrue.AtVec(i))
		if label < 0 || label >= k {
			return 0, errors.NewValueError(op, fmt.Sprintf("row %d: label %d outside [0, %d)", i, label, k))
		}
		p := math.Min(math.Max(proba.At(i, label), logLossEps), 1-logLossEps)
		total -= math.Log(p)
	}
	loss := total / float64(n)
	if err := errors.CheckScalar(op, loss, 0); err != nil {
		return 0, err
	}
	return loss, nil
}
