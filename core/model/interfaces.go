// Package model provides the interfaces and shared state types of the classifiers.
package model

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/dataset"
)

// NominalFitter は名義属性のデータセットで学習可能なモデルのインターフェース
type NominalFitter interface {
	// Fit はデータセット全体でモデルを一度だけ学習させる
	Fit(ds *dataset.Dataset) error
}

// DistributionPredictor は1行ごとにクラス確率分布を返すモデルのインターフェース
type DistributionPredictor interface {
	// PredictProba はスキーマ順のクラス値に対する確率分布を返す
	PredictProba(values []int) ([]float64, error)
}

// NominalClassifier は名義データ用の分類器
type NominalClassifier interface {
	NominalFitter
	DistributionPredictor

	// Predict はデータセットの各行に対して最尤クラスのインデックスを返す
	Predict(ds *dataset.Dataset) (*mat.VecDense, error)

	// Classes は学習時のクラス値を返す
	Classes() []string
}

// Fitter は行列形式の訓練データで学習可能なモデルのインターフェース
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// ProbabilisticClassifier は行列形式の入力に対してクラス確率を返す分類器
type ProbabilisticClassifier interface {
	Fitter

	// PredictProba は各行のクラス確率（行: サンプル, 列: クラス）を返す
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// Persistable is the interface for models that can be saved and loaded.
type Persistable interface {
	Save(w io.Writer) error
	Load(r io.Reader) error
}
