// Package preprocessing provides transformations over categorical matrices.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// maxExactCode は float64 で正確に表現できる最大の整数
const maxExactCode = 1 << 53

// CartesianProduct は列のグループごとに、グループ内のカテゴリ値の組み合わせを
// 1つのカテゴリ列（混合基数のコード）に置き換える変換
//
// 入力はカテゴリインデックスを格納した行列で、NaN は欠損値を表す。
// グループ内に欠損値が1つでもあれば出力も NaN になる。
type CartesianProduct struct {
	// Groups は出力列ごとの入力列インデックス
	Groups [][]int

	// DomainSizes は入力列ごとのカテゴリ数
	DomainSizes []int

	outputSizes []int
}

// NewCartesianProduct は新しい CartesianProduct を作成する
//
// パラメータ:
//   - groups: 出力列ごとの入力列インデックス（重複不可）
//   - domainSizes: 入力列ごとのカテゴリ数
//
// 使用例:
//
//	cp, err := preprocessing.NewCartesianProduct([][]int{{0, 2}, {1}}, []int{3, 2, 2})
//	XCombined, err := cp.Transform(X)
func NewCartesianProduct(groups [][]int, domainSizes []int) (*CartesianProduct, error) {
	const op = "CartesianProduct"
	cp := &CartesianProduct{
		Groups:      make([][]int, len(groups)),
		DomainSizes: append([]int(nil), domainSizes...),
		outputSizes: make([]int, len(groups)),
	}
	seen := make(map[int]bool)
	for g, cols := range groups {
		if len(cols) == 0 {
			return nil, errors.NewValueError(op, fmt.Sprintf("group %d is empty", g))
		}
		size := 1
		for _, c := range cols {
			if c < 0 || c >= len(domainSizes) {
				return nil, errors.NewValueError(op, fmt.Sprintf("column %d out of range", c))
			}
			if seen[c] {
				return nil, errors.NewValueError(op, fmt.Sprintf("column %d appears in more than one group", c))
			}
			seen[c] = true
			if domainSizes[c] > 0 && size > maxExactCode/domainSizes[c] {
				return nil, errors.NewValueError(op, fmt.Sprintf("group %d has too many combinations", g))
			}
			size *= domainSizes[c]
		}
		cp.Groups[g] = append([]int(nil), cols...)
		cp.outputSizes[g] = size
	}
	return cp, nil
}

// OutputDomainSizes は出力列ごとのカテゴリ数（グループ内のカテゴリ数の積）を返す
func (cp *CartesianProduct) OutputDomainSizes() []int {
	return append([]int(nil), cp.outputSizes...)
}

// Encode は1行分の値からグループ g のコードを計算する。欠損があれば NaN を返す
func (cp *CartesianProduct) Encode(g int, row []float64) float64 {
	code := 0
	radix := 1
	for _, c := range cp.Groups[g] {
		v := row[c]
		if math.IsNaN(v) {
			return math.NaN()
		}
		code += int(v) * radix
		radix *= cp.DomainSizes[c]
	}
	return float64(code)
}

// Transform は各グループを1列に置き換えた (n_samples × n_groups) の行列を返す
//
// 戻り値:
//   - mat.Matrix: 変換後の行列
//   - error: 列数の不一致、または範囲外のカテゴリ値がある場合
func (cp *CartesianProduct) Transform(X mat.Matrix) (mat.Matrix, error) {
	const op = "CartesianProduct.Transform"
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if c != len(cp.DomainSizes) {
		return nil, errors.NewDimensionError(op, len(cp.DomainSizes), c, 1)
	}

	out := mat.NewDense(r, len(cp.Groups), nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if !math.IsNaN(v) && (v < 0 || int(v) >= cp.DomainSizes[j] || v != math.Trunc(v)) {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("row %d column %d: %v is not a category of a domain of size %d", i, j, v, cp.DomainSizes[j]))
			}
			row[j] = v
		}
		for g := range cp.Groups {
			out.Set(i, g, cp.Encode(g, row))
		}
	}
	return out, nil
}

var _ model.Transformer = (*CartesianProduct)(nil)
