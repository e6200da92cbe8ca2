// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// エラーは4つの種類（Capability / State / Computation / Configuration）に分類され、
// それぞれ cockroachdb/errors のマークによって errors.Is で判定できます。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	エラーの種類
//
// ===========================================================================

var (
	// ErrCapability はデータセットが分類器の扱えない形式である場合のマークです。
	ErrCapability = errors.New("capability error")

	// ErrState は未学習のモデルや不一致なスキーマで呼び出された場合のマークです。
	ErrState = errors.New("state error")

	// ErrComputation は内部の数値計算が不変条件に違反した場合のマークです。
	ErrComputation = errors.New("computation error")

	// ErrConfiguration は設定値が不正な場合のマークです。
	ErrConfiguration = errors.New("configuration error")
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("ferns-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// EmptyClassWarning は学習データに一度も現れないクラス値がある場合の警告です。
// 予測は平滑化された事前確率のみで行われます。
type EmptyClassWarning struct {
	Class     string
	NumInputs int
}

func (w *EmptyClassWarning) Error() string {
	return fmt.Sprintf("class value '%s' has no training instances among %d rows; its score relies on smoothing only", w.Class, w.NumInputs)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *EmptyClassWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("class", w.Class).
		Int("num_inputs", w.NumInputs).
		Str("type", "EmptyClassWarning")
}

// NewEmptyClassWarning は新しいEmptyClassWarningを作成します。
func NewEmptyClassWarning(class string, numInputs int) *EmptyClassWarning {
	return &EmptyClassWarning{Class: class, NumInputs: numInputs}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// CapabilityError はデータセットが分類器の対応範囲外である場合のエラーです。
// 例: 数値属性、数値クラス、空のデータセット。
type CapabilityError struct {
	Op         string
	Capability string
	Reason     string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("ferns: %s: cannot handle %s: %s", e.Op, e.Capability, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *CapabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("capability", e.Capability).
		Str("reason", e.Reason).
		Str("type", "CapabilityError")
}

// NewCapabilityError は新しいCapabilityErrorを作成し、スタックトレースとマークを付与します。
func NewCapabilityError(op, capability, reason string) error {
	err := &CapabilityError{Op: op, Capability: capability, Reason: reason}
	return errors.Mark(errors.WithStack(err), ErrCapability)
}

// NotFittedError はモデルが未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("ferns: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.Mark(errors.WithStack(err), ErrState)
}

// SchemaMismatchError は予測時の入力が学習時のスキーマと一致しない場合のエラーです。
// Attribute が -1 の場合は行全体（属性数）の不一致を表します。
type SchemaMismatchError struct {
	Op        string
	Attribute int
	Expected  int
	Got       int
}

func (e *SchemaMismatchError) Error() string {
	if e.Attribute < 0 {
		return fmt.Sprintf("ferns: %s: schema mismatch: expected %d attribute values, got %d", e.Op, e.Expected, e.Got)
	}
	return fmt.Sprintf("ferns: %s: schema mismatch at attribute %d: value index %d outside domain of size %d",
		e.Op, e.Attribute, e.Got, e.Expected)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SchemaMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("attribute", e.Attribute).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "SchemaMismatchError")
}

// NewArityMismatchError は属性数の不一致を表すSchemaMismatchErrorを作成します。
func NewArityMismatchError(op string, expected, got int) error {
	err := &SchemaMismatchError{Op: op, Attribute: -1, Expected: expected, Got: got}
	return errors.Mark(errors.WithStack(err), ErrState)
}

// NewDomainMismatchError は属性値が定義域外であることを表すSchemaMismatchErrorを作成します。
func NewDomainMismatchError(op string, attribute, domainSize, got int) error {
	err := &SchemaMismatchError{Op: op, Attribute: attribute, Expected: domainSize, Got: got}
	return errors.Mark(errors.WithStack(err), ErrState)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("ferns: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 設定値の誤り（ConfigurationError）として扱われます。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ferns: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.Mark(errors.WithStack(err), ErrConfiguration)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("ferns: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ferns: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("ferns: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 正規化の合計がゼロ、NaN、Infになった場合などに ComputationError として返されます。
type NumericalInstabilityError struct {
	Operation string                 // 発生した操作（例: "normalize"）
	Values    []float64              // 問題のある値
	Context   map[string]interface{} // デバッグ用の追加コンテキスト情報
	Iteration int                    // 発生したイテレーション番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("ferns: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Floats64("values", e.Values).
		Int("iteration", e.Iteration).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	}
	return errors.Mark(errors.WithStack(err), ErrComputation)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// Mark はエラーに種類のマークを付与します。
func Mark(err, kind error) error {
	return errors.Mark(err, kind)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
