package ferns

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/randomferns/core/model"
	"github.com/YuminosukeSato/randomferns/core/parallel"
	"github.com/YuminosukeSato/randomferns/dataset"
	"github.com/YuminosukeSato/randomferns/pkg/errors"
	"github.com/YuminosukeSato/randomferns/pkg/log"
)

const modelName = "RandomFerns"

// batchThreshold 以下の行数では PredictProbaBatch を逐次処理する
const batchThreshold = 1000

// RandomFerns は名義属性データ用の Random Ferns 分類器
//
// 属性をシード付きでシャッフルしてファーン（属性グループ）に分割し、
// ファーン×クラスごとに属性値の組み合わせの出現回数を数える。
// 予測時はラプラス平滑化した事前確率と各ファーンの尤度の積を正規化する。
//
// 学習済み状態は読み取り専用なので、PredictProba は複数の goroutine から
// 同時に呼び出してよい。
type RandomFerns struct {
	state  *model.StateManager
	cfg    Config
	logger log.Logger
	id     string

	mu      sync.RWMutex
	trained *trainedState
}

// trainedState は1回の Fit で作られ、以降は変更されない
type trainedState struct {
	schema dataset.Schema
	model  *GroupModel
}

// New creates an untrained classifier. An invalid configuration is reported here.
func New(opts ...Option) (*RandomFerns, error) {
	rf := &RandomFerns{
		state: model.NewStateManager(),
		cfg:   DefaultConfig(),
		id:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(rf)
	}
	if err := rf.cfg.Validate(); err != nil {
		return nil, err
	}
	if rf.logger == nil {
		rf.logger = log.GetLoggerWithName("ferns.classifier")
	}
	rf.logger = rf.logger.With(log.ModelNameKey, modelName, log.EstimatorIDKey, rf.id)
	return rf, nil
}

// checkTrainable は学習可能なデータセットかを検証する
func checkTrainable(op string, ds *dataset.Dataset) error {
	if ds.Len() == 0 {
		return errors.NewCapabilityError(op, "empty datasets", "at least one training instance is required")
	}
	schema := ds.Schema
	if !schema.Class.IsNominal() {
		return errors.NewCapabilityError(op, "numeric class",
			fmt.Sprintf("class attribute '%s' is %s", schema.Class.Name, schema.Class.Kind))
	}
	if schema.NumClasses() == 0 {
		return errors.NewCapabilityError(op, "empty class domain",
			fmt.Sprintf("class attribute '%s' has no values", schema.Class.Name))
	}
	if schema.NumAttributes() == 0 {
		return errors.NewCapabilityError(op, "datasets without attributes",
			"at least one non-class attribute is required")
	}
	for _, a := range schema.Attributes {
		if !a.IsNominal() {
			return errors.NewCapabilityError(op, "numeric attributes",
				fmt.Sprintf("attribute '%s' is %s", a.Name, a.Kind))
		}
	}
	for r, inst := range ds.Instances {
		if err := schema.CheckInstance(op, inst); err != nil {
			return errors.NewCapabilityError(op, "malformed instances", fmt.Sprintf("row %d: %v", r, err))
		}
	}
	return nil
}

func cloneSchema(s dataset.Schema) dataset.Schema {
	out := dataset.Schema{
		Attributes: make([]dataset.Attribute, len(s.Attributes)),
		Class:      dataset.NewNominal(s.Class.Name, s.Class.Values...),
	}
	out.Class.Kind = s.Class.Kind
	for i, a := range s.Attributes {
		out.Attributes[i] = dataset.NewNominal(a.Name, a.Values...)
		out.Attributes[i].Kind = a.Kind
	}
	return out
}

func positions(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Fit はデータセットでモデルを学習させる
//
// 学習は1パスで行い、途中でエラーが起きた場合は以前の状態（初回なら未学習）を保つ。
// 再学習は状態を丸ごと置き換える。
func (rf *RandomFerns) Fit(ds *dataset.Dataset) (err error) {
	defer errors.Recover(&err, "RandomFerns.Fit")
	start := time.Now()
	rf.logger.Debug("training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, ds.Len(),
		log.GroupSizeKey, rf.cfg.GroupSize,
		log.RandomSeedKey, rf.cfg.Seed,
	)

	t, err := rf.train(ds)
	if err != nil {
		rf.logger.Error("training failed", err, log.OperationKey, log.OperationFit)
		return err
	}

	rf.mu.Lock()
	rf.trained = t
	rf.state.SetFitted(t.schema.NumAttributes(), t.model.Total(), t.model.NumClasses())
	rf.mu.Unlock()

	rf.logger.Debug("training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, t.model.Total(),
		log.FeaturesKey, t.schema.NumAttributes(),
		log.ClassesKey, t.model.NumClasses(),
		log.FernsKey, t.model.NumFerns(),
		log.GroupSizeKey, rf.cfg.GroupSize,
		log.RandomSeedKey, rf.cfg.Seed,
		log.TableEntriesKey, t.model.TableEntries(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (rf *RandomFerns) train(ds *dataset.Dataset) (*trainedState, error) {
	const op = "RandomFerns.Fit"
	if err := checkTrainable(op, ds); err != nil {
		return nil, err
	}
	p, err := NewPartitioner(rf.cfg.GroupSize, rf.cfg.Seed)
	if err != nil {
		return nil, err
	}

	schema := cloneSchema(ds.Schema)
	ferns := p.Partition(positions(schema.NumAttributes()))
	g := newGroupModel(ferns, schema.DomainSizes(), schema.NumClasses())
	for _, inst := range ds.Instances {
		g.observeInstance(inst.Values, inst.Class)
	}

	for c := 0; c < g.NumClasses(); c++ {
		if g.ClassCount(c) == 0 {
			errors.Warn(errors.NewEmptyClassWarning(schema.Class.Value(c), g.Total()))
		}
	}
	return &trainedState{schema: schema, model: g}, nil
}

func (rf *RandomFerns) snapshot(method string) (*trainedState, error) {
	rf.mu.RLock()
	defer rf.mu.RUnlock()
	if rf.trained == nil {
		return nil, errors.NewNotFittedError(modelName, method)
	}
	return rf.trained, nil
}

// distribution は1行分のクラス確率分布を計算する
func (t *trainedState) distribution(op string, values []int) ([]float64, error) {
	if err := t.schema.CheckValues(op, values); err != nil {
		return nil, err
	}
	g := t.model
	scores := make([]float64, g.NumClasses())
	for c := range scores {
		scores[c] = math.Log(g.Prior(c))
	}
	for f := 0; f < g.NumFerns(); f++ {
		key := g.Key(f, values)
		for c := range scores {
			scores[c] += math.Log(g.Likelihood(f, c, key))
		}
	}

	// 対数の和を最大値でずらしてから指数に戻す
	top := slices.Max(scores)
	for c := range scores {
		scores[c] = math.Exp(scores[c] - top)
	}
	if err := errors.NormalizeInPlace(op, scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// PredictProba はクラス値（スキーマ順）に対する確率分布を返す
//
// values は属性ごとの値インデックスで、dataset.Missing を含んでよい。
func (rf *RandomFerns) PredictProba(values []int) (proba []float64, err error) {
	defer errors.Recover(&err, "RandomFerns.PredictProba")
	t, err := rf.snapshot("PredictProba")
	if err != nil {
		return nil, err
	}
	return t.distribution("RandomFerns.PredictProba", values)
}

// PredictClass returns the most probable class index; ties go to the lowest index.
func (rf *RandomFerns) PredictClass(values []int) (int, error) {
	proba, err := rf.PredictProba(values)
	if err != nil {
		return -1, err
	}
	return argmax(proba), nil
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// PredictProbaBatch はデータセットの全行の確率分布を (行数 × クラス数) の行列で返す
func (rf *RandomFerns) PredictProbaBatch(ds *dataset.Dataset) (out *mat.Dense, err error) {
	const op = "RandomFerns.PredictProbaBatch"
	defer errors.Recover(&err, op)
	t, err := rf.snapshot("PredictProbaBatch")
	if err != nil {
		return nil, err
	}
	n := ds.Len()
	if n == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	out = mat.NewDense(n, t.model.NumClasses(), nil)
	err = parallel.ParallelizeWithThreshold(n, batchThreshold, 0, func(start, end int) error {
		for i := start; i < end; i++ {
			p, err := t.distribution(op, ds.Instances[i].Values)
			if err != nil {
				return errors.Wrapf(err, "row %d", i)
			}
			out.SetRow(i, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rf.logger.Debug("batch prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, n,
	)
	return out, nil
}

// Predict returns the most probable class index of every row.
func (rf *RandomFerns) Predict(ds *dataset.Dataset) (*mat.VecDense, error) {
	proba, err := rf.PredictProbaBatch(ds)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	pred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		pred.SetVec(i, float64(argmax(proba.RawRowView(i))))
	}
	return pred, nil
}

// IsFitted reports whether Fit has succeeded at least once.
func (rf *RandomFerns) IsFitted() bool {
	return rf.state.IsFitted()
}

// Classes returns the class values of the trained schema, nil before Fit.
func (rf *RandomFerns) Classes() []string {
	t, err := rf.snapshot("Classes")
	if err != nil {
		return nil
	}
	return slices.Clone(t.schema.Class.Values)
}

// Ferns returns the attribute positions of every fern, nil before Fit.
func (rf *RandomFerns) Ferns() [][]int {
	t, err := rf.snapshot("Ferns")
	if err != nil {
		return nil
	}
	out := make([][]int, t.model.NumFerns())
	for f := range out {
		out[f] = t.model.Fern(f)
	}
	return out
}

// Model returns the trained frequency tables. GroupModel only exposes read
// accessors, so the result is safe to use alongside concurrent predictions.
func (rf *RandomFerns) Model() (*GroupModel, error) {
	t, err := rf.snapshot("Model")
	if err != nil {
		return nil, err
	}
	return t.model, nil
}

// Config returns the configuration.
func (rf *RandomFerns) Config() Config {
	return rf.cfg
}

// GetParams returns the hyperparameters.
func (rf *RandomFerns) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"group_size": rf.cfg.GroupSize,
		"seed":       rf.cfg.Seed,
	}
}

var (
	_ model.NominalClassifier = (*RandomFerns)(nil)
	_ model.ParameterGetter   = (*RandomFerns)(nil)
	_ model.Persistable       = (*RandomFerns)(nil)
)
