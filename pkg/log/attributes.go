// Package log defines standard attribute keys for classifier operations.
//
// Using these keys keeps log records from training, prediction and evaluation
// consistent, so that they can be filtered by model, operation or data shape.
// Keys follow a hierarchical naming convention ("model.name", "data.samples").
package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "RandomFerns".
	ModelNameKey = "model.name"

	// EstimatorIDKey is a unique identifier for a model instance (UUID string).
	EstimatorIDKey = "estimator.id"

	// OperationKey is the operation being performed: "fit", "predict", "cross_validate".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey is the number of instances in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of non-class attributes.
	FeaturesKey = "data.features"

	// ClassesKey is the number of class values.
	ClassesKey = "data.classes"
)

// Fern Structure
const (
	// FernsKey is the number of ferns produced by the partitioner.
	FernsKey = "ferns.count"

	// GroupSizeKey is the configured target fern size.
	GroupSizeKey = "ferns.group_size"

	// TableEntriesKey is the total number of stored (non-zero) frequency table entries.
	TableEntriesKey = "ferns.table_entries"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// FoldKey is the index of a cross-validation fold.
	FoldKey = "eval.fold"

	// PredsKey is the number of predictions made.
	PredsKey = "preds.count"
)

// Error and Configuration Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit           = "fit"
	OperationPredict       = "predict"
	OperationCrossValidate = "cross_validate"

	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseValidation = "validation"

	ErrorNotFitted      = "NOT_FITTED"
	ErrorSchemaMismatch = "SCHEMA_MISMATCH"
	ErrorCapability     = "CAPABILITY"
	ErrorComputation    = "COMPUTATION"
)
