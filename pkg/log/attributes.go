// Package log defines standard attribute keys for PCA operations.
//
// The keys follow a hierarchical naming convention ("data.samples",
// "pca.n_components") so log lines can be filtered per concern.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "PCA" or "StandardScaler".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates the pipeline stage.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	AxisKey     = "data.axis"
)

// Decomposition
const (
	// NComponentsKey is the number of retained components.
	NComponentsKey = "pca.n_components"

	// SolverKey names the SVD backend ("full", "randomized", "covariance").
	SolverKey = "pca.solver"

	// ExplainedVarianceKey is the cumulative explained variance (percent) of the retained components.
	ExplainedVarianceKey = "pca.explained_variance"

	// TotalVarianceKey is the total variance of the standardized matrix.
	TotalVarianceKey = "pca.total_variance"

	// ElbowKey is the advisory component count from the scree heuristic.
	ElbowKey = "pca.elbow"

	// RandomSeedKey records the solver seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ReconstructionErrorKey is the mean squared reconstruction error.
	ReconstructionErrorKey = "metrics.reconstruction_mse"
)

// Error Context
const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
	ErrorCodeKey      = "error.code"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationInverse      = "inverse_transform"
	OperationStandardize  = "standardize"
	OperationDecompose    = "decompose"
	OperationAnalyze      = "analyze_variance"

	PhasePreprocessing = "preprocessing"
	PhaseDecomposition = "decomposition"
	PhaseAnalysis      = "analysis"
	PhaseExport        = "export"

	ErrorDegenerateFeature = "DEGENERATE_FEATURE"
	ErrorEmptyInput        = "EMPTY_INPUT"
	ErrorInvalidComponents = "INVALID_COMPONENT_COUNT"
)
