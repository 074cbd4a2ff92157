package decomposition

import (
	"fmt"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/YuminosukeSato/pcago/pkg/log"
	"github.com/YuminosukeSato/pcago/preprocessing"
)

// Solver selects the backend that factorizes the standardized matrix.
type Solver int

const (
	// SolverFull computes a thin LAPACK SVD of the whole matrix.
	SolverFull Solver = iota
	// SolverRandomized sketches the range of the matrix with a seeded
	// Gaussian test matrix (Halko, Martinsson, Tropp) and iterates until the
	// sketched subspace converges, so the seed only affects running time.
	SolverRandomized
	// SolverCovariance eigendecomposes XᵀX/(n-1).
	SolverCovariance
)

// String returns the solver name used by flags and logs.
func (s Solver) String() string {
	switch s {
	case SolverFull:
		return "full"
	case SolverRandomized:
		return "randomized"
	case SolverCovariance:
		return "covariance"
	default:
		return fmt.Sprintf("Solver(%d)", int(s))
	}
}

// ParseSolver converts a solver name into a Solver.
func ParseSolver(s string) (Solver, error) {
	switch s {
	case "full":
		return SolverFull, nil
	case "randomized":
		return SolverRandomized, nil
	case "covariance":
		return SolverCovariance, nil
	default:
		return SolverFull, errors.NewValidationError("solver", "must be one of full, randomized, covariance", s)
	}
}

// AllComponents requests min(n_samples, n_features) components.
const AllComponents = -1

const (
	defaultOversamples = 10
	defaultPowerIters  = 4
)

type config struct {
	nComponents int
	solver      Solver
	randomState int64
	oversamples int
	powerIters  int
	logger      log.Logger

	// PCA only
	axis        preprocessing.Axis
	standardize bool
}

func defaultConfig() config {
	return config{
		nComponents: AllComponents,
		solver:      SolverFull,
		randomState: 0,
		oversamples: defaultOversamples,
		powerIters:  defaultPowerIters,
		axis:        preprocessing.AxisFeatures,
		standardize: true,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c *config) validate() error {
	switch c.solver {
	case SolverFull, SolverRandomized, SolverCovariance:
	default:
		return errors.NewValidationError("solver", "unknown solver", int(c.solver))
	}
	if c.oversamples < 0 {
		return errors.NewValidationError("n_oversamples", "must be non-negative", c.oversamples)
	}
	if c.powerIters < 0 {
		return errors.NewValidationError("n_iter", "must be non-negative", c.powerIters)
	}
	return nil
}

func (c *config) getLogger() log.Logger {
	if c.logger != nil {
		return c.logger
	}
	return log.GetLoggerWithName("decomposition")
}

// Option configures Decompose and PCA.
type Option func(*config)

// WithNComponents sets the number of retained components. Omitting the option
// (or passing AllComponents) keeps min(n_samples, n_features). Any other value
// outside [1, min(n_samples, n_features)] fails at fit time.
func WithNComponents(n int) Option {
	return func(c *config) {
		c.nComponents = n
	}
}

// WithSolver selects the factorization backend.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithRandomState seeds the randomized solver. Other solvers ignore it.
func WithRandomState(seed int64) Option {
	return func(c *config) {
		c.randomState = seed
	}
}

// WithOversamples sets the extra sketch columns used by the randomized solver.
func WithOversamples(n int) Option {
	return func(c *config) {
		c.oversamples = n
	}
}

// WithPowerIterations sets the number of subspace iterations the randomized
// solver runs before it starts checking for convergence.
func WithPowerIterations(n int) Option {
	return func(c *config) {
		c.powerIters = n
	}
}

// WithLogger overrides the logger; the default is the "decomposition" logger
// from pkg/log.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithAxis sets the standardization axis used by PCA. Decompose ignores it.
func WithAxis(axis preprocessing.Axis) Option {
	return func(c *config) {
		c.axis = axis
	}
}

// WithStandardize controls whether PCA standardizes its input before
// decomposing. Decompose ignores it.
func WithStandardize(standardize bool) Option {
	return func(c *config) {
		c.standardize = standardize
	}
}
