// Package decomposition computes principal components of a standardized
// sample matrix and summarizes how much variance each one explains.
//
// Conventions shared by every solver:
//
//   - Eigenvalues are covariance eigenvalues σ²/(n_samples-1), where σ are
//     the singular values of the standardized matrix.
//   - Loadings are the raw unit-norm principal directions (the rows of
//     Components). ScaledLoadings multiplies each row by √eigenvalue.
//   - The sign of each component is chosen so that its largest-magnitude
//     entry is positive, with ties going to the lowest feature index.
//   - Explained-variance ratios are taken against the total variance of the
//     input, so a truncated decomposition reports a prefix of the full ratios.
package decomposition

import (
	"math"
	"time"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/YuminosukeSato/pcago/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Decomposition is the result of decomposing a standardized matrix.
//
// Components has one unit-norm principal direction per row
// (n_components × n_features), ordered by descending eigenvalue. The sign of
// every row is fixed so that its largest-magnitude entry is positive; ties in
// magnitude go to the lowest feature index. Within an exactly tied
// singular-value subspace the directions are whatever the chosen solver
// returns: reproducible for one solver and input, not across solvers.
type Decomposition struct {
	// Components is n_components × n_features.
	Components *mat.Dense
	// Scores is n_samples × n_components, X·Componentsᵀ.
	Scores *mat.Dense
	// Eigenvalues are the covariance eigenvalues σ²/(n_samples-1), descending.
	Eigenvalues []float64
	// SingularValues are the σ of the retained components.
	SingularValues []float64
	// TotalVariance is the sum of all covariance eigenvalues of the input,
	// ‖X‖²_F/(n_samples-1), whether or not every component was retained.
	TotalVariance float64

	NSamples  int
	NFeatures int
	Solver    Solver
}

// Decompose factorizes an already standardized matrix X (n_samples ×
// n_features). X is decomposed as given; centering belongs to the caller
// (see preprocessing.Standardize). Options other than WithNComponents,
// WithSolver, WithRandomState, WithOversamples, WithPowerIterations and
// WithLogger are ignored.
//
//	d, err := decomposition.Decompose(Z, decomposition.WithNComponents(4))
//	report, err := d.ExplainedVariance()
func Decompose(X mat.Matrix, opts ...Option) (*Decomposition, error) {
	cfg := newConfig(opts)
	return decompose("Decompose", X, &cfg)
}

func decompose(op string, X mat.Matrix, cfg *config) (*Decomposition, error) {
	start := time.Now()
	logger := cfg.getLogger()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	n, p := X.Dims()
	if n < 2 {
		return nil, errors.NewEmptyInputError(op, "samples", n, 2)
	}
	if p < 1 {
		return nil, errors.NewEmptyInputError(op, "features", p, 1)
	}
	if err := errors.CheckMatrix(op, X); err != nil {
		return nil, err
	}

	maxK := min(n, p)
	k := cfg.nComponents
	if k == AllComponents {
		k = maxK
	}
	if k < 1 || k > maxK {
		return nil, errors.NewInvalidComponentCountError(op, k, maxK)
	}

	solver := newSolver(cfg)
	var f *factorization
	err := errors.SafeExecute(op+"."+cfg.solver.String(), func() error {
		var ferr error
		f, ferr = solver.factorize(X, k)
		return ferr
	})
	if err != nil {
		logger.Error("factorization failed", err,
			log.OperationKey, log.OperationDecompose,
			log.SolverKey, cfg.solver.String(),
		)
		return nil, errors.NewModelError(op, "factorization failed", err)
	}

	components := mat.DenseCopyOf(f.vectors.T())
	flipSigns(components)

	scores := mat.NewDense(n, k, nil)
	scores.Mul(X, components.T())

	frob := mat.Norm(X, 2)
	d := &Decomposition{
		Components:     components,
		Scores:         scores,
		Eigenvalues:    make([]float64, k),
		SingularValues: append([]float64(nil), f.values...),
		TotalVariance:  frob * frob / float64(n-1),
		NSamples:       n,
		NFeatures:      p,
		Solver:         cfg.solver,
	}
	for j, s := range d.SingularValues {
		d.Eigenvalues[j] = s * s / float64(n-1)
	}

	warnRankDeficiency(d, n, p)

	logger.Debug("decomposition finished",
		log.OperationKey, log.OperationDecompose,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.NComponentsKey, k,
		log.SolverKey, cfg.solver.String(),
		log.RandomSeedKey, cfg.randomState,
		log.TotalVarianceKey, d.TotalVariance,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return d, nil
}

// flipSigns makes the largest-magnitude entry of every row positive.
func flipSigns(components *mat.Dense) {
	k, p := components.Dims()
	for j := 0; j < k; j++ {
		row := components.RawRowView(j)
		pivot := 0
		for i := 1; i < p; i++ {
			if math.Abs(row[i]) > math.Abs(row[pivot]) {
				pivot = i
			}
		}
		if row[pivot] < 0 {
			for i := range row {
				row[i] = -row[i]
			}
		}
	}
}

// warnRankDeficiency reports retained components whose singular value is
// indistinguishable from zero at double precision.
func warnRankDeficiency(d *Decomposition, n, p int) {
	if len(d.SingularValues) == 0 {
		return
	}
	tol := d.SingularValues[0] * float64(max(n, p)) * epsilon
	rank := 0
	for _, s := range d.SingularValues {
		if s > tol {
			rank++
		}
	}
	for j := rank; j < len(d.SingularValues); j++ {
		errors.Warn(errors.NewRankDeficiencyWarning(j, d.Eigenvalues[j], rank))
	}
}

// epsilon is the float64 machine epsilon.
const epsilon = 0x1p-52

// NComponents returns the number of retained components.
func (d *Decomposition) NComponents() int {
	return len(d.Eigenvalues)
}

// Loadings returns the raw loadings: a copy of the unit-norm component vectors
// (n_components × n_features).
func (d *Decomposition) Loadings() *mat.Dense {
	return mat.DenseCopyOf(d.Components)
}

// ScaledLoadings returns each component scaled by the square root of its
// eigenvalue. For standardized input these are the feature/component
// correlations up to the n/(n-1) variance convention.
func (d *Decomposition) ScaledLoadings() *mat.Dense {
	scaled := mat.DenseCopyOf(d.Components)
	scaled.Apply(func(i, _ int, v float64) float64 {
		return v * math.Sqrt(d.Eigenvalues[i])
	}, scaled)
	return scaled
}

// ExplainedVariance reports the retained components' share of the total
// variance. For a truncated decomposition the ratios are the leading entries
// of the full decomposition's ratios and sum to less than 100.
func (d *Decomposition) ExplainedVariance() (*VarianceReport, error) {
	return AnalyzeVarianceWithTotal(d.Eigenvalues, d.TotalVariance)
}

// Reconstruct maps the scores back into the input space, Scores·Components.
// With all components retained this reproduces the decomposed matrix up to
// rounding.
func (d *Decomposition) Reconstruct() *mat.Dense {
	n, _ := d.Scores.Dims()
	out := mat.NewDense(n, d.NFeatures, nil)
	out.Mul(d.Scores, d.Components)
	return out
}
