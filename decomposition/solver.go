package decomposition

import (
	"math"
	"math/rand"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// factorization holds the leading k right singular vectors (columns of
// vectors, p×k) and the matching singular values in descending order.
type factorization struct {
	vectors *mat.Dense
	values  []float64
}

// svdSolver computes the leading k right singular pairs of X.
type svdSolver interface {
	factorize(X mat.Matrix, k int) (*factorization, error)
}

func newSolver(cfg *config) svdSolver {
	switch cfg.solver {
	case SolverRandomized:
		return &randomizedSolver{
			seed:        cfg.randomState,
			oversamples: cfg.oversamples,
			powerIters:  cfg.powerIters,
		}
	case SolverCovariance:
		return covarianceSolver{}
	default:
		return fullSolver{}
	}
}

// fullSolver uses the LAPACK thin SVD.
type fullSolver struct{}

func (fullSolver) factorize(X mat.Matrix, k int) (*factorization, error) {
	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThinV); !ok {
		return nil, errors.Wrap(errors.ErrFactorizationFailed, "svd did not converge")
	}

	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)
	p, _ := v.Dims()

	return &factorization{
		vectors: mat.DenseCopyOf(v.Slice(0, p, 0, k)),
		values:  values[:k],
	}, nil
}

// covarianceSolver eigendecomposes the scatter matrix XᵀX/(n-1).
// Eigenvalues that round to negative are clamped to zero.
type covarianceSolver struct{}

func (covarianceSolver) factorize(X mat.Matrix, k int) (*factorization, error) {
	n, p := X.Dims()

	var cov mat.SymDense
	cov.SymOuterK(1/float64(n-1), X.T())

	var es mat.EigenSym
	if ok := es.Factorize(&cov, true); !ok {
		return nil, errors.Wrap(errors.ErrFactorizationFailed, "symmetric eigendecomposition did not converge")
	}

	eig := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// EigenSym は昇順なので末尾から取り出す
	vectors := mat.NewDense(p, k, nil)
	values := make([]float64, k)
	for j := 0; j < k; j++ {
		src := p - 1 - j
		lambda := eig[src]
		if lambda < 0 {
			lambda = 0
		}
		values[j] = math.Sqrt(lambda * float64(n-1))
		for i := 0; i < p; i++ {
			vectors.Set(i, j, vecs.At(i, src))
		}
	}

	return &factorization{vectors: vectors, values: values}, nil
}

// randomizedSolver finds the leading singular subspace with a seeded
// Gaussian sketch refined by subspace iteration. Iteration continues past
// powerIters until every Ritz pair has a residual below ritzTol·σ₀, so the
// result matches the full SVD up to floating-point tolerance whatever the
// seed. A sketch as wide as min(n, p) cannot save work, and a subspace that
// has not converged after min(n, p) iterations is abandoned; both cases use
// the full SVD.
type randomizedSolver struct {
	seed        int64
	oversamples int
	powerIters  int
}

// ritzTol bounds ‖(I-QQᵀ)·X·vⱼ‖ relative to the largest singular value.
const ritzTol = 1e-10

func (s *randomizedSolver) factorize(X mat.Matrix, k int) (*factorization, error) {
	n, p := X.Dims()
	l := k + s.oversamples
	if l >= min(n, p) {
		return fullSolver{}.factorize(X, k)
	}

	rng := rand.New(rand.NewSource(s.seed))
	omega := mat.NewDense(p, l, nil)
	raw := omega.RawMatrix()
	for i := range raw.Data {
		raw.Data[i] = rng.NormFloat64()
	}

	// Q: n×l orthonormal basis of range(X·Ω)
	q := mat.NewDense(n, l, nil)
	q.Mul(X, omega)
	orthonormalize(q)

	maxIters := max(s.powerIters, min(n, p))
	z := mat.NewDense(p, l, nil)
	for it := 0; it <= maxIters; it++ {
		if it >= s.powerIters {
			f, residual, err := ritz(X, q, k)
			if err != nil {
				return nil, err
			}
			if residual <= ritzTol*f.values[0] {
				return f, nil
			}
		}
		z.Mul(X.T(), q)
		orthonormalize(z)
		q.Mul(X, z)
		orthonormalize(q)
	}

	return fullSolver{}.factorize(X, k)
}

// ritz extracts the leading k singular pairs of X restricted to the range of
// q via an exact SVD of B = Qᵀ·X. It also returns the largest residual
// ‖X·vⱼ - Q·B·vⱼ‖; Xᵀ·uⱼ = σⱼ·vⱼ holds exactly by construction.
func ritz(X mat.Matrix, q *mat.Dense, k int) (*factorization, float64, error) {
	n, p := X.Dims()
	_, l := q.Dims()

	b := mat.NewDense(l, p, nil)
	b.Mul(q.T(), X)
	f, err := fullSolver{}.factorize(b, k)
	if err != nil {
		return nil, 0, err
	}

	xv := mat.NewDense(n, k, nil)
	xv.Mul(X, f.vectors)
	bv := mat.NewDense(l, k, nil)
	bv.Mul(b, f.vectors)
	inRange := mat.NewDense(n, k, nil)
	inRange.Mul(q, bv)
	xv.Sub(xv, inRange)

	var residual float64
	for j := 0; j < k; j++ {
		residual = math.Max(residual, mat.Norm(xv.ColView(j), 2))
	}
	return f, residual, nil
}

// orthonormalize replaces the columns of a (rows ≥ cols) with an orthonormal
// basis of their span using Householder QR.
func orthonormalize(a *mat.Dense) {
	raw := a.RawMatrix()
	tau := make([]float64, raw.Cols)

	work := []float64{0}
	lapack64.Geqrf(raw, tau, work, -1)
	work = make([]float64, max(1, int(work[0])))
	lapack64.Geqrf(raw, tau, work, len(work))

	work = []float64{0}
	lapack64.Orgqr(raw, tau, work, -1)
	work = make([]float64, max(1, int(work[0])))
	lapack64.Orgqr(raw, tau, work, len(work))
}
