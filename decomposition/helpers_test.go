package decomposition

import (
	"math"
	"math/rand"
	"testing"

	"github.com/YuminosukeSato/pcago/preprocessing"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// latentMatrix returns n×p data driven by three latent factors of decreasing
// strength plus small noise. Feature offsets and scales differ so that
// standardization changes the result.
func latentMatrix(n, p int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	strengths := []float64{5, 2.5, 1}

	loadings := make([][]float64, len(strengths))
	for f := range loadings {
		loadings[f] = make([]float64, p)
		for j := range loadings[f] {
			loadings[f][j] = rng.NormFloat64()
		}
	}

	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		factors := make([]float64, len(strengths))
		for f, s := range strengths {
			factors[f] = rng.NormFloat64() * s
		}
		for j := 0; j < p; j++ {
			v := 0.1 * rng.NormFloat64()
			for f := range factors {
				v += factors[f] * loadings[f][j]
			}
			X.Set(i, j, float64(j)*10+v*float64(1+j%4))
		}
	}
	return X
}

// gaussianMatrix returns iid standard normal entries. Its spectrum is flat,
// which makes the leading singular subspace slow to separate.
func gaussianMatrix(n, p int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, n*p)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(n, p, data)
}

func standardized(t *testing.T, X mat.Matrix) *mat.Dense {
	t.Helper()
	Z, err := preprocessing.Standardize(X, preprocessing.AxisFeatures)
	require.NoError(t, err)
	return Z
}

// maxAbsDiff returns max |a_ij - b_ij|.
func maxAbsDiff(a, b mat.Matrix) float64 {
	r, c := a.Dims()
	var m float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m = math.Max(m, math.Abs(a.At(i, j)-b.At(i, j)))
		}
	}
	return m
}
