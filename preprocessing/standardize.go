// Package preprocessing standardizes sample matrices before decomposition.
//
// Standardization uses the population standard deviation (divisor n, ddof=0),
// the same convention as StandardScaler. A slice whose standard deviation is
// zero is never silently rescaled: the whole call fails with a
// DegenerateFeatureError naming the slice.
package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/pcago/core/parallel"
	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Axis selects the direction along which statistics are computed.
type Axis int

const (
	// AxisSamples standardizes each row (sample) across its features.
	AxisSamples Axis = 0
	// AxisFeatures standardizes each column (feature) across samples. This is
	// the axis PCA normally wants.
	AxisFeatures Axis = 1
)

// String returns the axis name used in logs and params.
func (a Axis) String() string {
	switch a {
	case AxisSamples:
		return "samples"
	case AxisFeatures:
		return "features"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts "features" or "samples" into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "features", "feature", "columns":
		return AxisFeatures, nil
	case "samples", "sample", "rows":
		return AxisSamples, nil
	default:
		return AxisFeatures, errors.NewValidationError("axis", "must be 'features' or 'samples'", s)
	}
}

// degenerateTol is the relative standard deviation below which a slice is
// treated as constant.
const degenerateTol = 1e-12

// parallelThreshold is the number of matrix entries below which slices are
// processed sequentially.
const parallelThreshold = 1 << 14

// Standardize returns a new matrix in which every slice along axis has mean 0
// and unit population variance. X is not modified.
//
//	Z, err := preprocessing.Standardize(X, preprocessing.AxisFeatures)
func Standardize(X mat.Matrix, axis Axis) (*mat.Dense, error) {
	const op = "Standardize"

	means, stds, err := sliceStats(op, X, axis)
	if err != nil {
		return nil, err
	}

	r, c := X.Dims()
	result := mat.NewDense(r, c, nil)
	n, length := c, r
	if axis == AxisSamples {
		n, length = r, c
	}

	parallel.ParallelizeWithThreshold(n, length, parallelThreshold, func(start, end int) {
		for s := start; s < end; s++ {
			for k := 0; k < length; k++ {
				i, j := k, s
				if axis == AxisSamples {
					i, j = s, k
				}
				result.Set(i, j, (X.At(i, j)-means[s])/stds[s])
			}
		}
	})

	return result, nil
}

// sliceStats validates X and returns the mean and population standard
// deviation of every slice along axis.
func sliceStats(op string, X mat.Matrix, axis Axis) (means, stds []float64, err error) {
	if axis != AxisFeatures && axis != AxisSamples {
		return nil, nil, errors.NewValidationError("axis", "must be AxisFeatures or AxisSamples", int(axis))
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, nil, errors.NewEmptyInputError(op, "samples", r, 2)
	}

	n, length := c, r
	if axis == AxisSamples {
		n, length = r, c
	}
	if length < 2 {
		what := "samples"
		if axis == AxisSamples {
			what = "features"
		}
		return nil, nil, errors.NewEmptyInputError(op, what, length, 2)
	}

	if err := errors.CheckMatrix(op, X); err != nil {
		return nil, nil, err
	}

	means = make([]float64, n)
	stds = make([]float64, n)

	parallel.ParallelizeWithThreshold(n, length, parallelThreshold, func(start, end int) {
		buf := make([]float64, length)
		for s := start; s < end; s++ {
			if axis == AxisFeatures {
				mat.Col(buf, s, X)
			} else {
				mat.Row(buf, s, X)
			}
			means[s], stds[s] = stat.PopMeanStdDev(buf, nil)
		}
	})

	// 最小のインデックスを報告するため逐次的に確認する
	for s := 0; s < n; s++ {
		if stds[s] <= degenerateTol*math.Max(1, math.Abs(means[s])) {
			return nil, nil, errors.NewDegenerateFeatureError(op, int(axis), s, means[s])
		}
	}

	return means, stds, nil
}
