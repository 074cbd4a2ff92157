package preprocessing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func randomMatrix(rows, cols int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64()*float64(1+i%cols) + float64(i%cols)
	}
	return mat.NewDense(rows, cols, data)
}

func sliceMoments(Z mat.Matrix, axis Axis, s int) (mean, variance float64) {
	r, c := Z.Dims()
	n := r
	at := func(k int) float64 { return Z.At(k, s) }
	if axis == AxisSamples {
		n = c
		at = func(k int) float64 { return Z.At(s, k) }
	}
	for k := 0; k < n; k++ {
		mean += at(k)
	}
	mean /= float64(n)
	for k := 0; k < n; k++ {
		d := at(k) - mean
		variance += d * d
	}
	return mean, variance / float64(n)
}

func TestStandardize_MomentsPerAxis(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		axis       Axis
	}{
		{"features small", 41, 13, AxisFeatures},
		{"samples small", 41, 13, AxisSamples},
		{"samples wide", 5, 40, AxisSamples},
		{"features wide", 5, 40, AxisFeatures},
		{"features large parallel", 300, 80, AxisFeatures},
		{"samples large parallel", 300, 80, AxisSamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X := randomMatrix(tt.rows, tt.cols, 7)
			Z, err := Standardize(X, tt.axis)
			if err != nil {
				t.Fatalf("Standardize failed: %v", err)
			}

			r, c := Z.Dims()
			if r != tt.rows || c != tt.cols {
				t.Fatalf("shape = %d×%d, want %d×%d", r, c, tt.rows, tt.cols)
			}

			n := tt.cols
			if tt.axis == AxisSamples {
				n = tt.rows
			}
			for s := 0; s < n; s++ {
				mean, variance := sliceMoments(Z, tt.axis, s)
				if math.Abs(mean) > 1e-9 {
					t.Errorf("slice %d: mean = %g", s, mean)
				}
				if math.Abs(variance-1) > 1e-6 {
					t.Errorf("slice %d: variance = %g", s, variance)
				}
			}
		})
	}
}

func TestStandardize_AxisMatters(t *testing.T) {
	X := randomMatrix(10, 4, 3)

	byFeature, err := Standardize(X, AxisFeatures)
	if err != nil {
		t.Fatal(err)
	}
	bySample, err := Standardize(X, AxisSamples)
	if err != nil {
		t.Fatal(err)
	}
	if mat.EqualApprox(byFeature, bySample, 1e-6) {
		t.Error("feature-wise and sample-wise standardization should differ")
	}
}

func TestStandardize_DoesNotMutateInput(t *testing.T) {
	X := randomMatrix(6, 3, 11)
	orig := mat.DenseCopyOf(X)

	if _, err := Standardize(X, AxisFeatures); err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(X, orig) {
		t.Error("input matrix was modified")
	}
}

func TestStandardize_KnownValues(t *testing.T) {
	// 列1: [1,2,3] -> mean=2, std=sqrt(2/3)
	X := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 60,
	})
	Z, err := Standardize(X, AxisFeatures)
	if err != nil {
		t.Fatal(err)
	}
	want := 1 / math.Sqrt(2.0/3.0)
	if math.Abs(Z.At(0, 0)+want) > 1e-12 || math.Abs(Z.At(1, 0)) > 1e-12 || math.Abs(Z.At(2, 0)-want) > 1e-12 {
		t.Errorf("column 0 = %v", mat.Col(nil, 0, Z))
	}
}

func TestStandardize_DegenerateFeature(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 5, 2,
		2, 5, 4,
		3, 5, 1,
		4, 5, 9,
	})

	_, err := Standardize(X, AxisFeatures)
	if err == nil {
		t.Fatal("expected DegenerateFeatureError for constant column")
	}

	var degErr *errors.DegenerateFeatureError
	if !errors.As(err, &degErr) {
		t.Fatalf("expected DegenerateFeatureError, got %T: %v", err, err)
	}
	if degErr.Index != 1 || degErr.Axis != int(AxisFeatures) || degErr.Value != 5 {
		t.Errorf("unexpected error context: %+v", degErr)
	}
}

func TestStandardize_DegenerateSample(t *testing.T) {
	X := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		7, 7, 7,
		0, 1, 5,
	})

	_, err := Standardize(X, AxisSamples)
	var degErr *errors.DegenerateFeatureError
	if !errors.As(err, &degErr) {
		t.Fatalf("expected DegenerateFeatureError, got %v", err)
	}
	if degErr.Index != 1 || degErr.Axis != int(AxisSamples) {
		t.Errorf("unexpected error context: %+v", degErr)
	}
}

func TestStandardize_InvalidInput(t *testing.T) {
	t.Run("single sample", func(t *testing.T) {
		_, err := Standardize(mat.NewDense(1, 3, []float64{1, 2, 3}), AxisFeatures)
		var emptyErr *errors.EmptyInputError
		if !errors.As(err, &emptyErr) {
			t.Errorf("expected EmptyInputError, got %v", err)
		}
	})

	t.Run("bad axis", func(t *testing.T) {
		_, err := Standardize(randomMatrix(3, 3, 1), Axis(2))
		var valErr *errors.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("nan entry", func(t *testing.T) {
		X := randomMatrix(3, 3, 1)
		X.Set(2, 1, math.NaN())
		_, err := Standardize(X, AxisFeatures)
		var numErr *errors.NumericalInstabilityError
		if !errors.As(err, &numErr) {
			t.Errorf("expected NumericalInstabilityError, got %v", err)
		}
	})
}

func TestParseAxis(t *testing.T) {
	if a, err := ParseAxis("features"); err != nil || a != AxisFeatures {
		t.Errorf("ParseAxis(features) = %v, %v", a, err)
	}
	if a, err := ParseAxis("samples"); err != nil || a != AxisSamples {
		t.Errorf("ParseAxis(samples) = %v, %v", a, err)
	}
	if _, err := ParseAxis("diagonal"); err == nil {
		t.Error("expected error for unknown axis")
	}
	if AxisFeatures.String() != "features" || Axis(5).String() != "Axis(5)" {
		t.Error("unexpected Axis.String output")
	}
}
