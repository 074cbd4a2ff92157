package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name          string
		original      mat.Matrix
		reconstructed mat.Matrix
		want          float64
		tolerance     float64
		wantErr       bool
	}{
		{
			name:          "perfect reconstruction",
			original:      mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			reconstructed: mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			want:          0.0,
			tolerance:     1e-12,
		},
		{
			name:          "simple case",
			original:      mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
			reconstructed: mat.NewDense(2, 2, []float64{1.5, 2.5, 2.5, 3.5}),
			want:          0.25, // 4 × 0.5² / 4
			tolerance:     1e-12,
		},
		{
			name:          "single column",
			original:      mat.NewDense(3, 1, []float64{10, 20, 30}),
			reconstructed: mat.NewDense(3, 1, []float64{12, 18, 33}),
			want:          17.0 / 3.0,
			tolerance:     1e-12,
		},
		{
			name:          "row mismatch",
			original:      mat.NewDense(3, 2, nil),
			reconstructed: mat.NewDense(2, 2, nil),
			wantErr:       true,
		},
		{
			name:          "column mismatch",
			original:      mat.NewDense(2, 3, nil),
			reconstructed: mat.NewDense(2, 2, nil),
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.original, tt.reconstructed)

			if (err != nil) != tt.wantErr {
				t.Errorf("MSE() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("MSE() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestMSE_DimensionErrorAxis(t *testing.T) {
	_, err := MSE(mat.NewDense(2, 3, nil), mat.NewDense(2, 2, nil))

	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Axis != 1 || dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("unexpected DimensionError fields: %+v", dimErr)
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(
		mat.NewDense(1, 4, []float64{0, 0, 0, 0}),
		mat.NewDense(1, 4, []float64{2, -2, 2, -2}),
	)
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if math.Abs(got-2) > 1e-12 {
		t.Errorf("RMSE() = %v, want 2", got)
	}
}

func TestMaxAbsError(t *testing.T) {
	got, err := MaxAbsError(
		mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		mat.NewDense(2, 2, []float64{1, 2.5, 0, 4}),
	)
	if err != nil {
		t.Fatalf("MaxAbsError() error = %v", err)
	}
	if got != 3 {
		t.Errorf("MaxAbsError() = %v, want 3", got)
	}
}

func TestR2Score(t *testing.T) {
	original := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	t.Run("perfect reconstruction", func(t *testing.T) {
		got, err := R2Score(original, original)
		if err != nil {
			t.Fatalf("R2Score() error = %v", err)
		}
		if math.Abs(got-1) > 1e-12 {
			t.Errorf("R2Score() = %v, want 1", got)
		}
	})

	t.Run("column means", func(t *testing.T) {
		means := mat.NewDense(4, 2, []float64{
			2.5, 25,
			2.5, 25,
			2.5, 25,
			2.5, 25,
		})
		got, err := R2Score(original, means)
		if err != nil {
			t.Fatalf("R2Score() error = %v", err)
		}
		if math.Abs(got) > 1e-12 {
			t.Errorf("R2Score() = %v, want 0", got)
		}
	})

	t.Run("constant original", func(t *testing.T) {
		constant := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
		if _, err := R2Score(constant, constant); err == nil {
			t.Error("expected error for zero-variance original")
		}
	})
}
