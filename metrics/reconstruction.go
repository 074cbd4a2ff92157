// Package metrics はPCAの再構成誤差などの評価指標を提供する
package metrics

import (
	"math"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// checkSameShape は2つの行列が同じ形状で空でないことを検証する
func checkSameShape(op string, a, b mat.Matrix) (r, c int, err error) {
	r, c = a.Dims()
	rb, cb := b.Dims()

	if r == 0 || c == 0 {
		return 0, 0, errors.NewEmptyInputError(op, "elements", 0, 1)
	}
	if r != rb {
		return 0, 0, errors.NewDimensionError(op, r, rb, 0)
	}
	if c != cb {
		return 0, 0, errors.NewDimensionError(op, c, cb, 1)
	}
	return r, c, nil
}

// MSE は2つの行列の要素ごとの平均二乗誤差を計算する
//
// PCAでは元の（標準化済み）行列と再構成した行列を渡して再構成誤差を求める。
func MSE(original, reconstructed mat.Matrix) (float64, error) {
	r, c, err := checkSameShape("MSE", original, reconstructed)
	if err != nil {
		return 0, err
	}

	var diff mat.Dense
	diff.Sub(original, reconstructed)
	norm := mat.Norm(&diff, 2)

	// MSE = ‖A - B‖²_F / (r·c)
	return norm * norm / float64(r*c), nil
}

// RMSE は平方根平均二乗誤差を計算する
func RMSE(original, reconstructed mat.Matrix) (float64, error) {
	mse, err := MSE(original, reconstructed)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MaxAbsError は要素ごとの絶対誤差の最大値を計算する
func MaxAbsError(original, reconstructed mat.Matrix) (float64, error) {
	r, c, err := checkSameShape("MaxAbsError", original, reconstructed)
	if err != nil {
		return 0, err
	}

	var maxErr float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			maxErr = math.Max(maxErr, math.Abs(original.At(i, j)-reconstructed.At(i, j)))
		}
	}
	return maxErr, nil
}

// R2Score は再構成で説明された分散の割合を計算する
//
// R² = 1 - Σ(x - x̂)² / Σ(x - mean_col)²
// 全成分を保持した再構成では1になる。
func R2Score(original, reconstructed mat.Matrix) (float64, error) {
	r, c, err := checkSameShape("R2Score", original, reconstructed)
	if err != nil {
		return 0, err
	}

	var ssRes, ssTot float64
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, original)
		mean := stat.Mean(col, nil)
		for i, v := range col {
			d := v - reconstructed.At(i, j)
			ssRes += d * d
			ssTot += (v - mean) * (v - mean)
		}
	}

	if ssTot == 0 {
		return 0, errors.NewValueError("R2Score", "original matrix has zero variance")
	}
	return 1 - ssRes/ssTot, nil
}
