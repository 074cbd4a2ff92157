package decomposition

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// VarianceReport holds explained-variance accounting for a set of
// eigenvalues. Ratios and Cumulative are percentages.
type VarianceReport struct {
	// Ratios[j] is eigenvalue j as a percentage of Total.
	Ratios []float64
	// Cumulative[j] is the sum of Ratios[0..j]. Non-decreasing.
	Cumulative []float64
	// Sum is the sum of Ratios. It equals 100 for a full decomposition.
	Sum float64
	// Total is the variance the ratios are relative to.
	Total float64
}

// AnalyzeVariance reports each eigenvalue as a percentage of their sum.
// Passing the eigenvalues of a full decomposition gives ratios that sum to
// 100; for a truncated decomposition use AnalyzeVarianceWithTotal.
func AnalyzeVariance(eigenvalues []float64) (*VarianceReport, error) {
	if err := checkEigenvalues("AnalyzeVariance", eigenvalues); err != nil {
		return nil, err
	}
	return AnalyzeVarianceWithTotal(eigenvalues, floats.Sum(eigenvalues))
}

// AnalyzeVarianceWithTotal reports each eigenvalue as a percentage of total,
// the variance of the full decomposition. The result for the leading k
// eigenvalues is the prefix of the result for all of them.
func AnalyzeVarianceWithTotal(eigenvalues []float64, total float64) (*VarianceReport, error) {
	if err := checkEigenvalues("AnalyzeVarianceWithTotal", eigenvalues); err != nil {
		return nil, err
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, errors.NewValidationError("total", "must be positive and finite", total)
	}

	r := &VarianceReport{
		Ratios:     make([]float64, len(eigenvalues)),
		Cumulative: make([]float64, len(eigenvalues)),
		Total:      total,
	}
	for j, e := range eigenvalues {
		r.Ratios[j] = e / total * 100
	}
	floats.CumSum(r.Cumulative, r.Ratios)
	r.Sum = r.Cumulative[len(r.Cumulative)-1]
	return r, nil
}

func checkEigenvalues(op string, eigenvalues []float64) error {
	if len(eigenvalues) == 0 {
		return errors.NewEmptyInputError(op, "eigenvalues", 0, 1)
	}
	if err := errors.CheckFinite(op, eigenvalues); err != nil {
		return err
	}
	for _, e := range eigenvalues {
		if e < 0 {
			return errors.NewValidationError("eigenvalues", "must be non-negative", e)
		}
	}
	return nil
}

// CheckComplete verifies that the ratios account for all of the variance,
// |Sum-100| ≤ tol·100. It only holds for a full decomposition; callers use it
// as a sanity check before trusting a scree plot.
func (r *VarianceReport) CheckComplete(tol float64) error {
	if math.Abs(r.Sum-100) > tol*100 {
		return errors.NewValueError("CheckComplete",
			fmt.Sprintf("explained variance ratios sum to %.10g%%, expected 100%%", r.Sum))
	}
	return nil
}

// NComponents returns the number of components in the report.
func (r *VarianceReport) NComponents() int {
	return len(r.Ratios)
}

// Elbow returns the smallest k ≥ 1 such that component k+1 explains less than
// threshold percent of the variance, or len(ratios) when no later component
// drops below it. The result is a recommendation for WithNComponents; an
// empty ratio slice yields 0.
func Elbow(ratios []float64, threshold float64) int {
	for k := 1; k < len(ratios); k++ {
		if ratios[k] < threshold {
			return k
		}
	}
	return len(ratios)
}

// ComponentsForVariance returns the smallest k whose cumulative explained
// variance reaches target percent. Target must be in (0, 100]. When the
// sequence never reaches target (a truncated report) len(cumulative) is
// returned together with a ValueError.
func ComponentsForVariance(cumulative []float64, target float64) (int, error) {
	if !(target > 0 && target <= 100) {
		return 0, errors.NewValidationError("target", "must be in (0, 100]", target)
	}
	if len(cumulative) == 0 {
		return 0, errors.NewEmptyInputError("ComponentsForVariance", "components", 0, 1)
	}
	// a full cumulative sum can land just under 100 after rounding
	const slack = 1e-9
	for k, c := range cumulative {
		if c >= target-slack*100 {
			return k + 1, nil
		}
	}
	return len(cumulative), errors.NewValueError("ComponentsForVariance",
		fmt.Sprintf("cumulative variance %.6g%% never reaches %.6g%%", cumulative[len(cumulative)-1], target))
}
