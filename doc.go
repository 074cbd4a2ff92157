// Package pcago provides principal component analysis for Go on top of gonum,
// with a scikit-learn-like API.
//
// pcago standardizes a sample matrix, decomposes it with a singular value
// decomposition and reports how much of the variance each component explains,
// so a caller can decide how many components to keep.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/pcago/decomposition"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(5, 3, []float64{
//	        2.5, 2.4, 0.5,
//	        0.5, 0.7, 1.9,
//	        2.2, 2.9, 0.8,
//	        1.9, 2.2, 1.1,
//	        3.1, 3.0, 0.3,
//	    })
//
//	    pca := decomposition.NewPCA(decomposition.WithNComponents(2))
//	    scores, err := pca.FitTransform(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    report, _ := pca.ExplainedVariance()
//	    fmt.Println("Scores:", mat.Formatted(scores))
//	    fmt.Println("Explained variance (%):", report.Ratios)
//	}
//
// # Packages
//
//   - preprocessing: per-feature or per-sample standardization (Standardize, StandardScaler)
//   - decomposition: Decompose, the PCA estimator and the variance analyzer
//     (AnalyzeVariance, Elbow, ComponentsForVariance)
//   - metrics: reconstruction error (MSE, RMSE, MaxAbsError, R2Score)
//   - dataset: CSV loader and result exporter
//   - visualize: scree and score scatter plots (gonum/plot)
//   - core/model: estimator interfaces and fitted-state bookkeeping
//   - core/parallel: size-thresholded parallel loops
//   - pkg/errors, pkg/log: structured errors and zerolog-backed logging
//
// The cmd/pcatool command runs the whole pipeline on a CSV file.
//
// # Conventions
//
// Standardization uses the population standard deviation. Eigenvalues are
// covariance eigenvalues, σ²/(n_samples-1). Components are unit vectors whose
// largest-magnitude entry is positive. Explained-variance ratios are
// percentages of the total variance, so a full decomposition sums to 100.
//
// # License
//
// pcago is released under the MIT License.
package pcago
