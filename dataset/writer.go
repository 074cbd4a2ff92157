package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ComponentLabel returns the 1-based column label of component j, "PC1" for j=0.
func ComponentLabel(j int) string {
	return "PC" + strconv.Itoa(j+1)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteLoadings writes one row per component: header
// "component,<feature names...>", rows "PC1", "PC2", ...
func WriteLoadings(w io.Writer, loadings mat.Matrix, featureNames []string) error {
	k, p := loadings.Dims()
	if len(featureNames) != p {
		return errors.NewDimensionError("dataset.WriteLoadings", p, len(featureNames), 1)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"component"}, featureNames...)); err != nil {
		return errors.Wrap(err, "write loadings header")
	}

	record := make([]string, p+1)
	for j := 0; j < k; j++ {
		record[0] = ComponentLabel(j)
		for i := 0; i < p; i++ {
			record[i+1] = formatFloat(loadings.At(j, i))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write loadings row %d", j)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush loadings")
}

// WriteScores writes one row per sample: header "PC1,...,PCk,<idColumn>",
// the sample identifier last.
func WriteScores(w io.Writer, scores mat.Matrix, rowLabels []string, idColumn string) error {
	n, k := scores.Dims()
	if len(rowLabels) != n {
		return errors.NewDimensionError("dataset.WriteScores", n, len(rowLabels), 0)
	}
	if idColumn == "" {
		idColumn = "id"
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, k+1)
	for j := 0; j < k; j++ {
		header = append(header, ComponentLabel(j))
	}
	if err := cw.Write(append(header, idColumn)); err != nil {
		return errors.Wrap(err, "write scores header")
	}

	record := make([]string, k+1)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			record[j] = formatFloat(scores.At(i, j))
		}
		record[k] = rowLabels[i]
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write scores row %d", i)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush scores")
}

// WriteVariance writes the explained-variance table: header
// "component,explained_variance_ratio,cumulative_variance".
func WriteVariance(w io.Writer, ratios, cumulative []float64) error {
	if len(ratios) != len(cumulative) {
		return errors.NewDimensionError("dataset.WriteVariance", len(ratios), len(cumulative), 0)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"component", "explained_variance_ratio", "cumulative_variance"}); err != nil {
		return errors.Wrap(err, "write variance header")
	}
	for j := range ratios {
		if err := cw.Write([]string{ComponentLabel(j), formatFloat(ratios[j]), formatFloat(cumulative[j])}); err != nil {
			return errors.Wrapf(err, "write variance row %d", j)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flush variance")
}
