package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/YuminosukeSato/pcago/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// ReadOptions controls how a CSV table is parsed.
type ReadOptions struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Comment starts a comment line when non-zero.
	Comment rune
	// RowLabels treats the first column as the sample identifier.
	// When false every column is numeric and rows are labelled by index.
	RowLabels bool
}

// DefaultReadOptions returns comma-separated input with an identifier column.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Delimiter: ',', RowLabels: true}
}

// Table is a parsed sample matrix.
type Table struct {
	// IDColumn is the header of the identifier column ("" without RowLabels).
	IDColumn string
	// RowLabels has one identifier per sample.
	RowLabels []string
	// FeatureNames has one name per column of Data.
	FeatureNames []string
	// Data is n_samples × n_features.
	Data *mat.Dense
}

// LoadCSV opens path and parses it with ReadCSV.
func LoadCSV(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	table, err := ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	r, c := table.Data.Dims()
	log.GetLoggerWithName("dataset").Debug("table loaded",
		"path", path,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)
	return table, nil
}

// ReadCSV parses a header row followed by one row per sample. Every row must
// have as many fields as the header; a short or long row is a DimensionError
// and a non-numeric feature cell is a ValidationError naming its position.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	const op = "dataset.ReadCSV"

	cr := csv.NewReader(r)
	cr.Comma = ','
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.Comment = opts.Comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewEmptyInputError(op, "header rows", 0, 1)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse header")
	}

	first := 0
	table := &Table{}
	if opts.RowLabels {
		first = 1
		table.IDColumn = strings.TrimSpace(header[0])
	}
	for _, name := range header[first:] {
		table.FeatureNames = append(table.FeatureNames, strings.TrimSpace(name))
	}
	p := len(table.FeatureNames)
	if p == 0 {
		return nil, errors.NewEmptyInputError(op, "features", 0, 1)
	}

	var data []float64
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "parse row %d", line)
		}
		if len(record) != len(header) {
			return nil, errors.NewDimensionError(fmt.Sprintf("%s row %d", op, line), len(header), len(record), 1)
		}

		label := strconv.Itoa(line - 1)
		if opts.RowLabels {
			label = strings.TrimSpace(record[0])
		}
		table.RowLabels = append(table.RowLabels, label)

		for j, cell := range record[first:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.NewValidationError(
					fmt.Sprintf("row %d column %q", line, table.FeatureNames[j]),
					"not a number", cell)
			}
			data = append(data, v)
		}
	}

	n := len(table.RowLabels)
	if n == 0 {
		return nil, errors.NewEmptyInputError(op, "samples", 0, 1)
	}
	table.Data = mat.NewDense(n, p, data)
	return table, nil
}
