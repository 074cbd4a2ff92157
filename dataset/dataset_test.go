package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const wineCSV = `country,alcohol,acidity,sugar
FR, 12.5,3.1,2.0
IT,13.0,3.4,1.5
ES,11.8,2.9,4.25
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(wineCSV), DefaultReadOptions())
	require.NoError(t, err)

	assert.Equal(t, "country", table.IDColumn)
	assert.Equal(t, []string{"FR", "IT", "ES"}, table.RowLabels)
	assert.Equal(t, []string{"alcohol", "acidity", "sugar"}, table.FeatureNames)

	want := mat.NewDense(3, 3, []float64{
		12.5, 3.1, 2.0,
		13.0, 3.4, 1.5,
		11.8, 2.9, 4.25,
	})
	assert.True(t, mat.Equal(want, table.Data))
}

func TestReadCSV_Options(t *testing.T) {
	input := "# exported\na;b\n1;2\n3;4\n"

	table, err := ReadCSV(strings.NewReader(input), ReadOptions{Delimiter: ';', Comment: '#'})
	require.NoError(t, err)

	assert.Equal(t, "", table.IDColumn)
	assert.Equal(t, []string{"0", "1"}, table.RowLabels)
	assert.Equal(t, []string{"a", "b"}, table.FeatureNames)
	assert.Equal(t, 4.0, table.Data.At(1, 1))
}

func TestReadCSV_Errors(t *testing.T) {
	t.Run("ragged row", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("id,a,b\nx,1,2\ny,3\n"), DefaultReadOptions())
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr), "%v", err)
		assert.Equal(t, 3, dimErr.Expected)
		assert.Equal(t, 2, dimErr.Got)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("non numeric", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("id,a,b\nx,1,oops\n"), DefaultReadOptions())
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr), "%v", err)
		assert.Equal(t, `row 1 column "b"`, valErr.ParamName)
		assert.Equal(t, "oops", valErr.Value)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("id,a,b\n"), DefaultReadOptions())
		var emptyErr *errors.EmptyInputError
		assert.True(t, errors.As(err, &emptyErr), "%v", err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), DefaultReadOptions())
		var emptyErr *errors.EmptyInputError
		assert.True(t, errors.As(err, &emptyErr), "%v", err)
	})

	t.Run("identifier only", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("id\nx\n"), DefaultReadOptions())
		var emptyErr *errors.EmptyInputError
		assert.True(t, errors.As(err, &emptyErr), "%v", err)
	})
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wine.csv")
	require.NoError(t, os.WriteFile(path, []byte(wineCSV), 0o600))

	table, err := LoadCSV(path, DefaultReadOptions())
	require.NoError(t, err)
	r, c := table.Data.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), DefaultReadOptions())
	assert.Error(t, err)
}

func TestWriteLoadings(t *testing.T) {
	loadings := mat.NewDense(2, 3, []float64{
		0.5, -0.25, 0.125,
		1, 0, -1,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteLoadings(&buf, loadings, []string{"alcohol", "acidity", "sugar"}))

	want := "component,alcohol,acidity,sugar\n" +
		"PC1,0.5,-0.25,0.125\n" +
		"PC2,1,0,-1\n"
	assert.Equal(t, want, buf.String())

	err := WriteLoadings(&buf, loadings, []string{"a"})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr), "%v", err)
}

func TestWriteScores(t *testing.T) {
	scores := mat.NewDense(2, 2, []float64{
		1.5, -2,
		0, 3.25,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteScores(&buf, scores, []string{"FR", "IT"}, "country"))

	want := "PC1,PC2,country\n" +
		"1.5,-2,FR\n" +
		"0,3.25,IT\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, WriteScores(&buf, scores, []string{"0", "1"}, ""))
	assert.True(t, strings.HasPrefix(buf.String(), "PC1,PC2,id\n"))

	err := WriteScores(&buf, scores, []string{"FR"}, "country")
	assert.Error(t, err)
}

func TestWriteVariance(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVariance(&buf, []float64{75, 25}, []float64{75, 100}))

	want := "component,explained_variance_ratio,cumulative_variance\n" +
		"PC1,75,75\n" +
		"PC2,25,100\n"
	assert.Equal(t, want, buf.String())

	assert.Error(t, WriteVariance(&buf, []float64{1}, nil))
}

// Scores written with WriteScores read back with the identifier moved to the
// front keep full float64 precision.
func TestScoresRoundTrip(t *testing.T) {
	scores := mat.NewDense(3, 2, []float64{
		0.1 + 0.2, -1.0 / 3.0,
		1e-300, 123456789.125,
		-0, 2.5,
	})
	labels := []string{"a", "b", "c"}

	var buf bytes.Buffer
	require.NoError(t, WriteScores(&buf, scores, labels, "id"))

	// move the trailing id column to the front for ReadCSV
	var reordered strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		fields := strings.Split(line, ",")
		last := len(fields) - 1
		reordered.WriteString(strings.Join(append([]string{fields[last]}, fields[:last]...), ",") + "\n")
	}

	table, err := ReadCSV(strings.NewReader(reordered.String()), DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, labels, table.RowLabels)
	assert.Equal(t, []string{"PC1", "PC2"}, table.FeatureNames)
	assert.True(t, mat.Equal(scores, table.Data))
}
