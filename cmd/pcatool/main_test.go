package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YuminosukeSato/pcago/dataset"
	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, n, p int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(1))

	var b strings.Builder
	b.WriteString("sample")
	for j := 0; j < p; j++ {
		fmt.Fprintf(&b, ",f%d", j)
	}
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		latent := rng.NormFloat64()
		fmt.Fprintf(&b, "s%d", i)
		for j := 0; j < p; j++ {
			fmt.Fprintf(&b, ",%g", latent*float64(j+1)+rng.NormFloat64())
		}
		b.WriteString("\n")
	}

	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestRun(t *testing.T) {
	input := writeInput(t, 41, 6)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-input", input, "-components", "3", "-out", out, "-log-level", "debug"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	for _, name := range []string{"loadings.csv", "scores.csv", "variance.csv", "scree.png", "scores.png"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	loadings, err := dataset.LoadCSV(filepath.Join(out, "loadings.csv"), dataset.DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, "component", loadings.IDColumn)
	assert.Equal(t, []string{"PC1", "PC2", "PC3"}, loadings.RowLabels)
	assert.Equal(t, []string{"f0", "f1", "f2", "f3", "f4", "f5"}, loadings.FeatureNames)

	scores, err := os.ReadFile(filepath.Join(out, "scores.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(scores), "PC1,PC2,PC3,sample\n"))

	assert.Contains(t, stdout.String(), "retained 3 components")
	assert.Contains(t, stderr.String(), "variance analyzed")
}

func TestRun_VarianceTarget(t *testing.T) {
	input := writeInput(t, 30, 5)
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-input", input, "-variance-target", "100", "-out", out, "-no-plots", "-solver", "covariance"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	_, err = os.Stat(filepath.Join(out, "scree.png"))
	assert.True(t, os.IsNotExist(err))

	variance, err := dataset.LoadCSV(filepath.Join(out, "variance.csv"), dataset.DefaultReadOptions())
	require.NoError(t, err)
	r, _ := variance.Data.Dims()
	assert.LessOrEqual(t, r, 5)
	assert.InDelta(t, 100, variance.Data.At(r-1, 1), 1e-6)
}

func TestRun_Errors(t *testing.T) {
	input := writeInput(t, 10, 3)

	tests := []struct {
		name string
		args []string
		want interface{}
	}{
		{"missing input", []string{}, &errors.ValidationError{}},
		{"bad solver", []string{"-input", input, "-solver", "arpack"}, &errors.ValidationError{}},
		{"bad axis", []string{"-input", input, "-axis", "diagonal"}, &errors.ValidationError{}},
		{"bad log level", []string{"-input", input, "-log-level", "loud"}, &errors.ValidationError{}},
		{"too many components", []string{"-input", input, "-components", "4", "-no-plots"}, &errors.InvalidComponentCountError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "-out", t.TempDir())
			err := run(args, &bytes.Buffer{}, &bytes.Buffer{})
			require.Error(t, err)

			switch tt.want.(type) {
			case *errors.ValidationError:
				var target *errors.ValidationError
				assert.True(t, errors.As(err, &target), "%v", err)
			case *errors.InvalidComponentCountError:
				var target *errors.InvalidComponentCountError
				assert.True(t, errors.As(err, &target), "%v", err)
			}
		})
	}
}
