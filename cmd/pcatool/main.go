// Command pcatool runs PCA on a CSV table and writes the loadings, scores,
// explained-variance table and a scree plot.
//
//	pcatool -input wine.csv -components 4 -out results/
//
// The input's first column identifies the sample; the remaining columns are
// numeric features named by the header row.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/YuminosukeSato/pcago/dataset"
	"github.com/YuminosukeSato/pcago/decomposition"
	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/YuminosukeSato/pcago/pkg/log"
	"github.com/YuminosukeSato/pcago/preprocessing"
	"github.com/YuminosukeSato/pcago/visualize"
	"gonum.org/v1/gonum/mat"
)

type options struct {
	input          string
	components     int
	varianceTarget float64
	seed           int64
	solver         string
	axis           string
	elbowThreshold float64
	out            string
	logLevel       string
	delimiter      string
	noPlots        bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pcatool", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.input, "input", "", "CSV file: identifier column, then numeric features (required)")
	fs.IntVar(&o.components, "components", decomposition.AllComponents, "number of components to retain (-1: all)")
	fs.Float64Var(&o.varianceTarget, "variance-target", 0, "retain the fewest components reaching this cumulative variance percent (overrides -components)")
	fs.Int64Var(&o.seed, "seed", 0, "random seed for the randomized solver")
	fs.StringVar(&o.solver, "solver", "full", "SVD backend: full, randomized or covariance")
	fs.StringVar(&o.axis, "axis", "features", "standardization axis: features or samples")
	fs.Float64Var(&o.elbowThreshold, "elbow-threshold", 5, "marginal explained variance percent below which the scree curve is flat")
	fs.StringVar(&o.out, "out", ".", "output directory")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&o.delimiter, "delimiter", ",", "CSV field delimiter")
	fs.BoolVar(&o.noPlots, "no-plots", false, "skip writing PNG plots")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.input == "" {
		return nil, errors.NewValidationError("input", "is required", o.input)
	}
	if len([]rune(o.delimiter)) != 1 {
		return nil, errors.NewValidationError("delimiter", "must be a single character", o.delimiter)
	}
	return o, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pcatool: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := log.Setup(o.logLevel, stderr); err != nil {
		return err
	}
	logger := log.GetLoggerWithName("pcatool")
	start := time.Now()

	solver, err := decomposition.ParseSolver(o.solver)
	if err != nil {
		return err
	}
	axis, err := preprocessing.ParseAxis(o.axis)
	if err != nil {
		return err
	}

	readOpts := dataset.DefaultReadOptions()
	readOpts.Delimiter = []rune(o.delimiter)[0]
	table, err := dataset.LoadCSV(o.input, readOpts)
	if err != nil {
		return err
	}
	n, p := table.Data.Dims()
	logger.Info("input loaded", "path", o.input, log.SamplesKey, n, log.FeaturesKey, p)

	common := []decomposition.Option{
		decomposition.WithSolver(solver),
		decomposition.WithRandomState(o.seed),
		decomposition.WithAxis(axis),
	}

	// 全成分で一度学習してスクリープロットと推奨成分数を得る
	full := decomposition.NewPCA(common...)
	if err := full.Fit(table.Data); err != nil {
		return err
	}
	fullReport, err := full.ExplainedVariance()
	if err != nil {
		return err
	}
	if err := fullReport.CheckComplete(1e-6); err != nil {
		logger.Warn("explained variance does not sum to 100", err)
	}
	elbow := decomposition.Elbow(fullReport.Ratios, o.elbowThreshold)
	logger.Info("variance analyzed",
		log.OperationKey, log.OperationAnalyze,
		log.ElbowKey, elbow,
		log.ExplainedVarianceKey, fullReport.Sum,
	)

	k := o.components
	if o.varianceTarget > 0 {
		k, err = decomposition.ComponentsForVariance(fullReport.Cumulative, o.varianceTarget)
		if err != nil {
			return err
		}
	}

	pca := full
	if k != decomposition.AllComponents && k != len(fullReport.Ratios) {
		pca = decomposition.NewPCA(append(common, decomposition.WithNComponents(k))...)
		if err := pca.Fit(table.Data); err != nil {
			return err
		}
	}

	report, err := pca.ExplainedVariance()
	if err != nil {
		return err
	}
	if err := writeResults(o, table, pca, report, fullReport, elbow); err != nil {
		return err
	}

	printSummary(stdout, report, elbow, o.elbowThreshold)
	logger.Info("done",
		log.NComponentsKey, len(report.Ratios),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func writeResults(o *options, table *dataset.Table, pca *decomposition.PCA,
	report, fullReport *decomposition.VarianceReport, elbow int) error {
	if err := os.MkdirAll(o.out, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", o.out)
	}

	loadings, err := pca.Loadings()
	if err != nil {
		return err
	}
	scores, err := pca.Scores()
	if err != nil {
		return err
	}

	err = writeFile(filepath.Join(o.out, "loadings.csv"), func(w io.Writer) error {
		return dataset.WriteLoadings(w, loadings, table.FeatureNames)
	})
	if err != nil {
		return err
	}
	err = writeFile(filepath.Join(o.out, "scores.csv"), func(w io.Writer) error {
		return dataset.WriteScores(w, scores, table.RowLabels, table.IDColumn)
	})
	if err != nil {
		return err
	}
	err = writeFile(filepath.Join(o.out, "variance.csv"), func(w io.Writer) error {
		return dataset.WriteVariance(w, report.Ratios, report.Cumulative)
	})
	if err != nil {
		return err
	}

	if o.noPlots {
		return nil
	}
	return writePlots(o.out, fullReport, scores, table.RowLabels, elbow, o.elbowThreshold)
}

func writePlots(dir string, report *decomposition.VarianceReport, scores *mat.Dense,
	labels []string, elbow int, threshold float64) error {
	scree, err := visualize.ScreePlot(report, visualize.WithElbow(elbow), visualize.WithThreshold(threshold))
	if err != nil {
		return err
	}
	if err := visualize.Save(scree, filepath.Join(dir, "scree.png")); err != nil {
		return err
	}

	if _, k := scores.Dims(); k < 2 {
		return nil
	}
	scatter, err := visualize.ScoresScatter(scores, labels, 0, 1)
	if err != nil {
		return err
	}
	return visualize.Save(scatter, filepath.Join(dir, "scores.png"))
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(f)
}

func printSummary(w io.Writer, report *decomposition.VarianceReport, elbow int, threshold float64) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "component\tratio %\tcumulative %\t")
	for j := range report.Ratios {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t\n", dataset.ComponentLabel(j), report.Ratios[j], report.Cumulative[j])
	}
	tw.Flush()
	fmt.Fprintf(w, "retained %d components (%.3f%% of variance); elbow at %d for threshold %.2f%%\n",
		len(report.Ratios), report.Sum, elbow, threshold)
}
