package decomposition

import (
	"fmt"

	"github.com/YuminosukeSato/pcago/core/model"
	"github.com/YuminosukeSato/pcago/metrics"
	"github.com/YuminosukeSato/pcago/pkg/errors"
	"github.com/YuminosukeSato/pcago/pkg/log"
	"github.com/YuminosukeSato/pcago/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// PCA は主成分分析の推定器
//
// Fit は入力を設定された軸で標準化してから Decompose を実行する。
// 特徴量軸（デフォルト）では StandardScaler の統計量を保持するので、
// Transform / InverseTransform で新しいデータを同じスケールで扱える。
// 並行して Fit を呼び出してはならない。
//
// 使用例:
//
//	pca := decomposition.NewPCA(decomposition.WithNComponents(4))
//	scores, err := pca.FitTransform(X)
//	report, err := pca.ExplainedVariance()
type PCA struct {
	model.BaseEstimator

	cfg    config
	scaler *preprocessing.StandardScaler
	result *Decomposition

	// NFeatures は学習時の特徴量の数
	NFeatures int
}

// NewPCA は新しいPCA推定器を作成する
func NewPCA(opts ...Option) *PCA {
	return &PCA{cfg: newConfig(opts)}
}

// Fit は X を標準化して主成分を計算する
// 既に学習済みの場合は状態を破棄して学習し直す。同じ入力に対しては同じ結果になる。
func (p *PCA) Fit(X mat.Matrix) error {
	const op = "PCA.Fit"

	p.Reset()
	p.scaler = nil
	p.result = nil

	logger := p.cfg.getLogger().With(log.ModelNameKey, "PCA")

	if err := p.cfg.validate(); err != nil {
		return err
	}

	Z, scaler, err := p.standardize(X)
	if err != nil {
		logger.Error("standardization failed", err,
			log.OperationKey, log.OperationFit,
			log.PhaseKey, log.PhasePreprocessing,
		)
		return err
	}

	d, err := decompose(op, Z, &p.cfg)
	if err != nil {
		return err
	}

	_, c := X.Dims()
	p.NFeatures = c
	p.scaler = scaler
	p.result = d
	p.SetFitted()

	if report, err := d.ExplainedVariance(); err == nil {
		logger.Info("PCA fitted",
			log.OperationKey, log.OperationFit,
			log.SamplesKey, d.NSamples,
			log.FeaturesKey, d.NFeatures,
			log.NComponentsKey, d.NComponents(),
			log.AxisKey, p.cfg.axis.String(),
			log.ExplainedVarianceKey, report.Sum,
		)
	}

	return nil
}

// standardize は設定に従って X を標準化する
// 特徴量軸では学習したスケーラーも返す。
func (p *PCA) standardize(X mat.Matrix) (*mat.Dense, *preprocessing.StandardScaler, error) {
	if !p.cfg.standardize {
		if r, c := X.Dims(); r < 2 || c < 1 {
			return nil, nil, errors.NewEmptyInputError("PCA.Fit", "samples", r, 2)
		}
		if err := errors.CheckMatrix("PCA.Fit", X); err != nil {
			return nil, nil, err
		}
		return mat.DenseCopyOf(X), nil, nil
	}

	switch p.cfg.axis {
	case preprocessing.AxisFeatures:
		scaler := preprocessing.NewStandardScalerDefault()
		Z, err := scaler.FitTransform(X)
		if err != nil {
			return nil, nil, err
		}
		return mat.DenseCopyOf(Z), scaler, nil
	default:
		Z, err := preprocessing.Standardize(X, p.cfg.axis)
		return Z, nil, err
	}
}

// prepare は学習済みの統計量で新しいデータを標準化空間へ写す
// サンプル軸の標準化は各行で完結するので、新しい行もその場で標準化する。
func (p *PCA) prepare(op string, X mat.Matrix) (*mat.Dense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", op)
	}

	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PCA."+op, p.NFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewEmptyInputError("PCA."+op, "samples", 0, 1)
	}

	switch {
	case p.scaler != nil:
		Z, err := p.scaler.Transform(X)
		if err != nil {
			return nil, err
		}
		return mat.DenseCopyOf(Z), nil
	case p.cfg.standardize:
		return preprocessing.Standardize(X, p.cfg.axis)
	default:
		if err := errors.CheckMatrix("PCA."+op, X); err != nil {
			return nil, err
		}
		return mat.DenseCopyOf(X), nil
	}
}

// Transform は X を主成分空間へ射影する (n_samples × n_components)
func (p *PCA) Transform(X mat.Matrix) (mat.Matrix, error) {
	Z, err := p.prepare("Transform", X)
	if err != nil {
		return nil, err
	}

	r, _ := Z.Dims()
	scores := mat.NewDense(r, p.result.NComponents(), nil)
	scores.Mul(Z, p.result.Components.T())
	return scores, nil
}

// FitTransform は学習と射影を同時に行う
// 返り値は学習時のスコアのコピー。
func (p *PCA) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(p.result.Scores), nil
}

// InverseTransform はスコアを入力空間へ戻す
//
// 特徴量軸で標準化した場合は元の単位に戻る。サンプル軸の標準化は
// 行ごとの統計量を保持しないため、標準化空間のまま返す。
func (p *PCA) InverseTransform(scores mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "InverseTransform")
	}

	r, c := scores.Dims()
	if c != p.result.NComponents() {
		return nil, errors.NewDimensionError("PCA.InverseTransform", p.result.NComponents(), c, 1)
	}
	if r == 0 {
		return nil, errors.NewEmptyInputError("PCA.InverseTransform", "samples", 0, 1)
	}

	Z := mat.NewDense(r, p.NFeatures, nil)
	Z.Mul(scores, p.result.Components)

	if p.scaler != nil {
		return p.scaler.InverseTransform(Z)
	}
	return Z, nil
}

// ReconstructionError は X を保持した成分だけで再構成したときの平均二乗誤差を返す
// 誤差は標準化空間で測る。全成分を保持していれば丸め誤差程度になる。
func (p *PCA) ReconstructionError(X mat.Matrix) (float64, error) {
	Z, err := p.prepare("ReconstructionError", X)
	if err != nil {
		return 0, err
	}

	r, _ := Z.Dims()
	scores := mat.NewDense(r, p.result.NComponents(), nil)
	scores.Mul(Z, p.result.Components.T())
	recon := mat.NewDense(r, p.NFeatures, nil)
	recon.Mul(scores, p.result.Components)

	mse, err := metrics.MSE(Z, recon)
	if err != nil {
		return 0, err
	}

	p.cfg.getLogger().Debug("reconstruction error computed",
		log.ModelNameKey, "PCA",
		log.ReconstructionErrorKey, mse,
	)
	return mse, nil
}

// Decomposition は学習結果をそのまま返す
func (p *PCA) Decomposition() (*Decomposition, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Decomposition")
	}
	return p.result, nil
}

// Components は主成分ベクトルのコピーを返す (n_components × n_features)
func (p *PCA) Components() (*mat.Dense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Components")
	}
	return mat.DenseCopyOf(p.result.Components), nil
}

// Loadings は単位ノルムの負荷量を返す (Components と同じ値)
func (p *PCA) Loadings() (*mat.Dense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Loadings")
	}
	return p.result.Loadings(), nil
}

// ScaledLoadings は固有値の平方根で重み付けした負荷量を返す
func (p *PCA) ScaledLoadings() (*mat.Dense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "ScaledLoadings")
	}
	return p.result.ScaledLoadings(), nil
}

// Eigenvalues は共分散行列の固有値（降順）を返す
func (p *PCA) Eigenvalues() ([]float64, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Eigenvalues")
	}
	return append([]float64(nil), p.result.Eigenvalues...), nil
}

// SingularValues は標準化行列の特異値（降順）を返す
func (p *PCA) SingularValues() ([]float64, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "SingularValues")
	}
	return append([]float64(nil), p.result.SingularValues...), nil
}

// Scores は学習データのスコアのコピーを返す (n_samples × n_components)
func (p *PCA) Scores() (*mat.Dense, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "Scores")
	}
	return mat.DenseCopyOf(p.result.Scores), nil
}

// ExplainedVariance は寄与率と累積寄与率を返す
func (p *PCA) ExplainedVariance() (*VarianceReport, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCA", "ExplainedVariance")
	}
	return p.result.ExplainedVariance()
}

// GetParams はハイパーパラメータを取得する
func (p *PCA) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_components":  p.cfg.nComponents,
		"svd_solver":    p.cfg.solver.String(),
		"random_state":  p.cfg.randomState,
		"n_oversamples": p.cfg.oversamples,
		"n_iter":        p.cfg.powerIters,
		"axis":          p.cfg.axis.String(),
		"standardize":   p.cfg.standardize,
	}
}

// String はPCAの文字列表現を返す
func (p *PCA) String() string {
	nc := "all"
	if p.cfg.nComponents != AllComponents {
		nc = fmt.Sprint(p.cfg.nComponents)
	}
	if !p.IsFitted() {
		return fmt.Sprintf("PCA(n_components=%s, svd_solver=%s, axis=%s)",
			nc, p.cfg.solver, p.cfg.axis)
	}
	return fmt.Sprintf("PCA(n_components=%s, svd_solver=%s, axis=%s, n_features=%d, fitted_components=%d)",
		nc, p.cfg.solver, p.cfg.axis, p.NFeatures, p.result.NComponents())
}

var (
	_ model.InverseTransformer = (*PCA)(nil)
	_ model.Estimator          = (*PCA)(nil)
)
