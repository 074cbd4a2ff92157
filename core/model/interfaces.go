// Package model provides the shared estimator interfaces and fitted-state
// bookkeeping used by preprocessing and decomposition.
package model

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters using sklearn names.
	GetParams() map[string]interface{}
}

// Estimator combines the fitted-state query with parameter access.
type Estimator interface {
	ParameterGetter
	IsFitted() bool
}
