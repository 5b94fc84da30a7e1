package population

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// CovariateModel shifts the location of a location-scale base distribution
// per individual according to fixed covariates:
//
//	psi_i ~ Base(location + covariates_i . coefficients, scale)
//
// The covariate matrix is fixed at construction, one row per individual.
// Hyperparameters are the base model's two, followed by one regression
// coefficient per covariate.
type CovariateModel struct {
	base       LocationScaleModel
	covariates [][]float64
	names      []string
}

var _ PopulationModel = (*CovariateModel)(nil)

// NewCovariateModel wraps a location-scale base model with per-individual
// covariate shifts. covariateNames labels the regression coefficients;
// covariates must hold one row per individual with len(covariateNames)
// columns.
func NewCovariateModel(base LocationScaleModel, covariateNames []string, covariates [][]float64) (*CovariateModel, error) {
	if base == nil {
		return nil, fmt.Errorf("covariate model: base model is nil")
	}
	if len(covariateNames) == 0 {
		return nil, fmt.Errorf("covariate model: no covariates")
	}
	for i, row := range covariates {
		if len(row) != len(covariateNames) {
			return nil, fmt.Errorf(
				"covariate model: individual %d has %d covariates, want %d",
				i, len(row), len(covariateNames))
		}
	}

	names := make([]string, 0, base.NParameters()+len(covariateNames))
	names = append(names, base.ParameterNames()...)
	for _, cov := range covariateNames {
		names = append(names, "Shift "+cov)
	}

	return &CovariateModel{
		base:       base,
		covariates: covariates,
		names:      names,
	}, nil
}

// NHierarchical returns (n, nBase+nCoefficients).
func (c *CovariateModel) NHierarchical(n int) (int, int) {
	return n, c.NParameters()
}

// NParameters returns the base hyperparameter count plus the number of
// regression coefficients.
func (c *CovariateModel) NParameters() int { return len(c.names) }

// ParameterNames returns the base hyperparameter names followed by one
// "Shift <covariate>" entry per regression coefficient.
func (c *CovariateModel) ParameterNames() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// LogPDF returns the summed base log-density with each individual's
// location shifted by its covariates. The number of individuals must match
// the covariate matrix.
func (c *CovariateModel) LogPDF(individuals, hyper []float64) float64 {
	if len(individuals) != len(c.covariates) {
		return negInf
	}

	location, scale := hyper[0], hyper[1]
	coeffs := hyper[2:]

	var score float64
	for i, psi := range individuals {
		score += c.base.logPDFOne(psi, location+dot(c.covariates[i], coeffs), scale)
	}

	if math.IsNaN(score) {
		return negInf
	}

	return score
}

// Sample draws one value per individual from the shifted base distribution.
// n must match the covariate matrix.
func (c *CovariateModel) Sample(rng *rand.Rand, hyper []float64, n int) []float64 {
	if n != len(c.covariates) {
		return nil
	}

	location, scale := hyper[0], hyper[1]
	coeffs := hyper[2:]

	samples := make([]float64, n)
	for i := range samples {
		samples[i] = c.base.sampleOne(rng, location+dot(c.covariates[i], coeffs), scale)
	}

	return samples
}

func dot(a, b []float64) float64 {
	var sum float64
	for i, v := range a {
		sum += v * b[i]
	}

	return sum
}
