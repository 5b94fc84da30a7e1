package prior

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// UniformMarginal is a uniform prior on the half-open interval [Lower,
// Upper).
type UniformMarginal struct {
	Lower, Upper float64
}

var _ Marginal = UniformMarginal{}

// NewUniformMarginal creates a uniform prior on [lower, upper).
func NewUniformMarginal(lower, upper float64) UniformMarginal {
	return UniformMarginal{Lower: lower, Upper: upper}
}

// LogPDF returns -log(Upper-Lower) inside the interval and -Inf outside.
func (u UniformMarginal) LogPDF(x float64) float64 {
	if x < u.Lower || x >= u.Upper {
		return negInf
	}

	return -math.Log(u.Upper - u.Lower)
}

// Sample draws uniformly from the interval.
func (u UniformMarginal) Sample(rng *rand.Rand) float64 {
	return distuv.Uniform{Min: u.Lower, Max: u.Upper, Src: rng}.Rand()
}

// NormalMarginal is a Gaussian prior.
type NormalMarginal struct {
	Mu, Sigma float64
}

var _ Marginal = NormalMarginal{}

// NewNormalMarginal creates a Gaussian prior with the given mean and
// standard deviation.
func NewNormalMarginal(mu, sigma float64) NormalMarginal {
	return NormalMarginal{Mu: mu, Sigma: sigma}
}

// LogPDF returns the Gaussian log-density at x.
func (n NormalMarginal) LogPDF(x float64) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.LogProb(x)
}

// Sample draws from the Gaussian.
func (n NormalMarginal) Sample(rng *rand.Rand) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: rng}.Rand()
}

// LogNormalMarginal is a log-normal prior; Mu and Sigma parameterize the
// underlying Gaussian of log(x).
type LogNormalMarginal struct {
	Mu, Sigma float64
}

var _ Marginal = LogNormalMarginal{}

// NewLogNormalMarginal creates a log-normal prior.
func NewLogNormalMarginal(mu, sigma float64) LogNormalMarginal {
	return LogNormalMarginal{Mu: mu, Sigma: sigma}
}

// LogPDF returns the log-normal log-density at x, or -Inf for x <= 0.
func (l LogNormalMarginal) LogPDF(x float64) float64 {
	if x <= 0 {
		return negInf
	}

	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma}.LogProb(x)
}

// Sample draws from the log-normal.
func (l LogNormalMarginal) Sample(rng *rand.Rand) float64 {
	return distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: rng}.Rand()
}

// HalfCauchyMarginal is a Cauchy prior truncated to x >= 0, a common
// weakly-informative choice for scale parameters.
type HalfCauchyMarginal struct {
	Scale float64
}

var _ Marginal = HalfCauchyMarginal{}

// NewHalfCauchyMarginal creates a half-Cauchy prior with the given scale.
func NewHalfCauchyMarginal(scale float64) HalfCauchyMarginal {
	return HalfCauchyMarginal{Scale: scale}
}

// LogPDF returns the half-Cauchy log-density at x, or -Inf for x < 0.
// The density is twice the zero-centered Cauchy density restricted to
// [0, inf): 2 / (pi * scale * (1 + (x/scale)^2)).
func (h HalfCauchyMarginal) LogPDF(x float64) float64 {
	if x < 0 {
		return negInf
	}

	z := x / h.Scale
	return math.Log(2/math.Pi) - math.Log(h.Scale) - math.Log1p(z*z)
}

// Sample draws from the half-Cauchy by inverting the Cauchy CDF and
// folding the draw onto the non-negative half-line.
func (h HalfCauchyMarginal) Sample(rng *rand.Rand) float64 {
	return math.Abs(h.Scale * math.Tan(math.Pi*(rng.Float64()-0.5)))
}
