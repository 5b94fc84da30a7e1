package erlotinib

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/DavAug/erlotinib/data"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/noise"
	"github.com/DavAug/erlotinib/prior"
	"github.com/DavAug/erlotinib/problem"
	"github.com/DavAug/erlotinib/sampler"
)

// endToEndScenario builds the reference analysis: one individual, a
// single 2 mg oral dose at t=0, five observation times, Gaussian
// measurement noise and wide uniform priors on (k_a, k_e, V, Sigma).
func endToEndScenario(t *testing.T) (*problem.LogPosterior, []float64) {
	t.Helper()

	trueParams := []float64{1.2, 0.3, 4.0, 0.02} // k_a, k_e, V, Sigma
	times := []float64{0.5, 1, 2, 4, 8}

	model := NewOneCompartmentModel(mech.WithOutputName("conc"))
	regimen, err := mech.NewRegimen(mech.Event{Amount: 2, Start: 0, Route: mech.RouteOral})
	require.NoError(t, err)

	simulated, err := model.Simulate(trueParams[:3], times, regimen)
	require.NoError(t, err)

	// Alternating residuals of exactly +-Sigma keep the posterior mode at
	// the generating parameters, including the noise scale.
	records := []data.Record{data.NewDose("1", 0, 2, 0, mech.RouteOral)}
	for i, tt := range times {
		residual := trueParams[3]
		if i%2 == 1 {
			residual = -residual
		}
		records = append(records, data.NewMeasurement("1", tt, "conc", simulated["conc"][i]+residual))
	}
	ds, err := BuildDataset(records)
	require.NoError(t, err)

	logPrior, err := prior.NewComposedLogPrior(
		prior.NewUniformMarginal(1e-3, 20),  // k_a
		prior.NewUniformMarginal(1e-3, 20),  // k_e
		prior.NewUniformMarginal(1e-3, 100), // V
		prior.NewUniformMarginal(1e-6, 10),  // Sigma
	)
	require.NoError(t, err)

	ctrl := NewProblem()
	require.NoError(t, ctrl.SetMechanisticModel(model, nil))
	require.NoError(t, ctrl.SetErrorModels([]noise.ErrorModel{noise.NewGaussianErrorModel()}))
	require.NoError(t, ctrl.SetData(ds))
	require.NoError(t, ctrl.SetLogPrior(logPrior))

	posteriors, err := ctrl.LogPosteriors()
	require.NoError(t, err)
	require.Len(t, posteriors, 1)

	return posteriors[0], trueParams
}

func TestEndToEndTruthBeatsPerturbations(t *testing.T) {
	posterior, trueParams := endToEndScenario(t)

	names := posterior.ParameterNames()
	assert.Equal(t, []string{"k_a", "k_e", "V", "Sigma"}, names)

	atTruth := posterior.Value(trueParams)
	require.False(t, math.IsInf(atTruth, -1))

	for dim := range trueParams {
		perturbed := append([]float64(nil), trueParams...)
		perturbed[dim] *= 1.5
		assert.Greater(t, atTruth, posterior.Value(perturbed), "dimension %s", names[dim])

		perturbed[dim] = trueParams[dim] * 0.5
		assert.Greater(t, atTruth, posterior.Value(perturbed), "dimension %s", names[dim])
	}
}

func TestEndToEndSampling(t *testing.T) {
	posterior, trueParams := endToEndScenario(t)

	samples, err := Sample(posterior,
		sampler.WithChains(2),
		sampler.WithIterations(400),
		sampler.WithSeed(17),
		sampler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		sampler.WithLogEvery(0),
		sampler.WithInitialPoints([][]float64{
			append([]float64(nil), trueParams...),
			append([]float64(nil), trueParams...),
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, samples.NChains())
	assert.Equal(t, 400, samples.NIterations())
	assert.Equal(t, []string{"k_a", "k_e", "V", "Sigma"}, samples.ParameterNames())

	// Every recorded point stays inside the prior support.
	for chain := 0; chain < samples.NChains(); chain++ {
		for iter := 0; iter < samples.NIterations(); iter++ {
			require.False(t, math.IsInf(samples.Chain(chain).LogPDF(iter), -1))
		}
	}
}

func TestSampleInitialFromPrior(t *testing.T) {
	posterior, _ := endToEndScenario(t)

	rng := rand.New(rand.NewSource(23))
	point := posterior.SampleInitial(rng)
	require.Len(t, point, 4)
	assert.False(t, math.IsInf(posterior.Value(point), -1))
}
