package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/DavAug/erlotinib/errs"
	"github.com/DavAug/erlotinib/mech"
	"github.com/DavAug/erlotinib/noise"
	"github.com/DavAug/erlotinib/sampler"
)

// rampModel simulates obs(t) = slope*t.
type rampModel struct{}

func (rampModel) Parameters() []string { return []string{"Slope"} }
func (rampModel) Outputs() []string    { return []string{"obs"} }

func (rampModel) Simulate(parameters, times []float64, _ mech.Regimen) (map[string][]float64, error) {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = parameters[0] * t
	}

	return map[string][]float64{"obs": out}, nil
}

func TestPredictiveModel(t *testing.T) {
	pred, err := NewPredictiveModel(rampModel{}, []noise.ErrorModel{noise.NewGaussianErrorModel()})
	require.NoError(t, err)

	assert.Equal(t, 2, pred.NParameters())
	assert.Equal(t, []string{"Slope", "Sigma"}, pred.ParameterNames())

	t.Run("ShapeAndCenter", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		times := []float64{0.5, 1.0, 2.0}
		draws, err := pred.Sample(rng, []float64{2.0, 0.05}, times, mech.Regimen{}, 400)
		require.NoError(t, err)

		series, ok := draws["obs"]
		require.True(t, ok)
		rows, cols := series.Dims()
		assert.Equal(t, 400, rows)
		assert.Equal(t, 3, cols)

		for j, time := range times {
			col := make([]float64, rows)
			for i := range col {
				col[i] = series.At(i, j)
			}
			assert.InDelta(t, 2.0*time, stat.Mean(col, nil), 0.02)
		}
	})

	t.Run("WrongLength", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		_, err := pred.Sample(rng, []float64{2.0}, []float64{1}, mech.Regimen{}, 10)
		assert.ErrorIs(t, err, errs.ErrDimensionMismatch)
	})

	t.Run("InvalidSampleCount", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		_, err := pred.Sample(rng, []float64{2.0, 0.1}, []float64{1}, mech.Regimen{}, 0)
		assert.ErrorIs(t, err, errs.ErrConfiguration)
	})
}

func TestNewPredictiveModelValidation(t *testing.T) {
	_, err := NewPredictiveModel(nil, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = NewPredictiveModel(rampModel{}, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}

// testCollection builds one chain whose post-warm-up half alternates
// between two parameter points.
func testCollection(t *testing.T, warmPoint, a, b []float64) *sampler.SamplesCollection {
	t.Helper()

	dim := len(a)
	var flat []float64
	for i := 0; i < 4; i++ {
		flat = append(flat, warmPoint...)
	}
	flat = append(flat, a...)
	flat = append(flat, b...)
	flat = append(flat, a...)
	flat = append(flat, b...)

	chain, err := sampler.NewChain(dim, flat, make([]float64, 8), make([]bool, 8))
	require.NoError(t, err)

	samples, err := sampler.NewSamplesCollection([]string{"Slope", "Sigma"}, []*sampler.Chain{chain})
	require.NoError(t, err)
	return samples
}

func TestPosteriorPredictiveSample(t *testing.T) {
	pred, err := NewPredictiveModel(rampModel{}, []noise.ErrorModel{noise.NewGaussianErrorModel()})
	require.NoError(t, err)

	// Warm-up iterations hold an absurd point that must never be drawn.
	samples := testCollection(t,
		[]float64{1e6, 1e-9},
		[]float64{1.0, 1e-9},
		[]float64{2.0, 1e-9},
	)

	post, err := NewPosteriorPredictiveModel(pred, samples, nil)
	require.NoError(t, err)

	t.Run("MatchesExplicitAveraging", func(t *testing.T) {
		rng := rand.New(rand.NewSource(21))
		times := []float64{2.0}
		draws, err := post.Sample(rng, times, mech.Regimen{}, 1000)
		require.NoError(t, err)

		series := draws["obs"]
		rows, _ := series.Dims()
		require.Equal(t, 1000, rows)

		col := make([]float64, rows)
		for i := range col {
			col[i] = series.At(i, 0)
		}
		got := stat.Mean(col, nil)

		// Explicit averaging over the post-warm-up draws: slopes 1 and 2
		// are equally likely, so the expected value at t=2 is 3.
		want := (1.0*2.0 + 2.0*2.0) / 2
		assert.InDelta(t, want, got, 0.15)

		// The warm-up point would dominate the mean if it leaked in.
		assert.Less(t, math.Abs(got), 100.0)
	})

	t.Run("UnknownParameterName", func(t *testing.T) {
		_, err := NewPosteriorPredictiveModel(pred, samples, []string{"Slope", "Bogus"})
		assert.ErrorIs(t, err, errs.ErrUnknownParameter)
	})

	t.Run("WithWarmup", func(t *testing.T) {
		// Excluding everything but the final two iterations restricts the
		// draws to slopes 1 and 2.
		custom, err := NewPosteriorPredictiveModel(pred, samples, nil, WithWarmup(6))
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(7))
		draws, err := custom.Sample(rng, []float64{1.0}, mech.Regimen{}, 200)
		require.NoError(t, err)

		series := draws["obs"]
		rows, _ := series.Dims()
		for i := 0; i < rows; i++ {
			v := series.At(i, 0)
			assert.True(t, math.Abs(v-1.0) < 1e-6 || math.Abs(v-2.0) < 1e-6, "draw %v", v)
		}
	})

	t.Run("WarmupTooLarge", func(t *testing.T) {
		_, err := NewPosteriorPredictiveModel(pred, samples, nil, WithWarmup(8))
		assert.ErrorIs(t, err, errs.ErrConfiguration)
	})
}
