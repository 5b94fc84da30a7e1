package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

func TestGaussianErrorModel(t *testing.T) {
	model := NewGaussianErrorModel()
	assert.Equal(t, 1, model.NParameters())
	assert.Equal(t, []string{"Sigma"}, model.ParameterNames())

	t.Run("ClosedForm", func(t *testing.T) {
		simulated := []float64{1.0, 2.0, 3.0}
		observations := []float64{1.1, 1.8, 3.3}
		sigma := 0.4

		var want float64
		for i := range simulated {
			diff := (observations[i] - simulated[i]) / sigma
			want += -0.5*math.Log(2*math.Pi) - math.Log(sigma) - diff*diff/2
		}

		got := model.LogLikelihood([]float64{sigma}, simulated, observations)
		assert.InDelta(t, want, got, 1e-12)
	})

	t.Run("NonPositiveSigma", func(t *testing.T) {
		got := model.LogLikelihood([]float64{0}, []float64{1}, []float64{1})
		assert.True(t, math.IsInf(got, -1))

		got = model.LogLikelihood([]float64{-1}, []float64{1}, []float64{1})
		assert.True(t, math.IsInf(got, -1))
	})

	t.Run("NoObservations", func(t *testing.T) {
		assert.Equal(t, 0.0, model.LogLikelihood([]float64{0.5}, nil, nil))
	})

	t.Run("SampleMoments", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		simulated := []float64{5.0}
		draws := make([]float64, 20000)
		for i := range draws {
			draws[i] = model.Sample(rng, []float64{0.5}, simulated)[0]
		}
		assert.InDelta(t, 5.0, stat.Mean(draws, nil), 0.02)
		assert.InDelta(t, 0.5, stat.StdDev(draws, nil), 0.02)
	})
}

func TestLogNormalErrorModel(t *testing.T) {
	model := NewLogNormalErrorModel()
	assert.Equal(t, []string{"Sigma log"}, model.ParameterNames())

	t.Run("ClosedForm", func(t *testing.T) {
		simulated := []float64{1.0, 2.0}
		observations := []float64{1.2, 1.7}
		sigma := 0.3

		var want float64
		for i := range simulated {
			diff := (math.Log(observations[i]) - math.Log(simulated[i])) / sigma
			want += -0.5*math.Log(2*math.Pi) - math.Log(sigma) - math.Log(observations[i]) - diff*diff/2
		}

		got := model.LogLikelihood([]float64{sigma}, simulated, observations)
		assert.InDelta(t, want, got, 1e-12)
	})

	t.Run("OutsideSupport", func(t *testing.T) {
		inf := func(params, sim, obs []float64) bool {
			return math.IsInf(model.LogLikelihood(params, sim, obs), -1)
		}
		assert.True(t, inf([]float64{0.3}, []float64{1}, []float64{-1}))
		assert.True(t, inf([]float64{0.3}, []float64{-1}, []float64{1}))
		assert.True(t, inf([]float64{0}, []float64{1}, []float64{1}))
	})

	t.Run("SamplePositiveCenteredOnModel", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		draws := make([]float64, 20000)
		for i := range draws {
			draws[i] = model.Sample(rng, []float64{0.2}, []float64{3.0})[0]
		}
		for _, d := range draws {
			require.Greater(t, d, 0.0)
		}
		// The distribution median is the simulated value; the mean carries
		// the log-normal bias factor exp(sigma^2/2).
		assert.InDelta(t, 3.0*math.Exp(0.02), stat.Mean(draws, nil), 0.05)
	})
}

func TestMultiplicativeGaussianErrorModel(t *testing.T) {
	model := NewMultiplicativeGaussianErrorModel()
	assert.Equal(t, 2, model.NParameters())
	assert.Equal(t, []string{"Sigma base", "Sigma rel"}, model.ParameterNames())

	t.Run("ClosedForm", func(t *testing.T) {
		simulated := []float64{2.0, 4.0}
		observations := []float64{2.2, 3.5}
		base, rel := 0.1, 0.05

		var want float64
		for i := range simulated {
			sd := base + rel*math.Abs(simulated[i])
			diff := (observations[i] - simulated[i]) / sd
			want += -0.5*math.Log(2*math.Pi) - math.Log(sd) - diff*diff/2
		}

		got := model.LogLikelihood([]float64{base, rel}, simulated, observations)
		assert.InDelta(t, want, got, 1e-12)
	})

	t.Run("InvalidParameters", func(t *testing.T) {
		inf := func(params []float64) bool {
			return math.IsInf(model.LogLikelihood(params, []float64{1}, []float64{1}), -1)
		}
		assert.True(t, inf([]float64{-0.1, 0.1}))
		assert.True(t, inf([]float64{0.1, -0.1}))
		assert.True(t, inf([]float64{0, 0}))
	})

	t.Run("SampleSpreadGrowsWithSignal", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		spread := func(level float64) float64 {
			draws := make([]float64, 10000)
			for i := range draws {
				draws[i] = model.Sample(rng, []float64{0.1, 0.2}, []float64{level})[0]
			}
			return stat.StdDev(draws, nil)
		}

		assert.InDelta(t, 0.1+0.2*1.0, spread(1.0), 0.02)
		assert.InDelta(t, 0.1+0.2*10.0, spread(10.0), 0.1)
	})
}
