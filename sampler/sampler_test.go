package sampler

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/DavAug/erlotinib/errs"
)

// gaussianTarget is a standard multivariate Gaussian log-density with
// prior-style initial sampling.
type gaussianTarget struct {
	dim int
}

func (g *gaussianTarget) NParameters() int { return g.dim }

func (g *gaussianTarget) ParameterNames() []string {
	names := make([]string, g.dim)
	for i := range names {
		names[i] = "x"
	}
	return names
}

func (g *gaussianTarget) Value(parameters []float64) float64 {
	var score float64
	for _, x := range parameters {
		score += -x * x / 2
	}
	return score
}

func (g *gaussianTarget) SampleInitial(rng *rand.Rand) []float64 {
	point := make([]float64, g.dim)
	for i := range point {
		point[i] = rng.NormFloat64()
	}
	return point
}

// acceptAll is a fixed-acceptance test algorithm: every proposal is a
// deterministic function of the chain's random source and always accepted.
type acceptAll struct {
	rng     *rand.Rand
	current []float64
	lp      float64
}

func newAcceptAll(dim int) Algorithm {
	return &acceptAll{current: make([]float64, dim)}
}

func (a *acceptAll) Init(rng *rand.Rand, initial []float64, logPDF float64) {
	a.rng = rng
	copy(a.current, initial)
	a.lp = logPDF
}

func (a *acceptAll) Ask() []float64 {
	for i := range a.current {
		a.current[i] += a.rng.NormFloat64()
	}
	return a.current
}

func (a *acceptAll) Tell(_ []float64, logPDF float64) bool {
	a.lp = logPDF
	return true
}

func (a *acceptAll) Current() ([]float64, float64) { return a.current, a.lp }

func quietController(opts ...Option) *Controller {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithLogEvery(0),
	}
	return NewController(append(base, opts...)...)
}

func TestRunValidation(t *testing.T) {
	c := quietController()

	_, err := c.Run(nil, NewMetropolisHastings(0.5))
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = c.Run(&gaussianTarget{dim: 1}, nil)
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = quietController(WithChains(0)).Run(&gaussianTarget{dim: 1}, NewMetropolisHastings(0.5))
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = quietController(
		WithChains(2),
		WithInitialPoints([][]float64{{0}}),
	).Run(&gaussianTarget{dim: 1}, NewMetropolisHastings(0.5))
	assert.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestRunShape(t *testing.T) {
	target := &gaussianTarget{dim: 3}
	c := quietController(WithChains(2), WithIterations(50), WithSeed(7))

	samples, err := c.Run(target, NewMetropolisHastings(0.5))
	require.NoError(t, err)

	assert.Equal(t, 2, samples.NChains())
	assert.Equal(t, 50, samples.NIterations())
	assert.Equal(t, 3, samples.NParameters())
	require.Len(t, samples.ParameterSamples(0, 1), 50)

	chain := samples.Chain(0)
	assert.Equal(t, 50, chain.NIterations())
	rate := chain.AcceptanceRate()
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)
}

func TestRunReproducible(t *testing.T) {
	run := func() *SamplesCollection {
		c := quietController(WithChains(1), WithIterations(100), WithSeed(42))
		samples, err := c.Run(&gaussianTarget{dim: 2}, newAcceptAll)
		require.NoError(t, err)
		return samples
	}

	a, b := run(), run()
	require.Equal(t, a.NIterations(), b.NIterations())
	for iter := 0; iter < a.NIterations(); iter++ {
		assert.Equal(t, a.Chain(0).Parameters(iter), b.Chain(0).Parameters(iter))
		assert.Equal(t, a.Chain(0).LogPDF(iter), b.Chain(0).LogPDF(iter))
		assert.Equal(t, a.Chain(0).Accepted(iter), b.Chain(0).Accepted(iter))
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	run := func(parallel bool) *SamplesCollection {
		c := quietController(
			WithChains(4),
			WithIterations(60),
			WithSeed(3),
			WithParallel(parallel),
		)
		samples, err := c.Run(&gaussianTarget{dim: 2}, NewMetropolisHastings(0.8))
		require.NoError(t, err)
		return samples
	}

	seq, par := run(false), run(true)
	for chain := 0; chain < 4; chain++ {
		for iter := 0; iter < 60; iter++ {
			require.Equal(t, seq.Chain(chain).Parameters(iter), par.Chain(chain).Parameters(iter))
		}
	}
}

func TestMetropolisHastingsTargetsDistribution(t *testing.T) {
	c := quietController(WithChains(1), WithIterations(20000), WithSeed(11))
	samples, err := c.Run(&gaussianTarget{dim: 1}, NewMetropolisHastings(1.5))
	require.NoError(t, err)

	// Drop the first half as warm-up.
	trajectory := samples.ParameterSamples(0, 0)[10000:]
	assert.InDelta(t, 0.0, stat.Mean(trajectory, nil), 0.1)
	assert.InDelta(t, 1.0, stat.StdDev(trajectory, nil), 0.1)
}

func TestMetropolisHastingsRejectsInf(t *testing.T) {
	algo := NewMetropolisHastings(0.5)(1)
	algo.Init(rand.New(rand.NewSource(1)), []float64{0}, -0.5)

	algo.Ask()
	assert.False(t, algo.Tell([]float64{100}, math.Inf(-1)))

	current, lp := algo.Current()
	assert.Equal(t, []float64{0.0}, current)
	assert.Equal(t, -0.5, lp)
}

// recordingHandler captures log records for inspection.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestProgressLogReportsEvaluations(t *testing.T) {
	handler := &recordingHandler{}
	c := NewController(
		WithChains(1),
		WithIterations(10),
		WithLogEvery(5),
		WithLogger(slog.New(handler)),
	)

	_, err := c.Run(&gaussianTarget{dim: 1}, newAcceptAll)
	require.NoError(t, err)

	// The initial point costs one evaluation, each iteration one more.
	var got []int64
	for _, record := range handler.records {
		if record.Message != "chain progress" {
			continue
		}
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == "evaluations" {
				got = append(got, attr.Value.Int64())
			}
			return true
		})
	}
	assert.Equal(t, []int64{6, 11}, got)
}

func TestInitialPointsOverride(t *testing.T) {
	c := quietController(
		WithChains(1),
		WithIterations(1),
		WithInitialPoints([][]float64{{1.5, -2.0}}),
	)

	samples, err := c.Run(&gaussianTarget{dim: 2}, newAcceptAll)
	require.NoError(t, err)
	assert.Equal(t, 1, samples.NIterations())
}
