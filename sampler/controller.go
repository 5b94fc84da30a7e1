package sampler

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/rand"

	"github.com/DavAug/erlotinib/errs"
)

// Target is the log-posterior surface a run samples from. It must be a
// pure function of the parameter vector, safe for concurrent evaluation.
type Target interface {
	NParameters() int
	ParameterNames() []string
	Value(parameters []float64) float64
}

// InitialSampler draws dispersed chain starting points. Log-posteriors
// built by the problem package implement it by sampling the prior.
type InitialSampler interface {
	SampleInitial(rng *rand.Rand) []float64
}

// chainSeedStride separates per-chain seed streams.
const chainSeedStride = 0x9e3779b97f4a7c15

// Controller runs MCMC chains over a target.
type Controller struct {
	nChains     int
	nIterations int
	parallel    bool
	seed        uint64
	logger      *slog.Logger
	logEvery    int
	initial     [][]float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithChains sets the number of chains. Default 4.
func WithChains(n int) Option { return func(c *Controller) { c.nChains = n } }

// WithIterations sets the per-chain iteration count. Default 1000.
func WithIterations(n int) Option { return func(c *Controller) { c.nIterations = n } }

// WithParallel enables concurrent chain execution.
func WithParallel(parallel bool) Option { return func(c *Controller) { c.parallel = parallel } }

// WithSeed fixes the root seed; per-chain seeds derive from it, so a run
// is fully reproducible.
func WithSeed(seed uint64) Option { return func(c *Controller) { c.seed = seed } }

// WithLogger replaces the default terminal logger.
func WithLogger(logger *slog.Logger) Option { return func(c *Controller) { c.logger = logger } }

// WithLogEvery sets the progress cadence in iterations; 0 disables
// progress logging.
func WithLogEvery(n int) Option { return func(c *Controller) { c.logEvery = n } }

// WithInitialPoints overrides prior-sampled starting points, one per
// chain.
func WithInitialPoints(points [][]float64) Option {
	return func(c *Controller) { c.initial = points }
}

// NewController creates a sampling controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		nChains:     4,
		nIterations: 1000,
		seed:        1,
		logEvery:    100,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.Kitchen,
		}))
	}

	return c
}

// Run executes the chains and collects their samples. Initial points come
// from WithInitialPoints when given, otherwise from the target's own
// initial sampler; each chain draws independently from its own seeded
// source, so parallel and sequential runs produce identical collections.
func (c *Controller) Run(target Target, factory AlgorithmFactory) (*SamplesCollection, error) {
	if target == nil || factory == nil {
		return nil, fmt.Errorf("%w: target and algorithm factory are required", errs.ErrConfiguration)
	}
	if c.nChains < 1 || c.nIterations < 1 {
		return nil, fmt.Errorf(
			"%w: need at least one chain and one iteration, got %d/%d",
			errs.ErrConfiguration, c.nChains, c.nIterations)
	}

	dim := target.NParameters()
	if c.initial != nil {
		if len(c.initial) != c.nChains {
			return nil, fmt.Errorf(
				"%w: got %d initial points for %d chains",
				errs.ErrDimensionMismatch, len(c.initial), c.nChains)
		}
		for i, point := range c.initial {
			if len(point) != dim {
				return nil, fmt.Errorf(
					"%w: initial point %d has length %d, want %d",
					errs.ErrDimensionMismatch, i, len(point), dim)
			}
		}
	} else if _, ok := target.(InitialSampler); !ok {
		return nil, fmt.Errorf(
			"%w: target cannot sample initial points; provide WithInitialPoints",
			errs.ErrConfiguration)
	}

	start := time.Now()
	c.logger.Info("starting sampling run",
		"chains", c.nChains,
		"iterations", c.nIterations,
		"parameters", dim,
		"parallel", c.parallel,
	)

	chains := make([]*Chain, c.nChains)
	if c.parallel {
		p := pool.New().WithMaxGoroutines(c.nChains)
		for i := 0; i < c.nChains; i++ {
			i := i
			p.Go(func() { chains[i] = c.runChain(i, target, factory) })
		}
		p.Wait()
	} else {
		for i := 0; i < c.nChains; i++ {
			chains[i] = c.runChain(i, target, factory)
		}
	}

	c.logger.Info("sampling run finished", "elapsed", time.Since(start))

	return NewSamplesCollection(target.ParameterNames(), chains)
}

func (c *Controller) runChain(index int, target Target, factory AlgorithmFactory) *Chain {
	rng := rand.New(rand.NewSource(c.seed + uint64(index)*chainSeedStride))

	var initial []float64
	if c.initial != nil {
		initial = append([]float64(nil), c.initial[index]...)
	} else {
		initial = target.(InitialSampler).SampleInitial(rng)
	}

	algo := factory(target.NParameters())
	algo.Init(rng, initial, target.Value(initial))

	chain := newChain(target.NParameters(), c.nIterations)
	var accepted int
	for iter := 1; iter <= c.nIterations; iter++ {
		proposal := algo.Ask()
		logPDF := target.Value(proposal)
		ok := algo.Tell(proposal, logPDF)
		if ok {
			accepted++
		}

		point, pointLP := algo.Current()
		chain.append(point, pointLP, ok)

		if c.logEvery > 0 && iter%c.logEvery == 0 {
			// One evaluation for the initial point plus one per iteration.
			c.logger.Info("chain progress",
				"chain", index,
				"iteration", iter,
				"evaluations", iter+1,
				"acceptance", float64(accepted)/float64(iter),
				"logpdf", pointLP,
			)
		}
	}

	return chain
}
