package diag

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/DavAug/erlotinib/sampler"
)

// Summary is the convergence report for one parameter.
type Summary struct {
	Name string

	Mean float64
	SD   float64
	MCSE float64
	RHat float64
	ESS  float64
}

// Summarize reports per-parameter convergence over the post-warm-up
// samples. Each chain's second half is split again into two sequences for
// the split R-hat statistic.
func Summarize(samples *sampler.SamplesCollection) []Summary {
	names := samples.ParameterNames()
	summaries := make([]Summary, len(names))
	for p, name := range names {
		sequences := splitSequences(samples, p)
		summaries[p] = summarize(name, sequences)
	}

	return summaries
}

// splitSequences drops each chain's warm-up half and splits the remainder
// in two.
func splitSequences(samples *sampler.SamplesCollection, parameter int) [][]float64 {
	var sequences [][]float64
	for chain := 0; chain < samples.NChains(); chain++ {
		draws := samples.ParameterSamples(chain, parameter)
		kept := draws[len(draws)/2:]
		half := len(kept) / 2
		if half == 0 {
			sequences = append(sequences, kept)
			continue
		}
		sequences = append(sequences, kept[:half], kept[half:half*2])
	}

	return sequences
}

func summarize(name string, sequences [][]float64) Summary {
	var pooled []float64
	for _, seq := range sequences {
		pooled = append(pooled, seq...)
	}

	s := Summary{
		Name: name,
		Mean: stat.Mean(pooled, nil),
	}
	if len(pooled) < 2 {
		s.RHat = math.NaN()
		return s
	}

	n := len(sequences[0])
	m := len(sequences)

	// Within- and between-sequence variances.
	means := make([]float64, m)
	var within float64
	for i, seq := range sequences {
		means[i] = stat.Mean(seq, nil)
		within += stat.Variance(seq, nil)
	}
	within /= float64(m)
	between := float64(n) * stat.Variance(means, nil)

	varPlus := float64(n-1)/float64(n)*within + between/float64(n)
	s.SD = math.Sqrt(varPlus)

	if varPlus <= 0 || within <= 0 {
		// Constant draws: trivially converged.
		s.RHat = 1
		s.ESS = float64(len(pooled))
		return s
	}

	s.RHat = math.Sqrt(varPlus / within)
	s.ESS = effectiveSampleSize(sequences, within, varPlus)
	s.MCSE = s.SD / math.Sqrt(s.ESS)

	return s
}

// effectiveSampleSize estimates ESS from the averaged per-sequence
// autocovariances, truncating the correlation sum at the first negative
// paired sum (Geyer's initial positive sequence).
func effectiveSampleSize(sequences [][]float64, within, varPlus float64) float64 {
	n := len(sequences[0])
	m := len(sequences)
	total := float64(m * n)

	var sum float64
	for t := 1; t < n-1; t += 2 {
		rhoEven := 1 - (within-meanAutocovariance(sequences, t))/varPlus
		rhoOdd := 1 - (within-meanAutocovariance(sequences, t+1))/varPlus
		if rhoEven+rhoOdd < 0 {
			break
		}
		sum += rhoEven + rhoOdd
	}

	ess := total / (1 + 2*sum)
	if ess > total {
		ess = total
	}
	if ess < 1 {
		ess = 1
	}

	return ess
}

func meanAutocovariance(sequences [][]float64, lag int) float64 {
	var sum float64
	for _, seq := range sequences {
		sum += autocovariance(seq, lag)
	}

	return sum / float64(len(sequences))
}

func autocovariance(seq []float64, lag int) float64 {
	if lag >= len(seq) {
		return 0
	}

	mean := stat.Mean(seq, nil)
	var sum float64
	for i := 0; i+lag < len(seq); i++ {
		sum += (seq[i] - mean) * (seq[i+lag] - mean)
	}

	return sum / float64(len(seq))
}
