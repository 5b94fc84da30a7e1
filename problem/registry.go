package problem

import (
	"github.com/DavAug/erlotinib/population"
)

// paramBlock records where one model parameter's hierarchical slots live
// in the flat vector.
type paramBlock struct {
	name string
	pop  population.PopulationModel

	bottomOff, nBottom int
	topOff, nTop       int
}

// layout is the name-to-slot registry of a hierarchical parameter vector.
// It is built once and shared by every consumer.
type layout struct {
	ids     []string
	blocks  []paramBlock
	names   []string
	covered []int // slot indices scored by the prior
	nTotal  int
}

// buildLayout lays out the flat vector for the given free parameters and
// their population models: all bottom-level blocks first, one slot per
// individual for every parameter whose population model takes individual
// slots, followed by all population hyperparameters, both in registration
// order.
//
// The prior covers every top-level slot plus the bottom-level slots of
// models without a density of their own (heterogeneous parameters), so
// that every slot is scored by exactly one density.
func buildLayout(freeNames []string, popModels []population.PopulationModel, ids []string) *layout {
	n := len(ids)
	lay := &layout{
		ids:    ids,
		blocks: make([]paramBlock, len(freeNames)),
	}

	var off int
	for j, name := range freeNames {
		pm := popModels[j]
		nBottom, nTop := pm.NHierarchical(n)
		lay.blocks[j] = paramBlock{
			name:      name,
			pop:       pm,
			bottomOff: off,
			nBottom:   nBottom,
			nTop:      nTop,
		}
		if nBottom > 0 {
			for _, id := range ids {
				lay.names = append(lay.names, "ID "+id+": "+name)
			}
			if pm.NParameters() == 0 {
				for s := off; s < off+nBottom; s++ {
					lay.covered = append(lay.covered, s)
				}
			}
			off += nBottom
		}
	}

	for j := range lay.blocks {
		blk := &lay.blocks[j]
		blk.topOff = off
		if blk.nTop > 0 {
			for _, hyper := range blk.pop.ParameterNames() {
				lay.names = append(lay.names, hyper+" "+blk.name)
			}
			for s := off; s < off+blk.nTop; s++ {
				lay.covered = append(lay.covered, s)
			}
			off += blk.nTop
		}
	}

	lay.nTotal = off
	return lay
}

// subset gathers the covered slots of a flat vector into a dense vector
// for the prior.
func (l *layout) subset(flat []float64) []float64 {
	sub := make([]float64, len(l.covered))
	for i, s := range l.covered {
		sub[i] = flat[s]
	}

	return sub
}

// scatter writes a dense prior vector back into the covered slots.
func (l *layout) scatter(flat, sub []float64) {
	for i, s := range l.covered {
		flat[s] = sub[i]
	}
}
