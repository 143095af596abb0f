// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/rng"
)

// applyIntroducedMutations implements step 5: mutations scheduled for
// the current generation are allocated once and inserted into the
// requested number of homozygous and heterozygous child individuals,
// chosen without replacement from the target subpopulation.
func (e *Engine) applyIntroducedMutations() error {
	for _, im := range e.IntroducedMutations {
		if im.Generation != e.Generation {
			continue
		}
		p, ok := e.Population.Subpops[im.SubpopID]
		if !ok {
			return apperr.New(apperr.ConfigError, "introduced mutation targets unknown subpopulation p%d", im.SubpopID)
		}
		if im.NumAA+im.NumAa > p.Size {
			return apperr.New(apperr.ConfigError, "introduced mutation requests %d AA + %d Aa individuals but p%d has only %d", im.NumAA, im.NumAa, im.SubpopID, p.Size)
		}

		s, err := im.Type.SampleEffect(e.RNG)
		if err != nil {
			return err
		}
		id := e.Pool.Alloc(im.Type, im.Position, s, e.Generation, im.SubpopID)

		order := shuffledIndices(e.RNG, p.Size)
		for i := 0; i < im.NumAA; i++ {
			idx := order[i]
			p.ChildGenomes[2*idx].Insert(id, e.Pool)
			p.ChildGenomes[2*idx+1].Insert(id, e.Pool)
		}
		for i := im.NumAA; i < im.NumAA+im.NumAa; i++ {
			idx := order[i]
			p.ChildGenomes[2*idx].Insert(id, e.Pool)
		}

		if im.Sweep != nil {
			im.Sweep.MutationID = id
		}
	}
	return nil
}

// shuffledIndices returns a Fisher-Yates permutation of [0,n) drawn from
// src, used to pick non-overlapping founder individuals for an
// introduced mutation.
func shuffledIndices(src *rng.Source, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.UniformInt(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
