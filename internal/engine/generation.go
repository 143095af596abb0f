// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"sort"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
)

// RunGeneration executes one full generation: event application, fitness
// caching, parent sampling, offspring construction, introduced
// mutations, generation swap, substitution promotion, and output
// dispatch, in that fixed order.
func (e *Engine) RunGeneration() error {
	if err := e.applyEvents(); err != nil {
		return err
	}
	e.Population.PruneEmpty()

	for _, id := range e.Population.Order {
		p := e.Population.Subpops[id]
		e.computeFitness(p)
	}

	for _, id := range e.Population.Order {
		p := e.Population.Subpops[id]
		if err := e.buildOffspring(p); err != nil {
			return err
		}
	}

	if err := e.applyIntroducedMutations(); err != nil {
		return err
	}

	e.swap()

	e.applyPartialSweeps()

	e.Population.PromoteSubstitutions(e.Generation)

	return e.dispatchOutputs()
}

// applyPartialSweeps is part of step 7: any introduced mutation carrying
// a PartialSweep, once its introduction generation has passed, is
// clamped toward its target prevalence every generation so it neither
// fixes nor is lost to the ordinary substitution-promotion pass that
// follows.
func (e *Engine) applyPartialSweeps() {
	for _, im := range e.IntroducedMutations {
		if im.Sweep == nil || im.Generation > e.Generation {
			continue
		}
		if !e.Pool.IsLive(im.Sweep.MutationID) {
			continue
		}
		e.Population.ApplyPartialSweep(im.Sweep, e.Pool, e.RNG)
	}
}

// applyEvents implements step 1: iterate events keyed by the current
// generation in insertion order.
func (e *Engine) applyEvents() error {
	for _, ev := range e.Events.At(e.Generation) {
		if err := e.applyEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyEvent(ev *pop.Event) error {
	switch ev.Kind {
	case pop.EventCreateSubpop:
		return e.eventCreateSubpop(ev)
	case pop.EventResize:
		return e.eventResize(ev)
	case pop.EventMigration:
		return e.eventMigration(ev)
	case pop.EventSelfing:
		return e.eventSelfing(ev)
	default:
		return apperr.New(apperr.ConfigError, "unrecognized event kind %q", ev.Kind)
	}
}

// computeFitness implements step 2: for each parent in p, the product
// over carried mutations of (1+s) homozygous or (1+h*s) heterozygous,
// where any registered fitness callback may replace each mutation's
// factor before it enters the product; the product is then clipped at 0.
func (e *Engine) computeFitness(p *pop.Subpopulation) {
	for i := 0; i < p.Size; i++ {
		g1, g2 := p.ParentGenomes[2*i], p.ParentGenomes[2*i+1]
		w := e.individualFitness(p, g1, g2, i)
		p.CachedFitness[i] = w
	}
}

func (e *Engine) individualFitness(p *pop.Subpopulation, g1, g2 *genome.Genome, individual int) float64 {
	counts := map[genome.MutationID]int{}
	for _, id := range g1.Mutations {
		counts[id]++
	}
	for _, id := range g2.Mutations {
		counts[id]++
	}

	// Fitness is a product over carried mutations, and float multiplication
	// is not associative and fitness callbacks are not commutative, so the
	// iteration order here must be deterministic rather than Go's
	// randomized map order, or a run's bit-identical-replay guarantee
	// breaks for any individual carrying 2 or more mutations.
	ids := make([]genome.MutationID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	w := 1.0
	isMale := p.IsMale(individual)
	for _, id := range ids {
		n := counts[id]
		mut := e.Pool.Get(id)
		var contrib float64
		if n >= 2 {
			contrib = 1 + mut.SelectionCoeff
		} else {
			h := mut.Type.DominanceFor(isMale)
			contrib = 1 + h*mut.SelectionCoeff
		}
		contrib = e.applyFitnessCallbacks(p, mut, individual, contrib)
		w *= contrib
	}
	if w < 0 {
		w = 0
	}
	return w
}

func (e *Engine) applyFitnessCallbacks(p *pop.Subpopulation, mut *genome.Mutation, individual int, computed float64) float64 {
	w := computed
	for _, cb := range p.FitnessCallbacksByMutationType[mut.Type] {
		if v, err := cb.Call(mut, individual, w); err == nil {
			w = v
		}
	}
	for _, cb := range p.FitnessCallbacks {
		if cb.MutationType != nil && cb.MutationType != mut.Type {
			continue
		}
		if v, err := cb.Call(mut, individual, w); err == nil {
			w = v
		}
	}
	return w
}
