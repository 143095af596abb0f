// This project is licensed under the MIT License (see LICENSE).

package engine

// swap implements step 6: the generation produced in ChildGenomes
// becomes the next generation's ParentGenomes for every subpopulation,
// and the fitness cache is reallocated to match.
func (e *Engine) swap() {
	for _, id := range e.Population.Order {
		p := e.Population.Subpops[id]
		p.ParentGenomes, p.ChildGenomes = p.ChildGenomes, p.ParentGenomes
		if len(p.CachedFitness) != p.Size {
			p.CachedFitness = make([]float64, p.Size)
		}
	}
}
