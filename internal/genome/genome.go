// This project is licensed under the MIT License (see LICENSE).

package genome

import "sort"

// GenomeType distinguishes autosomal from sex-chromosome genomes.
type GenomeType byte

const (
	GenomeAutosomal GenomeType = 'A'
	GenomeX         GenomeType = 'X'
	GenomeY         GenomeType = 'Y'
)

// Genome is an ordered sequence of mutation handles, sorted by position,
// with ties broken by insertion order: multiple mutations at the same
// position are legal and ordered by insertion age.
type Genome struct {
	Mutations []MutationID
	Type      GenomeType
	IsNull    bool
}

func NewGenome(t GenomeType) *Genome {
	return &Genome{Type: t}
}

func (g *Genome) Class() string { return "Genome" }

// Len reports the number of mutations carried.
func (g *Genome) Len() int { return len(g.Mutations) }

// Clone returns an independent copy sharing the same mutation handles
// (handles are immutable once allocated, so sharing them is safe).
func (g *Genome) Clone() *Genome {
	c := &Genome{Type: g.Type, IsNull: g.IsNull}
	c.Mutations = append(c.Mutations, g.Mutations...)
	return c
}

// Insert adds id in sorted position, preserving the genome's sorted-by-
// position invariant, appending after any existing mutation at the same
// position (insertion order as age order).
func (g *Genome) Insert(id MutationID, pool *Pool) {
	pos := pool.Get(id).Position
	i := sort.Search(len(g.Mutations), func(i int) bool {
		return pool.Get(g.Mutations[i]).Position > pos
	})
	g.Mutations = append(g.Mutations, NoMutation)
	copy(g.Mutations[i+1:], g.Mutations[i:])
	g.Mutations[i] = id
}

// Contains reports whether id is present, by linear scan (genomes are
// short enough in practice that a sorted binary search buys little over
// the pool-handle equality check most callers actually want).
func (g *Genome) Contains(id MutationID) bool {
	for _, m := range g.Mutations {
		if m == id {
			return true
		}
	}
	return false
}

// Remove deletes every occurrence of id, used by substitution promotion.
func (g *Genome) Remove(id MutationID) {
	out := g.Mutations[:0]
	for _, m := range g.Mutations {
		if m != id {
			out = append(out, m)
		}
	}
	g.Mutations = out
}

// SpliceAt copies the mutations of src lying in [fromPos,toPos) into dst,
// used by the engine's recombination pass to assemble an offspring
// genome from alternating parental segments.
func SpliceAt(dst, src *Genome, fromPos, toPos int, pool *Pool) {
	for _, id := range src.Mutations {
		p := pool.Get(id).Position
		if p >= fromPos && p < toPos {
			dst.Mutations = append(dst.Mutations, id)
		}
	}
}

// Sort re-establishes sorted order after a splice sequence appends
// segments out of position order (gene-conversion tracts can interleave
// segments from alternating parents).
func (g *Genome) Sort(pool *Pool) {
	sort.SliceStable(g.Mutations, func(i, j int) bool {
		return pool.Get(g.Mutations[i]).Position < pool.Get(g.Mutations[j]).Position
	})
}

// Substitution is created when a mutation's frequency reaches 1.0 across
// the whole population and its MutationType has ConvertToSubstitution
// set.
type Substitution struct {
	Mutation         Mutation
	FixationGeneration int
}

func (s *Substitution) Class() string { return "Substitution" }
