// This project is licensed under the MIT License (see LICENSE).

package genome

// Pool is the dedicated fixed-chunk allocator for Mutation values. Slots
// are reused once a mutation's global frequency reaches 0 or it is
// promoted to a Substitution; a free slot's Mutation.ID still names its
// position in arena, but Type is nil so stale handles are detectable.
type Pool struct {
	arena []Mutation
	free  []MutationID
	live  int
}

func NewPool() *Pool {
	return &Pool{}
}

// Alloc returns a handle to a newly initialized Mutation, reusing a freed
// slot when one is available.
func (p *Pool) Alloc(mt *MutationType, position int, s float64, originGen, subpopID int) MutationID {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		p.arena[id] = Mutation{ID: id, Type: mt, Position: position, SelectionCoeff: s, OriginGeneration: originGen, SubpopID: subpopID}
		p.live++
		return id
	}
	id := MutationID(len(p.arena))
	p.arena = append(p.arena, Mutation{ID: id, Type: mt, Position: position, SelectionCoeff: s, OriginGeneration: originGen, SubpopID: subpopID})
	p.live++
	return id
}

// Get dereferences a handle. Callers must not retain the returned pointer
// past a Free of the same id; the arena slice does not move on Alloc
// beyond ordinary append growth, but the slot's contents do change.
func (p *Pool) Get(id MutationID) *Mutation {
	return &p.arena[id]
}

// Free releases a mutation's slot back to the pool, once its global
// frequency reaches 0 or it is promoted to a substitution.
func (p *Pool) Free(id MutationID) {
	if p.arena[id].Type == nil {
		return
	}
	p.arena[id].Type = nil
	p.free = append(p.free, id)
	p.live--
}

// Live reports the number of currently allocated (non-freed) mutations.
func (p *Pool) Live() int { return p.live }

// IsLive reports whether id currently names an allocated mutation.
func (p *Pool) IsLive(id MutationID) bool {
	return id >= 0 && int(id) < len(p.arena) && p.arena[id].Type != nil
}

// LiveIDs returns every currently allocated handle, in arena order. Used
// by substitution promotion's global frequency pass and by full dumps.
func (p *Pool) LiveIDs() []MutationID {
	out := make([]MutationID, 0, p.live)
	for i := range p.arena {
		id := MutationID(i)
		if p.arena[id].Type != nil {
			out = append(out, id)
		}
	}
	return out
}
