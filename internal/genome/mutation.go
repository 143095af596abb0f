// This project is licensed under the MIT License (see LICENSE).

// Package genome implements the mutation, mutation-type, genomic-element,
// chromosome, and genome types of the data model, plus the pooled
// allocator that owns Mutation storage for the run.
package genome

// MutationID is an arena index handle into a Pool, used in place of a
// pointer so identity compares are integer equality and pool reclaim is
// O(1), per the engine-design guidance on mutation ownership.
type MutationID int32

// NoMutation is the sentinel handle -1; never a valid allocated id.
const NoMutation MutationID = -1

// Mutation is immutable after creation; its handle is shared by every
// Genome that carries it.
type Mutation struct {
	ID               MutationID
	Type             *MutationType
	Position         int
	SelectionCoeff   float64
	OriginGeneration int
	SubpopID         int
}

func (m *Mutation) Class() string { return "Mutation" }
