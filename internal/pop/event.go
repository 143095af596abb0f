// This project is licensed under the MIT License (see LICENSE).

package pop

import "github.com/jcrd/slimcore/internal/genome"

// EventKind identifies a demographic event, per the "#DEMOGRAPHY AND
// STRUCTURE" grammar: P creates/splits a subpop, N resizes, M sets an
// immigration rate, S sets a selfing rate.
type EventKind byte

const (
	EventCreateSubpop EventKind = 'P'
	EventResize       EventKind = 'N'
	EventMigration    EventKind = 'M'
	EventSelfing      EventKind = 'S'
)

// Event is a single demographic instruction keyed by the generation it
// fires on.
type Event struct {
	Time   int
	Kind   EventKind
	Params []string
}

// Events is a time-keyed multimap preserving insertion order within a
// generation; Go map iteration order is undefined, so entries for one
// generation are stored as an ordered slice rather than re-sorted.
type Events struct {
	byTime map[int][]*Event
}

func NewEvents() *Events {
	return &Events{byTime: map[int][]*Event{}}
}

func (e *Events) Add(ev *Event) {
	e.byTime[ev.Time] = append(e.byTime[ev.Time], ev)
}

// At returns the events scheduled for generation t, in insertion order.
func (e *Events) At(t int) []*Event {
	return e.byTime[t]
}

// OutputKind identifies an output event, per the "#OUTPUT" grammar: A
// full dump, R random sample, F fixed-mutations list, T mutation-type
// tracking snapshot.
type OutputKind byte

const (
	OutputDump    OutputKind = 'A'
	OutputSample  OutputKind = 'R'
	OutputFixed   OutputKind = 'F'
	OutputTrack   OutputKind = 'T'
)

// Output is a single scheduled output instruction.
type Output struct {
	Time   int
	Kind   OutputKind
	Params []string
}

// Outputs is the time-keyed multimap of scheduled output events,
// structurally identical to Events.
type Outputs struct {
	byTime map[int][]*Output
}

func NewOutputs() *Outputs {
	return &Outputs{byTime: map[int][]*Output{}}
}

func (o *Outputs) Add(out *Output) {
	o.byTime[out.Time] = append(o.byTime[out.Time], out)
}

func (o *Outputs) At(t int) []*Output {
	return o.byTime[t]
}

// IntroducedMutation schedules a specific mutation to be inserted into a
// chosen number of individuals at a given generation.
type IntroducedMutation struct {
	Type       *genome.MutationType
	Position   int
	SubpopID   int
	Generation int
	NumAA      int // homozygous individuals
	NumAa      int // heterozygous individuals
	Sweep      *PartialSweep
}

// PartialSweep clamps a tracked mutation's frequency to a target
// prevalence rather than letting it fix or be lost.
type PartialSweep struct {
	MutationID       genome.MutationID
	TargetPrevalence float64
}
