// This project is licensed under the MIT License (see LICENSE).

// Package engine orchestrates the forward-time generation loop: event
// application, fitness evaluation, parent sampling, offspring
// construction, introduced mutations, generation swap, substitution
// promotion, and output dispatch. One Engine is the single owner of the
// run's PRNG, mutation pool, and population, exactly as a single petri
// Env owns its cells, RNG, and config in the teacher repository this
// package's shape is grounded on.
package engine

import (
	"io"
	"os"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
	"github.com/jcrd/slimcore/internal/rng"
	"github.com/jcrd/slimcore/internal/script"
)

// maxModifyChildRetries bounds how many times the engine will redraw an
// offspring rejected by a registered modifyChild callback before failing
// with CallbackLimit.
const maxModifyChildRetries = 10

// Monitor receives a copy of every output event's rendered bytes as they
// are produced. A nil Monitor is valid; the engine never blocks waiting
// on one.
type Monitor interface {
	Broadcast(kind byte, generation int, payload []byte)
}

// Engine is the root owner of one simulation run.
type Engine struct {
	RNG        *rng.Source
	Pool       *genome.Pool
	Chromosome *genome.Chromosome
	Population *pop.Population

	MutationTypes       map[int]*genome.MutationType
	GenomicElementTypes map[int]*genome.GenomicElementType

	Events              *pop.Events
	Outputs             *pop.Outputs
	IntroducedMutations []*pop.IntroducedMutation

	Generation       int
	GenerationsTotal int

	Interp *script.Interpreter
	Sym    *script.SymbolTable

	// FitnessCallback, MateChoiceCallback, and ModifyChildCallback hold
	// the script callbacks registered by #CALLBACKS (see callbacks.go);
	// attachScriptCallbacks installs them on every subpopulation that
	// exists at registration time or is created afterward.
	FitnessCallback     *pop.FitnessCallback
	MateChoiceCallback  *pop.MateChoiceCallback
	ModifyChildCallback *pop.ModifyChildCallback

	Out     io.Writer
	Monitor Monitor
}

// New constructs an Engine with a fresh interpreter and symbol table, and
// registers the Sim global functions (addSubpop, addNewMutation, ...)
// into the interpreter's builtin table.
func New(seed int64, chrom *genome.Chromosome) *Engine {
	e := &Engine{
		RNG:                 rng.New(seed),
		Pool:                genome.NewPool(),
		Chromosome:          chrom,
		MutationTypes:       map[int]*genome.MutationType{},
		GenomicElementTypes: map[int]*genome.GenomicElementType{},
		Events:              pop.NewEvents(),
		Outputs:             pop.NewOutputs(),
		Interp:              script.NewInterpreter(),
		Sym:                 script.NewSymbolTable(),
		Out:                 os.Stdout,
	}
	e.Population = pop.NewPopulation(e.Pool)
	e.registerSimBuiltins()
	return e
}

// Run advances the simulation for GenerationsTotal generations, in order,
// applying events, sampling offspring, promoting substitutions, and
// dispatching outputs each generation.
func (e *Engine) Run() error {
	for g := 0; g < e.GenerationsTotal; g++ {
		e.Generation++
		if err := e.RunGeneration(); err != nil {
			if _, ok := err.(*apperr.Error); ok {
				return err
			}
			return apperr.New(apperr.InvalidInput, "generation %d failed: %v", e.Generation, err)
		}
	}
	return nil
}
