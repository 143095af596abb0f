// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/pop"
)

// dispatchOutputs implements step 8: every output event scheduled for
// the current generation is rendered and written to Out, and mirrored to
// Monitor if one is attached.
func (e *Engine) dispatchOutputs() error {
	for _, out := range e.Outputs.At(e.Generation) {
		buf, err := e.renderOutput(out)
		if err != nil {
			return err
		}
		if _, err := e.Out.Write(buf); err != nil {
			return apperr.New(apperr.InvalidInput, "writing output at generation %d: %v", e.Generation, err)
		}
		if e.Monitor != nil {
			e.Monitor.Broadcast(byte(out.Kind), e.Generation, buf)
		}
	}
	return nil
}

func (e *Engine) renderOutput(out *pop.Output) ([]byte, error) {
	switch out.Kind {
	case pop.OutputDump:
		return e.renderDump()
	case pop.OutputSample:
		return e.renderSample(out)
	case pop.OutputFixed:
		return e.renderFixed(), nil
	case pop.OutputTrack:
		return e.renderTrack(out)
	default:
		return nil, apperr.New(apperr.ConfigError, "unrecognized output kind %q", out.Kind)
	}
}

// renderDump renders a full "A" output: a "#OUT:" header line followed
// by the same Populations/Mutations/Genomes body paramfile.Dump writes
// for a file destined to be read back via #INITIALIZATION, so a live A
// output and a saved dump file are interchangeable as a Load source.
func (e *Engine) renderDump() ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "#OUT: %d A\n", e.Generation)
	if err := pop.WriteDump(&b, e.Population); err != nil {
		return nil, apperr.New(apperr.InvalidInput, "rendering full dump at generation %d: %v", e.Generation, err)
	}
	return b.Bytes(), nil
}

func (e *Engine) renderSample(out *pop.Output) ([]byte, error) {
	if len(out.Params) < 2 {
		return nil, apperr.New(apperr.ConfigError, "output %q at generation %d requires (subpopID, sampleSize)", string(out.Kind), out.Time)
	}
	subpopID, err := strconv.Atoi(out.Params[0])
	if err != nil {
		return nil, apperr.New(apperr.ConfigError, "output %q subpop id %q is not an integer", string(out.Kind), out.Params[0])
	}
	n, err := strconv.Atoi(out.Params[1])
	if err != nil {
		return nil, apperr.New(apperr.ConfigError, "output %q sample size %q is not an integer", string(out.Kind), out.Params[1])
	}
	p, ok := e.Population.Subpops[subpopID]
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "sample output targets unknown subpopulation p%d", subpopID)
	}
	if n > len(p.ParentGenomes) {
		n = len(p.ParentGenomes)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "#OUT: %d R p%d %d\n", e.Generation, subpopID, n)
	order := shuffledIndices(e.RNG, len(p.ParentGenomes))
	for i := 0; i < n; i++ {
		g := p.ParentGenomes[order[i]]
		fmt.Fprintf(&b, "genome%d:", order[i])
		for _, id := range g.Mutations {
			fmt.Fprintf(&b, " %d", id)
		}
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

func (e *Engine) renderFixed() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "#OUT: %d F\n", e.Generation)
	for _, sub := range e.Population.Substitutions {
		fmt.Fprintf(&b, "%d m%d %d %g %d p%d FIXED@%d\n",
			sub.Mutation.ID, sub.Mutation.Type.ID, sub.Mutation.Position, sub.Mutation.SelectionCoeff,
			sub.Mutation.OriginGeneration, sub.Mutation.SubpopID, sub.FixationGeneration)
	}
	return b.Bytes()
}

func (e *Engine) renderTrack(out *pop.Output) ([]byte, error) {
	if len(out.Params) < 1 {
		return nil, apperr.New(apperr.ConfigError, "output %q at generation %d requires a mutation type id", string(out.Kind), out.Time)
	}
	mtID, err := strconv.Atoi(out.Params[0])
	if err != nil {
		return nil, apperr.New(apperr.ConfigError, "output %q mutation type id %q is not an integer", string(out.Kind), out.Params[0])
	}
	mt, ok := e.MutationTypes[mtID]
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "output %q references unknown mutation type m%d", string(out.Kind), mtID)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "#OUT: %d T m%d\n", e.Generation, mtID)
	for _, tm := range e.Population.TrackedSnapshot(mt) {
		fmt.Fprintf(&b, "%d %d %g\n", tm.Mutation.ID, tm.Mutation.Position, tm.Frequency)
	}
	return b.Bytes(), nil
}
