// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
	"github.com/jcrd/slimcore/internal/script"
)

// RunInitializationScript lexes, parses, and evaluates src against the
// engine's root symbol table, then promotes any user function declared
// under the reserved names "fitness", "mateChoice", or "modifyChild" into
// the matching pop callback via registerScriptCallbacks. This is the
// #CALLBACKS section's script: declaring a function under one of these
// three names is how a parameter file reaches the callback sites in
// generation.go and offspring.go, instead of only the hand-wired Go
// closures a test sets directly.
func (e *Engine) RunInitializationScript(src string) error {
	toks, err := script.NewLexer(src).Tokenize()
	if err != nil {
		return err
	}
	// T, F and NULL are lexer keywords, so only the named constants are
	// looked for among identifiers.
	var u script.Usage
	for _, t := range toks {
		if t.Type == script.TokIdent {
			switch t.Text {
			case "PI":
				u.PI = true
			case "E":
				u.E = true
			case "INF":
				u.INF = true
			case "NAN":
				u.NAN = true
			}
		}
	}
	e.Sym.InstallConstants(u)
	stmts, err := script.NewParser(toks).ParseProgram()
	if err != nil {
		return err
	}
	if _, err := e.Interp.Run(stmts, e.Sym); err != nil {
		return err
	}
	e.registerScriptCallbacks()
	return nil
}

// registerScriptCallbacks wraps each reserved callback name found among
// the interpreter's declared user functions into the corresponding
// pop.*Callback and attaches it to every subpopulation that exists right
// now; attachScriptCallbacks repeats the attachment for subpopulations
// addSubpop/addSubpopSplit create afterward.
func (e *Engine) registerScriptCallbacks() {
	if fn, ok := e.Interp.UserFuncs["fitness"]; ok {
		e.FitnessCallback = &pop.FitnessCallback{
			Call: func(mut *genome.Mutation, individual int, computed float64) (float64, error) {
				v, err := e.Interp.CallUser(fn, []*script.Value{
					script.NewObject(mut),
					script.NewInt(int64(individual)),
					script.NewFloat(computed),
				})
				if err != nil {
					return 0, err
				}
				return v.AsFloat64(0), nil
			},
		}
	}

	if fn, ok := e.Interp.UserFuncs["mateChoice"]; ok {
		e.MateChoiceCallback = &pop.MateChoiceCallback{
			Call: func(parent1 int, weights []float64) ([]float64, error) {
				v, err := e.Interp.CallUser(fn, []*script.Value{
					script.NewInt(int64(parent1)),
					script.NewFloat(weights...),
				})
				if err != nil {
					return nil, err
				}
				out := make([]float64, v.Len())
				for i := range out {
					out[i] = v.AsFloat64(i)
				}
				return out, nil
			},
		}
	}

	if fn, ok := e.Interp.UserFuncs["modifyChild"]; ok {
		e.ModifyChildCallback = &pop.ModifyChildCallback{
			Call: func(child1, child2 *genome.Genome, parent1, parent2 int) (bool, error) {
				v, err := e.Interp.CallUser(fn, []*script.Value{
					script.NewObject(child1),
					script.NewObject(child2),
					script.NewInt(int64(parent1)),
					script.NewInt(int64(parent2)),
				})
				if err != nil {
					return false, err
				}
				return v.AsBool(0), nil
			},
		}
	}

	for _, id := range e.Population.Order {
		e.attachScriptCallbacks(e.Population.Subpops[id])
	}
}

// attachScriptCallbacks installs whichever script callbacks are currently
// registered onto p. Called once per existing subpopulation from
// registerScriptCallbacks, and again from addSubpop/addSubpopSplit so a
// subpopulation created after the #CALLBACKS script ran is still covered.
func (e *Engine) attachScriptCallbacks(p *pop.Subpopulation) {
	if e.FitnessCallback != nil {
		p.FitnessCallbacks = append(p.FitnessCallbacks, *e.FitnessCallback)
	}
	if e.MateChoiceCallback != nil {
		p.MateChoiceCallback = e.MateChoiceCallback
	}
	if e.ModifyChildCallback != nil {
		p.ModifyChildCallback = e.ModifyChildCallback
	}
}
