// This project is licensed under the MIT License (see LICENSE).

package engine

import (
	"strconv"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/pop"
)

func parseEventInt(ev *pop.Event, i int) (int, error) {
	if i >= len(ev.Params) {
		return 0, apperr.New(apperr.ConfigError, "event %q at generation %d is missing parameter %d", string(ev.Kind), ev.Time, i)
	}
	n, err := strconv.Atoi(ev.Params[i])
	if err != nil {
		return 0, apperr.New(apperr.ConfigError, "event %q at generation %d: parameter %d %q is not an integer", string(ev.Kind), ev.Time, i, ev.Params[i])
	}
	return n, nil
}

func parseEventFloat(ev *pop.Event, i int) (float64, error) {
	if i >= len(ev.Params) {
		return 0, apperr.New(apperr.ConfigError, "event %q at generation %d is missing parameter %d", string(ev.Kind), ev.Time, i)
	}
	f, err := strconv.ParseFloat(ev.Params[i], 64)
	if err != nil {
		return 0, apperr.New(apperr.ConfigError, "event %q at generation %d: parameter %d %q is not a number", string(ev.Kind), ev.Time, i, ev.Params[i])
	}
	return f, nil
}

// eventCreateSubpop implements "P" events: create a fresh subpop, or split
// one off an existing source subpop if a third parameter names the source.
func (e *Engine) eventCreateSubpop(ev *pop.Event) error {
	id, err := parseEventInt(ev, 0)
	if err != nil {
		return err
	}
	size, err := parseEventInt(ev, 1)
	if err != nil {
		return err
	}
	if _, exists := e.Population.Subpops[id]; exists {
		return apperr.New(apperr.ConfigError, "subpopulation p%d already exists", id)
	}
	p := pop.NewSubpopulation(id, size)
	if len(ev.Params) >= 3 {
		sourceID, err := parseEventInt(ev, 2)
		if err != nil {
			return err
		}
		source, ok := e.Population.Subpops[sourceID]
		if !ok {
			return apperr.New(apperr.ConfigError, "subpopulation p%d split from unknown source p%d", id, sourceID)
		}
		for i := range p.ParentGenomes {
			src := source.ParentGenomes[i%len(source.ParentGenomes)]
			p.ParentGenomes[i] = src.Clone()
			p.ChildGenomes[i] = src.Clone()
		}
	}
	e.Population.Add(p)
	return nil
}

// eventResize implements "N" events: change a subpop's target size,
// effective from the next offspring generation.
func (e *Engine) eventResize(ev *pop.Event) error {
	id, err := parseEventInt(ev, 0)
	if err != nil {
		return err
	}
	size, err := parseEventInt(ev, 1)
	if err != nil {
		return err
	}
	p, ok := e.Population.Subpops[id]
	if !ok {
		return apperr.New(apperr.ConfigError, "resize of unknown subpopulation p%d", id)
	}
	p.Resize(size)
	return nil
}

// eventMigration implements "M" events: set the immigration rate from a
// source subpop into a destination subpop.
func (e *Engine) eventMigration(ev *pop.Event) error {
	destID, err := parseEventInt(ev, 0)
	if err != nil {
		return err
	}
	sourceID, err := parseEventInt(ev, 1)
	if err != nil {
		return err
	}
	rate, err := parseEventFloat(ev, 2)
	if err != nil {
		return err
	}
	dest, ok := e.Population.Subpops[destID]
	if !ok {
		return apperr.New(apperr.ConfigError, "migration into unknown subpopulation p%d", destID)
	}
	if _, ok := e.Population.Subpops[sourceID]; !ok {
		return apperr.New(apperr.ConfigError, "migration from unknown subpopulation p%d", sourceID)
	}
	dest.ImmigrationMap[sourceID] = rate
	return dest.ValidateImmigration()
}

// eventSelfing implements "S" events: set a subpop's selfing rate.
func (e *Engine) eventSelfing(ev *pop.Event) error {
	id, err := parseEventInt(ev, 0)
	if err != nil {
		return err
	}
	rate, err := parseEventFloat(ev, 1)
	if err != nil {
		return err
	}
	p, ok := e.Population.Subpops[id]
	if !ok {
		return apperr.New(apperr.ConfigError, "selfing rate set on unknown subpopulation p%d", id)
	}
	if rate < 0 || rate > 1 {
		return apperr.New(apperr.ConfigError, "subpopulation p%d selfing rate %g outside [0,1]", id, rate)
	}
	p.SelfingRate = rate
	return nil
}
