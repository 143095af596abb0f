// This project is licensed under the MIT License (see LICENSE).

package paramfile

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/engine"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
)

// Dump renders the full population-dump format (see pop.WriteDump): a
// Populations section (one row per subpop, id and size), a Mutations
// section (one row per live mutation, keyed by its pool id so Genomes
// rows can reference it), and a Genomes section (one row per genome, the
// subpop id, a genome index, and that genome's mutation ids). PRNG state
// is intentionally not included; a dump-then-load round trip reproduces
// allele states and subpop sizes only, never the exact future draw
// sequence. This is the same writer the engine's live "A" output uses,
// so a captured "A" output and a file written by Dump both load back
// through Load without drifting apart.
func Dump(e *engine.Engine) []byte {
	var b bytes.Buffer
	pop.WriteDump(&b, e.Population)
	return b.Bytes()
}

// Load replaces e's population with the state described by r, resolving
// each dumped mutation against e.MutationTypes (already populated from
// the same parameter file) and reallocating every mutation fresh in
// e.Pool, so dumped mutation ids are remapped rather than reused verbatim.
func Load(e *engine.Engine, r io.Reader) error {
	section := ""
	idMap := map[int]genome.MutationID{}
	newPop := pop.NewPopulation(e.Pool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "Populations", "Mutations", "Genomes":
			section = line
			continue
		}

		// A captured live "A" output is a "#OUT: <gen> A" line followed by
		// the same Populations/Mutations/Genomes body Dump writes; skip
		// any such preamble rather than rejecting it, so both that and a
		// bare Dump file load the same way.
		if section == "" {
			continue
		}

		fs := fields(line)
		switch section {
		case "Populations":
			if err := loadPopulationRow(newPop, fs); err != nil {
				return err
			}
		case "Mutations":
			if err := loadMutationRow(e, idMap, fs); err != nil {
				return err
			}
		case "Genomes":
			if err := loadGenomeRow(newPop, e.Pool, idMap, line); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return apperr.New(apperr.InvalidInput, "reading population dump: %v", err)
	}

	e.Population = newPop
	return nil
}

func loadPopulationRow(newPop *pop.Population, fs []string) error {
	if len(fs) != 2 {
		return apperr.New(apperr.InvalidInput, "Populations row must have 2 fields, got %q", strings.Join(fs, " "))
	}
	id, err := parseIDToken(fs[0], "p")
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(fs[1])
	if err != nil {
		return apperr.New(apperr.InvalidInput, "Populations row size %q is not an integer", fs[1])
	}
	newPop.Add(pop.NewSubpopulation(id, size))
	return nil
}

func loadMutationRow(e *engine.Engine, idMap map[int]genome.MutationID, fs []string) error {
	if len(fs) != 6 {
		return apperr.New(apperr.InvalidInput, "Mutations row must have 6 fields, got %q", strings.Join(fs, " "))
	}
	dumpID, err := strconv.Atoi(fs[0])
	if err != nil {
		return apperr.New(apperr.InvalidInput, "Mutations row id %q is not an integer", fs[0])
	}
	mid, err := parseIDToken(fs[1], "m")
	if err != nil {
		return err
	}
	mt, ok := e.MutationTypes[mid]
	if !ok {
		return apperr.New(apperr.ConfigError, "population dump references undefined mutation type m%d", mid)
	}
	pos, err := strconv.Atoi(fs[2])
	if err != nil {
		return apperr.New(apperr.InvalidInput, "Mutations row position %q is not an integer", fs[2])
	}
	s, err := strconv.ParseFloat(fs[3], 64)
	if err != nil {
		return apperr.New(apperr.InvalidInput, "Mutations row selection coefficient %q is not a float", fs[3])
	}
	originGen, err := strconv.Atoi(fs[4])
	if err != nil {
		return apperr.New(apperr.InvalidInput, "Mutations row origin generation %q is not an integer", fs[4])
	}
	subpopID, err := parseIDToken(fs[5], "p")
	if err != nil {
		return err
	}
	idMap[dumpID] = e.Pool.Alloc(mt, pos-1, s, originGen, subpopID)
	return nil
}

func loadGenomeRow(newPop *pop.Population, pool *genome.Pool, idMap map[int]genome.MutationID, line string) error {
	head, rest, _ := strings.Cut(line, " ")
	subpopTok, idxTok, ok := strings.Cut(head, ":")
	if !ok {
		return apperr.New(apperr.InvalidInput, "Genomes row %q is missing the subpop:index prefix", line)
	}
	subpopID, err := parseIDToken(subpopTok, "p")
	if err != nil {
		return err
	}
	idx, err := strconv.Atoi(idxTok)
	if err != nil {
		return apperr.New(apperr.InvalidInput, "Genomes row index %q is not an integer", idxTok)
	}
	p, ok := newPop.Subpops[subpopID]
	if !ok {
		return apperr.New(apperr.ConfigError, "Genomes row references undefined subpopulation p%d", subpopID)
	}
	if idx < 0 || idx >= len(p.ParentGenomes) {
		return apperr.New(apperr.InvalidInput, "Genomes row index %d is out of range for p%d", idx, subpopID)
	}
	g := p.ParentGenomes[idx]
	if rest == "" {
		return nil
	}
	for _, tok := range fields(rest) {
		dumpID, err := strconv.Atoi(tok)
		if err != nil {
			return apperr.New(apperr.InvalidInput, "Genomes row mutation id %q is not an integer", tok)
		}
		id, ok := idMap[dumpID]
		if !ok {
			return apperr.New(apperr.ConfigError, "Genomes row references undefined mutation id %d", dumpID)
		}
		g.Insert(id, pool)
	}
	return nil
}
