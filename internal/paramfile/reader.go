// This project is licensed under the MIT License (see LICENSE).

package paramfile

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jcrd/slimcore/internal/apperr"
	"github.com/jcrd/slimcore/internal/genome"
	"github.com/jcrd/slimcore/internal/pop"
)

// Config holds every section of a parsed parameter file, materialized
// into the domain types the engine consumes. Read runs eatToken's
// character-class check before materialization only on the prefixed id
// tokens (m<id>, g<id>, p<id>) and the mutation rate; the other numeric
// fields go straight to strconv, so a malformed value there is reported as
// a parse failure of that field, not at the offending character.
type Config struct {
	MutationRate float64

	MutationTypes       map[int]*genome.MutationType
	GenomicElementTypes map[int]*genome.GenomicElementType
	Elements            []*genome.GenomicElement

	RecombinationEndPositions []int
	RecombinationRates        []float64

	GeneConversionFraction   float64
	GeneConversionMeanLength float64

	GenerationsTotal int
	GenerationsStart int

	Events  *pop.Events
	Outputs *pop.Outputs

	PredeterminedMutations []*pop.IntroducedMutation

	Seed int64

	InitializationFile string
	CallbackScript     string
}

type sectionUsage struct {
	header, syntax, example string
}

var usages = map[string]sectionUsage{
	"#MUTATION RATE": {
		"#MUTATION RATE", "<u>  (u a non-negative float)", "1e-7",
	},
	"#MUTATION TYPES": {
		"#MUTATION TYPES", "m<id> <h> <dfe> <params...>  (dfe in f,g,e,n,w)", "m1 0.5 f 0.0",
	},
	"#GENOMIC ELEMENT TYPES": {
		"#GENOMIC ELEMENT TYPES", "g<id> (m<mid> <frac>)+", "g1 m1 1.0",
	},
	"#CHROMOSOME ORGANIZATION": {
		"#CHROMOSOME ORGANIZATION", "g<id> <start> <end>  (1-based, inclusive)", "g1 1 1000",
	},
	"#RECOMBINATION RATE": {
		"#RECOMBINATION RATE", "<endPos> <rate>", "1000 1e-8",
	},
	"#GENE CONVERSION": {
		"#GENE CONVERSION", "<fraction> <meanLength>", "0.0 0",
	},
	"#GENERATIONS": {
		"#GENERATIONS", "<duration> [<start>]", "10000",
	},
	"#DEMOGRAPHY AND STRUCTURE": {
		"#DEMOGRAPHY AND STRUCTURE", "<t> P p<id> <N> [p<src>] | N p<id> <N> | M p<dst> p<src> <rate> | S p<id> <sigma>", "1 P p1 1000",
	},
	"#OUTPUT": {
		"#OUTPUT", "<t> A [filename] | R p<id> <n> [MS] | F | T m<id>", "10000 A",
	},
	"#PREDETERMINED MUTATIONS": {
		"#PREDETERMINED MUTATIONS", "<t> m<id> <pos> p<sp> <nAA> <nAa> [P <target>]", "100 m1 500 p1 0 1",
	},
	"#SEED": {
		"#SEED", "<int>", "1",
	},
	"#INITIALIZATION": {
		"#INITIALIZATION", "<filename>", "dump.txt",
	},
	"#CALLBACKS": {
		"#CALLBACKS", "<filename>", "callbacks.eidos",
	},
}

func usageErr(section, msg string) error {
	u := usages[section]
	return apperr.New(apperr.InvalidInput, "%s", msg).WithUsage(u.header + "\n" + u.syntax + "\nexample: " + u.example)
}

// Read parses a parameter file from r into a Config. Required sections
// (exactly one #MUTATION RATE; at least one mutation type, genomic
// element type, chromosome organization row, recombination rate row, a
// #GENERATIONS section, and a subpop-creating event) are checked once the
// whole file has been consumed.
func Read(r io.Reader) (*Config, error) {
	cfg := &Config{
		MutationTypes:       map[int]*genome.MutationType{},
		GenomicElementTypes: map[int]*genome.GenomicElementType{},
		Events:              pop.NewEvents(),
		Outputs:             pop.NewOutputs(),
	}

	var (
		section      string
		sawMutRate   bool
		sawSubpopGen bool
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw := stripComment(scanner.Text())
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "#") {
			section = raw
			if _, ok := usages[section]; !ok {
				return nil, apperr.New(apperr.InvalidInput, "unrecognized section header %q", section)
			}
			continue
		}
		if section == "" {
			return nil, apperr.New(apperr.InvalidInput, "row %q appears before any section header", raw)
		}

		fs := fields(raw)
		var err error
		switch section {
		case "#MUTATION RATE":
			if sawMutRate {
				err = usageErr("#MUTATION RATE", "parameter file must contain exactly one mutation rate")
				break
			}
			err = readMutationRate(cfg, fs)
			sawMutRate = true
		case "#MUTATION TYPES":
			err = readMutationType(cfg, fs)
		case "#GENOMIC ELEMENT TYPES":
			err = readGenomicElementType(cfg, fs)
		case "#CHROMOSOME ORGANIZATION":
			err = readChromosomeOrganization(cfg, fs)
		case "#RECOMBINATION RATE":
			err = readRecombinationRate(cfg, fs)
		case "#GENE CONVERSION":
			err = readGeneConversion(cfg, fs)
		case "#GENERATIONS":
			err = readGenerations(cfg, fs)
		case "#DEMOGRAPHY AND STRUCTURE":
			err = readDemography(cfg, fs)
			if err == nil && len(fs) >= 2 && fs[1] == "P" {
				sawSubpopGen = true
			}
		case "#OUTPUT":
			err = readOutput(cfg, fs)
		case "#PREDETERMINED MUTATIONS":
			err = readPredeterminedMutation(cfg, fs)
		case "#SEED":
			err = readSeed(cfg, fs)
		case "#INITIALIZATION":
			cfg.InitializationFile = strings.Join(fs, " ")
		case "#CALLBACKS":
			cfg.CallbackScript = strings.Join(fs, " ")
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.New(apperr.InvalidInput, "reading parameter file: %v", err)
	}

	if !sawMutRate {
		return nil, usageErr("#MUTATION RATE", "parameter file is missing the required #MUTATION RATE section")
	}
	if len(cfg.MutationTypes) == 0 {
		return nil, usageErr("#MUTATION TYPES", "parameter file defines no mutation types")
	}
	if len(cfg.GenomicElementTypes) == 0 {
		return nil, usageErr("#GENOMIC ELEMENT TYPES", "parameter file defines no genomic element types")
	}
	if len(cfg.Elements) == 0 {
		return nil, usageErr("#CHROMOSOME ORGANIZATION", "parameter file defines no chromosome organization rows")
	}
	if len(cfg.RecombinationEndPositions) == 0 {
		return nil, usageErr("#RECOMBINATION RATE", "parameter file defines no recombination rate rows")
	}
	if cfg.GenerationsTotal == 0 {
		return nil, usageErr("#GENERATIONS", "parameter file is missing the required #GENERATIONS section")
	}
	if !sawSubpopGen {
		return nil, usageErr("#DEMOGRAPHY AND STRUCTURE", "parameter file schedules no subpopulation-creating event")
	}

	return cfg, nil
}

func parseIDToken(tok, prefix string) (int, error) {
	matched, _, err := eatToken(tok, prefix, "0123456789", eofExpected)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(matched[len(prefix):])
}

func readMutationRate(cfg *Config, fs []string) error {
	if len(fs) != 1 {
		return usageErr("#MUTATION RATE", "expected exactly one field")
	}
	if _, _, err := eatToken(fs[0], "", "0123456789.e-", eofExpected); err != nil {
		return usageErr("#MUTATION RATE", err.Error())
	}
	u, err := strconv.ParseFloat(fs[0], 64)
	if err != nil || u < 0 {
		return usageErr("#MUTATION RATE", "mutation rate must be a non-negative float")
	}
	cfg.MutationRate = u
	return nil
}

func readMutationType(cfg *Config, fs []string) error {
	if len(fs) < 3 {
		return usageErr("#MUTATION TYPES", "expected at least 3 fields")
	}
	id, err := parseIDToken(fs[0], "m")
	if err != nil {
		return usageErr("#MUTATION TYPES", err.Error())
	}
	h, err := strconv.ParseFloat(fs[1], 64)
	if err != nil {
		return usageErr("#MUTATION TYPES", "dominance coefficient must be a float")
	}
	if len(fs[2]) != 1 {
		return usageErr("#MUTATION TYPES", "dfe type must be a single letter in f,g,e,n,w")
	}
	dfe := genome.DFEKind(fs[2][0])
	n, ok := genome.NumDFEParams(dfe)
	if !ok {
		return usageErr("#MUTATION TYPES", "dfe type must be one of f,g,e,n,w")
	}
	if len(fs) != 3+n {
		return usageErr("#MUTATION TYPES", "dfe type "+fs[2]+" requires exactly "+strconv.Itoa(n)+" parameters")
	}
	params := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fs[3+i], 64)
		if err != nil {
			return usageErr("#MUTATION TYPES", "dfe parameters must be floats")
		}
		params[i] = v
	}
	cfg.MutationTypes[id] = &genome.MutationType{
		ID:             id,
		DominanceCoeff: h,
		DFEType:        dfe,
		DFEParameters:  params,
	}
	return nil
}

func readGenomicElementType(cfg *Config, fs []string) error {
	if len(fs) < 3 || len(fs)%2 != 1 {
		return usageErr("#GENOMIC ELEMENT TYPES", "expected g<id> followed by (m<id> <frac>) pairs")
	}
	id, err := parseIDToken(fs[0], "g")
	if err != nil {
		return usageErr("#GENOMIC ELEMENT TYPES", err.Error())
	}
	et := &genome.GenomicElementType{ID: id}
	for i := 1; i < len(fs); i += 2 {
		mid, err := parseIDToken(fs[i], "m")
		if err != nil {
			return usageErr("#GENOMIC ELEMENT TYPES", err.Error())
		}
		mt, ok := cfg.MutationTypes[mid]
		if !ok {
			return apperr.New(apperr.ConfigError, "genomic element type g%d references undefined mutation type m%d", id, mid)
		}
		frac, err := strconv.ParseFloat(fs[i+1], 64)
		if err != nil {
			return usageErr("#GENOMIC ELEMENT TYPES", "mutation fraction must be a float")
		}
		et.MutationTypes = append(et.MutationTypes, mt)
		et.MutationFractions = append(et.MutationFractions, frac)
	}
	cfg.GenomicElementTypes[id] = et
	return nil
}

func readChromosomeOrganization(cfg *Config, fs []string) error {
	if len(fs) != 3 {
		return usageErr("#CHROMOSOME ORGANIZATION", "expected exactly 3 fields")
	}
	gid, err := parseIDToken(fs[0], "g")
	if err != nil {
		return usageErr("#CHROMOSOME ORGANIZATION", err.Error())
	}
	et, ok := cfg.GenomicElementTypes[gid]
	if !ok {
		return apperr.New(apperr.ConfigError, "chromosome organization references undefined genomic element type g%d", gid)
	}
	start, err := strconv.Atoi(fs[1])
	if err != nil {
		return usageErr("#CHROMOSOME ORGANIZATION", "start position must be an integer")
	}
	end, err := strconv.Atoi(fs[2])
	if err != nil {
		return usageErr("#CHROMOSOME ORGANIZATION", "end position must be an integer")
	}
	if start < 1 || end < start {
		return apperr.New(apperr.ConfigError, "chromosome organization row has an invalid range [%d,%d]", start, end)
	}
	cfg.Elements = append(cfg.Elements, &genome.GenomicElement{Type: et, Start: start - 1, End: end - 1})
	return nil
}

func readRecombinationRate(cfg *Config, fs []string) error {
	if len(fs) != 2 {
		return usageErr("#RECOMBINATION RATE", "expected exactly 2 fields")
	}
	end, err := strconv.Atoi(fs[0])
	if err != nil {
		return usageErr("#RECOMBINATION RATE", "end position must be an integer")
	}
	rate, err := strconv.ParseFloat(fs[1], 64)
	if err != nil || rate < 0 {
		return usageErr("#RECOMBINATION RATE", "rate must be a non-negative float")
	}
	cfg.RecombinationEndPositions = append(cfg.RecombinationEndPositions, end-1)
	cfg.RecombinationRates = append(cfg.RecombinationRates, rate)
	return nil
}

func readGeneConversion(cfg *Config, fs []string) error {
	if len(fs) != 2 {
		return usageErr("#GENE CONVERSION", "expected exactly 2 fields")
	}
	frac, err := strconv.ParseFloat(fs[0], 64)
	if err != nil {
		return usageErr("#GENE CONVERSION", "fraction must be a float")
	}
	mean, err := strconv.ParseFloat(fs[1], 64)
	if err != nil {
		return usageErr("#GENE CONVERSION", "mean length must be a float")
	}
	cfg.GeneConversionFraction = frac
	cfg.GeneConversionMeanLength = mean
	return nil
}

func readGenerations(cfg *Config, fs []string) error {
	if len(fs) < 1 || len(fs) > 2 {
		return usageErr("#GENERATIONS", "expected 1 or 2 fields")
	}
	dur, err := strconv.Atoi(fs[0])
	if err != nil || dur <= 0 {
		return usageErr("#GENERATIONS", "duration must be a positive integer")
	}
	cfg.GenerationsTotal = dur
	if len(fs) == 2 {
		start, err := strconv.Atoi(fs[1])
		if err != nil {
			return usageErr("#GENERATIONS", "start must be an integer")
		}
		cfg.GenerationsStart = start
	}
	return nil
}

func readDemography(cfg *Config, fs []string) error {
	if len(fs) < 3 {
		return usageErr("#DEMOGRAPHY AND STRUCTURE", "expected at least 3 fields")
	}
	t, err := strconv.Atoi(fs[0])
	if err != nil {
		return usageErr("#DEMOGRAPHY AND STRUCTURE", "time must be an integer")
	}
	kind := pop.EventKind(fs[1][0])
	switch kind {
	case pop.EventCreateSubpop, pop.EventResize, pop.EventMigration, pop.EventSelfing:
	default:
		return usageErr("#DEMOGRAPHY AND STRUCTURE", "event kind must be one of P,N,M,S")
	}
	var params []string
	for _, f := range fs[2:] {
		params = append(params, strings.TrimPrefix(strings.TrimPrefix(f, "p"), "P"))
	}
	cfg.Events.Add(&pop.Event{Time: t, Kind: kind, Params: params})
	return nil
}

func readOutput(cfg *Config, fs []string) error {
	if len(fs) < 2 {
		return usageErr("#OUTPUT", "expected at least 2 fields")
	}
	t, err := strconv.Atoi(fs[0])
	if err != nil {
		return usageErr("#OUTPUT", "time must be an integer")
	}
	kind := pop.OutputKind(fs[1][0])
	switch kind {
	case pop.OutputDump, pop.OutputSample, pop.OutputFixed, pop.OutputTrack:
	default:
		return usageErr("#OUTPUT", "output kind must be one of A,R,F,T")
	}
	var params []string
	for _, f := range fs[2:] {
		params = append(params, strings.TrimPrefix(strings.TrimPrefix(f, "p"), "m"))
	}
	cfg.Outputs.Add(&pop.Output{Time: t, Kind: kind, Params: params})
	return nil
}

func readPredeterminedMutation(cfg *Config, fs []string) error {
	if len(fs) < 6 {
		return usageErr("#PREDETERMINED MUTATIONS", "expected at least 6 fields")
	}
	t, err := strconv.Atoi(fs[0])
	if err != nil {
		return usageErr("#PREDETERMINED MUTATIONS", "time must be an integer")
	}
	mid, err := parseIDToken(fs[1], "m")
	if err != nil {
		return usageErr("#PREDETERMINED MUTATIONS", err.Error())
	}
	mt, ok := cfg.MutationTypes[mid]
	if !ok {
		return apperr.New(apperr.ConfigError, "predetermined mutation references undefined mutation type m%d", mid)
	}
	pos, err := strconv.Atoi(fs[2])
	if err != nil {
		return usageErr("#PREDETERMINED MUTATIONS", "position must be an integer")
	}
	spid, err := parseIDToken(fs[3], "p")
	if err != nil {
		return usageErr("#PREDETERMINED MUTATIONS", err.Error())
	}
	numAA, err := strconv.Atoi(fs[4])
	if err != nil {
		return usageErr("#PREDETERMINED MUTATIONS", "nAA must be an integer")
	}
	numAa, err := strconv.Atoi(fs[5])
	if err != nil {
		return usageErr("#PREDETERMINED MUTATIONS", "nAa must be an integer")
	}
	im := &pop.IntroducedMutation{
		Type:       mt,
		Position:   pos - 1,
		SubpopID:   spid,
		Generation: t,
		NumAA:      numAA,
		NumAa:      numAa,
	}
	if len(fs) >= 8 && fs[6] == "P" {
		target, err := strconv.ParseFloat(fs[7], 64)
		if err != nil {
			return usageErr("#PREDETERMINED MUTATIONS", "partial sweep target must be a float")
		}
		im.Sweep = &pop.PartialSweep{TargetPrevalence: target}
	}
	cfg.PredeterminedMutations = append(cfg.PredeterminedMutations, im)
	return nil
}

func readSeed(cfg *Config, fs []string) error {
	if len(fs) != 1 {
		return usageErr("#SEED", "expected exactly 1 field")
	}
	seed, err := strconv.ParseInt(fs[0], 10, 64)
	if err != nil {
		return usageErr("#SEED", "seed must be an integer")
	}
	cfg.Seed = seed
	return nil
}
