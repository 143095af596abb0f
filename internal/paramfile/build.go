// This project is licensed under the MIT License (see LICENSE).

package paramfile

import (
	"github.com/jcrd/slimcore/internal/engine"
	"github.com/jcrd/slimcore/internal/genome"
)

// Build materializes a parsed Config into a ready-to-run Engine: the
// chromosome's draw tables are initialized, and every top-level section
// is wired into the corresponding Engine field.
func Build(cfg *Config) (*engine.Engine, error) {
	chrom := genome.NewChromosome()
	chrom.Elements = cfg.Elements
	chrom.OverallMutationRate = cfg.MutationRate
	chrom.RecombinationEndPositions = cfg.RecombinationEndPositions
	chrom.RecombinationRates = cfg.RecombinationRates
	chrom.GeneConversionFraction = cfg.GeneConversionFraction
	chrom.GeneConversionMeanLength = cfg.GeneConversionMeanLength

	if err := chrom.InitializeDraws(); err != nil {
		return nil, err
	}

	e := engine.New(cfg.Seed, chrom)
	e.MutationTypes = cfg.MutationTypes
	e.GenomicElementTypes = cfg.GenomicElementTypes
	e.Events = cfg.Events
	e.Outputs = cfg.Outputs
	e.IntroducedMutations = cfg.PredeterminedMutations
	e.GenerationsTotal = cfg.GenerationsTotal
	e.Generation = cfg.GenerationsStart
	return e, nil
}
