// This project is licensed under the MIT License (see LICENSE).

package paramfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalNeutralParams = `
#MUTATION RATE
0.0

#MUTATION TYPES
m1 0.5 f 0.0

#GENOMIC ELEMENT TYPES
g1 m1 1.0

#CHROMOSOME ORGANIZATION
g1 1 1000

#RECOMBINATION RATE
1000 0.0

#GENERATIONS
10

#DEMOGRAPHY AND STRUCTURE
1 P p1 100
`

func TestReadMinimalNeutralParams(t *testing.T) {
	cfg, err := Read(strings.NewReader(minimalNeutralParams))
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.MutationRate)
	assert.Len(t, cfg.MutationTypes, 1)
	assert.Len(t, cfg.GenomicElementTypes, 1)
	assert.Equal(t, 0, cfg.Elements[0].Start)
	assert.Equal(t, 999, cfg.Elements[0].End)
	assert.Equal(t, 10, cfg.GenerationsTotal)
	assert.Len(t, cfg.Events.At(1), 1)
}

func TestReadRejectsUnknownMutationTypeLetter(t *testing.T) {
	bad := strings.Replace(minimalNeutralParams, "m1 0.5 f 0.0", "m1 0.5 x 0.0", 1)
	_, err := Read(strings.NewReader(bad))
	require.Error(t, err)
}

func TestReadRejectsMissingRequiredSection(t *testing.T) {
	noMutRate := strings.Replace(minimalNeutralParams, "#MUTATION RATE\n0.0\n", "", 1)
	_, err := Read(strings.NewReader(noMutRate))
	require.Error(t, err)
}

func TestReadRejectsRowBeforeAnySection(t *testing.T) {
	_, err := Read(strings.NewReader("1 2 3\n" + minimalNeutralParams))
	require.Error(t, err)
}

func TestReadParsesCallbacksSection(t *testing.T) {
	withCallbacks := minimalNeutralParams + "\n#CALLBACKS\ncallbacks.eidos\n"
	cfg, err := Read(strings.NewReader(withCallbacks))
	require.NoError(t, err)
	assert.Equal(t, "callbacks.eidos", cfg.CallbackScript)
}

func TestBuildProducesARunnableEngine(t *testing.T) {
	cfg, err := Read(strings.NewReader(minimalNeutralParams))
	require.NoError(t, err)

	e, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, 10, e.GenerationsTotal)
	assert.Equal(t, 1000, e.Chromosome.Length()+1)
}
