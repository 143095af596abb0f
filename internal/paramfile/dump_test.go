// This project is licensed under the MIT License (see LICENSE).

package paramfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcrd/slimcore/internal/pop"
)

func TestDumpLoadRoundTripsAlleleStates(t *testing.T) {
	cfg, err := Read(strings.NewReader(minimalNeutralParams))
	require.NoError(t, err)
	e, err := Build(cfg)
	require.NoError(t, err)

	e.Population.Add(pop.NewSubpopulation(1, 4))
	mt := cfg.MutationTypes[1]
	id := e.Pool.Alloc(mt, 10, 0, 0, 1)
	e.Population.Subpops[1].ParentGenomes[0].Insert(id, e.Pool)
	e.Population.Subpops[1].ParentGenomes[3].Insert(id, e.Pool)

	dumped := Dump(e)

	e2, err := Build(cfg)
	require.NoError(t, err)
	require.NoError(t, Load(e2, bytes.NewReader(dumped)))

	p2 := e2.Population.Subpops[1]
	require.NotNil(t, p2)
	assert.Equal(t, 4, p2.Size)
	assert.True(t, p2.ParentGenomes[0].Len() == 1)
	assert.True(t, p2.ParentGenomes[3].Len() == 1)
	assert.Equal(t, 0, p2.ParentGenomes[1].Len())

	pos0 := e2.Pool.Get(p2.ParentGenomes[0].Mutations[0]).Position
	assert.Equal(t, 10, pos0)
}
