// This project is licensed under the MIT License (see LICENSE).

package pop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubpopulationAllocatesGenomeArrays(t *testing.T) {
	p := NewSubpopulation(1, 5)
	assert.Len(t, p.ParentGenomes, 10)
	assert.Len(t, p.ChildGenomes, 10)
	assert.Len(t, p.CachedFitness, 5)
}

func TestSubpopulationResizeGrowsAndShrinks(t *testing.T) {
	p := NewSubpopulation(1, 5)
	p.Resize(8)
	assert.Len(t, p.ParentGenomes, 16)
	p.Resize(2)
	assert.Len(t, p.ParentGenomes, 4)
}

func TestValidateImmigrationRejectsSumAtOrAboveOne(t *testing.T) {
	p := NewSubpopulation(1, 5)
	p.ImmigrationMap[2] = 0.6
	p.ImmigrationMap[3] = 0.4
	require.Error(t, p.ValidateImmigration())
}

func TestValidateImmigrationAcceptsSumBelowOne(t *testing.T) {
	p := NewSubpopulation(1, 5)
	p.ImmigrationMap[2] = 0.3
	require.NoError(t, p.ValidateImmigration())
}

func TestIsMalePartitionsAtFirstMaleIndex(t *testing.T) {
	p := NewSubpopulation(1, 10)
	p.SexEnabled = true
	p.FirstMaleIndex = 6
	assert.False(t, p.IsMale(5))
	assert.True(t, p.IsMale(6))
}
