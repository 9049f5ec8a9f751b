package world

import (
	"testing"

	"github.com/annel0/world-editor/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoxelGrid_Layout(t *testing.T) {
	g, err := NewVoxelGrid(2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 24, g.Size())

	// x меняется быстрее всего, затем z, затем y
	assert.Equal(t, 0, g.Index(0, 0, 0))
	assert.Equal(t, 1, g.Index(1, 0, 0))
	assert.Equal(t, 4, g.Index(0, 0, 1))
	assert.Equal(t, 12, g.Index(0, 1, 0))

	for i := 0; i < g.Size(); i++ {
		p := g.Position(i)
		assert.Equal(t, i, g.Index(p.X, p.Y, p.Z))
	}
	assert.Equal(t, vec.Vec3{X: 3, Y: 1, Z: 2}, g.Position(23))
}

func TestVoxelGrid_SetAt(t *testing.T) {
	g, err := NewVoxelGrid(1, 1, 2)
	require.NoError(t, err)

	assert.True(t, g.Set(1, 0, 0, 7))
	v, ok := g.At(1, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	assert.False(t, g.Set(2, 0, 0, 1), "Запись вне сетки должна отклоняться")
	_, ok = g.At(0, -1, 0)
	assert.False(t, ok)
}

func TestVoxelGrid_InvalidDimensions(t *testing.T) {
	_, err := NewVoxelGrid(0, 1, 1)
	assert.Error(t, err)
	_, err = NewVoxelGrid(1, -1, 1)
	assert.Error(t, err)
}

func TestVoxelGrid_Remap(t *testing.T) {
	g, err := NewVoxelGrid(1, 1, 3)
	require.NoError(t, err)
	g.Indices = []int{0, 1, 1}

	require.NoError(t, g.Remap([]int{5, 2}))
	assert.Equal(t, []int{5, 2, 2}, g.Indices)

	assert.Error(t, g.Remap([]int{0}), "Индекс вне таблицы должен давать ошибку")
}
