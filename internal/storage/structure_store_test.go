package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/world-editor/internal/schematic"
	"github.com/annel0/world-editor/internal/world/block"
)

func setupTestStore(t *testing.T) *StructureStore {
	t.Helper()
	store, err := NewMemoryStructureStore()
	require.NoError(t, err, "Не удалось создать хранилище")
	t.Cleanup(func() { store.Close() })
	return store
}

func decodeSample(t *testing.T, palette *block.Palette) *schematic.Structure {
	t.Helper()
	c := &schematic.Container{
		Height: 2, Length: 1, Width: 2,
		Blocks:    []byte{1, 0, 35, 1},
		Data:      []byte{0, 0, 14, 0},
		Materials: schematic.DefaultMaterials,
	}
	s, err := schematic.Decode(c, palette, block.DefaultLegacyTable())
	require.NoError(t, err)
	return s
}

func TestStructureStore_SaveLoadRemapsIntoTargetPalette(t *testing.T) {
	store := setupTestStore(t)

	src := decodeSample(t, block.NewPalette())
	require.NoError(t, store.Save("abc", src))

	has, err := store.Has("abc")
	require.NoError(t, err)
	assert.True(t, has)

	// Целевая палитра уже содержит посторонние записи
	target := block.NewPalette()
	target.GetOrAdd(block.NewState("", "glass", nil))
	target.GetOrAdd(block.NewState("", "stone", nil))

	loaded, err := store.Load("abc", target)
	require.NoError(t, err)
	assert.Same(t, target, loaded.Palette)
	assert.Equal(t, src.Dimensions(), loaded.Dimensions())
	assert.Equal(t, schematic.DefaultMaterials, loaded.Materials)

	for i := range src.Grid.Indices {
		p := src.Grid.Position(i)
		want, ok := src.BlockAt(p.X, p.Y, p.Z)
		require.True(t, ok)
		got, ok := loaded.BlockAt(p.X, p.Y, p.Z)
		require.True(t, ok)
		assert.True(t, want.Equal(got), "Ячейка %v: ожидается %s, получено %s", p, want, got)
	}

	// stone уже был в палитре и переиспользован; добавились air и red_wool
	assert.Equal(t, 4, target.Len())
}

func TestStructureStore_Missing(t *testing.T) {
	store := setupTestStore(t)

	has, err := store.Has("missing")
	require.NoError(t, err)
	assert.False(t, has)

	_, err = store.Load("missing", block.NewPalette())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStructureStore_Closed(t *testing.T) {
	store, err := NewMemoryStructureStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "Повторное закрытие не должно давать ошибку")

	assert.ErrorIs(t, store.Save("x", decodeSample(t, block.NewPalette())), ErrStoreClosed)
	_, err = store.Load("x", block.NewPalette())
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.Has("x")
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestStructureStore_OnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStructureStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("disk", decodeSample(t, block.NewPalette())))
	require.NoError(t, store.Close())

	reopened, err := NewStructureStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load("disk", block.NewPalette())
	require.NoError(t, err)
	st, ok := loaded.BlockAt(0, 1, 0)
	require.True(t, ok)
	assert.Equal(t, "minecraft:red_wool", st.Key())
}
