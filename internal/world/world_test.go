package world

import (
	"errors"
	"testing"

	"github.com/annel0/world-editor/internal/vec"
	"github.com/annel0/world-editor/internal/world/block"
)

func TestChunk_DefaultsToAir(t *testing.T) {
	chunk := NewChunk(vec.Vec2{X: 0, Y: 0}, block.NewPalette())

	st, ok := chunk.BlockAt(3, 70, 9)
	if !ok {
		t.Fatal("Ячейка внутри колонки должна быть доступна")
	}
	if !st.IsAir() {
		t.Errorf("Ожидался воздух, получено %s", st)
	}
	if _, ok := chunk.BlockAt(16, 0, 0); ok {
		t.Error("x=16 вне колонки")
	}
	if chunk.HasChanges() {
		t.Error("Новый чанк не должен иметь изменений")
	}
}

func TestChunk_Changes(t *testing.T) {
	chunk := NewChunk(vec.Vec2{X: 3, Y: 4}, block.NewPalette())
	stone := block.NewState("", "stone", nil)

	chunk.SetBlock(1, -5, 2, stone)
	chunk.SetBlock(1, -5, 2, stone) // повторная запись того же состояния

	if chunk.ChangeCounter != 1 {
		t.Errorf("Ожидался 1 счетчик изменений, получено %d", chunk.ChangeCounter)
	}
	if _, ok := chunk.Changes[vec.Vec3{X: 1, Y: -5, Z: 2}]; !ok {
		t.Error("Изменённая ячейка не попала в Changes")
	}
	if chunk.Layers() != 1 {
		t.Errorf("Ожидался 1 слой, получено %d", chunk.Layers())
	}

	chunk.ClearChanges()
	if chunk.HasChanges() {
		t.Error("Чанк не должен иметь изменений после ClearChanges")
	}
}

func TestWorld_SetGetAcrossChunks(t *testing.T) {
	w := NewWorld(nil)
	glass := block.NewState("", "glass", nil)

	pos := vec.Vec3{X: -1, Y: 64, Z: 17}
	w.SetBlock(pos, glass)

	st, ok := w.GetBlock(pos)
	if !ok || !st.Equal(glass) {
		t.Errorf("Ожидалось стекло в %v, получено %s (%v)", pos, st, ok)
	}

	chunk, err := w.GetChunk(vec.Vec2{X: -1, Y: 1})
	if err != nil {
		t.Fatalf("Чанк (-1, 1) должен быть создан: %v", err)
	}
	if st, _ := chunk.BlockAt(15, 64, 1); !st.Equal(glass) {
		t.Errorf("Неверные локальные координаты: %s", st)
	}

	if _, ok := w.GetBlock(vec.Vec3{X: 100, Y: 0, Z: 100}); ok {
		t.Error("Блок в незагруженном чанке не должен возвращаться")
	}
	if _, err := w.GetChunk(vec.Vec2{X: 9, Y: 9}); !errors.Is(err, ErrChunkNotLoaded) {
		t.Errorf("Ожидалась ErrChunkNotLoaded, получено %v", err)
	}
}

func TestWorld_PasteRemapsAndSkipsAir(t *testing.T) {
	src := block.NewPalette()
	air := src.GetOrAdd(block.Air)
	stone := src.GetOrAdd(block.NewState("", "stone", nil))

	grid, err := NewVoxelGrid(1, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	grid.Indices = []int{stone, air, stone}

	w := NewWorld(nil)
	dirt := block.NewState("", "dirt", nil)
	w.SetBlock(vec.Vec3{X: 16, Y: 0, Z: 0}, dirt)

	written, err := w.Paste(grid, src, vec.Vec3{X: 15, Y: 0, Z: 0}, true)
	if err != nil {
		t.Fatal(err)
	}
	if written != 2 {
		t.Errorf("Ожидалось 2 записанных ячейки, получено %d", written)
	}
	if st, _ := w.GetBlock(vec.Vec3{X: 16}); !st.Equal(dirt) {
		t.Errorf("Воздух структуры не должен затирать блок, получено %s", st)
	}
	if st, _ := w.GetBlock(vec.Vec3{X: 17}); st.Name() != "stone" {
		t.Errorf("Ожидался камень, получено %s", st)
	}
	if w.ChunkCount() != 2 {
		t.Errorf("Ожидалось 2 чанка, получено %d", w.ChunkCount())
	}

	grid.Indices[0] = 42
	if _, err := w.Paste(grid, src, vec.Vec3{}, false); err == nil {
		t.Error("Ожидалась ошибка для индекса вне палитры")
	}
}
