package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/world-editor/internal/vec"
	"github.com/annel0/world-editor/internal/world/block"
)

// ErrChunkNotLoaded возвращается при обращении к отсутствующей колонке
var ErrChunkNotLoaded = errors.New("world: чанк не загружен")

// World — редактируемый мир из колонок чанков с общей палитрой.
// В него вставляются импортированные структуры.
type World struct {
	palette *block.Palette
	chunks  map[vec.Vec2]*Chunk
	mu      sync.RWMutex
}

// NewWorld создаёт пустой мир. Если palette == nil, создаётся новая.
func NewWorld(palette *block.Palette) *World {
	if palette == nil {
		palette = block.NewPalette()
	}
	return &World{
		palette: palette,
		chunks:  make(map[vec.Vec2]*Chunk),
	}
}

// Palette возвращает палитру мира
func (w *World) Palette() *block.Palette { return w.palette }

// GetChunk возвращает колонку по координатам чанка
func (w *World) GetChunk(coords vec.Vec2) (*Chunk, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	chunk, ok := w.chunks[coords]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrChunkNotLoaded, coords)
	}
	return chunk, nil
}

// getOrCreateChunk возвращает колонку, создавая её при необходимости
func (w *World) getOrCreateChunk(coords vec.Vec2) *Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()

	chunk, ok := w.chunks[coords]
	if !ok {
		chunk = NewChunk(coords, w.palette)
		w.chunks[coords] = chunk
	}
	return chunk
}

// ChunkCount возвращает количество загруженных колонок
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// SetBlock устанавливает состояние блока в мировых координатах
func (w *World) SetBlock(pos vec.Vec3, state block.State) {
	w.setIndex(pos, w.palette.GetOrAdd(state))
}

func (w *World) setIndex(pos vec.Vec3, index int) {
	column := pos.ToVec2()
	local := column.LocalInChunk()
	w.getOrCreateChunk(column.ToChunkCoords()).SetIndex(local.X, pos.Y, local.Y, index)
}

// GetBlock возвращает состояние блока в мировых координатах.
// Для незагруженных колонок возвращается false.
func (w *World) GetBlock(pos vec.Vec3) (block.State, bool) {
	column := pos.ToVec2()
	chunk, err := w.GetChunk(column.ToChunkCoords())
	if err != nil {
		return block.State{}, false
	}
	local := column.LocalInChunk()
	return chunk.BlockAt(local.X, pos.Y, local.Y)
}

// Paste вставляет сетку индексов palette так, что её ячейка (0,0,0)
// оказывается в origin. Состояния переносятся в палитру мира.
// При skipAir воздух структуры не перезаписывает существующие блоки.
// Возвращает количество записанных ячеек.
func (w *World) Paste(grid *VoxelGrid, palette *block.Palette, origin vec.Vec3, skipAir bool) (int, error) {
	remap := w.palette.Merge(palette)
	air := make([]bool, len(remap))
	for i := range remap {
		st, _ := palette.Get(i)
		air[i] = st.IsAir()
	}

	written := 0
	for i, idx := range grid.Indices {
		if idx < 0 || idx >= len(remap) {
			return written, fmt.Errorf("индекс %d в ячейке %d вне палитры (%d)", idx, i, len(remap))
		}
		if skipAir && air[idx] {
			continue
		}
		w.setIndex(origin.Add(grid.Position(i)), remap[idx])
		written++
	}
	return written, nil
}
