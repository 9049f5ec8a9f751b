package world

import (
	"sync"

	"github.com/annel0/world-editor/internal/vec"
	"github.com/annel0/world-editor/internal/world/block"
)

// ChunkSize — размер колонки чанка по X и Z
const ChunkSize = 16

// section — горизонтальный слой колонки: [z][x] индексов палитры
type section [ChunkSize][ChunkSize]int32

// Chunk представляет колонку мира 16x16 блоков неограниченной высоты.
// Ячейки хранят индексы общей палитры мира; незаданные ячейки — воздух.
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка (x>>4, z>>4)

	palette *block.Palette
	air     int32
	layers  map[int]*section

	Changes       map[vec.Vec3]struct{} // Изменённые ячейки в локальных координатах
	ChangeCounter int                   // Счетчик изменений
	Mu            sync.RWMutex          // Мьютекс для безопасного доступа
}

// NewChunk создаёт пустой чанк, ссылающийся на палитру мира
func NewChunk(coords vec.Vec2, palette *block.Palette) *Chunk {
	return &Chunk{
		Coords:  coords,
		palette: palette,
		air:     int32(palette.GetOrAdd(block.Air)),
		layers:  make(map[int]*section),
		Changes: make(map[vec.Vec3]struct{}),
	}
}

func inColumn(x, z int) bool {
	return x >= 0 && x < ChunkSize && z >= 0 && z < ChunkSize
}

// SetIndex записывает индекс палитры в локальную ячейку (x, y, z)
func (c *Chunk) SetIndex(x, y, z, index int) bool {
	if !inColumn(x, z) {
		return false
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	layer, ok := c.layers[y]
	if !ok {
		layer = new(section)
		for i := range layer {
			for j := range layer[i] {
				layer[i][j] = c.air
			}
		}
		c.layers[y] = layer
	}
	if layer[z][x] == int32(index) {
		return true
	}

	layer[z][x] = int32(index)
	c.Changes[vec.Vec3{X: x, Y: y, Z: z}] = struct{}{}
	c.ChangeCounter++
	return true
}

// SetBlock записывает состояние блока в локальную ячейку
func (c *Chunk) SetBlock(x, y, z int, state block.State) bool {
	return c.SetIndex(x, y, z, c.palette.GetOrAdd(state))
}

// Index возвращает индекс палитры в локальной ячейке
func (c *Chunk) Index(x, y, z int) (int, bool) {
	if !inColumn(x, z) {
		return 0, false
	}

	c.Mu.RLock()
	defer c.Mu.RUnlock()

	layer, ok := c.layers[y]
	if !ok {
		return int(c.air), true
	}
	return int(layer[z][x]), true
}

// BlockAt возвращает состояние блока в локальной ячейке
func (c *Chunk) BlockAt(x, y, z int) (block.State, bool) {
	idx, ok := c.Index(x, y, z)
	if !ok {
		return block.State{}, false
	}
	return c.palette.Get(idx)
}

// HasChanges проверяет, есть ли изменения в чанке
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.ChangeCounter > 0
}

// ClearChanges очищает список изменений
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Changes = make(map[vec.Vec3]struct{})
	c.ChangeCounter = 0
}

// Layers возвращает количество заполненных горизонтальных слоёв
func (c *Chunk) Layers() int {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return len(c.layers)
}
