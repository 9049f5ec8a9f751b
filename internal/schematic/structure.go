package schematic

import (
	"github.com/Tnze/go-mc/nbt"

	"github.com/annel0/world-editor/internal/vec"
	"github.com/annel0/world-editor/internal/world"
	"github.com/annel0/world-editor/internal/world/block"
)

// Structure — результат декодирования: сетка индексов, палитра и нетронутые списки сущностей
type Structure struct {
	Grid         *world.VoxelGrid
	Palette      *block.Palette
	Materials    string
	Entities     nbt.RawMessage
	TileEntities nbt.RawMessage
}

// BlockAt возвращает состояние блока в локальных координатах структуры
func (s *Structure) BlockAt(x, y, z int) (block.State, bool) {
	idx, ok := s.Grid.At(x, y, z)
	if !ok {
		return block.State{}, false
	}
	return s.Palette.Get(idx)
}

// Dimensions возвращает размер структуры как (ширина, высота, длина) = (X, Y, Z)
func (s *Structure) Dimensions() vec.Vec3 {
	return vec.Vec3{X: s.Grid.Width, Y: s.Grid.Height, Z: s.Grid.Length}
}

// CountNonAir считает воксели, не являющиеся воздухом
func (s *Structure) CountNonAir() int {
	air := make(map[int]bool)
	count := 0
	for _, idx := range s.Grid.Indices {
		isAir, seen := air[idx]
		if !seen {
			st, _ := s.Palette.Get(idx)
			isAir = st.IsAir()
			air[idx] = isAir
		}
		if !isAir {
			count++
		}
	}
	return count
}
