package picking

import (
	"github.com/annel0/world-editor/internal/logging"
	"github.com/annel0/world-editor/internal/schematic"
	"github.com/annel0/world-editor/internal/vec"
	"github.com/annel0/world-editor/internal/world"
	"github.com/annel0/world-editor/internal/world/block"
)

// Column — колонка чанка 16x16 во внешнем хранилище
type Column interface {
	BlockAt(x, y, z int) (block.State, bool)
}

// ChunkSource отдаёт колонки чанков по координатам (x>>4, z>>4)
type ChunkSource interface {
	Column(coords vec.Vec2) (Column, error)
}

// WorldSource отдаёт колонки редактируемого мира
type WorldSource struct {
	World *world.World
}

// Column реализует ChunkSource
func (ws WorldSource) Column(coords vec.Vec2) (Column, error) {
	chunk, err := ws.World.GetChunk(coords)
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// ChunkProbe проверяет занятость вокселей во внешнем хранилище чанков.
// Кандидаты идут подряд вдоль луча, поэтому последняя колонка кешируется.
// Не безопасен для использования из нескольких горутин.
type ChunkProbe struct {
	source ChunkSource
	coords vec.Vec2
	column Column
	loaded bool
	logger *logging.Logger
}

// NewChunkProbe создаёт пробу поверх источника чанков
func NewChunkProbe(source ChunkSource) *ChunkProbe {
	return &ChunkProbe{source: source, logger: logging.GetPickingLogger()}
}

// Occupied реализует Occupancy. Незагруженные колонки считаются пустыми.
func (cp *ChunkProbe) Occupied(p vec.Vec3) bool {
	column := p.ToVec2()
	coords := column.ToChunkCoords()
	if !cp.loaded || coords != cp.coords {
		col, err := cp.source.Column(coords)
		if err != nil {
			cp.logger.Debug("Колонка %v недоступна: %v", coords, err)
			col = nil
		}
		cp.coords, cp.column, cp.loaded = coords, col, true
	}
	if cp.column == nil {
		return false
	}

	local := column.LocalInChunk()
	st, ok := cp.column.BlockAt(local.X, p.Y, local.Y)
	return ok && !st.IsAir()
}

// StructureProbe проверяет занятость вокселей импортированной структуры,
// размещённой в мире с минимальным углом в Origin
type StructureProbe struct {
	Structure *schematic.Structure
	Origin    vec.Vec3
}

// Occupied реализует Occupancy
func (sp StructureProbe) Occupied(p vec.Vec3) bool {
	local := p.Sub(sp.Origin)
	st, ok := sp.Structure.BlockAt(local.X, local.Y, local.Z)
	return ok && !st.IsAir()
}
