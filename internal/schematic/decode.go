package schematic

import (
	"fmt"

	"github.com/annel0/world-editor/internal/logging"
	"github.com/annel0/world-editor/internal/world"
	"github.com/annel0/world-editor/internal/world/block"
)

// ExtendIDs расширяет байтовые идентификаторы до 12 бит с помощью AddBlocks.
// Каждый байт AddBlocks несёт старшие полубайты двух соседних вокселей:
// старший полубайт — для чётного, младший — для следующего нечётного.
func ExtendIDs(c *Container) []uint16 {
	size := c.Size()
	ids := make([]uint16, size)
	for i := 0; i < size && i < len(c.Blocks); i++ {
		ids[i] = uint16(c.Blocks[i])
	}
	if !c.HasAddBlocks() {
		return ids
	}

	add := make([]uint16, size+size%2)
	pairs := len(add) / 2
	for i := 0; i < pairs; i++ {
		// Короткий AddBlocks повторяется по кругу, длинный обрезается
		if n := len(c.AddBlocks); n > 0 {
			add[2*i] = uint16(c.AddBlocks[i%n])
		}
	}
	for i := 0; i < len(add); i += 2 {
		add[i+1] = add[i] & 0xF
		add[i] >>= 4
		add[i] <<= 8
		add[i+1] <<= 8
	}

	for i := range ids {
		ids[i] |= add[i]
	}
	return ids
}

// group объединяет расширенный id и data в один ключ
func group(id uint16, data byte) uint16 {
	return id<<4 | uint16(data&0xF)
}

// Decode переводит контейнер в сетку индексов общей палитры.
//
// Каждая уникальная пара (id, data) разрешается ровно один раз. Группы обходятся
// по возрастанию ключа, поэтому порядок вставки в палитру детерминирован.
// При ошибке разрешения сетка не возвращается, но группы, добавленные в палитру
// до ошибки, остаются в ней (см. Session.ImportAtomic).
func Decode(c *Container, palette *block.Palette, resolver block.Resolver) (*Structure, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ids := ExtendIDs(c)

	var present [1 << 16]bool
	keys := make([]uint16, len(ids))
	for i, id := range ids {
		k := group(id, c.Data[i])
		keys[i] = k
		present[k] = true
	}

	var lookup [1 << 16]int32
	groups := 0
	for k := range present {
		if !present[k] {
			continue
		}
		id, data := block.LegacyID(k>>4), uint8(k&0xF)

		state, err := resolver.Resolve(id, data)
		if err == nil && state.IsZero() {
			err = &block.UnresolvableError{ID: id, Data: data}
		}
		if err != nil {
			logging.Warn("Не удалось разрешить блок %d:%d: %v", id, data, err)
			return nil, fmt.Errorf("%w: %d:%d: %w", ErrUnresolvableBlockState, id, data, err)
		}

		lookup[k] = int32(palette.GetOrAdd(state))
		groups++
	}

	grid, err := world.NewVoxelGrid(c.Height, c.Length, c.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	for i, k := range keys {
		grid.Indices[i] = int(lookup[k])
	}

	logging.Debug("Декодировано %d вокселей, %d групп (id, data), палитра %d", len(ids), groups, palette.Len())

	return &Structure{
		Grid:         grid,
		Palette:      palette,
		Materials:    c.Materials,
		Entities:     c.Entities,
		TileEntities: c.TileEntities,
	}, nil
}
