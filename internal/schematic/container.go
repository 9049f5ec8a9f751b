package schematic

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
)

// DefaultMaterials — значение Materials, если тег отсутствует
const DefaultMaterials = "Alpha"

// Container — сырые значения тегов устаревшей схематики.
// AddBlocks == nil означает, что тег отсутствует.
type Container struct {
	Height int
	Length int
	Width  int

	Blocks    []byte
	Data      []byte
	AddBlocks []byte

	// Materials носит информационный характер и на декодирование не влияет
	Materials string

	// Entities и TileEntities передаются дальше без изменений
	Entities     nbt.RawMessage
	TileEntities nbt.RawMessage
}

// Size возвращает Height*Length*Width
func (c *Container) Size() int {
	return c.Height * c.Length * c.Width
}

// HasAddBlocks сообщает, присутствует ли тег AddBlocks
func (c *Container) HasAddBlocks() bool {
	return c.AddBlocks != nil
}

// Validate проверяет размеры и длины массивов
func (c *Container) Validate() error {
	if c.Height <= 0 || c.Length <= 0 || c.Width <= 0 {
		return fmt.Errorf("%w: неположительный размер %dx%dx%d", ErrMalformedContainer, c.Height, c.Length, c.Width)
	}
	size := c.Size()
	if len(c.Blocks) != size {
		return fmt.Errorf("%w: Blocks содержит %d байт, ожидается %d", ErrMalformedContainer, len(c.Blocks), size)
	}
	if len(c.Data) != size {
		return fmt.Errorf("%w: Data содержит %d байт, ожидается %d", ErrMalformedContainer, len(c.Data), size)
	}
	return nil
}

// nbtSchematic описывает корневой compound-тег файла .schematic
type nbtSchematic struct {
	Height       int16          `nbt:"Height"`
	Length       int16          `nbt:"Length"`
	Width        int16          `nbt:"Width"`
	Materials    string         `nbt:"Materials"`
	Blocks       []byte         `nbt:"Blocks"`
	Data         []byte         `nbt:"Data"`
	AddBlocks    []byte         `nbt:"AddBlocks"`
	Entities     nbt.RawMessage `nbt:"Entities"`
	TileEntities nbt.RawMessage `nbt:"TileEntities"`
}

// ReadContainer читает корневой compound-тег схематики.
// Сжатые gzip файлы распознаются по сигнатуре и распаковываются.
func ReadContainer(r io.Reader) (*Container, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("ошибка распаковки схематики: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var raw nbtSchematic
	if _, err := nbt.NewDecoder(src).Decode(&raw); err != nil {
		return nil, fmt.Errorf("ошибка чтения NBT схематики: %w", err)
	}

	materials := raw.Materials
	if materials == "" {
		materials = DefaultMaterials
	}

	return &Container{
		Height:       int(raw.Height),
		Length:       int(raw.Length),
		Width:        int(raw.Width),
		Blocks:       raw.Blocks,
		Data:         raw.Data,
		AddBlocks:    raw.AddBlocks,
		Materials:    materials,
		Entities:     raw.Entities,
		TileEntities: raw.TileEntities,
	}, nil
}
