package schematic

import (
	"bytes"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/world-editor/internal/world/block"
)

type testEntity struct {
	ID string  `nbt:"id"`
	X  float64 `nbt:"x"`
}

type testSchematic struct {
	Height    int16        `nbt:"Height"`
	Length    int16        `nbt:"Length"`
	Width     int16        `nbt:"Width"`
	Materials string       `nbt:"Materials"`
	Blocks    []byte       `nbt:"Blocks"`
	Data      []byte       `nbt:"Data"`
	AddBlocks []byte       `nbt:"AddBlocks"`
	Entities  []testEntity `nbt:"Entities"`
}

type testSchematicMinimal struct {
	Height int16  `nbt:"Height"`
	Length int16  `nbt:"Length"`
	Width  int16  `nbt:"Width"`
	Blocks []byte `nbt:"Blocks"`
	Data   []byte `nbt:"Data"`
}

func encode(t *testing.T, v any, compress bool) []byte {
	t.Helper()

	var buf bytes.Buffer
	if compress {
		gz := gzip.NewWriter(&buf)
		require.NoError(t, nbt.NewEncoder(gz).Encode(v, "Schematic"))
		require.NoError(t, gz.Close())
	} else {
		require.NoError(t, nbt.NewEncoder(&buf).Encode(v, "Schematic"))
	}
	return buf.Bytes()
}

func TestReadContainer_Gzipped(t *testing.T) {
	src := testSchematic{
		Height: 1, Length: 1, Width: 2,
		Materials: "Alpha",
		Blocks:    []byte{1, 0},
		Data:      []byte{0, 0},
		AddBlocks: []byte{0x10},
		Entities:  []testEntity{{ID: "Pig", X: 1.5}},
	}

	c, err := ReadContainer(bytes.NewReader(encode(t, src, true)))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Height)
	assert.Equal(t, 1, c.Length)
	assert.Equal(t, 2, c.Width)
	assert.Equal(t, []byte{1, 0}, c.Blocks)
	assert.Equal(t, []byte{0x10}, c.AddBlocks)
	assert.True(t, c.HasAddBlocks())
	assert.Equal(t, "Alpha", c.Materials)

	assert.Equal(t, nbt.TagList, c.Entities.Type, "Entities должны передаваться как есть")
	var entities []testEntity
	require.NoError(t, c.Entities.Unmarshal(&entities))
	assert.Equal(t, []testEntity{{ID: "Pig", X: 1.5}}, entities)

	s, err := Decode(c, block.NewPalette(), syntheticResolver())
	require.NoError(t, err)
	b, _ := s.BlockAt(0, 0, 0)
	assert.Equal(t, "b257", b.Name())
	assert.Equal(t, c.Entities, s.Entities)
}

func TestReadContainer_UncompressedDefaults(t *testing.T) {
	src := testSchematicMinimal{
		Height: 2, Length: 1, Width: 1,
		Blocks: []byte{3, 4},
		Data:   []byte{0, 1},
	}

	c, err := ReadContainer(bytes.NewReader(encode(t, src, false)))
	require.NoError(t, err)

	assert.False(t, c.HasAddBlocks(), "Отсутствующий AddBlocks должен оставаться nil")
	assert.Equal(t, DefaultMaterials, c.Materials)
	assert.Equal(t, byte(0), c.Entities.Type, "Отсутствующие Entities остаются пустыми")
	assert.NoError(t, c.Validate())
}

func TestReadContainer_Garbage(t *testing.T) {
	_, err := ReadContainer(bytes.NewReader([]byte{0x1f, 0x8b, 0x00}))
	assert.Error(t, err)

	_, err = ReadContainer(bytes.NewReader(nil))
	assert.Error(t, err)
}
