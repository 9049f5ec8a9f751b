package block

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyTable_ExactBeforeAny(t *testing.T) {
	table := NewLegacyTable()
	table.RegisterAny(100, simple("generic"))
	table.Register(100, 3, simple("special"))

	s, err := table.Resolve(100, 3)
	require.NoError(t, err)
	assert.Equal(t, "special", s.Name())

	s, err = table.Resolve(100, 7)
	require.NoError(t, err)
	assert.Equal(t, "generic", s.Name())
}

func TestLegacyTable_Unresolvable(t *testing.T) {
	table := NewLegacyTable()
	_, err := table.Resolve(4000, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvableBlockState))

	var unresolvable *UnresolvableError
	require.True(t, errors.As(err, &unresolvable))
	assert.Equal(t, LegacyID(4000), unresolvable.ID)
	assert.Equal(t, uint8(2), unresolvable.Data)
}

func TestDefaultLegacyTable(t *testing.T) {
	table := DefaultLegacyTable()

	cases := []struct {
		id   LegacyID
		data uint8
		key  string
	}{
		{AirID, 0, "minecraft:air"},
		{AirID, 5, "minecraft:air"},
		{StoneID, 1, "minecraft:granite"},
		{PlanksID, 2, "minecraft:birch_planks"},
		{LogID, 5, "minecraft:spruce_log[axis=x]"},
		{WaterID, 3, "minecraft:water[level=3]"},
		{WoolID, 14, "minecraft:red_wool"},
	}
	for _, tc := range cases {
		s, err := table.Resolve(tc.id, tc.data)
		require.NoError(t, err, "id=%d data=%d", tc.id, tc.data)
		assert.Equal(t, tc.key, s.Key())
	}

	_, err := table.Resolve(StoneID, 9)
	assert.ErrorIs(t, err, ErrUnresolvableBlockState)
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func(id LegacyID, data uint8) (State, error) {
		return NewState("test", "b", map[string]string{"id": "x"}), nil
	})
	s, err := r.Resolve(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "test:b[id=x]", s.Key())
}
