package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_KeyIsCanonical(t *testing.T) {
	a := NewState("minecraft", "oak_log", map[string]string{"axis": "y", "a": "1"})
	b := NewState("minecraft", "oak_log", map[string]string{"a": "1", "axis": "y"})

	assert.True(t, a.Equal(b))
	assert.Equal(t, "minecraft:oak_log[a=1,axis=y]", a.Key())
	assert.Equal(t, a.Key(), b.Key())
}

func TestState_DefaultNamespace(t *testing.T) {
	s := NewState("", "stone", nil)
	assert.Equal(t, "minecraft:stone", s.NamespacedName())
	assert.False(t, s.IsAir())
	assert.True(t, Air.IsAir())
	assert.True(t, State{}.IsZero())
}

func TestState_PropertiesAreCopied(t *testing.T) {
	props := map[string]string{"level": "3"}
	s := NewState("", "water", props)
	props["level"] = "9"

	v, ok := s.Property("level")
	assert.True(t, ok)
	assert.Equal(t, "3", v, "Изменение исходной карты не должно менять состояние")

	out := s.Properties()
	out["level"] = "1"
	v, _ = s.Property("level")
	assert.Equal(t, "3", v)

	_, ok = s.Property("missing")
	assert.False(t, ok)
}

func TestParseState(t *testing.T) {
	for _, key := range []string{
		"minecraft:stone",
		"minecraft:water[level=3]",
		"custom:thing[a=1,b=two]",
	} {
		assert.Equal(t, key, ParseState(key).Key())
	}
	assert.Equal(t, "minecraft:dirt", ParseState("dirt").Key())
}
