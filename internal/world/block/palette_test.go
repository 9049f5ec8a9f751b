package block

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette_GetOrAddIdempotent(t *testing.T) {
	p := NewPalette()
	stone := NewState("minecraft", "stone", nil)

	first := p.GetOrAdd(stone)
	assert.Equal(t, 0, first, "Первый блок должен получить индекс 0")
	assert.Equal(t, 1, p.Len(), "Длина палитры должна вырасти на 1")

	second := p.GetOrAdd(NewState("minecraft", "stone", map[string]string{}))
	assert.Equal(t, first, second, "Равное состояние должно вернуть тот же индекс")
	assert.Equal(t, 1, p.Len(), "Повторное добавление не должно менять длину")
}

func TestPalette_InsertionOrder(t *testing.T) {
	p := NewPalette()
	names := []string{"air", "stone", "dirt", "sand"}
	for i, name := range names {
		assert.Equal(t, i, p.GetOrAdd(simple(name)))
	}

	for i, name := range names {
		s, ok := p.Get(i)
		require.True(t, ok)
		assert.Equal(t, name, s.Name())

		idx, ok := p.IndexOf(s)
		require.True(t, ok)
		assert.Equal(t, i, idx, "Индекс должен совпадать при обратном поиске")
	}

	_, ok := p.Get(len(names))
	assert.False(t, ok, "Индекс за пределами палитры не должен находиться")
	_, ok = p.Get(-1)
	assert.False(t, ok)
}

func TestPalette_PropertiesDistinguishStates(t *testing.T) {
	p := NewPalette()
	a := p.GetOrAdd(NewState("", "water", map[string]string{"level": "0"}))
	b := p.GetOrAdd(NewState("", "water", map[string]string{"level": "1"}))
	c := p.GetOrAdd(NewState("", "water", map[string]string{"level": "0"}))

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, 2, p.Len())
}

func TestPalette_Merge(t *testing.T) {
	shared := NewPalette()
	shared.GetOrAdd(simple("air"))
	shared.GetOrAdd(simple("stone"))

	fresh := NewPalette()
	fresh.GetOrAdd(simple("dirt"))
	fresh.GetOrAdd(simple("stone"))

	remap := shared.Merge(fresh)
	assert.Equal(t, []int{2, 1}, remap, "dirt добавляется в конец, stone уже существует")
	assert.Equal(t, 3, shared.Len())
}

func TestPalette_ConcurrentReadersSeeCommittedEntries(t *testing.T) {
	p := NewPalette()
	const total = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			p.GetOrAdd(simple(fmt.Sprintf("block_%d", i)))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < total; i++ {
				n := p.Len()
				if n == 0 {
					continue
				}
				s, ok := p.Get(n - 1)
				if assert.True(t, ok) {
					assert.Equal(t, fmt.Sprintf("block_%d", n-1), s.Name(), "Читатель не должен видеть недостроенную запись")
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, total, p.Len())
}
