package block

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Palette — реестр состояний блоков с адресацией по содержимому.
// Каждому уникальному состоянию присваивается стабильный индекс (позиция вставки).
// Палитра только растёт: записи не удаляются и не изменяются.
//
// Добавления сериализуются мьютексом. Срез записей публикуется через atomic.Pointer,
// поэтому чтение уже зафиксированных индексов (Get) не требует блокировок
// и никогда не видит частично построенную запись.
type Palette struct {
	mu      sync.Mutex
	entries atomic.Pointer[[]State]
	buckets map[uint64][]int // xxhash(Key) -> индексы с этим хешем
}

// NewPalette создаёт пустую палитру
func NewPalette() *Palette {
	p := &Palette{
		buckets: make(map[uint64][]int),
	}
	empty := make([]State, 0, 16)
	p.entries.Store(&empty)
	return p
}

func hashState(s State) uint64 {
	return xxhash.Sum64String(s.Key())
}

func (p *Palette) snapshot() []State {
	return *p.entries.Load()
}

// GetOrAdd возвращает индекс состояния, добавляя его в конец палитры при отсутствии
func (p *Palette) GetOrAdd(s State) int {
	h := hashState(s)

	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.snapshot()
	for _, idx := range p.buckets[h] {
		if entries[idx].Equal(s) {
			return idx
		}
	}

	// Запись в backing-массив за пределами текущей длины не видна читателям
	// старого среза; новый заголовок публикуется атомарно.
	idx := len(entries)
	grown := append(entries, s)
	p.entries.Store(&grown)
	p.buckets[h] = append(p.buckets[h], idx)
	return idx
}

// IndexOf возвращает индекс состояния, если оно уже есть в палитре
func (p *Palette) IndexOf(s State) (int, bool) {
	h := hashState(s)

	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.snapshot()
	for _, idx := range p.buckets[h] {
		if entries[idx].Equal(s) {
			return idx, true
		}
	}
	return 0, false
}

// Get возвращает состояние по индексу
func (p *Palette) Get(index int) (State, bool) {
	entries := p.snapshot()
	if index < 0 || index >= len(entries) {
		return State{}, false
	}
	return entries[index], true
}

// Len возвращает количество записей
func (p *Palette) Len() int {
	return len(p.snapshot())
}

// States возвращает копию всех записей в порядке индексов
func (p *Palette) States() []State {
	entries := p.snapshot()
	out := make([]State, len(entries))
	copy(out, entries)
	return out
}

// Merge добавляет все записи other и возвращает таблицу переназначения:
// remap[старый индекс в other] = индекс в p.
func (p *Palette) Merge(other *Palette) []int {
	states := other.States()
	remap := make([]int, len(states))
	for i, s := range states {
		remap[i] = p.GetOrAdd(s)
	}
	return remap
}
