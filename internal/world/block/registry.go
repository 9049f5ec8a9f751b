package block

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnresolvableBlockState возвращается, если пару (id, data) нельзя перевести в состояние блока
var ErrUnresolvableBlockState = errors.New("unresolvable block state")

// LegacyID представляет расширенный числовой идентификатор блока (0–4095)
type LegacyID uint16

// MaxLegacyID — максимальный идентификатор с учётом AddBlocks (12 бит)
const MaxLegacyID LegacyID = 0xFFF

// Resolver переводит пару (id, data) устаревшего формата в состояние блока.
// Реализация знает о версии формата; декодер — нет.
type Resolver interface {
	Resolve(id LegacyID, data uint8) (State, error)
}

// ResolverFunc позволяет использовать обычную функцию как Resolver
type ResolverFunc func(id LegacyID, data uint8) (State, error)

// Resolve вызывает f(id, data)
func (f ResolverFunc) Resolve(id LegacyID, data uint8) (State, error) {
	return f(id, data)
}

// UnresolvableError содержит пару, которую не удалось перевести
type UnresolvableError struct {
	ID   LegacyID
	Data uint8
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("блок %d:%d не найден в таблице", e.ID, e.Data)
}

// Is позволяет сравнивать через errors.Is(err, ErrUnresolvableBlockState)
func (e *UnresolvableError) Is(target error) bool {
	return target == ErrUnresolvableBlockState
}

type legacyKey struct {
	id   LegacyID
	data uint8
}

// LegacyTable — реестр соответствий (id, data) -> State.
// Точное совпадение имеет приоритет над записью, зарегистрированной для любого data.
type LegacyTable struct {
	mu    sync.RWMutex
	exact map[legacyKey]State
	any   map[LegacyID]State
}

// NewLegacyTable создаёт пустую таблицу
func NewLegacyTable() *LegacyTable {
	return &LegacyTable{
		exact: make(map[legacyKey]State),
		any:   make(map[LegacyID]State),
	}
}

// Register добавляет соответствие для конкретной пары (id, data)
func (t *LegacyTable) Register(id LegacyID, data uint8, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exact[legacyKey{id: id, data: data & 0xF}] = s
}

// RegisterAny добавляет соответствие для id независимо от data
func (t *LegacyTable) RegisterAny(id LegacyID, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.any[id] = s
}

// Resolve реализует Resolver
func (t *LegacyTable) Resolve(id LegacyID, data uint8) (State, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if s, ok := t.exact[legacyKey{id: id, data: data & 0xF}]; ok {
		return s, nil
	}
	if s, ok := t.any[id]; ok {
		return s, nil
	}
	return State{}, &UnresolvableError{ID: id, Data: data}
}

// Len возвращает количество зарегистрированных записей
func (t *LegacyTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.exact) + len(t.any)
}
