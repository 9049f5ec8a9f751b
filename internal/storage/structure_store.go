package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Tnze/go-mc/nbt"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/world-editor/internal/schematic"
	"github.com/annel0/world-editor/internal/world"
	"github.com/annel0/world-editor/internal/world/block"
)

var (
	// ErrNotFound возвращается, если запись с таким ключом отсутствует
	ErrNotFound = errors.New("storage: структура не найдена")
	// ErrStoreClosed возвращается при обращении к закрытому хранилищу
	ErrStoreClosed = errors.New("storage: хранилище закрыто")
)

const keyPrefix = "structure:"

// StructureStore хранит декодированные структуры в BadgerDB.
// Запись содержит собственную палитру структуры, поэтому загрузка
// возможна в любую палитру с переназначением индексов.
type StructureStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// rawTag — JSON-представление nbt.RawMessage
type rawTag struct {
	Type byte   `json:"type"`
	Data []byte `json:"data,omitempty"`
}

// structureRecord — сериализуемое представление структуры
type structureRecord struct {
	Height       int           `json:"height"`
	Length       int           `json:"length"`
	Width        int           `json:"width"`
	Palette      []stateRecord `json:"palette"`
	Indices      []int         `json:"indices"` // индексы в Palette записи
	Materials    string        `json:"materials"`
	Entities     rawTag        `json:"entities"`
	TileEntities rawTag        `json:"tile_entities"`
}

type stateRecord struct {
	Namespace  string            `json:"ns"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"props,omitempty"`
}

// NewStructureStore открывает хранилище в каталоге dataPath/structures
func NewStructureStore(dataPath string) (*StructureStore, error) {
	dbPath := filepath.Join(dataPath, "structures")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB
	return open(opts, dbPath)
}

// NewMemoryStructureStore открывает хранилище в памяти (для тестов и одноразовых сессий)
func NewMemoryStructureStore() (*StructureStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, "")
}

func open(opts badger.Options, dbPath string) (*StructureStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}

	return &StructureStore{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: enc,
		decoder: dec,
	}, nil
}

// Close закрывает хранилище
func (s *StructureStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}

func recordKey(digest string) []byte {
	return []byte(keyPrefix + digest)
}

// Save сохраняет структуру под ключом digest.
// В запись попадают только состояния, действительно используемые сеткой.
func (s *StructureStore) Save(digest string, st *schematic.Structure) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrStoreClosed
	}

	rec := structureRecord{
		Height:       st.Grid.Height,
		Length:       st.Grid.Length,
		Width:        st.Grid.Width,
		Indices:      make([]int, len(st.Grid.Indices)),
		Materials:    st.Materials,
		Entities:     rawTag{Type: st.Entities.Type, Data: st.Entities.Data},
		TileEntities: rawTag{Type: st.TileEntities.Type, Data: st.TileEntities.Data},
	}

	local := make(map[int]int)
	for i, idx := range st.Grid.Indices {
		li, ok := local[idx]
		if !ok {
			state, found := st.Palette.Get(idx)
			if !found {
				return fmt.Errorf("storage: индекс палитры %d вне диапазона", idx)
			}
			li = len(rec.Palette)
			local[idx] = li
			rec.Palette = append(rec.Palette, stateRecord{
				Namespace:  state.Namespace(),
				Name:       state.Name(),
				Properties: state.Properties(),
			})
		}
		rec.Indices[i] = li
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации структуры: %w", err)
	}
	compressed := s.encoder.EncodeAll(data, nil)

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(digest), compressed)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// Has сообщает, есть ли запись с ключом digest
func (s *StructureStore) Has(digest string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return false, ErrStoreClosed
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(digest))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load читает структуру с ключом digest, добавляя её состояния в palette.
// Индексы сетки переназначаются на индексы palette.
func (s *StructureStore) Load(digest string, palette *block.Palette) (*schematic.Structure, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrStoreClosed
	}

	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(digest))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки структуры: %w", err)
	}

	var rec structureRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ошибка десериализации структуры: %w", err)
	}

	grid, err := world.NewVoxelGrid(rec.Height, rec.Length, rec.Width)
	if err != nil {
		return nil, err
	}
	if len(rec.Indices) != grid.Size() {
		return nil, fmt.Errorf("storage: запись содержит %d индексов, ожидается %d", len(rec.Indices), grid.Size())
	}
	copy(grid.Indices, rec.Indices)

	remap := make([]int, len(rec.Palette))
	for i, sr := range rec.Palette {
		remap[i] = palette.GetOrAdd(block.NewState(sr.Namespace, sr.Name, sr.Properties))
	}
	if err := grid.Remap(remap); err != nil {
		return nil, err
	}

	return &schematic.Structure{
		Grid:         grid,
		Palette:      palette,
		Materials:    rec.Materials,
		Entities:     nbt.RawMessage{Type: rec.Entities.Type, Data: rec.Entities.Data},
		TileEntities: nbt.RawMessage{Type: rec.TileEntities.Type, Data: rec.TileEntities.Data},
	}, nil
}
