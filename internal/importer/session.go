package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/world-editor/internal/eventbus"
	"github.com/annel0/world-editor/internal/logging"
	"github.com/annel0/world-editor/internal/metrics"
	"github.com/annel0/world-editor/internal/observability"
	"github.com/annel0/world-editor/internal/schematic"
	"github.com/annel0/world-editor/internal/storage"
	"github.com/annel0/world-editor/internal/world/block"
)

// ErrRead оборачивает ошибки чтения источника и NBT-разбора
var ErrRead = errors.New("importer: ошибка чтения схематики")

const eventSource = "importer"

// Store — кеш декодированных структур (реализуется storage.StructureStore)
type Store interface {
	Save(digest string, st *schematic.Structure) error
	Load(digest string, palette *block.Palette) (*schematic.Structure, error)
}

// Options задаёт зависимости сессии. Все поля необязательны.
type Options struct {
	Resolver block.Resolver
	// ResolverVersion идентифицирует таблицу Resolver в ключе кеша.
	// Без версии пользовательский Resolver работает мимо Store.
	ResolverVersion string
	Metrics         *metrics.Metrics
	Bus             eventbus.EventBus
	Store           Store
	Logger          *logging.Logger
}

// Session — сессия редактора с общей палитрой.
// Все структуры, импортированные в сессию, ссылаются на одну палитру,
// поэтому одинаковые состояния блоков имеют одинаковые индексы.
type Session struct {
	id       uuid.UUID
	palette  *block.Palette
	resolver block.Resolver
	version  string
	metrics  *metrics.Metrics
	bus      eventbus.EventBus
	store    Store
	logger   *logging.Logger
}

// NewSession создаёт сессию с пустой палитрой.
// Если Resolver не задан, используется block.DefaultLegacyTable.
func NewSession(opts Options) *Session {
	resolver, version := opts.Resolver, opts.ResolverVersion
	if resolver == nil {
		resolver = block.DefaultLegacyTable()
		if version == "" {
			version = block.DefaultLegacyTableVersion
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetImportLogger()
	}
	return &Session{
		id:       uuid.New(),
		palette:  block.NewPalette(),
		resolver: resolver,
		version:  version,
		metrics:  opts.Metrics,
		bus:      opts.Bus,
		store:    opts.Store,
		logger:   logger,
	}
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string { return s.id.String() }

// Palette возвращает общую палитру сессии
func (s *Session) Palette() *block.Palette { return s.palette }

// Digest возвращает ключ содержимого источника для кеша структур
func Digest(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// CacheKey связывает ключ содержимого с версией таблицы разрешения.
// Пустая строка означает, что кеш для такой сессии не используется.
func CacheKey(digest, resolverVersion string) string {
	if digest == "" || resolverVersion == "" {
		return ""
	}
	return digest + "-" + strconv.FormatUint(xxhash.Sum64String(resolverVersion), 16)
}

// Import декодирует схематику прямо в общую палитру.
// При ошибке разрешения блоков состояния, добавленные до ошибки, остаются в палитре.
func (s *Session) Import(ctx context.Context, name string, r io.Reader) (*schematic.Structure, error) {
	return s.run(ctx, name, r, false)
}

// ImportAtomic декодирует схематику во временную палитру и сливает её
// с общей только при успехе. Неудачный импорт не меняет общую палитру.
func (s *Session) ImportAtomic(ctx context.Context, name string, r io.Reader) (*schematic.Structure, error) {
	return s.run(ctx, name, r, true)
}

// ImportFile открывает файл и импортирует его под базовым именем
func (s *Session) ImportFile(ctx context.Context, path string, atomic bool) (*schematic.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()
	return s.run(ctx, filepath.Base(path), f, atomic)
}

func (s *Session) run(ctx context.Context, name string, r io.Reader, atomic bool) (*schematic.Structure, error) {
	start := time.Now()

	ctx, span := observability.Tracer().Start(ctx, "schematic.import", trace.WithAttributes(
		attribute.String("session", s.ID()),
		attribute.String("name", name),
		attribute.Bool("atomic", atomic),
	))
	defer span.End()

	st, cached, digest, err := s.load(ctx, r, atomic)
	span.SetAttributes(attribute.String("digest", digest))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Reason(err))
		s.fail(ctx, name, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("cached", cached),
		attribute.Int("voxels", st.Grid.Size()),
		attribute.Int("palette_size", s.palette.Len()),
	)

	took := time.Since(start)
	if cached {
		s.metrics.ObserveCacheHit(s.palette.Len())
	} else {
		s.metrics.ObserveDecode(took, st.Grid.Size(), s.palette.Len())
		if key := CacheKey(digest, s.version); s.store != nil && key != "" {
			if err := s.store.Save(key, st); err != nil {
				s.logger.Warn("Не удалось сохранить %q в кеш: %v", name, err)
			}
		}
	}

	logging.LogImport(s.ID(), name, st.Grid.Height, st.Grid.Length, st.Grid.Width, s.palette.Len(), took)
	s.publish(ctx, eventbus.TypeSchematicImported, eventbus.SchematicImported{
		Session:     s.ID(),
		Name:        name,
		Digest:      digest,
		Height:      st.Grid.Height,
		Length:      st.Grid.Length,
		Width:       st.Grid.Width,
		PaletteSize: s.palette.Len(),
		Cached:      cached,
	})
	return st, nil
}

func (s *Session) load(ctx context.Context, r io.Reader, atomic bool) (*schematic.Structure, bool, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	digest := Digest(data)

	if key := CacheKey(digest, s.version); s.store != nil && key != "" {
		st, err := s.store.Load(key, s.palette)
		switch {
		case err == nil:
			s.logger.Debug("Структура %s найдена в кеше", key)
			return st, true, digest, nil
		case !errors.Is(err, storage.ErrNotFound):
			s.logger.Warn("Ошибка чтения кеша %s: %v", key, err)
		}
	}

	c, err := schematic.ReadContainer(bytes.NewReader(data))
	if err != nil {
		return nil, false, digest, fmt.Errorf("%w: %w", ErrRead, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, digest, err
	}

	if !atomic {
		st, err := schematic.Decode(c, s.palette, s.resolver)
		return st, false, digest, err
	}

	scratch := block.NewPalette()
	st, err := schematic.Decode(c, scratch, s.resolver)
	if err != nil {
		return nil, false, digest, err
	}
	remap := s.palette.Merge(scratch)
	if err := st.Grid.Remap(remap); err != nil {
		return nil, false, digest, err
	}
	st.Palette = s.palette
	return st, false, digest, nil
}

func (s *Session) fail(ctx context.Context, name string, err error) {
	reason := Reason(err)
	s.metrics.ObserveFailure(reason)
	s.logger.Error("Импорт %q не удался (%s): %v", name, reason, err)
	s.publish(ctx, eventbus.TypeSchematicFailed, eventbus.SchematicFailed{
		Session: s.ID(),
		Name:    name,
		Reason:  reason,
		Error:   err.Error(),
	})
}

// Reason классифицирует ошибку импорта для метрик и событий
func Reason(err error) string {
	switch {
	case errors.Is(err, schematic.ErrMalformedContainer):
		return metrics.ReasonMalformed
	case errors.Is(err, block.ErrUnresolvableBlockState):
		return metrics.ReasonUnresolvable
	case errors.Is(err, ErrRead):
		return metrics.ReasonRead
	default:
		return metrics.ReasonOther
	}
}

func (s *Session) publish(ctx context.Context, eventType string, payload any) {
	if s.bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(eventSource, eventType, payload)
	if err != nil {
		s.logger.Warn("%v", err)
		return
	}
	ev.CorrelationID = s.ID()
	if eventType == eventbus.TypeSchematicFailed {
		ev.Priority = 5
	}
	// Публикация не должна зависеть от отменённого контекста импорта
	if err := s.bus.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.Warn("Не удалось опубликовать %s: %v", eventType, err)
	}
}
