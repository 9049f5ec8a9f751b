package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/annel0/world-editor/internal/config"
	"github.com/annel0/world-editor/internal/eventbus"
	"github.com/annel0/world-editor/internal/importer"
	"github.com/annel0/world-editor/internal/logging"
	"github.com/annel0/world-editor/internal/metrics"
	"github.com/annel0/world-editor/internal/observability"
	"github.com/annel0/world-editor/internal/picking"
	"github.com/annel0/world-editor/internal/schematic"
	"github.com/annel0/world-editor/internal/storage"
	"github.com/annel0/world-editor/internal/vec"
	"github.com/annel0/world-editor/internal/world"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to YAML config (default: $EDITOR_CONFIG)")
		file        = flag.String("file", "", "Legacy .schematic file to import")
		atomic      = flag.Bool("atomic", false, "Decode into a scratch palette and merge only on success")
		pick        = flag.String("pick", "", "Camera pose x,y,z,yaw,pitch (degrees) for picking")
		distance    = flag.Float64("distance", 0, "Also report the voxel at this distance along the ray")
		maxDistance = flag.Float64("max-distance", 0, "Traversal limit per axis (default from config)")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus /metrics on this address and wait for a signal")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	if err := initLogging(cfg.Logging); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(cfg, *file, *atomic || cfg.Import.Atomic, *pick, *distance, *maxDistance, *metricsAddr); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		log.Fatalf("❌ %v", err)
	}
}

func initLogging(cfg config.LoggingConfig) error {
	if cfg.Dir != "" {
		logging.LogDir = cfg.Dir
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger("schematic-tool")
	if err != nil {
		return err
	}
	logger.SetLevels(level, logging.TRACE)
	logging.SetDefaultLogger(logger)

	return logging.GetLoggerManager().Configure(cfg.Level)
}

func run(cfg *config.Config, path string, atomic bool, pick string, distance, maxDistance float64, metricsAddr string) error {
	shutdown, err := observability.InitTelemetry(context.Background(), cfg.Tracing.GetServiceName(), cfg.Tracing.GetEndpoint())
	if err != nil {
		return fmt.Errorf("ошибка инициализации трассировки: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logging.Warn("Ошибка остановки трассировки: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	bus := eventbus.NewMemoryBus(cfg.Import.GetBusCapacity())
	defer bus.Close()
	eventbus.Init(bus)
	if _, err := eventbus.StartLoggingListener(bus); err != nil {
		return fmt.Errorf("ошибка подписки на события: %w", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, reg)
	exporter.Start(0)
	defer exporter.Stop()

	opts := importer.Options{Metrics: m, Bus: bus}
	if cfg.Storage.Enabled() {
		var store *storage.StructureStore
		var err error
		if cfg.Storage.InMemory {
			store, err = storage.NewMemoryStructureStore()
		} else {
			store, err = storage.NewStructureStore(cfg.Storage.GetPath())
		}
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	session := importer.NewSession(opts)
	logging.Info("🧱 Сессия %s: импорт %s (atomic=%v)", session.ID(), path, atomic)

	st, err := session.ImportFile(context.Background(), path, atomic)
	if err != nil {
		return err
	}
	report(st)

	if pick != "" {
		if !picking.ValidMaxDistance(maxDistance) {
			maxDistance = cfg.Picking.GetMaxDistance()
		}
		if err := pickBlock(st, pick, distance, maxDistance, m); err != nil {
			return err
		}
	}

	if addr := metricsAddrOr(metricsAddr, cfg.Metrics); addr != "" {
		srv := metrics.StartHTTP(addr, reg)
		defer srv.Close()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
	}
	return nil
}

func metricsAddrOr(flagValue string, cfg config.MetricsConfig) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.GetAddr()
}

func report(st *schematic.Structure) {
	dims := st.Dimensions()
	fmt.Printf("Размер: %dx%dx%d (W×H×L), материалы %s\n", dims.X, dims.Y, dims.Z, st.Materials)
	fmt.Printf("Палитра: %d состояний, непустых вокселей: %d\n", st.Palette.Len(), st.CountNonAir())
	fmt.Printf("Entities: %d байт, TileEntities: %d байт\n", len(st.Entities.Data), len(st.TileEntities.Data))
	for i, s := range st.Palette.States() {
		fmt.Printf("  %3d %s\n", i, s)
	}
}

func pickBlock(st *schematic.Structure, poseArg string, distance, maxDistance float64, m *metrics.Metrics) error {
	pose, err := parsePose(poseArg)
	if err != nil {
		return err
	}

	// Структура вставляется в пустой мир минимальным углом в начало координат
	w := world.NewWorld(st.Palette)
	if _, err := w.Paste(st.Grid, st.Palette, vec.Vec3{}, true); err != nil {
		return err
	}
	logging.Debug("Структура размещена в %d чанках", w.ChunkCount())

	picker := picking.NewPicker(picking.Options{MaxDistance: maxDistance}, m)
	probe := picking.NewChunkProbe(picking.WorldSource{World: w})

	loc, hit := picker.Pick(pose, nil, probe.Occupied)
	if hit {
		state, _ := w.GetBlock(loc)
		fmt.Printf("Выбран блок (%d,%d,%d): %s\n", loc.X, loc.Y, loc.Z, state)
	} else {
		fmt.Printf("Нет блока под курсором, последний кандидат (%d,%d,%d)\n", loc.X, loc.Y, loc.Z)
	}

	if distance > 0 {
		at := picker.PickAtDistance(pose, nil, distance)
		fmt.Printf("Воксель на расстоянии %.1f: (%d,%d,%d)\n", distance, at.X, at.Y, at.Z)
	}
	return nil
}

// parsePose разбирает "x,y,z,yaw,pitch"; углы в градусах
func parsePose(s string) (picking.CameraPose, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return picking.CameraPose{}, fmt.Errorf("ожидается x,y,z,yaw,pitch, получено %q", s)
	}
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return picking.CameraPose{}, fmt.Errorf("неверное число %q: %w", p, err)
		}
		values[i] = v
	}

	return picking.CameraPose{
		Position: vec.Vec3Float{X: values[0], Y: values[1], Z: values[2]},
		Yaw:      mgl64.DegToRad(values[3]),
		Pitch:    mgl64.DegToRad(values[4]),
		Projection: picking.Projection{
			FOV:    mgl64.DegToRad(70),
			Aspect: 16.0 / 9.0,
			Near:   0.1,
			Far:    1000,
		},
	}, nil
}
