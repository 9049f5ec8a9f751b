package config

import (
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации редактора.

type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Picking PickingConfig `yaml:"picking"`
	Storage StorageConfig `yaml:"storage"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

type ImportConfig struct {
	// Atomic: декодировать в отдельную палитру и сливать только при успехе
	Atomic      bool `yaml:"atomic"`
	PublishBus  bool `yaml:"publish_events"`
	BusCapacity int  `yaml:"bus_capacity"`
}

type PickingConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
}

type StorageConfig struct {
	// Path каталога BadgerDB; пустое значение отключает кеш импортов
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type TracingConfig struct {
	// Endpoint OTLP/HTTP коллектора (host:port); пусто — трассировка не экспортируется
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// GetEndpoint возвращает адрес коллектора: config -> env
func (t *TracingConfig) GetEndpoint() string {
	if t.Endpoint != "" {
		return t.Endpoint
	}
	return os.Getenv("EDITOR_OTLP_ENDPOINT")
}

// GetServiceName возвращает имя сервиса для ресурса трассировки
func (t *TracingConfig) GetServiceName() string {
	if t.ServiceName != "" {
		return t.ServiceName
	}
	return "schematic-tool"
}

// GetMaxDistance возвращает дальность обхода с поддержкой fallback значений.
// Бесконечность и NaN считаются незаданными.
func (p *PickingConfig) GetMaxDistance() float64 {
	if finitePositive(p.MaxDistance) {
		return p.MaxDistance
	}
	if envVal := os.Getenv("EDITOR_MAX_DISTANCE"); envVal != "" {
		if d, err := strconv.ParseFloat(envVal, 64); err == nil && finitePositive(d) {
			return d
		}
	}
	return 100
}

func finitePositive(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

// GetBusCapacity возвращает размер буфера шины событий
func (i *ImportConfig) GetBusCapacity() int {
	return getIntWithEnvFallback(i.BusCapacity, "EDITOR_BUS_CAPACITY", 64)
}

// GetPath возвращает путь хранилища: config -> env -> пусто (кеш выключен)
func (s *StorageConfig) GetPath() string {
	if s.Path != "" {
		return s.Path
	}
	return os.Getenv("EDITOR_STORAGE_PATH")
}

// Enabled сообщает, настроено ли хранилище
func (s *StorageConfig) Enabled() bool {
	return s.InMemory || s.GetPath() != ""
}

// GetAddr возвращает адрес эндпоинта метрик (пусто — эндпоинт не запускается)
func (m *MetricsConfig) GetAddr() string {
	if m.Addr != "" {
		return m.Addr
	}
	return os.Getenv("EDITOR_METRICS_ADDR")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultValue
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Picking: PickingConfig{MaxDistance: 100},
		Logging: LoggingConfig{Level: "info", Dir: "logs"},
	}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV EDITOR_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EDITOR_CONFIG")
		if path == "" {
			return Default(), nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
