package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/world-editor/internal/logging"
)

// Причины неудачного импорта (значение метки reason)
const (
	ReasonMalformed    = "malformed"
	ReasonUnresolvable = "unresolvable"
	ReasonRead         = "read"
	ReasonOther        = "other"
)

// Metrics инкапсулирует Prometheus-метрики импорта схематик и выбора блоков.
// Все методы безопасны для nil-приёмника: без метрик компоненты работают так же.
type Metrics struct {
	decodeDuration prometheus.Histogram
	voxelsDecoded  prometheus.Counter
	importsTotal   prometheus.Counter
	importFailures *prometheus.CounterVec
	paletteSize    prometheus.Gauge
	cacheHits      prometheus.Counter
	candidates     prometheus.Histogram
	picks          *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg (обычно prometheus.DefaultRegisterer)
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "editor",
			Subsystem: "import",
			Name:      "decode_duration_seconds",
			Help:      "Время декодирования одной схематики.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		voxelsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor",
			Subsystem: "import",
			Name:      "voxels_total",
			Help:      "Общее число декодированных вокселей.",
		}),
		importsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor",
			Subsystem: "import",
			Name:      "imports_total",
			Help:      "Успешные импорты схематик.",
		}),
		importFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "editor",
			Subsystem: "import",
			Name:      "failures_total",
			Help:      "Неудачные импорты по причине.",
		}, []string{"reason"}),
		paletteSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "editor",
			Subsystem: "palette",
			Name:      "entries",
			Help:      "Количество записей в общей палитре сессии.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "editor",
			Subsystem: "import",
			Name:      "cache_hits_total",
			Help:      "Импорты, обслуженные из хранилища без декодирования.",
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "editor",
			Subsystem: "picking",
			Name:      "candidates",
			Help:      "Количество кандидатов, построенных обходом луча.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		picks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "editor",
			Subsystem: "picking",
			Name:      "picks_total",
			Help:      "Запросы выбора блока по результату.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.decodeDuration, m.voxelsDecoded, m.importsTotal, m.importFailures,
			m.paletteSize, m.cacheHits, m.candidates, m.picks,
		)
	}
	return m
}

// ObserveDecode учитывает успешное декодирование
func (m *Metrics) ObserveDecode(took time.Duration, voxels, paletteSize int) {
	if m == nil {
		return
	}
	m.decodeDuration.Observe(took.Seconds())
	m.voxelsDecoded.Add(float64(voxels))
	m.importsTotal.Inc()
	m.paletteSize.Set(float64(paletteSize))
}

// ObserveCacheHit учитывает импорт из хранилища
func (m *Metrics) ObserveCacheHit(paletteSize int) {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
	m.importsTotal.Inc()
	m.paletteSize.Set(float64(paletteSize))
}

// ObserveFailure учитывает неудачный импорт
func (m *Metrics) ObserveFailure(reason string) {
	if m == nil {
		return
	}
	m.importFailures.WithLabelValues(reason).Inc()
}

// ObserveTraversal учитывает размер последовательности кандидатов
func (m *Metrics) ObserveTraversal(candidates int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(candidates))
}

// ObservePick учитывает результат выбора блока
func (m *Metrics) ObservePick(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.picks.WithLabelValues(result).Inc()
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func StartHTTP(addr string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}
