package picking

import (
	"github.com/annel0/world-editor/internal/logging"
	"github.com/annel0/world-editor/internal/metrics"
	"github.com/annel0/world-editor/internal/vec"
)

// Picker связывает обход луча с проверкой занятости и метриками
type Picker struct {
	opts    Options
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewPicker создаёт Picker; m может быть nil
func NewPicker(opts Options, m *metrics.Metrics) *Picker {
	return &Picker{opts: opts, metrics: m, logger: logging.GetPickingLogger()}
}

// Candidates строит кандидатов для текущей позы камеры
func (p *Picker) Candidates(pose CameraPose, pointer *Pointer) *Candidates {
	c := Traverse(pose, pointer, p.opts)
	p.metrics.ObserveTraversal(c.Len())
	return c
}

// Pick возвращает ближайший занятый воксель под курсором
func (p *Picker) Pick(pose CameraPose, pointer *Pointer, occupied Occupancy) (vec.Vec3, bool) {
	c := p.Candidates(pose, pointer)
	loc, hit := Closest(c.All(), occupied)
	p.metrics.ObservePick(hit)
	p.logger.Trace("Pick: (%d,%d,%d) hit=%v candidates=%d", loc.X, loc.Y, loc.Z, hit, c.Len())
	return loc, hit
}

// PickAtDistance возвращает воксель под курсором на заданном расстоянии от камеры
func (p *Picker) PickAtDistance(pose CameraPose, pointer *Pointer, distance float64) vec.Vec3 {
	c := p.Candidates(pose, pointer)
	return AtDistance(c.All(), pose.Position, distance)
}
