package picking

import (
	"iter"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/world-editor/internal/vec"
)

// DefaultMaxDistance — максимальная дальность обхода по умолчанию (в блоках)
const DefaultMaxDistance = 100.0

// Options настраивает обход луча
type Options struct {
	// MaxDistance ограничивает модуль каждой компоненты точки пересечения.
	// Неположительное или нечисловое (±Inf, NaN) значение означает DefaultMaxDistance.
	MaxDistance float64
}

func (o Options) maxDistance() float64 {
	if !ValidMaxDistance(o.MaxDistance) {
		return DefaultMaxDistance
	}
	return o.MaxDistance
}

// ValidMaxDistance сообщает, ограничивает ли d обход: только конечные положительные значения
func ValidMaxDistance(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

// MaxCandidates возвращает верхнюю границу длины последовательности:
// по каждой из трёх осей не больше 2*max+2 шагов, на шаге записываются две ячейки.
func (o Options) MaxCandidates() int {
	steps := int(math.Ceil(o.maxDistance()))*2 + 2
	return 3 * 2 * steps
}

// Candidates — упорядоченная от ближних к дальним последовательность вокселей,
// которые может пересечь луч взгляда. Значение неизменяемо: All можно вызывать повторно.
type Candidates struct {
	origin vec.Vec3
	coords []vec.Vec3
}

// Origin возвращает воксель, в котором находится камера
func (c *Candidates) Origin() vec.Vec3 { return c.origin }

// Len возвращает количество кандидатов
func (c *Candidates) Len() int { return len(c.coords) }

// First возвращает ближайшего кандидата
func (c *Candidates) First() vec.Vec3 { return c.coords[0] }

// All возвращает последовательность кандидатов от ближних к дальним
func (c *Candidates) All() iter.Seq[vec.Vec3] {
	return func(yield func(vec.Vec3) bool) {
		for _, p := range c.coords {
			if !yield(p) {
				return
			}
		}
	}
}

// axes — отрицательные единичные векторы осей: ячейка по другую сторону грани
var axes = [3]mgl64.Vec3{
	{-1, 0, 0},
	{0, -1, 0},
	{0, 0, -1},
}

func floor3(v mgl64.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: int(math.Floor(v[0])),
		Y: int(math.Floor(v[1])),
		Z: int(math.Floor(v[2])),
	}
}

func within(v mgl64.Vec3, max float64) bool {
	return math.Abs(v[0]) < max && math.Abs(v[1]) < max && math.Abs(v[2]) < max
}

// Traverse строит кандидатов вдоль луча взгляда.
//
// Луч проходится трижды, по одному разу на ось: шаг вдоль оси равен направлению,
// масштабированному до единицы по этой оси. На каждом шаге записываются ячейки
// по обе стороны пересекаемой грани. Результат — надмножество пересечённых вокселей,
// отсортированное по манхэттенскому расстоянию от камеры; при равенстве — по (X, Y, Z).
func Traverse(pose CameraPose, pointer *Pointer, opts Options) *Candidates {
	maxDistance := opts.maxDistance()
	look := LookDirection(pose, pointer)
	origin := pose.Position.Floor()

	fract := pose.Position.Fract()
	start := mgl64.Vec3{fract.X, fract.Y, fract.Z}

	seen := make(map[vec.Vec3]struct{})
	for axis := 0; axis < 3; axis++ {
		step := look.Mul(1 / math.Abs(look[axis]))
		offset := axes[axis]

		// Сдвигаемся к первой грани вдоль оси
		location := start
		if step[axis] > 0 {
			location = location.Add(step.Mul(1 - location[axis]))
		} else {
			location = location.Add(step.Mul(location[axis]))
		}

		for within(location, maxDistance) {
			seen[floor3(location)] = struct{}{}
			seen[floor3(location.Add(offset))] = struct{}{}
			location = location.Add(step)
		}
	}

	if len(seen) == 0 {
		return &Candidates{origin: origin, coords: []vec.Vec3{origin}}
	}

	coords := make([]vec.Vec3, 0, len(seen))
	for p := range seen {
		coords = append(coords, p)
	}
	sort.Slice(coords, func(i, j int) bool {
		di, dj := coords[i].Manhattan(), coords[j].Manhattan()
		if di != dj {
			return di < dj
		}
		return coords[i].Less(coords[j])
	})
	for i := range coords {
		coords[i] = coords[i].Add(origin)
	}

	return &Candidates{origin: origin, coords: coords}
}
