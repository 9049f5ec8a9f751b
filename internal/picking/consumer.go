package picking

import (
	"iter"
	"math"

	"github.com/annel0/world-editor/internal/vec"
)

// Occupancy сообщает, занят ли воксель (не воздух)
type Occupancy func(p vec.Vec3) bool

// Closest возвращает первого занятого кандидата. Если занятых нет,
// возвращается последний просмотренный кандидат и false.
func Closest(candidates iter.Seq[vec.Vec3], occupied Occupancy) (vec.Vec3, bool) {
	var last vec.Vec3
	for p := range candidates {
		if occupied(p) {
			return p, true
		}
		last = p
	}
	return last, false
}

// AtDistance возвращает первого кандидата, удалённого от камеры не меньше чем на distance.
// Расстояние считается до центра ячейки. Если такого нет, возвращается нулевой вектор.
func AtDistance(candidates iter.Seq[vec.Vec3], camera vec.Vec3Float, distance float64) vec.Vec3 {
	target := distance * distance
	origin := camera.Floor()
	for p := range candidates {
		d := p.Sub(origin)
		sum := 0.0
		for _, c := range [3]int{d.X, d.Y, d.Z} {
			h := math.Abs(float64(c)) + 0.5
			sum += h * h
		}
		if sum >= target {
			return p
		}
	}
	return vec.Vec3{}
}
