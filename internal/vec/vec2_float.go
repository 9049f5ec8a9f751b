package vec

import "math"

// Vec2Float представляет 2D координаты с плавающей точкой
// (смещение указателя, размер вьюпорта в пикселях)
type Vec2Float struct {
	X, Y float64
}

// Add складывает два вектора
func (v Vec2Float) Add(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2Float) Sub(other Vec2Float) Vec2Float {
	return Vec2Float{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul умножает вектор на скаляр
func (v Vec2Float) Mul(scalar float64) Vec2Float {
	return Vec2Float{X: v.X * scalar, Y: v.Y * scalar}
}

// Half возвращает половину вектора (центр вьюпорта)
func (v Vec2Float) Half() Vec2Float {
	return v.Mul(0.5)
}

// Length возвращает длину вектора
func (v Vec2Float) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsZero сообщает, что обе компоненты равны нулю
func (v Vec2Float) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
