package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/annel0/world-editor/internal/vec"
)

// Epsilon — минимальная по модулю компонента направления взгляда
const Epsilon = 1e-6

// Projection — параметры проекции камеры. На обход влияют только FOV и Aspect;
// Near и Far дальность обхода не ограничивают.
type Projection struct {
	FOV    float64 // вертикальный угол обзора, радианы
	Aspect float64 // ширина / высота
	Near   float64
	Far    float64
}

// CameraPose — положение и ориентация камеры
type CameraPose struct {
	Position   vec.Vec3Float
	Yaw        float64 // радианы
	Pitch      float64 // радианы
	Projection Projection
}

// Pointer — смещение указателя относительно центра вьюпорта в пикселях.
// При захваченной мыши (Locked) смещение не учитывается.
type Pointer struct {
	Offset   vec.Vec2Float
	Viewport vec.Vec2Float
	Locked   bool
}

// forward — направление взгляда камеры без поворота
var forward = mgl64.Vec3{0, 0, -1}

// rotation возвращает поворот камеры: сначала тангаж, затем рыскание
func rotation(pitch, yaw float64) mgl64.Mat3 {
	return mgl64.Rotate3DY(-yaw).Mul3(mgl64.Rotate3DX(-pitch))
}

// pointerAngles переводит смещение указателя в приращение рыскания и тангажа
func pointerAngles(proj Projection, p *Pointer) (dyaw, dpitch float64, ok bool) {
	if p == nil || p.Locked || p.Offset.IsZero() {
		return 0, 0, false
	}
	half := p.Viewport.Half()
	if half.X <= 0 || half.Y <= 0 {
		return 0, 0, false
	}

	tanHalf := math.Tan(proj.FOV / 2)
	dyaw = math.Atan(proj.Aspect * tanHalf * p.Offset.X / half.X)
	dpitch = math.Atan(math.Cos(dyaw) * tanHalf * p.Offset.Y / half.Y)
	return dyaw, dpitch, true
}

// LookDirection вычисляет направление взгляда. Поправка от указателя применяется
// к оси взгляда до поворота камеры; обратный порядок даёт другой блок при наклонённой камере.
func LookDirection(pose CameraPose, pointer *Pointer) mgl64.Vec3 {
	look := forward
	if dyaw, dpitch, ok := pointerAngles(pose.Projection, pointer); ok {
		look = rotation(dpitch, dyaw).Mul3x1(look)
	}
	look = rotation(pose.Pitch, pose.Yaw).Mul3x1(look)
	return clampDirection(look)
}

// clampDirection заменяет слишком малые компоненты на ±Epsilon, чтобы на них можно было делить.
// Это приближение, а не точная геометрия.
func clampDirection(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		if math.Abs(v[i]) < Epsilon {
			v[i] = math.Copysign(Epsilon, v[i])
		}
	}
	return v
}
