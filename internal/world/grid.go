package world

import (
	"fmt"

	"github.com/annel0/world-editor/internal/vec"
)

// VoxelGrid — плотный трёхмерный массив индексов палитры.
// Линейный порядок [y][z][x]: высота снаружи, затем длина (z), затем ширина (x).
type VoxelGrid struct {
	Height  int
	Length  int
	Width   int
	Indices []int
}

// NewVoxelGrid создаёт сетку заданного размера, заполненную индексом 0
func NewVoxelGrid(height, length, width int) (*VoxelGrid, error) {
	if height <= 0 || length <= 0 || width <= 0 {
		return nil, fmt.Errorf("неверный размер сетки %dx%dx%d", height, length, width)
	}
	return &VoxelGrid{
		Height:  height,
		Length:  length,
		Width:   width,
		Indices: make([]int, height*length*width),
	}, nil
}

// Size возвращает количество вокселей
func (g *VoxelGrid) Size() int {
	return g.Height * g.Length * g.Width
}

// Index возвращает линейный индекс ячейки
func (g *VoxelGrid) Index(x, y, z int) int {
	return x + z*g.Width + y*g.Width*g.Length
}

// Position возвращает координаты ячейки по линейному индексу
func (g *VoxelGrid) Position(i int) vec.Vec3 {
	layer := g.Width * g.Length
	return vec.Vec3{
		X: i % g.Width,
		Y: i / layer,
		Z: (i % layer) / g.Width,
	}
}

// Contains проверяет, лежит ли точка внутри сетки
func (g *VoxelGrid) Contains(x, y, z int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height && z >= 0 && z < g.Length
}

// At возвращает индекс палитры в ячейке
func (g *VoxelGrid) At(x, y, z int) (int, bool) {
	if !g.Contains(x, y, z) {
		return 0, false
	}
	return g.Indices[g.Index(x, y, z)], true
}

// Set записывает индекс палитры в ячейку
func (g *VoxelGrid) Set(x, y, z, index int) bool {
	if !g.Contains(x, y, z) {
		return false
	}
	g.Indices[g.Index(x, y, z)] = index
	return true
}

// Remap переназначает все индексы по таблице (после слияния палитр)
func (g *VoxelGrid) Remap(table []int) error {
	for i, idx := range g.Indices {
		if idx < 0 || idx >= len(table) {
			return fmt.Errorf("индекс %d в ячейке %d вне таблицы переназначения (%d)", idx, i, len(table))
		}
	}
	for i, idx := range g.Indices {
		g.Indices[i] = table[idx]
	}
	return nil
}
