package schematic

import (
	"errors"

	"github.com/annel0/world-editor/internal/world/block"
)

var (
	// ErrMalformedContainer — размеры не совпадают с длинами массивов или неположительны
	ErrMalformedContainer = errors.New("malformed legacy container")

	// ErrUnresolvableBlockState — пару (id, data) не удалось перевести в состояние блока
	ErrUnresolvableBlockState = block.ErrUnresolvableBlockState
)
