package game

import (
	"image/color"
	"reflect"
)

// Surface is the 2D target a frame is drawn into.
type Surface interface {
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
}

var (
	PlayerColor   = color.RGBA{0x4f, 0x46, 0xe5, 0xff}
	ObstacleColor = color.RGBA{0xef, 0x44, 0x44, 0xff}
)

// missing reports whether surf is nil, including a nil pointer stored in the
// interface.
func missing(surf Surface) bool {
	if surf == nil {
		return true
	}
	v := reflect.ValueOf(surf)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
