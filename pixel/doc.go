// Package pixel implements the color formats understood by the ILI9341
// serial interface.
//
// This module provides additional color models, compatible with Go's native
// [color.Color] and [image.Image] / [draw.Image] interfaces, together with
// the big-endian wire encoding the panel expects.
package pixel
