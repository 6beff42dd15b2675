/*
Package tile implements the CD+G tile rasterizer.

The screen is defined as 300 by 216 pixels exactly which is split into a grid
of 50 by 18 tiles, each 6 pixels wide and 12 pixels tall. A tile is drawn
with only two colors so it is stored as twelve 6-bit rows where bit 5 is the
leftmost pixel and bit 0 the rightmost.

Rasterizing is pure: the same pixels always produce the same tiles and any
part of a tile that falls outside the supplied image is treated as off.
*/
package tile

import "github.com/bodgit/cdg/packet"

const (
	// Width is the width of a tile in pixels
	Width = 6
	// Height is the height of a tile in pixels
	Height = 12
	// Columns is the number of tiles across the screen
	Columns = 50
	// Rows is the number of tiles down the screen
	Rows = 18
	// PixelX is the width of the screen in pixels
	PixelX = Width * Columns
	// PixelY is the height of the screen in pixels
	PixelY = Height * Rows
	// Threshold is the greyscale intensity a pixel must exceed to be on
	Threshold = 128

	numTiles = Columns * Rows
	leftmost = Width - 1
)

// Block is a tile positioned on a grid of tiles.
type Block struct {
	Row    int
	Column int
	Bitmap packet.Bitmap
}

// Blank reports whether no pixel in the tile is on.
func Blank(b packet.Bitmap) bool {
	for _, row := range b {
		if row != 0 {
			return false
		}
	}
	return true
}

func bitmap(x0, y0 int, on func(x, y int) bool) packet.Bitmap {
	var b packet.Bitmap
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if on(x0+x, y0+y) {
				b[y] |= 1 << uint(leftmost-x)
			}
		}
	}
	return b
}
