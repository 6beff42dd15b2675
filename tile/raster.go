package tile

import (
	"image"

	"github.com/bodgit/cdg/packet"
)

// LineRows is the number of tile rows occupied by one line of text
const LineRows = 2

func greyOn(m *image.Gray) func(x, y int) bool {
	return func(x, y int) bool {
		if !(image.Point{x, y}).In(m.Rect) {
			return false
		}
		return m.Pix[m.PixOffset(x, y)] > Threshold
	}
}

// Rasterize converts a grid of cols by rows tiles, with the top-left pixel
// of the first tile at origin, into blocks ordered row by row. A pixel is on
// if its intensity exceeds Threshold.
func Rasterize(m *image.Gray, origin image.Point, cols, rows int) []Block {
	on := greyOn(m)
	blocks := make([]Block, 0, cols*rows)
	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			blocks = append(blocks, Block{
				Row:    ty,
				Column: tx,
				Bitmap: bitmap(origin.X+tx*Width, origin.Y+ty*Height, on),
			})
		}
	}
	return blocks
}

// Line rasterizes a rendered line of text. The canvas is expected to be
// LineRows tiles tall with the text already positioned; it is split into
// tiles column by column, the top tile of each column before the bottom one.
// Row is 0 or 1 and Column counts from the left edge of the canvas.
func Line(m *image.Gray) []Block {
	b := m.Bounds()
	cols := (b.Dx() + Width - 1) / Width

	on := greyOn(m)
	blocks := make([]Block, 0, cols*LineRows)
	for tx := 0; tx < cols; tx++ {
		for ty := 0; ty < LineRows; ty++ {
			blocks = append(blocks, Block{
				Row:    ty,
				Column: tx,
				Bitmap: bitmap(b.Min.X+tx*Width, b.Min.Y+ty*Height, on),
			})
		}
	}
	return blocks
}

// Span returns the number of tile columns covered by blocks, which is
// one more than the largest column.
func Span(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.Column+1 > n {
			n = b.Column + 1
		}
	}
	return n
}

// TrimBlank drops the leading and trailing columns whose tiles are all
// blank. Blocks keep their original column numbers.
func TrimBlank(blocks []Block) []Block {
	lit := make(map[int]bool)
	for _, b := range blocks {
		if !Blank(b.Bitmap) {
			lit[b.Column] = true
		}
	}
	if len(lit) == 0 {
		return nil
	}

	first, last := -1, -1
	for c := range lit {
		if first == -1 || c < first {
			first = c
		}
		if c > last {
			last = c
		}
	}

	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Column >= first && b.Column <= last {
			out = append(out, b)
		}
	}
	return out
}

// ImageBlock is a screen tile from an indexed image along with the two
// palette indices it should be drawn with.
type ImageBlock struct {
	Block
	Background uint8
	Foreground uint8
}

func halves(m *image.Paletted, x0, y0 int) (uint8, uint8) {
	var low, high [8]int
	for y := y0; y < y0+Height; y++ {
		for x := x0; x < x0+Width; x++ {
			i := uint8(0)
			if (image.Point{x, y}).In(m.Rect) {
				i = m.ColorIndexAt(x, y) & 0x0f
			}
			if i < 8 {
				low[i]++
			} else {
				high[i-8]++
			}
		}
	}

	bg, fg := 0, 0
	for i := range low {
		if low[i] > low[bg] {
			bg = i
		}
		if high[i] > high[fg] {
			fg = i
		}
	}
	return uint8(bg), uint8(fg + 8)
}

// Image converts a full screen indexed image into one block per screen
// tile, ordered row by row. A tile can only show two colors so each pixel's
// bit records whether its index is in the high half (8-15) of the palette.
// The tile is drawn with the most common low half index as background and
// the most common high half index as foreground.
func Image(m *image.Paletted) []ImageBlock {
	b := m.Bounds()
	on := func(x, y int) bool {
		if !(image.Point{x, y}).In(m.Rect) {
			return false
		}
		return m.ColorIndexAt(x, y)&0x0f >= 8
	}

	blocks := make([]ImageBlock, 0, numTiles)
	for ty := 0; ty < Rows; ty++ {
		for tx := 0; tx < Columns; tx++ {
			x, y := b.Min.X+tx*Width, b.Min.Y+ty*Height
			bg, fg := halves(m, x, y)
			blocks = append(blocks, ImageBlock{
				Block: Block{
					Row:    ty,
					Column: tx,
					Bitmap: bitmap(x, y, on),
				},
				Background: bg,
				Foreground: fg,
			})
		}
	}
	return blocks
}

// Instruction returns the tile block instruction that draws b at the given
// screen position offset.
func (b Block) Instruction(row, col int, bg, fg uint8) packet.TileBlock {
	return packet.TileBlock{
		Background: bg,
		Foreground: fg,
		Row:        uint8(row + b.Row),
		Column:     uint8(col + b.Column),
		Bitmap:     b.Bitmap,
	}
}
