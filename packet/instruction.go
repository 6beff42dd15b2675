package packet

// Instruction is one graphics instruction. The set of implementations is
// closed; NoOp, MemoryPreset, BorderPreset, LoadColorTable and TileBlock are
// the only ones.
type Instruction interface {
	Opcode() Opcode
	instruction()
}

// NoOp does nothing for one packet period.
type NoOp struct{}

// MemoryPreset clears the whole screen to Color. Repeat counts 0-15 so a
// player can skip the duplicates it has already seen.
type MemoryPreset struct {
	Color  uint8
	Repeat uint8
}

// BorderPreset sets the border area to Color.
type BorderPreset struct {
	Color uint8
}

// LoadColorTable loads eight colors into either the low (0-7) or high
// (8-15) half of the color table.
type LoadColorTable struct {
	High   bool
	Colors [8]Color
}

// Bitmap holds the twelve rows of a 6x12 tile, bit 5 being the leftmost
// pixel of each row.
type Bitmap [12]uint8

// TileBlock draws a 6x12 tile at the given row and column, using
// Foreground for set bits and Background for clear bits. With XOR set the
// colors are XORed into the existing screen contents instead.
type TileBlock struct {
	Background uint8
	Foreground uint8
	Row        uint8
	Column     uint8
	Bitmap     Bitmap
	XOR        bool
}

func (NoOp) Opcode() Opcode         { return OpNoOp }
func (MemoryPreset) Opcode() Opcode { return OpMemoryPreset }
func (BorderPreset) Opcode() Opcode { return OpBorderPreset }

func (l LoadColorTable) Opcode() Opcode {
	if l.High {
		return OpLoadColorHigh
	}
	return OpLoadColorLow
}

func (t TileBlock) Opcode() Opcode {
	if t.XOR {
		return OpTileBlockXOR
	}
	return OpTileBlock
}

func (NoOp) instruction()           {}
func (MemoryPreset) instruction()   {}
func (BorderPreset) instruction()   {}
func (LoadColorTable) instruction() {}
func (TileBlock) instruction()      {}

// Color is a 12-bit RGB color, four bits per channel.
type Color struct {
	R, G, B uint8
}

// Pack returns the color as two 6-bit bytes laid out as 00RRRRGG 00GGBBBB.
func (c Color) Pack() (byte, byte) {
	r, g, b := c.R&0x0f, c.G&0x0f, c.B&0x0f
	return (r<<2 | g>>2) & mask, ((g&0x03)<<4 | b) & mask
}

// UnpackColor reverses Pack.
func UnpackColor(high, low byte) Color {
	high &= mask
	low &= mask
	return Color{
		R: high >> 2,
		G: (high&0x03)<<2 | low>>4,
		B: low & 0x0f,
	}
}
