/*
Package palette builds the 16 entry CD+G color table.

Colors are 12-bit, four bits per channel, and are loaded onto the player in
two halves of eight with the Load Color Table instructions. Index 0 is always
the background and index 1 the lyric text color; one further index is
reserved for highlighting the line being sung.
*/
package palette

import (
	"image/color"
	"math"

	"github.com/bodgit/cdg/packet"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// Size is the number of entries in a color table
	Size = 16

	// Background is the index used for cleared tiles and tile backgrounds
	Background = 0

	// Text is the index used for unhighlighted lyrics
	Text = 1

	// Reserved is the index overwritten with the highlight color when the
	// palette is derived from an image
	Reserved = Size - 1

	half = Size / 2

	// near is the largest CIE L*a*b* distance at which an existing entry is
	// treated as the accent
	near = 0.1
)

// Palette is an ordered table of 16 colors.
type Palette [Size]packet.Color

func mustHex(s string) packet.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return fromColorful(c)
}

func fromColorful(c colorful.Color) packet.Color {
	c = c.Clamped()
	return packet.Color{
		R: uint8(math.Round(c.R * 15)),
		G: uint8(math.Round(c.G * 15)),
		B: uint8(math.Round(c.B * 15)),
	}
}

func toColorful(c packet.Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 15,
		G: float64(c.G) / 15,
		B: float64(c.B) / 15,
	}
}

// Distance returns the perceptual distance between a and b in CIE L*a*b*
// space.
func Distance(a, b packet.Color) float64 {
	return toColorful(a).DistanceLab(toColorful(b))
}

// Named colors used by the default palette.
var (
	Black  = mustHex("#000000")
	White  = mustHex("#ffffff")
	Red    = mustHex("#ff0000")
	Green  = mustHex("#00ff00")
	Accent = mustHex("#66aaff")
)

// Default returns the palette used when there is no image: black background,
// white text, a couple of spare colors and the accent used for
// highlighting at index 4. The remaining entries are black.
func Default() Palette {
	return Palette{
		Background: Black,
		Text:       White,
		2:          Red,
		3:          Green,
		4:          Accent,
	}
}

// Convert reduces c to four bits per channel by dropping the low bits.
func Convert(c color.Color) packet.Color {
	r, g, b, _ := c.RGBA()
	return packet.Color{
		R: uint8(r >> 12),
		G: uint8(g >> 12),
		B: uint8(b >> 12),
	}
}

// FromImage takes the first 16 entries of p verbatim, reduced to four bits
// per channel. Missing entries are black.
func FromImage(p color.Palette) Palette {
	var out Palette
	for i := 0; i < Size && i < len(p); i++ {
		out[i] = Convert(p[i])
	}
	return out
}

// ReserveHighlight returns p with a slot holding the accent color along
// with that slot's index. If an entry other than the background and text is
// already close enough to the accent the nearest one is used unchanged,
// otherwise the last index of the high half is overwritten.
func ReserveHighlight(p Palette) (Palette, int) {
	best, dist := -1, near
	for i := Text + 1; i < Size; i++ {
		if d := Distance(p[i], Accent); d <= dist {
			best, dist = i, d
		}
	}
	if best >= 0 {
		return p, best
	}
	p[Reserved] = Accent
	return p, Reserved
}

// Instructions returns the two Load Color Table instructions, low half first.
func (p Palette) Instructions() [2]packet.LoadColorTable {
	var low, high packet.LoadColorTable
	high.High = true
	copy(low.Colors[:], p[:half])
	copy(high.Colors[:], p[half:])
	return [2]packet.LoadColorTable{low, high}
}

// RGBA returns the palette as an 8-bit color.Palette, each 4-bit channel
// scaled by 17 so that 15 becomes 255.
func (p Palette) RGBA() color.Palette {
	out := make(color.Palette, Size)
	for i, c := range p {
		out[i] = color.RGBA{c.R * 17, c.G * 17, c.B * 17, 0xff}
	}
	return out
}
