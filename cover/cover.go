/*
Package cover implements quantizing of a still image for display behind the
lyrics, and a compact encoder and decoder for caching the result.

The image is resized to the full 300 by 216 pixel screen and reduced to at
most 15 colors, leaving the last palette entry free for the highlight color.

The encoded form is 32400 bytes of pixel information, a 4-bit index for each
pixel with the leftmost of each pair in the upper nibble, followed by a 32
byte palette of 16 colors where each color is stored as a big-endian 16-bit
value packed as 0000RRRRGGGGBBBB. There is no compression so the resulting
file is always 32432 bytes in size.
*/
package cover

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/bodgit/cdg/tile"
	"github.com/disintegration/gift"
	"github.com/ericpauley/go-quantize/quantize"
)

const (
	pixelX           = tile.PixelX
	pixelY           = tile.PixelY
	numPixels        = pixelX * pixelY
	pixelBytes       = numPixels >> 1
	colorsPerPalette = 16
	paletteBytes     = colorsPerPalette << 1

	// MaxColors is the number of colors an image is quantized to
	MaxColors = colorsPerPalette - 1

	// Size is the length in bytes of an encoded image
	Size = pixelBytes + paletteBytes
)

func padPalette(p color.Palette) color.Palette {
	for len(p) < colorsPerPalette {
		p = append(p, color.RGBA{0, 0, 0, 0xff})
	}
	return p
}

// Quantize resizes m to fill the screen and reduces it to no more than
// MaxColors colors. The returned palette always has 16 entries.
func Quantize(m image.Image) *image.Paletted {
	b := image.Rect(0, 0, pixelX, pixelY)

	g := gift.New(gift.Resize(pixelX, pixelY, gift.LanczosResampling))
	resized := image.NewRGBA(g.Bounds(m.Bounds()))
	g.Draw(resized, m)

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, MaxColors), resized)
	if len(p) == 0 {
		p = color.Palette{color.RGBA{0, 0, 0, 0xff}}
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, resized, resized.Bounds().Min, draw.Src)
	pm.Palette = padPalette(pm.Palette)

	return pm
}

// Load decodes an image in any registered format from r and quantizes it.
func Load(r io.Reader) (*image.Paletted, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return Quantize(m), nil
}
