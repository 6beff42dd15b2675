package cover

import (
	"errors"
	"image"
	"io"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *image.Paletted) error {
	// Write out pixel information
	row := make([]byte, pixelX>>1)
	for y := 0; y < pixelY; y++ {
		for x := 0; x < pixelX>>1; x++ {
			// This is masking off any bits leaving a 0-15 value
			row[x] = m.ColorIndexAt(x<<1, y)&0x0f<<4 | m.ColorIndexAt(x<<1+1, y)&0x0f
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	// Write out the palette, padded to 16 colors
	var tmp [paletteBytes]byte
	for i := 0; i < colorsPerPalette && i < len(m.Palette); i++ {
		r, g, b, _ := m.Palette[i].RGBA()

		tmp[i<<1] = byte(r >> 12 & 0x0f)
		tmp[i<<1+1] = byte(g>>8&0xf0 | b>>12&0x0f)
	}
	_, err := e.w.Write(tmp[:])

	return err
}

// Encode writes the Image m to w in cover cache format.
func Encode(w io.Writer, m *image.Paletted) error {
	b := m.Bounds()
	if b.Dx() != pixelX || b.Dy() != pixelY {
		return errors.New("cover: image is wrong size")
	}
	if len(m.Palette) > colorsPerPalette {
		return errors.New("cover: too many colors")
	}

	// Adjust image so that top-left corner is at (0, 0)
	if m.Rect.Min != (image.Point{}) {
		dup := *m
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		m = &dup
	}

	e := encoder{w: w}

	return e.encode(m)
}
