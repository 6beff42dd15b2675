package cover

import (
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotEnough = errors.New("cover: not enough image data")
	errTooMuch   = errors.New("cover: too much image data")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func upperNibble(b byte) byte {
	return b & 0xf0
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

type decoder struct {
	r io.Reader

	image   *image.Paletted
	palette color.Palette

	tmp [Size]byte
}

func (d *decoder) readPalette() {
	d.palette = make(color.Palette, colorsPerPalette)
	p := d.tmp[pixelBytes:]
	for i := range d.palette {
		// Color is packed as 0000RRRRGGGGBBBB, scale each nibble to 8 bits
		d.palette[i] = color.RGBA{
			lowerNibble(p[i<<1]) * 0x11,
			upperNibble(p[i<<1+1]) >> 4 * 0x11,
			lowerNibble(p[i<<1+1]) * 0x11,
			0xff,
		}
	}
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := readFull(d.r, d.tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if n, err := r.Read(d.tmp[:1]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return err
		}
		return errTooMuch
	}

	d.readPalette()

	if configOnly {
		return nil
	}

	d.image = image.NewPaletted(image.Rect(0, 0, pixelX, pixelY), d.palette)

	for y := 0; y < pixelY; y++ {
		for x := 0; x < pixelX>>1; x++ {
			i := y*pixelX>>1 + x
			d.image.SetColorIndex(x<<1+0, y, upperNibble(d.tmp[i])>>4)
			d.image.SetColorIndex(x<<1+1, y, lowerNibble(d.tmp[i]))
		}
	}

	return nil
}

// Decode reads a cached cover from r and returns it as an image.Paletted.
func Decode(r io.Reader) (*image.Paletted, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a cached cover
// without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      pixelX,
		Height:     pixelY,
	}, nil
}
