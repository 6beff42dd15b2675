/*
Package glyph renders lines of lyric text into greyscale canvases ready to be
rasterized into tiles.

A canvas is 48 tiles wide and two tiles tall (288 by 24 pixels) and the text
is centered horizontally with its baseline at pixel row 19. Anti-aliased
edges are kept as grey levels; the tile rasterizer applies the threshold.
*/
package glyph

import (
	"fmt"
	"image"
	"io/ioutil"
	"sync"

	"github.com/bodgit/cdg/tile"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// CanvasColumns is the width of a canvas in tiles
	CanvasColumns = 48

	// CanvasWidth is the width of a canvas in pixels
	CanvasWidth = CanvasColumns * tile.Width

	// CanvasHeight is the height of a canvas in pixels
	CanvasHeight = tile.LineRows * tile.Height

	// DefaultSize is the default font size in points
	DefaultSize = 12

	baseline = 19
	dpi      = 72
)

// Renderer draws text with a single font face. It is safe for concurrent
// use.
type Renderer struct {
	mu   sync.Mutex
	face font.Face
}

func newRenderer(b []byte, size float64) (*Renderer, error) {
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("glyph: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: %w", err)
	}

	return &Renderer{face: face}, nil
}

// New returns a Renderer using the bundled Go Bold font at the given size.
func New(size float64) (*Renderer, error) {
	return newRenderer(gobold.TTF, size)
}

// NewFromFile returns a Renderer using the TrueType or OpenType font in
// file at the given size.
func NewFromFile(file string, size float64) (*Renderer, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return newRenderer(b, size)
}

// Render draws text centered on a fresh canvas. Text wider than the canvas
// is clipped on both sides.
func (r *Renderer) Render(text string) *image.Gray {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := image.NewGray(image.Rect(0, 0, CanvasWidth, CanvasHeight))

	d := font.Drawer{
		Dst:  m,
		Src:  image.White,
		Face: r.face,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(CanvasWidth) - width) / 2,
		Y: fixed.I(baseline),
	}
	d.DrawString(text)

	return m
}

// Close releases the font face.
func (r *Renderer) Close() error {
	return r.face.Close()
}
