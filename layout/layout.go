/*
Package layout schedules the instructions that show lyrics on screen.

Lines rotate through a fixed set of two tile high slots. Each line is drawn
in the text color at its start time, redrawn in the highlight color and then
drawn again in the text color once it has been sung. Before a slot is reused
its two rows are blanked.

The scheduler only ever writes to a timeline, so the order writes are made in
decides what is finally shown:

 1. The palette, a full screen clear and the border at the very start.
 2. The static image, if it can be shown in full before the first line.
 3. A full screen clear ahead of the first line.
 4. For each line in order, the slot clear, draw, highlight and unhighlight.

Every write lands after the one before it, so nothing is ever overwritten.
A pass that cannot happen at its own time is pushed later, apart from a
line's unhighlight which is pulled earlier to finish before the next line
starts.
*/
package layout

import (
	"fmt"
	"image"

	"github.com/bodgit/cdg/lyrics"
	"github.com/bodgit/cdg/packet"
	"github.com/bodgit/cdg/palette"
	"github.com/bodgit/cdg/tile"
	"github.com/bodgit/cdg/timeline"
)

const (
	// presets is the number of memory presets making up a screen clear
	presets = 16

	// introLength covers two palette loads, a clear and the border
	introLength = 2 + presets + 1

	// None marks an index in a Placement that was not written
	None = -1
)

// Owners recorded against timeline writes
const (
	OwnerIntro = "intro"
	OwnerImage = "image"
	OwnerClear = "clear"
)

// GlyphRasterSource renders a line of text to a greyscale canvas with the
// text already centered.
type GlyphRasterSource interface {
	Render(text string) *image.Gray
}

// Placement records where and when a line was scheduled.
type Placement struct {
	Line   int
	Slot   int
	Row    int
	Column int
	Tiles  int

	Clear       int
	Draw        int
	Highlight   int
	Unhighlight int

	// Last is the index of the final write for the line
	Last int
}

// Plan describes everything Schedule wrote.
type Plan struct {
	ImageShown bool
	FirstClear int
	Lines      []Placement
}

// Scheduler lays lines out on a timeline.
type Scheduler struct {
	cfg    Config
	glyphs GlyphRasterSource
}

// New returns a Scheduler using cfg that renders text with glyphs.
func New(cfg Config, glyphs GlyphRasterSource) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		glyphs: glyphs,
	}
}

func lineOwner(i int) string {
	return fmt.Sprintf("line %d", i)
}

func (s *Scheduler) intro(tl *timeline.Timeline, pal palette.Palette) int {
	i := 0
	for _, ins := range pal.Instructions() {
		tl.Put(i, ins, OwnerIntro)
		i++
	}
	i = s.clear(tl, i, OwnerIntro)
	tl.Put(i, packet.BorderPreset{Color: palette.Background}, OwnerIntro)
	return i + 1
}

func (s *Scheduler) clear(tl *timeline.Timeline, at int, owner string) int {
	for r := 0; r < presets; r++ {
		tl.Put(at+r, packet.MemoryPreset{Color: palette.Background, Repeat: uint8(r)}, owner)
	}
	return at + presets
}

// limit returns the index everything ahead of the first line must finish by.
func limit(tl *timeline.Timeline, lines []lyrics.Line) int {
	if len(lines) == 0 {
		return tl.Len()
	}
	return max(tl.Index(lines[0].Start), introLength)
}

// ImageFits reports whether an image of n tiles can be drawn in full, and
// cleared again, before the first line is drawn.
func (s *Scheduler) ImageFits(tl *timeline.Timeline, lines []lyrics.Line, n int) bool {
	return n > 0 && s.cfg.ImageStart+n+presets <= limit(tl, lines)
}

func (s *Scheduler) image(tl *timeline.Timeline, lines []lyrics.Line, img []tile.ImageBlock) bool {
	if !s.ImageFits(tl, lines, len(img)) {
		return false
	}
	for i, b := range img {
		tl.Put(s.cfg.ImageStart+i, b.Instruction(0, 0, b.Background, b.Foreground), OwnerImage)
	}
	return true
}

func (s *Scheduler) clearSlot(tl *timeline.Timeline, at, row int, owner string) {
	i := at
	for r := row; r < row+tile.LineRows; r++ {
		for c := 0; c < tile.Columns; c++ {
			tl.Put(i, packet.TileBlock{
				Background: palette.Background,
				Foreground: palette.Background,
				Row:        uint8(r),
				Column:     uint8(c),
			}, owner)
			i++
		}
	}
}

func (s *Scheduler) draw(tl *timeline.Timeline, at int, blocks []tile.Block, row, col int, fg uint8, owner string) int {
	for k, b := range blocks {
		tl.Put(at+k, b.Instruction(row, col, palette.Background, fg), owner)
	}
	return at + len(blocks)
}

// firstWrite returns the index line i would first write at if nothing
// earlier were in the way.
func (s *Scheduler) firstWrite(tl *timeline.Timeline, line lyrics.Line, i int) int {
	if i >= len(s.cfg.Rows) {
		return tl.Index(line.Start - s.cfg.SlotClearLead)
	}
	return tl.Index(line.Start)
}

// Schedule writes the intro, the optional image and every line to tl and
// returns a description of what was placed where. Lines must be in
// chronological order. The highlight color is palette index highlight.
func (s *Scheduler) Schedule(tl *timeline.Timeline, lines []lyrics.Line, pal palette.Palette, highlight int, img []tile.ImageBlock) Plan {
	plan := Plan{FirstClear: None}

	end := s.intro(tl, pal)
	deadline := limit(tl, lines)

	if s.image(tl, lines, img) {
		plan.ImageShown = true
		end = s.cfg.ImageStart + len(img)
	}

	if len(lines) > 0 && (plan.ImageShown || lines[0].Start >= s.cfg.FirstClearThreshold) {
		at := max(end, tl.Index(lines[0].Start-s.cfg.FirstClearLead))
		if at+presets > deadline {
			at = deadline - presets
		}
		if at >= end {
			s.clear(tl, at, OwnerClear)
			plan.FirstClear = at
		}
	}

	cursor := end
	if plan.FirstClear != None {
		cursor = plan.FirstClear + presets
	}

	slots := len(s.cfg.Rows)
	for i, line := range lines {
		owner := lineOwner(i)

		canvas := tile.Line(s.glyphs.Render(line.Text))
		blocks := tile.TrimBlank(canvas)

		p := Placement{
			Line:        i,
			Slot:        i % slots,
			Row:         s.cfg.Rows[i%slots],
			Column:      (tile.Columns - tile.Span(canvas)) / 2,
			Tiles:       len(blocks),
			Clear:       None,
			Draw:        None,
			Highlight:   None,
			Unhighlight: None,
			Last:        None,
		}

		if i >= slots {
			p.Clear = max(tl.Index(line.Start-s.cfg.SlotClearLead), cursor)
			s.clearSlot(tl, p.Clear, p.Row, owner)
			cursor = p.Clear + tile.LineRows*tile.Columns
			p.Last = cursor - 1
		}

		if len(blocks) > 0 {
			p.Draw = max(tl.Index(line.Start), cursor)
			cursor = s.draw(tl, p.Draw, blocks, p.Row, p.Column, palette.Text, owner)

			var from, until float64
			switch s.cfg.Highlight {
			case HighlightLine:
				from, until = line.Start, line.End+s.cfg.UnhighlightDelay
			case HighlightWord:
				from = line.Start
				if len(line.Words) > 0 {
					from = line.Words[0].Start
				}
				until = from + s.cfg.WordHighlight
			}

			if s.cfg.Highlight != HighlightOff {
				p.Highlight = max(tl.Index(from), cursor)
				cursor = s.draw(tl, p.Highlight, blocks, p.Row, p.Column, uint8(highlight), owner)

				// The unhighlight has to be finished before the next line
				// starts writing
				p.Unhighlight = max(tl.Index(until), cursor)
				if i+1 < len(lines) {
					if bound := s.firstWrite(tl, lines[i+1], i+1) - len(blocks); p.Unhighlight > bound {
						p.Unhighlight = max(bound, cursor)
					}
				}
				cursor = s.draw(tl, p.Unhighlight, blocks, p.Row, p.Column, palette.Text, owner)
			}

			p.Last = cursor - 1
		}

		plan.Lines = append(plan.Lines, p)
	}

	return plan
}
