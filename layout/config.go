package layout

import (
	"errors"
	"fmt"

	"github.com/bodgit/cdg/tile"
)

// HighlightMode selects how lines are emphasized while sung.
type HighlightMode int

// Supported highlight modes
const (
	HighlightLine HighlightMode = iota
	HighlightWord
	HighlightOff
)

var highlightNames = map[HighlightMode]string{
	HighlightLine: "line",
	HighlightWord: "word",
	HighlightOff:  "off",
}

func (m HighlightMode) String() string {
	if s, ok := highlightNames[m]; ok {
		return s
	}
	return fmt.Sprintf("HighlightMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m HighlightMode) MarshalText() ([]byte, error) {
	if _, ok := highlightNames[m]; !ok {
		return nil, fmt.Errorf("layout: invalid highlight mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *HighlightMode) UnmarshalText(b []byte) error {
	for k, v := range highlightNames {
		if v == string(b) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("layout: unknown highlight mode %q", b)
}

// Config holds the tunable timing and placement of lines. All times are in
// seconds.
type Config struct {
	// Rows are the top tile rows of each line slot, used in rotation
	Rows []int `yaml:"rows"`

	// FirstClearThreshold is the earliest first line start that gets a
	// screen clear of its own
	FirstClearThreshold float64 `yaml:"first_clear_threshold"`

	// FirstClearLead is how long before the first line the screen is cleared
	FirstClearLead float64 `yaml:"first_clear_lead"`

	// SlotClearLead is how long before a line its reused slot is cleared
	SlotClearLead float64 `yaml:"slot_clear_lead"`

	Highlight        HighlightMode `yaml:"highlight"`
	WordHighlight    float64       `yaml:"word_highlight"`
	UnhighlightDelay float64       `yaml:"unhighlight_delay"`

	// ImageStart is the packet index of the first image tile
	ImageStart int `yaml:"image_start"`
}

// DefaultConfig returns the standard four slot layout.
func DefaultConfig() Config {
	return Config{
		Rows:                []int{5, 7, 9, 11},
		FirstClearThreshold: 1.0,
		FirstClearLead:      2.0,
		SlotClearLead:       0.5,
		Highlight:           HighlightLine,
		WordHighlight:       0.5,
		UnhighlightDelay:    0.1,
		ImageStart:          50,
	}
}

// Validate checks that every slot fits on screen and the timings are sane.
func (c Config) Validate() error {
	if len(c.Rows) == 0 {
		return errors.New("layout: no rows")
	}
	for _, r := range c.Rows {
		if r < 0 || r+tile.LineRows > tile.Rows {
			return fmt.Errorf("layout: row %d outside screen", r)
		}
	}
	if c.FirstClearLead < 0 || c.SlotClearLead < 0 || c.WordHighlight < 0 || c.UnhighlightDelay < 0 {
		return errors.New("layout: negative offset")
	}
	if c.ImageStart < introLength {
		return fmt.Errorf("layout: image must start at or after packet %d", introLength)
	}
	if _, ok := highlightNames[c.Highlight]; !ok {
		return fmt.Errorf("layout: invalid highlight mode %d", int(c.Highlight))
	}
	return nil
}
