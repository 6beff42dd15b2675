// Package lyrics groups timed words into the lines shown on screen.
package lyrics

import (
	"strings"
	"unicode/utf8"

	"github.com/bodgit/cdg/transcript"
)

const (
	// DefaultMaxChars is the default maximum length of a line in characters
	DefaultMaxChars = 40

	// DefaultMaxWords is the default maximum number of words in a line
	DefaultMaxWords = 6
)

// Line is a group of consecutive words displayed together.
type Line struct {
	Words []transcript.Word
	Text  string
	Start float64
	End   float64
}

func newLine(words []transcript.Word) Line {
	text := make([]string, len(words))
	for i, w := range words {
		text[i] = w.Text
	}
	return Line{
		Words: words,
		Text:  strings.Join(text, " "),
		Start: words[0].Start,
		End:   words[len(words)-1].End,
	}
}

// Group packs words greedily into lines. The current line is closed before
// a word when adding it would take the text over maxChars characters, or when
// the line already holds maxWords words. A non-positive limit is ignored.
// Words that are empty or only whitespace are dropped. A word longer than
// maxChars still gets a line of its own.
func Group(words []transcript.Word, maxChars, maxWords int) []Line {
	var (
		lines   []Line
		current []transcript.Word
		text    string
	)

	for _, w := range words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}

		test := w.Text
		if len(current) > 0 {
			test = text + " " + w.Text
		}

		if len(current) > 0 &&
			((maxChars > 0 && utf8.RuneCountInString(test) > maxChars) ||
				(maxWords > 0 && len(current) >= maxWords)) {
			lines = append(lines, newLine(current))
			current, test = nil, w.Text
		}

		current = append(current, w)
		text = test
	}

	if len(current) > 0 {
		lines = append(lines, newLine(current))
	}

	return lines
}
