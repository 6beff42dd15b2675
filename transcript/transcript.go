/*
Package transcript holds word level timed lyrics and reads and writes them as
a JSON document of the form:

	{
	  "song_duration": 215.3,
	  "words": [
	    {"word": "Hello", "start": 12.1, "end": 12.6},
	    ...
	  ]
	}

All times are in seconds from the start of the audio.
*/
package transcript

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrNoLyrics is returned when a source yields no usable words
var ErrNoLyrics = errors.New("transcript: no lyrics")

// Word is a single sung word with its start and end time.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the full set of words for a song.
type Transcript struct {
	SongDuration float64 `json:"song_duration"`
	Words        []Word  `json:"words"`
}

// Read decodes a JSON transcript from r.
func Read(r io.Reader) (*Transcript, error) {
	t := new(Transcript)
	if err := json.NewDecoder(r).Decode(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Write encodes t to w as indented JSON.
func (t *Transcript) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(t)
}

// Load reads a JSON transcript from file.
func Load(file string) (*Transcript, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Save writes t to file, replacing any existing contents.
func (t *Transcript) Save(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Normalize trims every word, drops empty ones, raises any end time that
// falls before its start and orders the words by start time. Words with the
// same start keep their relative order.
func (t *Transcript) Normalize() {
	words := t.Words[:0]
	for _, w := range t.Words {
		w.Text = strings.TrimSpace(w.Text)
		if w.Text == "" {
			continue
		}
		if w.End < w.Start {
			w.End = w.Start
		}
		words = append(words, w)
	}

	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Start < words[j].Start
	})

	t.Words = words
}

// Clone returns a copy of t that shares nothing with it.
func (t *Transcript) Clone() *Transcript {
	c := *t
	c.Words = append([]Word(nil), t.Words...)
	return &c
}

// Offset shifts every word, and the duration, by d seconds.
func (t *Transcript) Offset(d float64) {
	for i := range t.Words {
		t.Words[i].Start += d
		t.Words[i].End += d
	}
	t.SongDuration += d
}
