package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lrc = `[ar:Somebody]
[ti:Something]

[00:04.00]second line here
[00:01.50]first line
[00:10.250]
[01:02.5][01:10.00]chorus
not a lyric
`

func TestParseLRC(t *testing.T) {
	lines, err := ParseLRC(strings.NewReader(lrc))
	require.NoError(t, err)

	assert.Equal(t, []Line{
		{Time: 1.5, Text: "first line"},
		{Time: 4, Text: "second line here"},
		{Time: 62.5, Text: "chorus"},
		{Time: 70, Text: "chorus"},
	}, lines)
}

func TestFromLRC(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		want     float64
	}{
		{"default", 0, 9},
		{"explicit", 20, 20},
	}

	lines := []Line{
		{Time: 1, Text: "one two"},
		{Time: 4, Text: "three four five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := FromLRC(lines, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.SongDuration)

			require.Len(t, tr.Words, 5)
			assert.Equal(t, Word{Text: "one", Start: 1, End: 2.5}, tr.Words[0])
			assert.Equal(t, Word{Text: "two", Start: 2.5, End: 4}, tr.Words[1])
			assert.Equal(t, Word{Text: "three", Start: 4, End: 5}, tr.Words[2])
			assert.Equal(t, Word{Text: "five", Start: 6, End: 7}, tr.Words[4])
		})
	}
}

func TestFromLRCEmpty(t *testing.T) {
	_, err := FromLRC(nil, 0)
	assert.Equal(t, ErrNoLyrics, err)

	_, err = ReadLRC(strings.NewReader("[ar:Nobody]\n"), 0)
	assert.Equal(t, ErrNoLyrics, err)
}
