package transcript

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	in := `{"song_duration": 2.0, "words": [{"word": "Hi", "start": 1.0, "end": 1.5}]}`

	tr, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2.0, tr.SongDuration)
	assert.Equal(t, []Word{{Text: "Hi", Start: 1.0, End: 1.5}}, tr.Words)

	buf := new(bytes.Buffer)
	require.NoError(t, tr.Write(buf))
	assert.Contains(t, buf.String(), `"song_duration": 2`)
	assert.Contains(t, buf.String(), `"word": "Hi"`)

	_, err = Read(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "song.json")
	tr := &Transcript{
		SongDuration: 10,
		Words: []Word{
			{Text: "<rock & roll>", Start: 1, End: 2},
			{Text: "again", Start: 2.5, End: 3},
		},
	}
	require.NoError(t, tr.Save(file))

	got, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tr := &Transcript{
		Words: []Word{
			{Text: " b ", Start: 2, End: 1},
			{Text: "  ", Start: 0, End: 1},
			{Text: "a", Start: 1, End: 1.5},
			{Text: "c", Start: 2, End: 3},
		},
	}
	tr.Normalize()

	assert.Equal(t, []Word{
		{Text: "a", Start: 1, End: 1.5},
		{Text: "b", Start: 2, End: 2},
		{Text: "c", Start: 2, End: 3},
	}, tr.Words)
}

func TestOffset(t *testing.T) {
	tr := &Transcript{SongDuration: 5, Words: []Word{{Text: "a", Start: 1, End: 2}}}
	tr.Offset(2)

	assert.Equal(t, 7.0, tr.SongDuration)
	assert.Equal(t, Word{Text: "a", Start: 3, End: 4}, tr.Words[0])
}

func TestClone(t *testing.T) {
	tr := &Transcript{
		SongDuration: 2,
		Words:        []Word{{Text: "a", Start: 0, End: 1}},
	}

	c := tr.Clone()
	assert.Equal(t, tr, c)

	c.Words[0].Text = "b"
	c.Offset(1)
	assert.Equal(t, "a", tr.Words[0].Text)
	assert.Equal(t, 2.0, tr.SongDuration)
}
