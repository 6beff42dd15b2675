package cdg

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/cdg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBError(t *testing.T) {
	// A directory cannot be opened as a database
	_, err := NewDB(t.TempDir())
	assert.Error(t, err)
}

func TestLoadCover(t *testing.T) {
	db := newDB(t)
	file := writePNG(t, filepath.Join(t.TempDir(), "cover.png"))

	first, err := db.LoadCover(file)
	require.NoError(t, err)

	second, err := db.LoadCover(file)
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
	assert.Equal(t, first.Bounds(), second.Bounds())

	var count int
	require.NoError(t, db.db.QueryRow("SELECT COUNT(*) FROM cover").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoadCoverErrors(t *testing.T) {
	db := newDB(t)

	_, err := db.LoadCover(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = db.LoadCover(writeFile(t, filepath.Join(t.TempDir(), "bad.png"), "not a png"))
	assert.Error(t, err)
}

func TestTranscripts(t *testing.T) {
	db := newDB(t)

	got, err := db.FindTranscript("ABCD")
	require.NoError(t, err)
	assert.Nil(t, got)

	tr := &transcript.Transcript{Words: []transcript.Word{{Text: "hi", Start: 1, End: 2}}}
	require.NoError(t, db.AddTranscript("ABCD", "song.mp3", tr))

	got, err = db.FindTranscript("ABCD")
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	tr.Words[0].Text = "hello"
	require.NoError(t, db.AddTranscript("ABCD", "song.mp3", tr))

	got, err = db.FindTranscript("ABCD")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Words[0].Text)
}
