package cdg

import (
	"archive/zip"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteZip(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "x.bin"), "contents of a")
	b := writeFile(t, filepath.Join(dir, "y.bin"), "contents of b")
	file := filepath.Join(dir, "out.zip")

	require.NoError(t, writeZip(file, zipEntry{name: "song.cdg", file: a}, zipEntry{name: "song.mp3", file: b}))

	r, err := zip.OpenReader(file)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.File, 2)
	assert.Equal(t, "song.cdg", r.File[0].Name)

	rc, err := r.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()

	got, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "contents of b", string(got))
}

func TestWriteZipMissing(t *testing.T) {
	dir := t.TempDir()
	err := writeZip(filepath.Join(dir, "out.zip"), zipEntry{name: "a", file: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
