package cdg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}

func TestSibling(t *testing.T) {
	dir := t.TempDir()
	lrc := writeFile(t, filepath.Join(dir, "a.lrc"), "")
	writeFile(t, filepath.Join(dir, "a.ogg"), "")
	writeFile(t, filepath.Join(dir, "cover.png"), "")

	assert.Equal(t, filepath.Join(dir, "a.ogg"), sibling(lrc, audioExtensions, ""))
	assert.Equal(t, filepath.Join(dir, "cover.png"), sibling(lrc, coverExtensions, "cover"))

	writeFile(t, filepath.Join(dir, "a.jpg"), "")
	assert.Equal(t, filepath.Join(dir, "a.jpg"), sibling(lrc, coverExtensions, "cover"))

	assert.Equal(t, "", sibling(filepath.Join(dir, "b.lrc"), audioExtensions, ""))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lrc"), "[00:10.00]first song\n")
	writeFile(t, filepath.Join(dir, "a.mp3"), "audio a")
	writeFile(t, filepath.Join(dir, "sub", "b.LRC"), "[00:10.00]second song\n")
	writeFile(t, filepath.Join(dir, "sub", "b.flac"), "audio b")
	writeFile(t, filepath.Join(dir, "c.lrc"), "[00:10.00]no audio\n")
	writeFile(t, filepath.Join(dir, ".hidden", "d.lrc"), "[00:10.00]hidden\n")
	writeFile(t, filepath.Join(dir, ".hidden", "d.mp3"), "audio d")

	fa := &fakeAudio{duration: 20}
	g, hook := newGenerator(t, nil, Deps{Audio: fa})

	require.NoError(t, g.Scan(context.Background(), dir))

	assert.True(t, exists(filepath.Join(dir, "a.cdg")))
	assert.True(t, exists(filepath.Join(dir, "a.zip")))
	assert.True(t, exists(filepath.Join(dir, "sub", "b.cdg")))
	assert.False(t, exists(filepath.Join(dir, "c.cdg")))
	assert.False(t, exists(filepath.Join(dir, ".hidden", "d.cdg")))
	assert.Len(t, fa.padded, 2)

	assert.Equal(t, []string{"a.cdg", "a.lrc", "a.mp3"}, zipNames(t, filepath.Join(dir, "a.zip")))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["file"] == filepath.Join(dir, "c.lrc") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestScanError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lrc"), "[ar:Nobody]\n")
	writeFile(t, filepath.Join(dir, "a.mp3"), "audio a")

	g, _ := newGenerator(t, nil, Deps{Audio: &fakeAudio{duration: 20}})

	assert.Error(t, g.Scan(context.Background(), dir))
}
