package cdg

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bodgit/cdg/transcript"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type fakeAudio struct {
	mu       sync.Mutex
	duration float64
	padded   []float64
}

func (a *fakeAudio) ProbeDuration(ctx context.Context, in string) (float64, error) {
	return a.duration, nil
}

func (a *fakeAudio) ExtractWAV(ctx context.Context, in, out string) error {
	return ioutil.WriteFile(out, []byte("RIFF"), 0o644)
}

func (a *fakeAudio) PadSilence(ctx context.Context, in, out string, seconds float64) error {
	a.mu.Lock()
	a.padded = append(a.padded, seconds)
	a.mu.Unlock()

	b, err := ioutil.ReadFile(in)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(out, b, 0o644)
}

type fakeASR struct {
	mu    sync.Mutex
	words []transcript.Word
	calls int
}

func (a *fakeASR) Transcribe(ctx context.Context, wav, dir string) ([]transcript.Word, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++

	words := make([]transcript.Word, len(a.words))
	copy(words, a.words)
	return words, nil
}

func newLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func newGenerator(t *testing.T, db *DB, deps Deps) (*Generator, *test.Hook) {
	t.Helper()
	logger, hook := newLogger()

	g, err := New(db, DefaultOptions(), deps, logger)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	return g, hook
}

func newDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "cdg.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func writeFile(t *testing.T, file, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, ioutil.WriteFile(file, []byte(content), 0o644))
	return file
}

func writePNG(t *testing.T, file string) string {
	t.Helper()

	m := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			m.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 5), 0x40, 0xff})
		}
	}

	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))

	return file
}
