package cdg

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bodgit/cdg/packet"
	"github.com/bodgit/cdg/palette"
	"github.com/bodgit/cdg/stream"
	"github.com/bodgit/cdg/transcript"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	g, hook := newGenerator(t, nil, Deps{})

	tr := &transcript.Transcript{
		SongDuration: 2.0,
		Words:        []transcript.Word{{Text: "Hi", Start: 1.0, End: 1.5}},
	}
	res, err := g.Render(tr, "")
	require.NoError(t, err)

	require.Len(t, res.Instructions, 600)
	require.Len(t, res.Lines, 1)
	assert.Empty(t, res.Overwrites)
	assert.False(t, res.Plan.ImageShown)

	first := -1
	for i, ins := range res.Instructions {
		if ins.Opcode() == packet.OpTileBlock {
			first = i
			break
		}
	}
	assert.Equal(t, 300, first)

	low := res.Instructions[0].(packet.LoadColorTable)
	assert.Equal(t, palette.Default()[1], low.Colors[1])

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "Hi", entry.Data["text"])
}

func TestRenderLeavesTranscript(t *testing.T) {
	g, _ := newGenerator(t, nil, Deps{})

	words := []transcript.Word{
		{Text: " there ", Start: 1.5, End: 1.8},
		{Text: "", Start: 1.2, End: 1.3},
		{Text: "Hi", Start: 1.0, End: 1.4},
	}
	tr := &transcript.Transcript{
		SongDuration: 3.0,
		Words:        append([]transcript.Word(nil), words...),
	}

	res, err := g.Render(tr, "")
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "Hi there", res.Lines[0].Text)

	assert.Equal(t, words, tr.Words)
}

func TestRenderNoDuration(t *testing.T) {
	g, _ := newGenerator(t, nil, Deps{})

	_, err := g.Render(&transcript.Transcript{}, "")
	assert.Equal(t, errNoDuration, err)
}

func TestRenderCover(t *testing.T) {
	dir := t.TempDir()
	file := writePNG(t, filepath.Join(dir, "cover.png"))

	tests := []struct {
		name  string
		start float64
		shown bool
	}{
		{"shown", 5.0, true},
		{"too early", 2.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGenerator(t, newDB(t), Deps{})

			tr := &transcript.Transcript{
				SongDuration: 10,
				Words:        []transcript.Word{{Text: "Hi", Start: tt.start, End: tt.start + 1}},
			}
			res, err := g.Render(tr, file)
			require.NoError(t, err)
			assert.Equal(t, tt.shown, res.Plan.ImageShown)

			high := res.Instructions[1].(packet.LoadColorTable)
			if tt.shown {
				assert.Equal(t, palette.Accent, high.Colors[7])
			} else {
				assert.Equal(t, palette.Default()[palette.Reserved], high.Colors[7])
			}
		})
	}
}

func TestRenderMissingCover(t *testing.T) {
	g, hook := newGenerator(t, nil, Deps{})

	tr := &transcript.Transcript{
		SongDuration: 10,
		Words:        []transcript.Word{{Text: "Hi", Start: 5, End: 6}},
	}
	res, err := g.Render(tr, filepath.Join(t.TempDir(), "missing.jpg"))
	require.NoError(t, err)
	assert.False(t, res.Plan.ImageShown)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestWriteCDG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out.cdg")
	ins := []packet.Instruction{packet.NoOp{}, packet.MemoryPreset{}}
	require.NoError(t, WriteCDG(file, ins))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, int64(2*packet.Size), info.Size())

	assert.Error(t, WriteCDG(filepath.Join(t.TempDir(), "missing", "out.cdg"), ins))
}

func zipNames(t *testing.T, file string) []string {
	t.Helper()

	r, err := zip.OpenReader(file)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestGenerateLRC(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, filepath.Join(dir, "song.mp3"), "fake audio")
	lrc := writeFile(t, filepath.Join(dir, "song.lrc"), "[00:01.00]hello there\n[00:03.00]general kenobi\n")

	fa := &fakeAudio{duration: 20}
	g, _ := newGenerator(t, nil, Deps{Audio: fa})

	job := Job{
		Audio:  audio,
		Output: filepath.Join(dir, "out", "karaoke.cdg"),
		Lyrics: lrc,
		JSON:   filepath.Join(dir, "out", "karaoke.json"),
		Zip:    filepath.Join(dir, "out", "karaoke.zip"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(job.Output), 0o755))

	res, err := g.Generate(context.Background(), job)
	require.NoError(t, err)

	assert.Equal(t, []float64{2}, fa.padded)
	assert.Len(t, res.Instructions, 20*packet.Rate)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 3.0, res.Lines[0].Start)

	f, err := os.Open(job.Output)
	require.NoError(t, err)
	defer f.Close()
	report, err := stream.Analyze(f)
	require.NoError(t, err)
	assert.Equal(t, 20*packet.Rate, report.Packets)

	tr, err := transcript.Load(job.JSON)
	require.NoError(t, err)
	assert.Equal(t, 20.0, tr.SongDuration)
	assert.Equal(t, "hello", tr.Words[0].Text)

	assert.Equal(t, []string{"karaoke.cdg", "karaoke.lrc", "karaoke.mp3"}, zipNames(t, job.Zip))
}

func TestGenerateTranscribes(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, filepath.Join(dir, "song.mp3"), "fake audio")

	fa := &fakeAudio{duration: 12}
	asr := &fakeASR{words: []transcript.Word{
		{Text: " hello ", Start: 3, End: 3.5},
		{Text: "world", Start: 3.5, End: 4},
	}}
	db := newDB(t)
	g, _ := newGenerator(t, db, Deps{Audio: fa, ASR: asr})

	job := Job{Audio: audio, Output: filepath.Join(dir, "song.cdg")}
	for i := 0; i < 2; i++ {
		res, err := g.Generate(context.Background(), job)
		require.NoError(t, err)
		require.Len(t, res.Lines, 1)
		assert.Equal(t, "hello world", res.Lines[0].Text)
		assert.Equal(t, 3.0, res.Lines[0].Start)
	}
	assert.Equal(t, 1, asr.calls, "second run uses the cache")

	sha, err := sha1File(audio)
	require.NoError(t, err)
	tr, err := db.FindTranscript(sha)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, 1.0, tr.Words[0].Start, "cached without padding")
}

func TestGenerateNoLyrics(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, filepath.Join(dir, "song.mp3"), "fake audio")

	g, _ := newGenerator(t, nil, Deps{Audio: &fakeAudio{duration: 5}, ASR: &fakeASR{}})

	_, err := g.Generate(context.Background(), Job{Audio: audio, Output: filepath.Join(dir, "song.cdg")})
	assert.Equal(t, transcript.ErrNoLyrics, err)
}

func TestGenerateNoTools(t *testing.T) {
	g, _ := newGenerator(t, nil, Deps{})

	_, err := g.Generate(context.Background(), Job{Audio: "song.mp3", Output: "song.cdg"})
	assert.Equal(t, errNoAudioTool, err)
}

func TestImportTranscript(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, filepath.Join(dir, "song.mp3"), "fake audio")
	file := writeFile(t, filepath.Join(dir, "fixed.json"), `{"song_duration": 0, "words": [{"word": "fixed", "start": 1, "end": 2}]}`)

	asr := &fakeASR{}
	g, _ := newGenerator(t, newDB(t), Deps{Audio: &fakeAudio{duration: 10}, ASR: asr})
	require.NoError(t, g.ImportTranscript(audio, file))

	res, err := g.Generate(context.Background(), Job{Audio: audio, Output: filepath.Join(dir, "song.cdg")})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "fixed", res.Lines[0].Text)
	assert.Equal(t, 0, asr.calls)

	empty := writeFile(t, filepath.Join(dir, "empty.json"), `{"song_duration": 0, "words": []}`)
	assert.Equal(t, transcript.ErrNoLyrics, g.ImportTranscript(audio, empty))
}

func TestImportTranscriptNoDB(t *testing.T) {
	g, _ := newGenerator(t, nil, Deps{})
	assert.Error(t, g.ImportTranscript("song.mp3", "song.json"))
}
