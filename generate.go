package cdg

import (
	"context"
	"errors"
	"image"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/cdg/cover"
	"github.com/bodgit/cdg/layout"
	"github.com/bodgit/cdg/lyrics"
	"github.com/bodgit/cdg/packet"
	"github.com/bodgit/cdg/palette"
	"github.com/bodgit/cdg/stream"
	"github.com/bodgit/cdg/tile"
	"github.com/bodgit/cdg/timeline"
	"github.com/bodgit/cdg/transcript"
	"github.com/sirupsen/logrus"
)

var errNoDuration = errors.New("cdg: song duration unknown")

// Result is everything produced by rendering a transcript.
type Result struct {
	Instructions []packet.Instruction
	Plan         layout.Plan
	Lines        []lyrics.Line
	Overwrites   []timeline.Overwrite
}

func (g *Generator) loadCover(file string) *image.Paletted {
	var (
		m   *image.Paletted
		err error
	)
	if g.db != nil {
		m, err = g.db.LoadCover(file)
	} else {
		var f *os.File
		if f, err = os.Open(file); err == nil {
			m, err = cover.Load(f)
			f.Close()
		}
	}
	if err != nil {
		g.logger.WithError(err).WithField("file", file).Warn("Unable to load cover, continuing without it")
		return nil
	}
	return m
}

// Render lays out t, with the image in coverFile behind it if given, and
// returns the instructions for every packet. A cover that cannot be loaded
// is skipped with a warning, as is one that cannot be shown before the
// first line. t itself is left untouched; a normalized copy is laid out.
func (g *Generator) Render(t *transcript.Transcript, coverFile string) (*Result, error) {
	if t.SongDuration <= 0 {
		return nil, errNoDuration
	}
	t = t.Clone()
	t.Normalize()

	lines := lyrics.Group(t.Words, g.opts.MaxChars, g.opts.MaxWords)

	tl := timeline.New(t.SongDuration)
	s := layout.New(g.opts.Layout, g.glyphs)

	pal, highlight := palette.ReserveHighlight(palette.Default())

	var img []tile.ImageBlock
	if coverFile != "" {
		if m := g.loadCover(coverFile); m != nil {
			blocks := tile.Image(m)
			if s.ImageFits(tl, lines, len(blocks)) {
				pal, highlight = palette.ReserveHighlight(palette.FromImage(m.Palette))
				img = blocks
			} else {
				g.logger.WithField("file", coverFile).Info("First line is too early to show the cover")
			}
		}
	}

	plan := s.Schedule(tl, lines, pal, highlight, img)

	for _, p := range plan.Lines {
		l := lines[p.Line]
		g.logger.WithFields(logrus.Fields{
			"line":  p.Line,
			"start": l.Start,
			"end":   l.End,
			"slot":  p.Slot,
			"text":  l.Text,
		}).Debug("Scheduled line")
	}

	overwrites := tl.Overwrites()
	if len(overwrites) > 0 {
		g.logger.WithFields(logrus.Fields{
			"count": len(overwrites),
			"index": overwrites[0].Index,
			"owner": overwrites[0].Owner,
		}).Warn("Scheduled writes overlap")
	}

	return &Result{
		Instructions: tl.Finalize(),
		Plan:         plan,
		Lines:        lines,
		Overwrites:   overwrites,
	}, nil
}

// WriteCDG writes instructions to file as a CD+G stream.
func WriteCDG(file string, instructions []packet.Instruction) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := stream.Encode(f, instructions); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Job describes one song to generate.
type Job struct {
	// Audio is the song itself
	Audio string

	// Output is where the CD+G file is written
	Output string

	// Cover, Lyrics, JSON and Zip are optional. Lyrics is an LRC file used
	// instead of transcribing the audio. JSON receives the transcript as
	// rendered and Zip a karaoke archive of the CD+G file, padded audio and
	// lyrics.
	Cover  string
	Lyrics string
	JSON   string
	Zip    string
}

func (g *Generator) silence(job Job) float64 {
	if job.Cover != "" {
		return g.opts.Silence.Image
	}
	return g.opts.Silence.Plain
}

// transcribe returns the words in audio, relative to the unpadded audio,
// using the cache where possible. padded is the same audio with leading
// silence of pad seconds.
func (g *Generator) transcribe(ctx context.Context, audio, padded string, pad float64, dir string) (*transcript.Transcript, error) {
	sha, err := sha1File(audio)
	if err != nil {
		return nil, err
	}

	if g.db != nil {
		t, err := g.db.FindTranscript(sha)
		if err != nil {
			return nil, err
		}
		if t != nil {
			g.logger.WithField("file", audio).Debug("Using cached transcript")
			return t, nil
		}
	}

	if g.deps.ASR == nil {
		return nil, errors.New("cdg: no transcriber configured")
	}

	wav := filepath.Join(dir, "audio.wav")
	if err := g.deps.Audio.ExtractWAV(ctx, padded, wav); err != nil {
		return nil, err
	}

	g.logger.WithField("file", audio).Info("Transcribing")
	words, err := g.deps.ASR.Transcribe(ctx, wav, dir)
	if err != nil {
		return nil, err
	}

	t := &transcript.Transcript{Words: words}
	t.Offset(-pad)
	t.SongDuration = 0
	t.Normalize()

	if len(t.Words) == 0 {
		return nil, transcript.ErrNoLyrics
	}

	if g.db != nil {
		if err := g.db.AddTranscript(sha, filepath.Base(audio), t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Generate pads the audio with silence, finds the lyrics either from an LRC
// file or by transcribing, and writes the CD+G file and any other requested
// outputs.
func (g *Generator) Generate(ctx context.Context, job Job) (*Result, error) {
	if g.deps.Audio == nil {
		return nil, errNoAudioTool
	}

	dir, err := ioutil.TempDir("", "cdg")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	pad := g.silence(job)
	padded := job.Audio
	if pad > 0 {
		padded = filepath.Join(dir, "padded"+filepath.Ext(job.Audio))
		if err := g.deps.Audio.PadSilence(ctx, job.Audio, padded, pad); err != nil {
			return nil, err
		}
	}

	duration, err := g.deps.Audio.ProbeDuration(ctx, padded)
	if err != nil {
		return nil, err
	}

	var t *transcript.Transcript
	if job.Lyrics != "" {
		t, err = transcript.LoadLRC(job.Lyrics, 0)
	} else {
		t, err = g.transcribe(ctx, job.Audio, padded, pad, dir)
	}
	if err != nil {
		return nil, err
	}

	t.Offset(pad)
	t.SongDuration = duration
	t.Normalize()

	res, err := g.Render(t, job.Cover)
	if err != nil {
		return nil, err
	}

	if err := WriteCDG(job.Output, res.Instructions); err != nil {
		return nil, err
	}

	if job.JSON != "" {
		if err := t.Save(job.JSON); err != nil {
			return nil, err
		}
	}

	if job.Zip != "" {
		stem := strings.TrimSuffix(filepath.Base(job.Output), filepath.Ext(job.Output))
		entries := []zipEntry{
			{name: stem + ".cdg", file: job.Output},
			{name: stem + filepath.Ext(job.Audio), file: padded},
		}
		if job.Lyrics != "" {
			entries = append(entries, zipEntry{name: stem + ".lrc", file: job.Lyrics})
		}
		if err := writeZip(job.Zip, entries...); err != nil {
			return nil, err
		}
	}

	g.logger.WithFields(logrus.Fields{
		"file":    job.Output,
		"packets": len(res.Instructions),
		"lines":   len(res.Lines),
	}).Info("Generated")

	return res, nil
}

// ImportTranscript stores the transcript in jsonFile as the lyrics for
// audio, replacing any earlier transcription. Times are relative to the
// audio as given, without any padding.
func (g *Generator) ImportTranscript(audio, jsonFile string) error {
	if g.db == nil {
		return errors.New("cdg: no database")
	}

	sha, err := sha1File(audio)
	if err != nil {
		return err
	}

	t, err := transcript.Load(jsonFile)
	if err != nil {
		return err
	}
	t.Normalize()

	if len(t.Words) == 0 {
		return transcript.ErrNoLyrics
	}

	return g.db.AddTranscript(sha, filepath.Base(audio), t)
}
