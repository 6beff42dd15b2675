/*
Package cdg is a library for generating CD+G karaoke graphics from timed
lyrics, optionally transcribing the lyrics from the audio first.
*/
package cdg

import (
	"context"
	"errors"

	"github.com/bodgit/cdg/glyph"
	"github.com/bodgit/cdg/transcript"
	"github.com/sirupsen/logrus"
)

// AudioTool inspects and converts audio files.
type AudioTool interface {
	ProbeDuration(ctx context.Context, in string) (float64, error)
	ExtractWAV(ctx context.Context, in, out string) error
	PadSilence(ctx context.Context, in, out string, seconds float64) error
}

// Transcriber recognizes timed words in a 16 kHz mono WAV file, using dir
// for any intermediate files.
type Transcriber interface {
	Transcribe(ctx context.Context, wav, dir string) ([]transcript.Word, error)
}

// Deps are the external tools a Generator needs to work from audio. They
// may be left nil when only rendering existing transcripts.
type Deps struct {
	Audio AudioTool
	ASR   Transcriber
}

var errNoAudioTool = errors.New("cdg: no audio tool configured")

// Generator turns transcripts and audio into CD+G files.
type Generator struct {
	db     *DB
	opts   Options
	deps   Deps
	glyphs *glyph.Renderer
	logger logrus.FieldLogger
}

// New returns a Generator. The database db is used to cache covers and
// transcripts and may be nil.
func New(db *DB, opts Options, deps Deps, logger logrus.FieldLogger) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		r   *glyph.Renderer
		err error
	)
	if opts.FontFile != "" {
		r, err = glyph.NewFromFile(opts.FontFile, opts.FontSize)
	} else {
		r, err = glyph.New(opts.FontSize)
	}
	if err != nil {
		return nil, err
	}

	return &Generator{
		db:     db,
		opts:   opts,
		deps:   deps,
		glyphs: r,
		logger: logger,
	}, nil
}

// Close releases the font.
func (g *Generator) Close() error {
	return g.glyphs.Close()
}
