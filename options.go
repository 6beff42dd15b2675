package cdg

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/bodgit/cdg/glyph"
	"github.com/bodgit/cdg/layout"
	"github.com/bodgit/cdg/lyrics"
	"gopkg.in/yaml.v3"
)

// Silence is how much silence is added ahead of the audio, in seconds.
type Silence struct {
	// Image is used when a cover is shown first
	Image float64 `yaml:"image"`
	Plain float64 `yaml:"plain"`
}

// Options controls how lyrics are laid out and which tools are used.
type Options struct {
	MaxChars int           `yaml:"max_chars"`
	MaxWords int           `yaml:"max_words"`
	FontSize float64       `yaml:"font_size"`
	FontFile string        `yaml:"font_file"`
	Layout   layout.Config `yaml:"layout"`
	Silence  Silence       `yaml:"silence"`
	Workers  int           `yaml:"workers"`

	FFmpeg       string `yaml:"ffmpeg"`
	FFprobe      string `yaml:"ffprobe"`
	WhisperBin   string `yaml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model"`
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		MaxChars: lyrics.DefaultMaxChars,
		MaxWords: lyrics.DefaultMaxWords,
		FontSize: glyph.DefaultSize,
		Layout:   layout.DefaultConfig(),
		Silence: Silence{
			Image: 7,
			Plain: 2,
		},
		Workers: 4,
	}
}

// LoadOptions reads YAML from file over the top of the defaults.
func LoadOptions(file string) (Options, error) {
	opts := DefaultOptions()

	b, err := ioutil.ReadFile(file)
	if err != nil {
		return opts, err
	}

	if err := yaml.Unmarshal(b, &opts); err != nil {
		return opts, fmt.Errorf("cdg: %s: %w", file, err)
	}

	return opts, opts.Validate()
}

// Validate checks the options are usable.
func (o Options) Validate() error {
	if o.MaxChars <= 0 {
		return errors.New("cdg: max_chars must be positive")
	}
	if o.MaxWords < 0 {
		return errors.New("cdg: max_words must not be negative")
	}
	if o.FontSize <= 0 {
		return errors.New("cdg: font_size must be positive")
	}
	if o.Silence.Image < 0 || o.Silence.Plain < 0 {
		return errors.New("cdg: silence must not be negative")
	}
	if o.Workers <= 0 {
		return errors.New("cdg: workers must be positive")
	}
	return o.Layout.Validate()
}
