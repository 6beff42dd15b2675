// Package ffmpeg wraps the ffmpeg and ffprobe command line tools.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Tool runs ffmpeg and ffprobe.
type Tool struct {
	ffmpeg  string
	ffprobe string
}

// New returns a Tool using the given binaries, defaulting to whatever is
// found on the PATH.
func New(ffmpegPath, ffprobePath string) *Tool {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Tool{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func run(ctx context.Context, what, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%s: %w\n%s", what, err, string(b))
	}
	return b, nil
}

func probeArgs(in string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	}
}

func parseDuration(b []byte) (float64, error) {
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// ProbeDuration returns the length of in in seconds.
func (t *Tool) ProbeDuration(ctx context.Context, in string) (float64, error) {
	b, err := run(ctx, "ffprobe duration", t.ffprobe, probeArgs(in)...)
	if err != nil {
		return 0, err
	}
	return parseDuration(b)
}

func extractArgs(in, out string) []string {
	return []string{
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		out,
	}
}

// ExtractWAV converts in to a 16 kHz mono WAV file at out, the format
// speech recognition expects.
func (t *Tool) ExtractWAV(ctx context.Context, in, out string) error {
	_, err := run(ctx, "ffmpeg extract audio", t.ffmpeg, extractArgs(in, out)...)
	return err
}

func padArgs(in, out string, seconds float64) []string {
	ms := strconv.FormatInt(int64(seconds*1000), 10)
	return []string{
		"-y",
		"-i", in,
		"-af", "adelay=delays=" + ms + ":all=1",
		out,
	}
}

// PadSilence writes in to out with seconds of silence added at the start.
func (t *Tool) PadSilence(ctx context.Context, in, out string, seconds float64) error {
	_, err := run(ctx, "ffmpeg pad silence", t.ffmpeg, padArgs(in, out, seconds)...)
	return err
}
