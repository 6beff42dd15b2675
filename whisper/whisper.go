/*
Package whisper transcribes audio with word level timestamps using the
whisper.cpp command line tool.

whisper.cpp is asked to split its output at every word and write it as JSON,
which looks like:

	{
	  "transcription": [
	    {
	      "timestamps": {"from": "00:00:01,000", "to": "00:00:01,320"},
	      "offsets": {"from": 1000, "to": 1320},
	      "text": " Hello"
	    },
	    ...
	  ]
	}

Offsets are in milliseconds.
*/
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bodgit/cdg/transcript"
)

type output struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcriber runs whisper.cpp with a given model.
type Transcriber struct {
	bin   string
	model string
}

// New returns a Transcriber running bin with the model file at model.
func New(bin, model string) *Transcriber {
	if bin == "" {
		bin = "whisper-cli"
	}
	return &Transcriber{bin: bin, model: model}
}

func (t *Transcriber) args(wav, prefix string) []string {
	return []string{
		"-m", t.model,
		"-f", wav,
		"-ml", "1",
		"-sow",
		"-oj",
		"-of", prefix,
	}
}

// Transcribe recognizes the words in wav, which should be 16 kHz mono. The
// intermediate JSON is written to dir.
func (t *Transcriber) Transcribe(ctx context.Context, wav, dir string) ([]transcript.Word, error) {
	prefix := filepath.Join(dir, "whisper")

	cmd := exec.CommandContext(ctx, t.bin, t.args(wav, prefix)...)
	if b, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	f, err := os.Open(prefix + ".json")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func annotation(s string) bool {
	return (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))
}

// Parse reads whisper.cpp JSON output. Annotations such as [BLANK_AUDIO]
// are dropped and a segment holding several words has its time shared
// evenly between them.
func Parse(r io.Reader) ([]transcript.Word, error) {
	var out output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}

	var words []transcript.Word
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" || annotation(text) {
			continue
		}

		start := float64(seg.Offsets.From) / 1000
		end := float64(seg.Offsets.To) / 1000
		if end < start {
			end = start
		}

		fields := strings.Fields(text)
		each := (end - start) / float64(len(fields))
		for i, w := range fields {
			s := start + float64(i)*each
			words = append(words, transcript.Word{Text: w, Start: s, End: s + each})
		}
	}

	return words, nil
}
