package transcript

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// lastLine is how long the final lyric line is assumed to last
	lastLine = 3.0

	// tail is added after the last line when no duration is given
	tail = 5.0
)

var timestamp = regexp.MustCompile(`^\[(\d+):(\d+)\.(\d+)\]`)

// Line is one timed line of an LRC file.
type Line struct {
	Time float64
	Text string
}

func parseTimestamp(m []string) float64 {
	mins, _ := strconv.Atoi(m[1])
	sec, _ := strconv.Atoi(m[2])
	frac, _ := strconv.ParseFloat("0."+m[3], 64)

	return float64(mins*60+sec) + frac
}

func isMetadata(s string) bool {
	return len(s) > 2 && s[1] >= 'a' && s[1] <= 'z' && s[2] == ':'
}

// ParseLRC reads the timed lines from an LRC file, ordered by time. Tag
// lines such as [ar:Artist] are skipped, as are lines without any text.
// A line may carry several leading timestamps, in which case it is repeated
// at each of them.
func ParseLRC(r io.Reader) ([]Line, error) {
	var lines []Line

	s := bufio.NewScanner(r)
	for s.Scan() {
		text := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(text, "[") || isMetadata(text) {
			continue
		}

		var times []float64
		for {
			m := timestamp.FindStringSubmatch(text)
			if m == nil {
				break
			}
			times = append(times, parseTimestamp(m))
			text = strings.TrimSpace(text[len(m[0]):])
		}

		if text == "" {
			continue
		}

		for _, t := range times {
			lines = append(lines, Line{Time: t, Text: text})
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})

	return lines, nil
}

// FromLRC spreads the words of each line evenly across the time until the
// next line. If duration is not positive the song is assumed to end five
// seconds after the last line.
func FromLRC(lines []Line, duration float64) (*Transcript, error) {
	if len(lines) == 0 {
		return nil, ErrNoLyrics
	}

	t := &Transcript{SongDuration: duration}
	if t.SongDuration <= 0 {
		t.SongDuration = lines[len(lines)-1].Time + tail
	}

	for i, line := range lines {
		length := lastLine
		if i+1 < len(lines) {
			length = lines[i+1].Time - line.Time
		}

		words := strings.Fields(line.Text)
		if len(words) == 0 {
			continue
		}

		each := length / float64(len(words))
		for j, w := range words {
			start := line.Time + float64(j)*each
			t.Words = append(t.Words, Word{
				Text:  w,
				Start: start,
				End:   start + each,
			})
		}
	}

	if len(t.Words) == 0 {
		return nil, ErrNoLyrics
	}

	return t, nil
}

// ReadLRC parses an LRC file from r and converts it to a transcript.
func ReadLRC(r io.Reader, duration float64) (*Transcript, error) {
	lines, err := ParseLRC(r)
	if err != nil {
		return nil, err
	}
	return FromLRC(lines, duration)
}

// LoadLRC reads an LRC file and converts it to a transcript.
func LoadLRC(file string, duration float64) (*Transcript, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLRC(f, duration)
}
