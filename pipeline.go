package cdg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	audioExtensions = []string{".mp3", ".ogg", ".flac", ".m4a", ".wav"}
	coverExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
)

// sibling returns the first existing file with the same stem as file and
// one of the given extensions, or failing that one named fallback with one of
// the extensions in the same directory.
func sibling(file string, exts []string, fallback string) string {
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	for _, ext := range exts {
		if info, err := os.Stat(stem + ext); err == nil && info.Mode().IsRegular() {
			return stem + ext
		}
	}
	if fallback == "" {
		return ""
	}
	return sibling(filepath.Join(filepath.Dir(file), fallback), exts, "")
}

func (g *Generator) findLyrics(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), ".lrc") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (g *Generator) lyricsWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			logger := g.logger.WithField("file", file)

			audio := sibling(file, audioExtensions, "")
			if audio == "" {
				logger.Warn("No matching audio")
				continue
			}

			stem := strings.TrimSuffix(file, filepath.Ext(file))
			job := Job{
				Audio:  audio,
				Output: stem + ".cdg",
				Cover:  sibling(file, coverExtensions, "cover"),
				Lyrics: file,
				Zip:    stem + ".zip",
			}

			if _, err := g.Generate(ctx, job); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path looking for LRC files with matching audio and generates a
// CD+G file and karaoke archive next to each one. An image with the same
// name, or named cover, is used as the cover.
func (g *Generator) Scan(ctx context.Context, path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := g.findLyrics(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < g.opts.Workers; i++ {
		errc, err := g.lyricsWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
