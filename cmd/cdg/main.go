package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bodgit/cdg"
	"github.com/bodgit/cdg/ffmpeg"
	"github.com/bodgit/cdg/packet"
	"github.com/bodgit/cdg/stream"
	"github.com/bodgit/cdg/transcript"
	"github.com/bodgit/cdg/whisper"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const defaultDB = "cdg.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func loadOptions(c *cli.Context) (cdg.Options, error) {
	opts := cdg.DefaultOptions()
	if file := c.String("config"); file != "" {
		var err error
		if opts, err = cdg.LoadOptions(file); err != nil {
			return opts, err
		}
	}

	if bin := c.String("whisper-bin"); bin != "" {
		opts.WhisperBin = bin
	}
	if model := c.String("whisper-model"); model != "" {
		opts.WhisperModel = model
	}

	return opts, nil
}

type session struct {
	db *cdg.DB
	*cdg.Generator
}

func (s *session) Close() error {
	err := s.Generator.Close()
	if dbErr := s.db.Close(); err == nil {
		err = dbErr
	}
	return err
}

func newSession(c *cli.Context) (*session, error) {
	opts, err := loadOptions(c)
	if err != nil {
		return nil, err
	}

	db, err := cdg.NewDB(c.String("db"))
	if err != nil {
		return nil, err
	}

	deps := cdg.Deps{
		Audio: ffmpeg.New(opts.FFmpeg, opts.FFprobe),
	}
	if opts.WhisperModel != "" {
		deps.ASR = whisper.New(opts.WhisperBin, opts.WhisperModel)
	}

	g, err := cdg.New(db, opts, deps, newLogger(c))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &session{db: db, Generator: g}, nil
}

func loadTranscript(file string, duration float64) (*transcript.Transcript, error) {
	if strings.EqualFold(filepath.Ext(file), ".lrc") {
		return transcript.LoadLRC(file, duration)
	}

	t, err := transcript.Load(file)
	if err != nil {
		return nil, err
	}
	if duration > 0 {
		t.SongDuration = duration
	}
	return t, nil
}

func printReport(w io.Writer, file string, r stream.Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "File:\t%s\n", file)
	fmt.Fprintf(tw, "Packets:\t%d\n", r.Packets)
	fmt.Fprintf(tw, "Duration:\t%.2fs\n", r.Duration)
	if r.Partial > 0 {
		fmt.Fprintf(tw, "Trailing bytes:\t%d\n", r.Partial)
	}

	commands := make([]int, 0, len(r.Commands))
	for k := range r.Commands {
		commands = append(commands, int(k))
	}
	sort.Ints(commands)
	for _, k := range commands {
		fmt.Fprintf(tw, "Command 0x%02x:\t%d\n", k, r.Commands[byte(k)])
	}

	opcodes := make([]int, 0, len(r.Opcodes))
	for k := range r.Opcodes {
		opcodes = append(opcodes, int(k))
	}
	sort.Ints(opcodes)
	for _, k := range opcodes {
		op := packet.Opcode(k)
		fmt.Fprintf(tw, "  %s (%d):\t%d\n", op, k, r.Opcodes[op])
	}

	if r.FirstActive >= 0 {
		fmt.Fprintf(tw, "First active packet:\t%d\n", r.FirstActive)
		fmt.Fprintf(tw, "Last active packet:\t%d\n", r.LastActive)
	}
	fmt.Fprintf(tw, "Lead-in:\t%.2fs\n", r.LeadIn)
	fmt.Fprintf(tw, "Content:\t%.2fs\n", r.Content)
	fmt.Fprintf(tw, "Trailing silence:\t%.2fs\n", r.Trailing)

	return tw.Flush()
}

func main() {
	_ = godotenv.Load()

	app := cli.NewApp()

	app.Name = "cdg"
	app.Usage = "CD+G karaoke graphics generator"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"CDG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"CDG_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	whisperFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "whisper-bin",
			EnvVars: []string{"WHISPER_BIN"},
			Usage:   "path to whisper.cpp binary",
		},
		&cli.StringFlag{
			Name:    "whisper-model",
			EnvVars: []string{"WHISPER_MODEL"},
			Usage:   "path to whisper.cpp model",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "generate",
			Usage:       "Transcribe audio and generate CD+G graphics",
			Description: "",
			ArgsUsage:   "AUDIO OUTPUT",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "image",
					Usage: "cover image shown before the lyrics",
				},
				&cli.StringFlag{
					Name:  "lrc",
					Usage: "LRC file to use instead of transcribing",
				},
				&cli.StringFlag{
					Name:  "json",
					Usage: "write the transcript to this file",
				},
				&cli.StringFlag{
					Name:  "zip",
					Usage: "write a karaoke archive to this file",
				},
			}, whisperFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if _, err := s.Generate(context.Background(), cdg.Job{
					Audio:  c.Args().Get(0),
					Output: c.Args().Get(1),
					Cover:  c.String("image"),
					Lyrics: c.String("lrc"),
					JSON:   c.String("json"),
					Zip:    c.String("zip"),
				}); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Generate CD+G graphics from an existing transcript",
			Description: "The transcript is either JSON or an LRC file.",
			ArgsUsage:   "TRANSCRIPT OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "image",
					Usage: "cover image shown before the lyrics",
				},
				&cli.Float64Flag{
					Name:  "duration",
					Usage: "song duration in seconds",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				t, err := loadTranscript(c.Args().Get(0), c.Float64("duration"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				res, err := s.Render(t, c.String("image"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := cdg.WriteCDG(c.Args().Get(1), res.Instructions); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Store a corrected transcript for an audio file",
			Description: "",
			ArgsUsage:   "AUDIO TRANSCRIPT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.ImportTranscript(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and generate CD+G graphics for LRC files",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				s, err := newSession(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer s.Close()

				if err := s.Scan(context.Background(), c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "analyze",
			Usage:       "Summarize the packets in CD+G files",
			Description: "",
			ArgsUsage:   "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for i, file := range c.Args().Slice() {
					f, err := os.Open(file)
					if err != nil {
						return cli.Exit(err, 1)
					}
					r, err := stream.Analyze(f)
					f.Close()
					if err != nil {
						return cli.Exit(err, 1)
					}

					if i > 0 {
						fmt.Fprintln(c.App.Writer)
					}
					if err := printReport(c.App.Writer, file, r); err != nil {
						return cli.Exit(err, 1)
					}
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
