package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/jaki95/tracklist-cue/config"
	"github.com/jaki95/tracklist-cue/internal/app"
	"github.com/jaki95/tracklist-cue/internal/cue"
	"github.com/jaki95/tracklist-cue/internal/domain"
	"github.com/jaki95/tracklist-cue/internal/progress"
	"github.com/jaki95/tracklist-cue/internal/service"
	"github.com/jaki95/tracklist-cue/internal/storage"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
	"github.com/jaki95/tracklist-cue/internal/ui"
)

const configKey = "config"

// env holds the process streams so commands can run against buffers in tests.
type env struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	prompter ui.Prompter
}

func newApp(e env) *cli.App {
	albumFlags := []cli.Flag{
		&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "performer name"},
		&cli.StringFlag{Name: "audio-file", Aliases: []string{"f"}, Usage: "audio file referenced by the sheet"},
		&cli.StringFlag{Name: "year", Usage: "release year, digits only"},
		&cli.StringFlag{Name: "genre", Usage: "genre for REM GENRE"},
		&cli.StringFlag{Name: "output-dir", Usage: "save sheets to this local directory instead of the configured storage"},
		&cli.StringFlag{Name: "encoding", Usage: "character encoding of the listing, e.g. windows-1252"},
	}

	return &cli.App{
		Name:      "cue",
		Usage:     "Convert timestamped track listings into CUE sheets",
		Reader:    e.in,
		Writer:    e.out,
		ErrWriter: e.errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration",
				Value:   config.DefaultPath,
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadOrDefault(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(e.errOut, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)}))
			slog.SetDefault(logger)

			if c.App.Metadata == nil {
				c.App.Metadata = map[string]any{}
			}
			c.App.Metadata[configKey] = cfg
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "convert",
				Usage: "Convert one listing, prompting for anything not given as a flag",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "listing file, - for stdin"},
					&cli.BoolFlag{Name: "clipboard", Usage: "read the listing from the clipboard"},
					&cli.StringFlag{Name: "url", Usage: "read the listing from a web page"},
					&cli.StringFlag{Name: "selector", Usage: "CSS selector of the listing on the page"},
					&cli.StringFlag{Name: "album", Aliases: []string{"t"}, Usage: "album or mix name"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output sheet name"},
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "accept the tracks and defaults without prompting"},
				}, albumFlags...),
				Action: func(c *cli.Context) error {
					return runConvert(c, e)
				},
			},
			{
				Name:      "batch",
				Usage:     "Convert several listing files, naming each sheet after its file",
				ArgsUsage: "FILE...",
				Flags:     albumFlags,
				Action: func(c *cli.Context) error {
					return runBatch(c, e)
				},
			},
			{
				Name:      "parse",
				Usage:     "Print the tracks found in a listing and the lines skipped",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "encoding", Usage: "character encoding of the listing"},
				},
				Action: func(c *cli.Context) error {
					return runParse(c, e)
				},
			},
		},
	}
}

func configFrom(c *cli.Context) *config.Config {
	cfg := c.App.Metadata[configKey].(*config.Config)
	if enc := c.String("encoding"); enc != "" {
		cfg.Encoding = enc
	}
	return cfg
}

func albumFrom(c *cli.Context) domain.Album {
	return domain.Album{
		Performer: c.String("artist"),
		Title:     c.String("album"),
		AudioFile: c.String("audio-file"),
		Year:      c.String("year"),
		Genre:     c.String("genre"),
	}
}

func openStorage(c *cli.Context, cfg *config.Config) (storage.Storage, error) {
	if dir := c.String("output-dir"); dir != "" {
		return storage.NewLocalStorage(dir)
	}
	return storage.New(c.Context, cfg.Storage)
}

func runConvert(c *cli.Context, e env) error {
	cfg := configFrom(c)

	store, err := openStorage(c, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := app.Options{
		InputPath: c.String("input"),
		Album:     albumFrom(c),
		Output:    c.String("output"),
		Yes:       c.Bool("yes"),
	}

	switch {
	case c.Bool("clipboard"):
		opts.Source = tracklist.NewClipboardSource()
	case c.String("url") != "":
		opts.Source = service.NewWebSource(cfg, c.String("url"), c.String("selector"))
	case opts.InputPath == "-":
		opts.Source = tracklist.NewReaderSource(e.in, "stdin", cfg.Encoding)
	}

	converter := service.NewConverter(cfg, store)
	_, err = app.New(cfg, converter, e.prompter, e.out).Run(c.Context, opts)
	if errors.Is(err, app.ErrCancelled) {
		return nil
	}
	return err
}

func runBatch(c *cli.Context, e env) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return errors.New("batch needs at least one listing file")
	}

	outputs, err := batchOutputs(files)
	if err != nil {
		return err
	}

	cfg := configFrom(c)
	store, err := openStorage(c, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(e.errOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan][1/1][reset] Converting listings..."),
	)

	album := albumFrom(c)
	reqs := make([]service.Request, 0, len(files))
	for i, file := range files {
		pt := progress.NewProgressTracker()
		pt.AddListener(func(ev progress.Event) {
			if ev.Stage == progress.StageComplete && ev.LineDetails == nil {
				_ = bar.Add(1)
			}
		})

		reqs = append(reqs, service.Request{
			Source:   tracklist.NewFileSource(file, cfg.Encoding),
			Album:    album,
			Output:   outputs[i],
			Save:     true,
			Progress: pt,
		})
	}

	results, err := service.NewConverter(cfg, store).ConvertBatch(c.Context, reqs)
	_ = bar.Finish()
	fmt.Fprintln(e.errOut)
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(e.out)
	for _, res := range results {
		printer.Success("%s: %d tracks -> %s", res.Name, len(res.Tracks), res.Location)
	}
	return nil
}

// batchOutputs names each file's sheet after its base name. Two files that
// would write the same sheet are rejected before anything runs.
func batchOutputs(files []string) ([]string, error) {
	outputs := make([]string, len(files))
	seen := make(map[string]string, len(files))
	for i, file := range files {
		name := cue.OutputName(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%s and %s would both be saved as %s", prev, file, name)
		}
		seen[key] = file
		outputs[i] = name
	}
	return outputs, nil
}

func runParse(c *cli.Context, e env) error {
	if c.NArg() != 1 {
		return errors.New("parse needs exactly one listing file")
	}

	cfg := configFrom(c)
	var src tracklist.Source = tracklist.NewFileSource(c.Args().First(), cfg.Encoding)
	if c.Args().First() == "-" {
		src = tracklist.NewReaderSource(e.in, "stdin", cfg.Encoding)
	}

	parsed, err := service.NewConverter(cfg, nil).Parse(c.Context, src, nil)
	if parsed != nil {
		fmt.Fprint(e.out, tracklist.FormatReview(parsed.Tracks))
		for _, s := range parsed.Skipped {
			if s.Blank() {
				continue
			}
			fmt.Fprintln(e.errOut, s.String())
		}
	}
	return err
}
