// Package app drives an interactive conversion on the terminal.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jaki95/tracklist-cue/config"
	"github.com/jaki95/tracklist-cue/internal/domain"
	"github.com/jaki95/tracklist-cue/internal/service"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
	"github.com/jaki95/tracklist-cue/internal/ui"
)

var (
	ErrCancelled = errors.New("operation cancelled by user")
	ErrNoPath    = errors.New("please provide a file path")
)

// Options are the values already supplied on the command line. Anything left
// empty is prompted for unless Yes is set.
type Options struct {
	// Source, when set, replaces the listing path prompt.
	Source tracklist.Source
	// InputPath is used when Source is nil. A failing path is only retried
	// when it came from the prompt.
	InputPath string
	Album     domain.Album
	Output    string
	// Yes accepts the review and every default without prompting.
	Yes bool
}

type App struct {
	cfg       *config.Config
	converter *service.Converter
	prompter  ui.Prompter
	out       *ui.Printer
}

func New(cfg *config.Config, converter *service.Converter, prompter ui.Prompter, w io.Writer) *App {
	return &App{
		cfg:       cfg,
		converter: converter,
		prompter:  prompter,
		out:       ui.NewPrinter(w),
	}
}

// Run walks through reading the listing, reviewing the tracks, collecting the
// metadata and saving the sheet.
func (a *App) Run(ctx context.Context, opts Options) (*service.Result, error) {
	a.out.Section("TRACKLIST TO CUE FILE CONVERTER")

	parsed, err := a.parse(ctx, opts)
	if err != nil {
		return nil, err
	}

	ok, err := a.review(parsed, opts.Yes)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.out.Println("Operation cancelled by user.")
		return nil, ErrCancelled
	}

	album, err := a.metadata(opts.Album, opts.Yes)
	if err != nil {
		return nil, err
	}

	output, err := a.outputName(opts.Output, opts.Yes)
	if err != nil {
		return nil, err
	}

	req := service.Request{Album: album, Output: output, Save: true}
	var res *service.Result
	err = a.prompter.Spin(ctx, "Generating CUE file...", func(ctx context.Context) error {
		var err error
		res, err = a.converter.Render(ctx, parsed, req)
		return err
	})
	if err != nil {
		a.out.Failure("Failed to create CUE file: %v", err)
		return nil, err
	}

	a.out.Success("CUE file successfully created: %s", res.Location)
	a.out.Block("CUE FILE PREVIEW:", res.Sheet)
	return res, nil
}

func (a *App) parse(ctx context.Context, opts Options) (*service.Parsed, error) {
	if opts.Source != nil {
		return a.parseSource(ctx, opts.Source)
	}

	path := opts.InputPath
	fromPrompt := path == ""
	if fromPrompt && opts.Yes {
		a.out.Failure("Error: %v", ErrNoPath)
		return nil, ErrNoPath
	}
	for {
		if fromPrompt {
			var err error
			path, err = a.prompter.Input("Enter path to timestamps file", "tracklist.txt")
			if err != nil {
				return nil, a.cancelled(err)
			}
		}

		path = cleanPath(path)
		var err error
		if path == "" {
			err = ErrNoPath
		} else {
			var parsed *service.Parsed
			parsed, err = a.parseSource(ctx, tracklist.NewFileSource(path, a.cfg.Encoding))
			if err == nil {
				return parsed, nil
			}
		}

		a.out.Failure("Error: %v", err)
		if !fromPrompt || opts.Yes || errors.Is(err, context.Canceled) {
			return nil, err
		}

		retry, perr := a.prompter.Confirm("Try again?")
		if perr != nil {
			return nil, a.cancelled(perr)
		}
		if !retry {
			a.out.Println("Exiting...")
			return nil, ErrCancelled
		}
	}
}

func (a *App) parseSource(ctx context.Context, src tracklist.Source) (*service.Parsed, error) {
	var parsed *service.Parsed
	err := a.prompter.Spin(ctx, "Reading tracklist...", func(ctx context.Context) error {
		var err error
		parsed, err = a.converter.Parse(ctx, src, nil)
		return err
	})
	if parsed != nil {
		for _, s := range parsed.Warnings() {
			a.out.Warn("Skipping line %d - %v", s.Line, s.Reason)
		}
	}
	if err != nil {
		return nil, err
	}

	a.out.Success("Successfully parsed %d tracks from %s", len(parsed.Tracks), parsed.Source)
	return parsed, nil
}

func (a *App) review(parsed *service.Parsed, yes bool) (bool, error) {
	a.out.Block("PARSED TRACKS:", tracklist.FormatReview(parsed.Tracks))
	if yes {
		return true, nil
	}

	ok, err := a.prompter.Confirm("Do these tracks look correct?")
	if err != nil {
		return false, a.cancelled(err)
	}
	return ok, nil
}

// metadata prompts for every album field the command line left empty.
// Empty answers fall back to the configured defaults later on.
func (a *App) metadata(album domain.Album, yes bool) (domain.Album, error) {
	if yes {
		return album, nil
	}

	d := a.cfg.Defaults
	fields := []struct {
		value       *string
		title       string
		placeholder string
	}{
		{&album.Performer, "Enter Artist/Performer name", d.Performer},
		{&album.Title, "Enter Album/Mix name", d.Title},
		{&album.AudioFile, "Enter audio filename (e.g., audio.mp3)", d.AudioFile},
		{&album.Year, "Enter year (optional, press Enter to skip)", d.Year},
		{&album.Genre, "Enter genre (optional, press Enter to skip)", d.Genre},
	}

	a.out.Section("CUE FILE METADATA")
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		v, err := a.prompter.Input(f.title, f.placeholder)
		if err != nil {
			return album, a.cancelled(err)
		}
		*f.value = strings.TrimSpace(v)
	}

	if album.Year != "" && !domain.IsYear(album.Year) {
		a.out.Warn("year %q is not a number and will be left out", album.Year)
	}
	return album, nil
}

func (a *App) outputName(output string, yes bool) (string, error) {
	if output != "" || yes {
		return output, nil
	}

	def := a.cfg.OutputFile
	v, err := a.prompter.Input(fmt.Sprintf("Enter output filename (default: %s)", def), def)
	if err != nil {
		return "", a.cancelled(err)
	}
	return strings.TrimSpace(v), nil
}

func (a *App) cancelled(err error) error {
	if errors.Is(err, ui.ErrAborted) {
		a.out.Println("Operation cancelled by user.")
		return ErrCancelled
	}
	return err
}

// cleanPath trims whitespace and the quotes terminals add to dropped paths.
func cleanPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), `"'`)
}
