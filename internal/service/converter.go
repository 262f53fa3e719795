// Package service runs listings through the parse, render and save pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jaki95/tracklist-cue/config"
	"github.com/jaki95/tracklist-cue/internal/cue"
	"github.com/jaki95/tracklist-cue/internal/domain"
	"github.com/jaki95/tracklist-cue/internal/progress"
	"github.com/jaki95/tracklist-cue/internal/storage"
	"github.com/jaki95/tracklist-cue/internal/tracklist"
)

// Overall progress percentages at the start of each stage.
const (
	ProgressImporting = 0
	ProgressParsing   = 20
	ProgressRendering = 70
	ProgressSaving    = 85
	ProgressComplete  = 100
)

const (
	DefaultMaxConcurrentTasks = 4
	MaxConcurrentTasksLimit   = 10
)

var ErrNoStorage = errors.New("no storage configured")

// Request describes one conversion.
type Request struct {
	Source tracklist.Source
	// Album fields left empty are filled from the listing title and the
	// configured defaults.
	Album domain.Album
	// Output is the sheet name. Empty means the configured output file.
	Output string
	Save   bool
	// Progress receives stage events when set.
	Progress *progress.ProgressTracker
}

// Parsed is a listing turned into tracks, ready to render.
type Parsed struct {
	Source string
	Title  string
	tracklist.Result
}

// Result is a rendered sheet.
type Result struct {
	Name     string              `json:"name"`
	Album    domain.Album        `json:"album"`
	Tracks   []domain.Track      `json:"tracks"`
	Skipped  []tracklist.Skipped `json:"skipped"`
	Sheet    string              `json:"cue"`
	Location string              `json:"location,omitempty"`
}

// Converter turns listings into CUE sheets.
type Converter struct {
	cfg      *config.Config
	storage  storage.Storage
	renderer *cue.Renderer
}

// NewConverter builds a Converter. store may be nil when nothing is saved.
func NewConverter(cfg *config.Config, store storage.Storage) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Converter{
		cfg:      cfg,
		storage:  store,
		renderer: cue.NewRenderer(),
	}
}

// WithRenderer replaces the renderer, mostly to pin the clock in tests.
func (c *Converter) WithRenderer(r *cue.Renderer) *Converter {
	c.renderer = r
	return c
}

// Parse imports the listing from src and builds its tracks. On
// tracklist.ErrNoTracksFound the partial result is returned with the error so
// callers can still report the skipped lines.
func (c *Converter) Parse(ctx context.Context, src tracklist.Source, pt *progress.ProgressTracker) (*Parsed, error) {
	update(pt, progress.StageImporting, ProgressImporting, fmt.Sprintf("Reading listing from %s", src.Name()))

	listing, err := src.Fetch(ctx)
	if err != nil {
		return nil, fail(pt, err)
	}
	slog.Info("Imported listing", "source", listing.Source, "lines", len(listing.Lines))

	if err := ctx.Err(); err != nil {
		return nil, fail(pt, err)
	}

	update(pt, progress.StageParsing, ProgressParsing, fmt.Sprintf("Parsing %d lines", len(listing.Lines)))
	var onLine tracklist.LineFunc
	if pt != nil {
		onLine = pt.UpdateLineProgress
	}

	result, err := tracklist.Build(listing.Lines, onLine)
	parsed := &Parsed{Source: listing.Source, Title: listing.Title, Result: *result}
	if err != nil {
		return parsed, fail(pt, fmt.Errorf("%s: %w", listing.Source, err))
	}

	if warnings := parsed.Warnings(); len(warnings) > 0 {
		slog.Warn("Listing has lines with invalid timestamps", "source", listing.Source, "count", len(warnings))
	}
	return parsed, nil
}

// Album resolves the album metadata for a parsed listing: explicit fields
// first, then the listing title, then the configured defaults.
func (c *Converter) Album(parsed *Parsed, album domain.Album) domain.Album {
	if album.Title == "" {
		album.Title = parsed.Title
	}
	if album.Comment == "" {
		album.Comment = c.cfg.Comment
	}
	return album.WithDefaults(c.cfg.Defaults)
}

// Render renders a parsed listing and saves it when req.Save is set.
// req.Source is ignored.
func (c *Converter) Render(ctx context.Context, parsed *Parsed, req Request) (*Result, error) {
	pt := req.Progress

	if err := ctx.Err(); err != nil {
		return nil, fail(pt, err)
	}

	update(pt, progress.StageRendering, ProgressRendering, fmt.Sprintf("Rendering %d tracks", len(parsed.Tracks)))
	album := c.Album(parsed, req.Album)
	output := req.Output
	if output == "" {
		output = c.cfg.OutputFile
	}

	res := &Result{
		Name:    cue.OutputName(output),
		Album:   album,
		Tracks:  parsed.Tracks,
		Skipped: parsed.Skipped,
		Sheet:   c.renderer.Render(album, parsed.Tracks),
	}

	if req.Save {
		if c.storage == nil {
			return nil, fail(pt, ErrNoStorage)
		}
		update(pt, progress.StageSaving, ProgressSaving, fmt.Sprintf("Saving %s", res.Name))

		location, err := c.storage.Save(ctx, res.Name, []byte(res.Sheet))
		if err != nil {
			return nil, fail(pt, fmt.Errorf("failed to save %s: %w", res.Name, err))
		}
		res.Location = location
		slog.Info("Saved CUE sheet", "name", res.Name, "location", location, "tracks", len(res.Tracks))
	}

	update(pt, progress.StageComplete, ProgressComplete, "Conversion completed")
	return res, nil
}

// Convert runs a request end to end.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	parsed, err := c.Parse(ctx, req.Source, req.Progress)
	if err != nil {
		return nil, err
	}
	return c.Render(ctx, parsed, req)
}

// ConvertBatch converts every request with at most max_concurrent_tasks
// running at once. The first failure cancels the remaining conversions.
// Results keep the order of reqs.
func (c *Converter) ConvertBatch(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())

	for i, req := range reqs {
		g.Go(func() error {
			res, err := c.Convert(ctx, req)
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Info("Batch conversion completed", "count", len(results))
	return results, nil
}

func (c *Converter) concurrency() int {
	n := c.cfg.MaxConcurrentTasks
	if n <= 0 {
		n = DefaultMaxConcurrentTasks
	}
	if n > MaxConcurrentTasksLimit {
		n = MaxConcurrentTasksLimit
	}
	return n
}

func update(pt *progress.ProgressTracker, stage progress.Stage, percent float64, message string) {
	if pt != nil {
		pt.UpdateProgress(stage, percent, message)
	}
}

func fail(pt *progress.ProgressTracker, err error) error {
	if pt != nil {
		pt.SetError(err)
	}
	return err
}
