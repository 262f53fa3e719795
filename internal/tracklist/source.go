package tracklist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Listing is the raw text of a track listing split into lines.
type Listing struct {
	Source string
	// Title is a name hint for the listing, such as a file base name or a
	// page title. It may be empty.
	Title string
	Lines []string
}

// Source produces a track listing.
type Source interface {
	Fetch(ctx context.Context) (*Listing, error)
	Name() string
}

const DefaultEncoding = "utf-8"

// FileSource reads a listing from a text file.
type FileSource struct {
	Path string
	// Encoding is a WHATWG encoding label such as "windows-1252" or
	// "shift_jis". Empty means UTF-8.
	Encoding string
}

func NewFileSource(path, encoding string) *FileSource {
	return &FileSource{Path: path, Encoding: encoding}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Fetch(ctx context.Context) (*Listing, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, newSourceError(f.Path, err)
	}
	defer file.Close()

	text, err := readText(file, f.Encoding)
	if err != nil {
		return nil, newSourceError(f.Path, err)
	}

	base := filepath.Base(f.Path)
	return &Listing{
		Source: f.Path,
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Lines:  SplitLines(text),
	}, nil
}

// ReaderSource reads a listing from an arbitrary reader such as stdin.
type ReaderSource struct {
	Reader   io.Reader
	Label    string
	Encoding string
}

func NewReaderSource(r io.Reader, label, encoding string) *ReaderSource {
	return &ReaderSource{Reader: r, Label: label, Encoding: encoding}
}

func (r *ReaderSource) Name() string {
	return "reader"
}

func (r *ReaderSource) Fetch(ctx context.Context) (*Listing, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	text, err := readText(r.Reader, r.Encoding)
	if err != nil {
		return nil, newSourceError(r.Label, err)
	}
	return &Listing{Source: r.Label, Lines: SplitLines(text)}, nil
}

// TextSource serves a listing that is already in memory.
type TextSource struct {
	Text  string
	Label string
}

func NewTextSource(text, label string) *TextSource {
	return &TextSource{Text: text, Label: label}
}

func (t *TextSource) Name() string {
	return "text"
}

func (t *TextSource) Fetch(ctx context.Context) (*Listing, error) {
	return &Listing{Source: t.Label, Lines: SplitLines(t.Text)}, nil
}

// ClipboardSource reads a listing from the system clipboard.
type ClipboardSource struct {
	readAll func() (string, error)
}

func NewClipboardSource() *ClipboardSource {
	return &ClipboardSource{readAll: clipboard.ReadAll}
}

func (c *ClipboardSource) Name() string {
	return "clipboard"
}

func (c *ClipboardSource) Fetch(ctx context.Context) (*Listing, error) {
	text, err := c.readAll()
	if err != nil {
		return nil, newSourceError("clipboard", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, newSourceError("clipboard", ErrEmptySource)
	}
	return &Listing{Source: "clipboard", Lines: SplitLines(text)}, nil
}

// readText decodes r using the named encoding. A UTF-8 or UTF-16 byte order
// mark overrides the label and is removed.
func readText(r io.Reader, encoding string) (string, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}

	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
