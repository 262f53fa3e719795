package tracklist

import (
	"regexp"
	"strings"

	"github.com/jaki95/tracklist-cue/internal/timecode"
)

// Extraction is a timestamp token and title found on one line.
type Extraction struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
}

// Shape is one supported line layout. Pattern has exactly two capture groups,
// one holding the timestamp token and the other the title.
type Shape struct {
	Name    string
	Pattern *regexp.Regexp
}

// Match applies the shape to an already normalised line.
func (s Shape) Match(line string) (Extraction, bool) {
	m := s.Pattern.FindStringSubmatch(line)
	if m == nil {
		return Extraction{}, false
	}

	timestamp, title := m[1], m[2]
	if !strings.Contains(timestamp, ":") {
		timestamp, title = title, timestamp
	}

	return Extraction{
		Timestamp: strings.TrimSpace(timestamp),
		Title:     strings.TrimSpace(title),
	}, true
}

// space matches Unicode whitespace; RE2's \s alone is ASCII only.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var ordinalPrefix = regexp.MustCompile(`^\d+\.` + space + `*`)

// Shapes lists the supported layouts in priority order. The patterns
// overlap, so the first match wins.
var Shapes = []Shape{
	{
		// "[0:00] Intro", "(0:00) Intro", "0:00 Intro"
		Name:    "bracketed prefix",
		Pattern: regexp.MustCompile(`^[\[(]?(` + timecode.TokenPattern + `)[\])]?` + space + `+(.+)$`),
	},
	{
		// subsumed by the bracketed prefix, kept as an explicit fallback
		Name:    "bare prefix",
		Pattern: regexp.MustCompile(`^(` + timecode.TokenPattern + `)` + space + `+(.+)$`),
	},
	{
		// "Intro (0:00)", "Intro 0:00"
		Name:    "suffix",
		Pattern: regexp.MustCompile(`^(.+?)` + space + `+[\[(]?(` + timecode.TokenPattern + `)[\])]?$`),
	},
}

// Extract finds the timestamp and title on a single line of a listing.
// It reports false for blank lines and lines that fit no shape.
func Extract(line string) (Extraction, bool) {
	line = normalize(line)
	if line == "" {
		return Extraction{}, false
	}

	for _, shape := range Shapes {
		if e, ok := shape.Match(line); ok {
			return e, true
		}
	}
	return Extraction{}, false
}

// normalize trims the line and strips a leading "1. " style list marker.
func normalize(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return ordinalPrefix.ReplaceAllString(line, "")
}
