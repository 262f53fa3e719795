package tracklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Extraction
		match    bool
	}{
		{
			name:     "bare prefix",
			line:     "0:00 Intro",
			expected: Extraction{Timestamp: "0:00", Title: "Intro"},
			match:    true,
		},
		{
			name:     "square brackets",
			line:     "[0:00] Intro",
			expected: Extraction{Timestamp: "0:00", Title: "Intro"},
			match:    true,
		},
		{
			name:     "parentheses prefix",
			line:     "(12:34) Second Song",
			expected: Extraction{Timestamp: "12:34", Title: "Second Song"},
			match:    true,
		},
		{
			name:     "suffix in parentheses",
			line:     "Intro (0:00)",
			expected: Extraction{Timestamp: "0:00", Title: "Intro"},
			match:    true,
		},
		{
			name:     "bare suffix",
			line:     "Artist - Song 1:02:03",
			expected: Extraction{Timestamp: "1:02:03", Title: "Artist - Song"},
			match:    true,
		},
		{
			name:     "hours prefix",
			line:     "1:02:03 Late Track",
			expected: Extraction{Timestamp: "1:02:03", Title: "Late Track"},
			match:    true,
		},
		{
			name:     "ordinal prefix stripped",
			line:     "1. 0:05 Second Track",
			expected: Extraction{Timestamp: "0:05", Title: "Second Track"},
			match:    true,
		},
		{
			name:     "ordinal prefix without space",
			line:     "12.[3:00] Closer",
			expected: Extraction{Timestamp: "3:00", Title: "Closer"},
			match:    true,
		},
		{
			name:     "surrounding whitespace",
			line:     "\t  4:30   Track Three  \r",
			expected: Extraction{Timestamp: "4:30", Title: "Track Three"},
			match:    true,
		},
		{
			name:     "title keeps inner punctuation",
			line:     "2:15 Artist - Title (Remix) [Label]",
			expected: Extraction{Timestamp: "2:15", Title: "Artist - Title (Remix) [Label]"},
			match:    true,
		},
		{
			name:     "two timestamps resolved by prefix shape",
			line:     "0:00 Intro 3:00",
			expected: Extraction{Timestamp: "0:00", Title: "Intro 3:00"},
			match:    true,
		},
		{
			name:     "two timestamps in suffix shape: the colon rule picks the leading text",
			line:     "Intro 0:00 - 3:00",
			expected: Extraction{Timestamp: "Intro 0:00 -", Title: "3:00"},
			match:    true,
		},
		{
			name:     "colon in suffix title routes the title to the timestamp slot",
			line:     "Part 1: Intro 0:30",
			expected: Extraction{Timestamp: "Part 1: Intro", Title: "0:30"},
			match:    true,
		},
		{
			name:     "no-break space after prefix",
			line:     "0:00\u00a0Intro",
			match:    true,
			expected: Extraction{Timestamp: "0:00", Title: "Intro"},
		},
		{
			name:     "no-break space after bracketed prefix",
			line:     "[1:30]\u00a0\u00a0Track Two",
			match:    true,
			expected: Extraction{Timestamp: "1:30", Title: "Track Two"},
		},
		{
			name:     "no-break space before suffix",
			line:     "Track Three\u00a0(4:30)",
			match:    true,
			expected: Extraction{Timestamp: "4:30", Title: "Track Three"},
		},
		{
			name:     "ideographic space after ordinal and prefix",
			line:     "3.\u3000\u3000 5:00\u3000Outro",
			match:    true,
			expected: Extraction{Timestamp: "5:00", Title: "Outro"},
		},
		{
			name:  "blank",
			line:  "   ",
			match: false,
		},
		{
			name:  "empty",
			line:  "",
			match: false,
		},
		{
			name:  "plain text",
			line:  "just text, no timestamp",
			match: false,
		},
		{
			name:  "timestamp without title",
			line:  "0:00",
			match: false,
		},
		{
			name:  "ordinal only",
			line:  "1.",
			match: false,
		},
		{
			name:  "three digit minutes do not form a token",
			line:  "100:00 Too Long",
			match: false,
		},
		{
			name:  "timestamp glued to title",
			line:  "0:00Intro",
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Extract(tt.line)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.expected, e)
			}
		})
	}
}

func TestShapesOrder(t *testing.T) {
	names := make([]string, len(Shapes))
	for i, s := range Shapes {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"bracketed prefix", "bare prefix", "suffix"}, names)
}

func TestShapeMatch(t *testing.T) {
	tests := []struct {
		shape    int
		line     string
		expected Extraction
		match    bool
	}{
		{0, "[1:00] A", Extraction{"1:00", "A"}, true},
		{0, "1:00 A", Extraction{"1:00", "A"}, true},
		{0, "A (1:00)", Extraction{}, false},
		{1, "1:00 A", Extraction{"1:00", "A"}, true},
		{1, "[1:00] A", Extraction{}, false},
		{2, "A (1:00)", Extraction{"1:00", "A"}, true},
		{2, "A [1:00]", Extraction{"1:00", "A"}, true},
		{2, "A 1:00", Extraction{"1:00", "A"}, true},
		{2, "1:00 A", Extraction{}, false},
	}

	for _, tt := range tests {
		t.Run(Shapes[tt.shape].Name+"/"+tt.line, func(t *testing.T) {
			e, ok := Shapes[tt.shape].Match(tt.line)
			assert.Equal(t, tt.match, ok)
			assert.Equal(t, tt.expected, e)
		})
	}
}
