// Package timecode converts timestamp tokens such as "4:30" or "1:02:03"
// into CUE sheet index positions.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TokenPattern matches a timestamp token: M:SS, MM:SS, H:MM:SS or HH:MM:SS.
// It has no anchors and no capture groups so it can be embedded in larger
// line patterns.
const TokenPattern = `\d{1,2}:\d{2}(?::\d{2})?`

// FramesPerSecond is the CUE frame rate.
const FramesPerSecond = 75

var ErrInvalidFormat = errors.New("invalid timestamp format")

// Timecode is a CUE index position. Hours are folded into Minutes.
type Timecode struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Frames  int `json:"frames"`
}

// Parse converts a timestamp token into a Timecode.
//
// Two groups are read as minutes and seconds, three as hours, minutes and
// seconds. Frames are always 0 since the listings never carry sub-second
// precision.
//
// Values are not range checked: "1:75" yields {1, 75, 0}. The seconds field
// keeps what the listing says and is never carried into minutes.
func Parse(token string) (Timecode, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, ":")

	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 31)
		if err != nil {
			return Timecode{}, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
		}
		values[i] = int(v)
	}

	switch len(values) {
	case 2: // MM:SS
		return Timecode{Minutes: values[0], Seconds: values[1]}, nil
	case 3: // HH:MM:SS
		return Timecode{Minutes: values[1] + values[0]*60, Seconds: values[2]}, nil
	default:
		return Timecode{}, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}
}

// String formats the timecode as MM:SS:FF, the CUE INDEX layout.
func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Minutes, t.Seconds, t.Frames)
}

// TotalSeconds returns the position in whole seconds.
func (t Timecode) TotalSeconds() int {
	return t.Minutes*60 + t.Seconds
}
