// Package coords finds bracketed map coordinates such as "[12,-34]" in free
// text and derives the travel command pasted into the game chat.
package coords

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// DefaultPrefix is the chat command a coordinate pair is turned into.
const DefaultPrefix = "/travel"

// Pattern matches "[x,y]" with an optional space after the comma. Each number
// is an optional minus, digits, and an optional decimal fraction. Group 1 is
// x and group 3 is y.
var Pattern = regexp.MustCompile(`\[(-?\d+(\.\d+)?),\s*(-?\d+(\.\d+)?)]`)

// Match is one coordinate pair found in a piece of text.
type Match struct {
	Text  string // matched text, brackets included
	X     string // first number as written
	Y     string // second number as written
	Start int    // byte offset of Text in the scanned string
	End   int
}

// Find returns every non-overlapping coordinate pair in text, in order.
func Find(text string) []Match {
	idx := Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(idx))
	for _, loc := range idx {
		matches = append(matches, Match{
			Text:  text[loc[0]:loc[1]],
			X:     text[loc[2]:loc[3]],
			Y:     text[loc[6]:loc[7]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return matches
}

// Parse extracts the first coordinate pair of s.
func Parse(s string) (Match, error) {
	found := Find(s)
	if len(found) == 0 {
		return Match{}, fmt.Errorf("no coordinate pair in %q", s)
	}
	return found[0], nil
}

// Command renders the travel command for m. An empty prefix means DefaultPrefix.
func (m Match) Command(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + " " + m.X + "," + m.Y
}

// Point returns the numeric value of the pair.
func (m Match) Point() (x, y float64, err error) {
	if x, err = strconv.ParseFloat(m.X, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", m.X, err)
	}
	if y, err = strconv.ParseFloat(m.Y, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", m.Y, err)
	}
	return x, y, nil
}

// Distance is the Manhattan distance between two map cells.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Abs(x1-x2) + math.Abs(y1-y2)
}
