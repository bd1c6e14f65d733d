// Package textbox wraps node labels and estimates the size of the box that
// holds them.
//
// Sizes are in layout units, the same units positions use. The estimate is
// a calibration, not a font measurement: [WidthFactor] and [HeightFactor]
// were tuned for the radial SVG renderer's sans-serif stack and should be
// revisited for a different backend.
package textbox

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// Calibration constants for Estimate.
const (
	WidthFactor  = 0.06
	HeightFactor = 0.12
)

// Padding is added to both dimensions after the per-kind minimum is applied.
const Padding = 0.2

// Metrics are the per-kind sizing parameters.
type Metrics struct {
	WrapWidth  int     // characters per line
	BaseWidth  float64 // minimum box width
	BaseHeight float64 // minimum box height
	FontSize   float64 // points
	Bold       bool
}

var metrics = [...]Metrics{
	mindmap.Central:  {WrapWidth: 15, BaseWidth: 2.0, BaseHeight: 0.8, FontSize: 14, Bold: true},
	mindmap.Category: {WrapWidth: 12, BaseWidth: 1.6, BaseHeight: 0.6, FontSize: 11, Bold: true},
	mindmap.Leaf:     {WrapWidth: 10, BaseWidth: 1.2, BaseHeight: 0.5, FontSize: 9},
}

// For returns the metrics of a node kind. Unknown kinds get leaf metrics.
func For(kind mindmap.Kind) Metrics {
	if kind < 0 || int(kind) >= len(metrics) {
		return metrics[mindmap.Leaf]
	}
	return metrics[kind]
}

// Box is a wrapped label and the size of the box around it.
type Box struct {
	Lines  []string
	Width  float64
	Height float64
}

// Size wraps label with the kind's budget and returns its padded box.
func Size(kind mindmap.Kind, label string) Box {
	m := For(kind)
	lines := Wrap(label, m.WrapWidth)
	w, h := Estimate(lines, m.FontSize)
	return Box{
		Lines:  lines,
		Width:  max(w, m.BaseWidth) + Padding,
		Height: max(h, m.BaseHeight) + Padding,
	}
}

// Wrap splits label into lines of at most maxChars characters, breaking only
// at whitespace. A word longer than maxChars gets a line of its own and is
// not shortened. Runs of whitespace collapse to one space. maxChars <= 0
// disables wrapping. An empty or blank label yields no lines.
func Wrap(label string, maxChars int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return nil
	}
	if maxChars <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line, n := words[0], utf8.RuneCountInString(words[0])
	for _, w := range words[1:] {
		wn := utf8.RuneCountInString(w)
		if n+1+wn <= maxChars {
			line += " " + w
			n += 1 + wn
			continue
		}
		lines = append(lines, line)
		line, n = w, wn
	}
	return append(lines, line)
}

// Estimate returns the rendered width and height of lines at fontSize.
// Width counts terminal display cells, so wide runes count double.
func Estimate(lines []string, fontSize float64) (width, height float64) {
	longest := 0
	for _, l := range lines {
		longest = max(longest, runewidth.StringWidth(l))
	}
	return float64(longest) * fontSize * WidthFactor, float64(len(lines)) * fontSize * HeightFactor
}
