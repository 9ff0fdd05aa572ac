package layout

import (
	"math"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/zhubert/tokenlens/internal/tokens"
)

// Measurer reports how many cells a string occupies when drawn.
type Measurer interface {
	StringWidth(s string) int
}

// TerminalMeasurer measures with the terminal's East Asian width rules.
type TerminalMeasurer struct {
	cond *runewidth.Condition
}

// NewTerminalMeasurer builds a measurer from the current locale.
func NewTerminalMeasurer() TerminalMeasurer {
	return TerminalMeasurer{cond: runewidth.NewCondition()}
}

func (t TerminalMeasurer) StringWidth(s string) int {
	if t.cond == nil {
		return runewidth.StringWidth(s)
	}
	return t.cond.StringWidth(s)
}

// Metrics holds everything the layout needs to size a token chip.
type Metrics struct {
	CharWidthID   float64 // width of one id digit
	CharWidthText float64 // width of one text cell
	Padding       int     // cells on each side of a chip
	FieldGap      int     // cells between id and text
	TokenGap      int     // cells between chips on a line
	LineHeight    int     // rows per line

	measure func(string) int
}

// Fallback metrics used when no measurement is available.
const (
	FallbackCharWidthID   = 1.0
	FallbackCharWidthText = 1.0
)

// DefaultMetrics returns the fallback metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		CharWidthID:   FallbackCharWidthID,
		CharWidthText: FallbackCharWidthText,
		Padding:       1,
		FieldGap:      1,
		TokenGap:      1,
		LineHeight:    1,
		measure:       runewidth.StringWidth,
	}
}

// Measure derives metrics from m. A nil measurer, or one that reports a
// non-positive width, gives the fallback values.
func Measure(m Measurer) Metrics {
	metrics := DefaultMetrics()
	if m == nil {
		return metrics
	}
	if w := m.StringWidth("0"); w > 0 {
		metrics.CharWidthID = float64(w)
	}
	if w := m.StringWidth("M"); w > 0 {
		metrics.CharWidthText = float64(w)
	}
	metrics.measure = m.StringWidth
	return metrics
}

// TextCells returns the width of s, capped at tokens.MaxDisplayChars.
func (m Metrics) TextCells(s string) int {
	measure := m.measure
	if measure == nil {
		measure = runewidth.StringWidth
	}
	return min(measure(s), tokens.MaxDisplayChars)
}

// TokenWidth is the rounded-up width of a token chip: padding on both sides,
// the id digits, and either the text field or the brackets that stand in for
// missing text.
func TokenWidth(item tokens.Item, m Metrics) int {
	w := float64(2*m.Padding) + float64(DigitCount(item.ID))*m.CharWidthID
	if item.HasText() {
		w += float64(m.FieldGap) + float64(m.TextCells(item.DisplayText))*m.CharWidthText
	} else {
		w += 2 * m.CharWidthID
	}
	return int(math.Ceil(w))
}

// DigitCount counts the characters of id in base 10, including a minus sign.
func DigitCount(id int) int {
	return len(strconv.Itoa(id))
}
