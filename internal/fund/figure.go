package fund

import "strconv"

type FigureState int

const (
	FigureUnset FigureState = iota
	FigureComputed
	FigureNotApplicable
	FigureNotComputable
)

// Figure is a metric cell: a number, or the reason there is none.
type Figure struct {
	State FigureState
	Value float64
}

var (
	NotApplicable = Figure{State: FigureNotApplicable}
	NotComputable = Figure{State: FigureNotComputable}
)

func NewFigure(v float64) Figure { return Figure{State: FigureComputed, Value: v} }

// figureOf maps a (value, error) result onto a Figure.
func figureOf(v float64, err error) Figure {
	if err != nil {
		return NotComputable
	}
	return NewFigure(v)
}

func (f Figure) Float() (float64, bool) { return f.Value, f.State == FigureComputed }

func (f Figure) IsSet() bool { return f.State != FigureUnset }

// Format renders the value with prec decimals; N/A and n/c are written as text.
func (f Figure) Format(prec int) string {
	switch f.State {
	case FigureComputed:
		return strconv.FormatFloat(f.Value, 'f', prec, 64)
	case FigureNotApplicable:
		return "N/A"
	case FigureNotComputable:
		return "n/c"
	}
	return ""
}

func (f Figure) String() string { return f.Format(3) }
