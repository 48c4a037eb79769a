package seatmap

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Class is a cabin class.
type Class string

const (
	ClassBusiness    Class = "Business"
	ClassEconomyPlus Class = "Economy Plus"
	ClassEconomy     Class = "Economy"
)

// Section is a contiguous block of rows sharing one seat configuration.
type Section struct {
	Class    Class
	FirstRow int
	LastRow  int
	Columns  []string
	// Aisle is the index in Columns before which the aisle is drawn.
	Aisle int
}

// Contains reports whether row belongs to the section.
func (s Section) Contains(row int) bool {
	return row >= s.FirstRow && row <= s.LastRow
}

// Layout is a full cabin.
type Layout struct {
	Sections []Section
	ExitRows []int
}

// DefaultLayout is a narrow-body cabin: 4 business rows in 2-2, 4 economy
// plus rows and 16 economy rows in 3-3, with exits at rows 4 and 16.
func DefaultLayout() Layout {
	return Layout{
		Sections: []Section{
			{Class: ClassBusiness, FirstRow: 1, LastRow: 4, Columns: []string{"A", "B", "C", "D"}, Aisle: 2},
			{Class: ClassEconomyPlus, FirstRow: 5, LastRow: 8, Columns: []string{"A", "B", "C", "D", "E", "F"}, Aisle: 3},
			{Class: ClassEconomy, FirstRow: 9, LastRow: 24, Columns: []string{"A", "B", "C", "D", "E", "F"}, Aisle: 3},
		},
		ExitRows: []int{4, 16},
	}
}

// Section returns the section holding row.
func (l Layout) Section(row int) (Section, bool) {
	for _, s := range l.Sections {
		if s.Contains(row) {
			return s, true
		}
	}
	return Section{}, false
}

// Contains reports whether seat exists in the cabin.
func (l Layout) Contains(seat Seat) bool {
	s, ok := l.Section(seat.Row)
	return ok && slices.Contains(s.Columns, seat.Column)
}

// IsExitRow reports whether row is an emergency exit row.
func (l Layout) IsExitRow(row int) bool {
	return slices.Contains(l.ExitRows, row)
}

// Seats lists every seat front to back, left to right.
func (l Layout) Seats() []Seat {
	var out []Seat
	for _, s := range l.Sections {
		for row := s.FirstRow; row <= s.LastRow; row++ {
			for _, col := range s.Columns {
				out = append(out, Seat{Row: row, Column: col})
			}
		}
	}
	return out
}

// Seat is one position in the cabin.
type Seat struct {
	Row    int
	Column string
}

// String returns the designator, e.g. "12C".
func (s Seat) String() string {
	return strconv.Itoa(s.Row) + s.Column
}

// ParseDesignator parses "<row><letter>", e.g. "12C". Letters are case
// insensitive and surrounding whitespace is ignored.
func ParseDesignator(s string) (Seat, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Seat{}, fmt.Errorf("invalid seat designator %q", s)
	}
	col := s[len(s)-1:]
	if col[0] < 'A' || col[0] > 'Z' {
		return Seat{}, fmt.Errorf("invalid seat designator %q: missing column letter", s)
	}
	digits := s[:len(s)-1]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Seat{}, fmt.Errorf("invalid seat designator %q: row must be numeric", s)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row <= 0 {
		return Seat{}, fmt.Errorf("invalid seat designator %q: row must be positive", s)
	}
	return Seat{Row: row, Column: col}, nil
}
