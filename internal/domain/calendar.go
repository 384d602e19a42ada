package domain

import (
	"fmt"
	"slices"
	"strings"
)

// DateID is a four-character "MMDD" code: the month followed by the day the
// climatology week starts on, e.g. "1105" for the week of November 5.
type DateID string

// MonthWeeks lists the valid week-start days of one month of the ice season.
type MonthWeeks struct {
	Month string   `json:"month"`
	Name  string   `json:"name"`
	Weeks []string `json:"weeks"`
}

// Calendar is the fixed set of climatology weeks, in ice-season order
// (November through June).
var Calendar = []MonthWeeks{
	{Month: "11", Name: "November", Weeks: []string{"05", "12", "19", "26"}},
	{Month: "12", Name: "December", Weeks: []string{"04", "11", "18", "25"}},
	{Month: "01", Name: "January", Weeks: []string{"01", "08", "15", "22", "29"}},
	{Month: "02", Name: "February", Weeks: []string{"05", "12", "19", "26"}},
	{Month: "03", Name: "March", Weeks: []string{"05", "12", "19", "26"}},
	{Month: "04", Name: "April", Weeks: []string{"02", "09", "16", "23", "30"}},
	{Month: "05", Name: "May", Weeks: []string{"07", "14", "21", "28"}},
	{Month: "06", Name: "June", Weeks: []string{"04"}},
}

// ParseDateID validates s against the climatology calendar.
func ParseDateID(s string) (DateID, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return "", &InvalidKeyError{Field: "date", Value: s}
	}
	month, week := s[:2], s[2:]
	for _, m := range Calendar {
		if m.Month == month && slices.Contains(m.Weeks, week) {
			return DateID(s), nil
		}
	}
	return "", &InvalidKeyError{Field: "date", Value: s}
}

// Month returns the two-digit month.
func (d DateID) Month() string {
	if len(d) < 2 {
		return ""
	}
	return string(d[:2])
}

// Week returns the two-digit week-start day.
func (d DateID) Week() string {
	if len(d) < 4 {
		return ""
	}
	return string(d[2:4])
}

func (d DateID) String() string { return string(d) }

// Label renders d for people, e.g. "November 5". Unknown months fall back to
// the raw identifier.
func (d DateID) Label() string {
	for _, m := range Calendar {
		if m.Month == d.Month() {
			return m.Name + " " + strings.TrimPrefix(d.Week(), "0")
		}
	}
	return string(d)
}

// DateIDs returns every valid date in ice-season order.
func DateIDs() []DateID {
	var ids []DateID
	for _, m := range Calendar {
		for _, w := range m.Weeks {
			ids = append(ids, DateID(m.Month+w))
		}
	}
	return ids
}

// Selection is one user request: which dataset, which variable, which week.
// A Selection built through NewSelection is always valid.
type Selection struct {
	Mode     Mode     `json:"mode"`
	Variable Variable `json:"variable"`
	Date     DateID   `json:"date"`
}

// DefaultSelection matches the map shown when the viewer first opens.
var DefaultSelection = Selection{Mode: ModeIndividual, Variable: CTMed, Date: "1105"}

// NewSelection parses and validates a raw selection.
func NewSelection(mode, variable, date string) (Selection, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Selection{}, err
	}
	v, err := ParseVariable(variable)
	if err != nil {
		return Selection{}, err
	}
	d, err := ParseDateID(date)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Mode: m, Variable: v, Date: d}, nil
}

// Validate reports whether s was built from valid parts.
func (s Selection) Validate() error {
	if _, err := ParseMode(string(s.Mode)); err != nil {
		return err
	}
	if _, err := ParseVariable(string(s.Variable)); err != nil {
		return err
	}
	if _, err := ParseDateID(string(s.Date)); err != nil {
		return err
	}
	return nil
}

// Key is a stable identifier for the artifact cache.
func (s Selection) Key() string {
	return fmt.Sprintf("%s/%s/%s", s.Mode, s.Variable, s.Date)
}

// AllSelections enumerates every valid (date, variable) pair for mode.
func AllSelections(mode Mode) []Selection {
	dates := DateIDs()
	out := make([]Selection, 0, len(dates)*len(Variables))
	for _, d := range dates {
		for _, v := range Variables {
			out = append(out, Selection{Mode: mode, Variable: v, Date: d})
		}
	}
	return out
}
