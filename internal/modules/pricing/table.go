package pricing

import (
	"fmt"
	"sort"
	"strconv"

	"farequote/internal/config"
)

// RateRow is one bracket of a stepped table; it applies while key <= Upper.
type RateRow struct {
	Upper   float64
	Compact int64
	Van     int64
}

func (r RateRow) Value(v VehicleClass) int64 {
	if v == Van {
		return r.Van
	}
	return r.Compact
}

// RateTable is an immutable stepped-bracket table with ascending thresholds.
type RateTable struct {
	unit string
	rows []RateRow
}

// NewRateTable copies rows; it fails on an empty or non-ascending table so
// that lookups never have to.
func NewRateTable(unit string, rows []config.RateRow) (RateTable, error) {
	if err := config.ValidateRows(rows); err != nil {
		return RateTable{}, err
	}
	out := make([]RateRow, len(rows))
	for i, r := range rows {
		out[i] = RateRow{Upper: r.Upper, Compact: r.Compact, Van: r.Van}
	}
	return RateTable{unit: unit, rows: out}, nil
}

// Locate returns the index of the first row with key <= Upper. When key is
// past the final threshold it returns the last index and beyond=true.
func (t RateTable) Locate(key float64) (idx int, beyond bool) {
	idx = sort.Search(len(t.rows), func(i int) bool { return key <= t.rows[i].Upper })
	if idx == len(t.rows) {
		return len(t.rows) - 1, true
	}
	return idx, false
}

// Lookup returns the class value of the matching bracket, clamping to the last row.
func (t RateTable) Lookup(v VehicleClass, key float64) int64 {
	idx, _ := t.Locate(key)
	return t.rows[idx].Value(v)
}

func (t RateTable) Len() int { return len(t.rows) }

func (t RateTable) Row(i int) RateRow { return t.rows[i] }

func (t RateTable) Last() RateRow { return t.rows[len(t.rows)-1] }

func (t RateTable) Unit() string { return t.unit }

// Rows returns a copy of the table rows.
func (t RateTable) Rows() []RateRow {
	return append([]RateRow(nil), t.rows...)
}

// Label names bracket i by its lower and upper bound, e.g. "10-15km".
func (t RateTable) Label(i int) string {
	lower := 0.0
	if i > 0 {
		lower = t.rows[i-1].Upper
	}
	return fmt.Sprintf("%s-%s%s", formatBound(lower), formatBound(t.rows[i].Upper), t.unit)
}

// BeyondLabel names the open range past the final threshold, e.g. "over 25km".
func (t RateTable) BeyondLabel() string {
	return "over " + formatBound(t.Last().Upper) + t.unit
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
