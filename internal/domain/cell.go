package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// TimestampLayout is the exact layout of SWPC time_tag cells, interpreted in
// UTC. Three-digit millisecond fraction, no timezone suffix.
const TimestampLayout = "2006-01-02 15:04:05.000"

type cellKind int

const (
	kindText cellKind = iota
	kindInteger
	kindAbsent
)

// CellValue is a single classified JSON table cell: text, integer, or absent
// (JSON null). It is a closed variant constructed once per raw cell by
// [Classify] and never mutated; the typed accessors coerce it into the
// target semantic type.
type CellValue struct {
	kind    cellKind
	text    string
	integer int64
}

// Text wraps a string cell.
func Text(s string) CellValue { return CellValue{kind: kindText, text: s} }

// Integer wraps an integer cell.
func Integer(i int64) CellValue { return CellValue{kind: kindInteger, integer: i} }

// Absent represents a JSON null cell, the SWPC sentinel for a missing reading.
func Absent() CellValue { return CellValue{kind: kindAbsent} }

// Classify maps a raw decoded JSON scalar onto the cell variant: string to
// text, integer-valued number to integer, null to absent. Any other JSON
// type (fractional number, bool, object, array) is rejected. json.Number is
// accepted for documents decoded with UseNumber.
func Classify(raw any) (CellValue, error) {
	switch v := raw.(type) {
	case nil:
		return Absent(), nil
	case string:
		return Text(v), nil
	case float64:
		// encoding/json decodes every JSON number into float64; only
		// integer-valued numbers are representable as cells.
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return Integer(int64(v)), nil
		}
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return Integer(i), nil
		}
	case int:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	}
	return CellValue{}, invalidFormatf("Unsupported value type in JSON: %v.", raw)
}

// ClassifyRows classifies every cell of every row as the first whole-table
// pass, before any row-level validation. The first unsupported cell aborts
// the table.
func ClassifyRows(rows [][]any) ([][]CellValue, error) {
	out := make([][]CellValue, 0, len(rows))
	for _, row := range rows {
		cells := make([]CellValue, 0, len(row))
		for _, raw := range row {
			cell, err := Classify(raw)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cell)
		}
		out = append(out, cells)
	}
	return out, nil
}

// AsInt coerces the cell to an integer. Text is parsed as a base-10 integer
// literal and reports ok=false on failure; an absent cell is zero, not an
// error.
func (c CellValue) AsInt() (int64, bool) {
	switch c.kind {
	case kindText:
		i, err := strconv.ParseInt(c.text, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	case kindInteger:
		return c.integer, true
	default:
		return 0, true
	}
}

// AsFloat coerces the cell to a floating-point value. Text is parsed as a
// decimal or scientific float literal and reports ok=false on failure;
// integers widen; an absent cell is zero, not an error.
func (c CellValue) AsFloat() (float64, bool) {
	switch c.kind {
	case kindText:
		f, err := strconv.ParseFloat(c.text, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case kindInteger:
		return float64(c.integer), true
	default:
		return 0, true
	}
}

// AsText returns the cell as text: text cells verbatim, integers in
// canonical base-10 form, absent cells as the empty string. Never fails.
func (c CellValue) AsText() string {
	switch c.kind {
	case kindText:
		return c.text
	case kindInteger:
		return strconv.FormatInt(c.integer, 10)
	default:
		return ""
	}
}

// AsTimestamp coerces a text cell matching [TimestampLayout] into a UTC
// time. Integer and absent cells always fail: a measurement can never be
// meaningfully timestamp-less, so nulls are a hard error here even though
// numeric fields zero them silently.
func (c CellValue) AsTimestamp() (time.Time, error) {
	if c.kind != kindText {
		return time.Time{}, timestampError(c)
	}
	t, err := time.ParseInLocation(TimestampLayout, c.text, time.UTC)
	if err != nil {
		return time.Time{}, timestampError(c)
	}
	return t, nil
}

func timestampError(c CellValue) *InvalidFormatError {
	return invalidFormatf("Unable to parse date into expected format. Expected format %s, got %s.",
		TimestampLayout, c)
}

// String renders the cell the way it appeared on the wire: text verbatim,
// integers in base 10, absent as "null". Used when embedding rows in error
// messages.
func (c CellValue) String() string {
	if c.kind == kindAbsent {
		return "null"
	}
	return c.AsText()
}
