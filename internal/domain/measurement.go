package domain

import "time"

// FieldType describes how one schema column is coerced.
type FieldType int

const (
	// FieldTimestamp is coerced via CellValue.AsTimestamp.
	FieldTimestamp FieldType = iota
	// FieldFloat is coerced via CellValue.AsFloat.
	FieldFloat
	// FieldInt is coerced via CellValue.AsInt.
	FieldInt
)

// Schema describes one measurement kind: its product name, the fixed header
// SWPC declares for it, and the type of every field in column order. Schemas
// are constructed once at package init and never mutated.
type Schema struct {
	Name   string
	Header []string
	Fields []FieldType
}

// FieldCount returns the expected number of cells per data row.
func (s Schema) FieldCount() int { return len(s.Fields) }

var (
	// MagnetometerSchema describes the mag-<window>.json product.
	MagnetometerSchema = Schema{
		Name:   "magnetometer",
		Header: []string{"time_tag", "bx_gsm", "by_gsm", "bz_gsm", "lon_gsm", "lat_gsm", "bt"},
		Fields: []FieldType{FieldTimestamp, FieldFloat, FieldFloat, FieldFloat, FieldFloat, FieldFloat, FieldFloat},
	}

	// PlasmaSchema describes the plasma-<window>.json product. Temperature
	// is published as integer kelvin and kept integral.
	PlasmaSchema = Schema{
		Name:   "plasma",
		Header: []string{"time_tag", "density", "speed", "temperature"},
		Fields: []FieldType{FieldTimestamp, FieldFloat, FieldFloat, FieldInt},
	}
)

// MagReading is one magnetometer measurement. Field components are
// nanotesla in GSM coordinates; lon/lat are degrees.
type MagReading struct {
	TimeTag time.Time `json:"time_tag"`
	BxGSM   float64   `json:"bx_gsm"`
	ByGSM   float64   `json:"by_gsm"`
	BzGSM   float64   `json:"bz_gsm"`
	LonGSM  float64   `json:"lon_gsm"`
	LatGSM  float64   `json:"lat_gsm"`
	Bt      float64   `json:"bt"`
}

// PlasmaReading is one plasma measurement: proton density in cm^-3, bulk
// speed in km/s, temperature in kelvin.
type PlasmaReading struct {
	TimeTag     time.Time `json:"time_tag"`
	Density     float64   `json:"density"`
	Speed       float64   `json:"speed"`
	Temperature int64     `json:"temperature"`
}

// coercedRow holds one validated row: the time tag plus every numeric field
// in column order. FieldInt values are exact when widened; SWPC integer
// ranges stay far below 2^53.
type coercedRow struct {
	timestamp time.Time
	numbers   []float64
}

// parseMeasurements is the single row-parsing loop shared by every
// measurement kind. Each row is validated against the schema's field count,
// coerced field by field in column order, and handed to build. The first
// failure aborts the whole batch: callers get either every record or none.
// Zero data rows yield an empty slice, not an error. Input order is
// preserved; rows are never reordered.
func parseMeasurements[R any](schema Schema, rows [][]CellValue, build func(coercedRow) R) ([]R, error) {
	records := make([]R, 0, len(rows))
	for _, row := range rows {
		if len(row) != schema.FieldCount() {
			return nil, invalidFormatf("Data row length not as expected. Expected row length of %d, got %d.",
				schema.FieldCount(), len(row))
		}

		ts, err := row[0].AsTimestamp()
		if err != nil {
			return nil, err
		}

		numbers := make([]float64, 0, len(row)-1)
		for i, cell := range row[1:] {
			var (
				v  float64
				ok bool
			)
			if schema.Fields[i+1] == FieldInt {
				var n int64
				n, ok = cell.AsInt()
				v = float64(n)
			} else {
				v, ok = cell.AsFloat()
			}
			if !ok {
				return nil, invalidFormatf("Invalid data found in measurement. Failing raw data: %v.", row)
			}
			numbers = append(numbers, v)
		}

		records = append(records, build(coercedRow{timestamp: ts, numbers: numbers}))
	}
	return records, nil
}

// ParseMagnetometer turns classified magnetometer data rows into readings,
// oldest input row first.
func ParseMagnetometer(rows [][]CellValue) ([]MagReading, error) {
	return parseMeasurements(MagnetometerSchema, rows, func(r coercedRow) MagReading {
		return MagReading{
			TimeTag: r.timestamp,
			BxGSM:   r.numbers[0],
			ByGSM:   r.numbers[1],
			BzGSM:   r.numbers[2],
			LonGSM:  r.numbers[3],
			LatGSM:  r.numbers[4],
			Bt:      r.numbers[5],
		}
	})
}

// ParsePlasma turns classified plasma data rows into readings, oldest input
// row first.
func ParsePlasma(rows [][]CellValue) ([]PlasmaReading, error) {
	return parseMeasurements(PlasmaSchema, rows, func(r coercedRow) PlasmaReading {
		return PlasmaReading{
			TimeTag:     r.timestamp,
			Density:     r.numbers[0],
			Speed:       r.numbers[1],
			Temperature: int64(r.numbers[2]),
		}
	})
}

// SolarWindRecord pairs a magnetometer and a plasma reading taken at the
// same time tag, together with the quantities derived from them.
type SolarWindRecord struct {
	TimeTag     time.Time     `json:"time_tag"`
	Mag         MagReading    `json:"mag"`
	Plasma      PlasmaReading `json:"plasma"`
	Derived     Derived       `json:"derived"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// MergeReadings joins magnetometer and plasma readings on equal time tags.
// Both inputs are time-ordered (SWPC publishes them that way and the parser
// preserves order), so a single forward pass suffices; readings without a
// counterpart in the other product are skipped.
func MergeReadings(mags []MagReading, plasmas []PlasmaReading) []SolarWindRecord {
	out := make([]SolarWindRecord, 0, min(len(mags), len(plasmas)))
	i, j := 0, 0
	for i < len(mags) && j < len(plasmas) {
		switch {
		case mags[i].TimeTag.Before(plasmas[j].TimeTag):
			i++
		case plasmas[j].TimeTag.Before(mags[i].TimeTag):
			j++
		default:
			out = append(out, SolarWindRecord{
				TimeTag:     mags[i].TimeTag,
				Mag:         mags[i],
				Plasma:      plasmas[j],
				Derived:     DeriveQuantities(mags[i], plasmas[j]),
				ProcessedAt: clock.Now().UTC(),
			})
			i++
			j++
		}
	}
	return out
}
