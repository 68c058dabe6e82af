// Package domain models NOAA SWPC real-time solar wind telemetry.
//
// # Data Source
//
// Measurements originate from the DSCOVR satellite and are published by the
// NOAA Space Weather Prediction Center (SWPC) as row-oriented JSON tables at
// https://services.swpc.noaa.gov/products/solar-wind/. Each product file is a
// JSON array of arrays: the first row is a header of column-name strings, and
// every following row is one measurement at one time tag.
//
// # SWPC Data Conventions
//
// Cell types:
//
//	Numeric readings are published as decimal strings ("-4.47", "12345").
//	A null cell is the SWPC sentinel for a missing reading and is coerced
//	to zero for numeric fields. Time tags are never null; a row without a
//	valid time tag is malformed.
//
// Time format:
//
//	"YYYY-MM-DD HH:MM:SS.mmm" in UTC with a three-digit millisecond
//	fraction and no timezone suffix, e.g. "2024-09-15 16:14:00.000".
//
// Magnetometer product (mag-<window>.json):
//
//	time_tag, bx_gsm, by_gsm, bz_gsm, lon_gsm, lat_gsm, bt
//	Field components are nanotesla in Geocentric Solar Magnetospheric (GSM)
//	coordinates; bt is total field strength; lon/lat are the field vector's
//	GSM longitude and latitude in degrees.
//
// Plasma product (plasma-<window>.json):
//
//	time_tag, density, speed, temperature
//	Proton density in cm^-3, bulk speed in km/s, temperature in kelvin
//	(published as an integer).
//
// # Parsing Model
//
// Raw decoded JSON cells are first classified into the closed [CellValue]
// variant (text, integer, absent) by [Classify]; no untyped value crosses
// that boundary. A [Schema] then describes each product's header and field
// types, and the row parser coerces every row in column order, producing
// [MagReading] or [PlasmaReading] records. Any structural or coercion
// failure aborts the whole batch with an [InvalidFormatError]; there is no
// partial success.
//
// # Derived Quantities
//
// Validated magnetometer and plasma readings at the same time tag combine
// into a [SolarWindRecord] carrying secondary physical quantities: dynamic
// pressure, Alfven speed and Mach number, IMF clock angle, and the Newell
// coupling function. See derive.go for the formulas and units.
package domain
