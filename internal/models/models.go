package models

import "database/sql"

// DateLayout is the layout of every date stored in the dataset. Dates in this
// layout sort lexicographically in chronological order.
const DateLayout = "2006-01-02"

type Station struct {
	StationID string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

type Observation struct {
	StationID string
	Date      string
	Precip    sql.NullFloat64
	Tobs      float64
}

// PrecipReading is a single (date, prcp) row.
type PrecipReading struct {
	Date   string
	Precip sql.NullFloat64
}

// TempReading is a single (date, tobs) row, serialised as returned by /api/v1.0/tobs.
type TempReading struct {
	Date string  `json:"date"`
	Tobs float64 `json:"tobs"`
}

// TemperatureStats holds min/avg/max of tobs. Fields are invalid when no rows matched.
type TemperatureStats struct {
	Min sql.NullFloat64
	Avg sql.NullFloat64
	Max sql.NullFloat64
}
