package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lox/surfsup/internal/metrics"
	"github.com/lox/surfsup/internal/models"
)

// ErrNotFound is returned when a query that must yield a row finds none,
// typically because the dataset has no observations.
var ErrNotFound = errors.New("not found")

// Store runs read-only queries against the climate dataset. It never caches:
// every call goes to the database.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// observe records latency for op and counts it as failed when *errp is non-nil.
// Use as: defer observe("op", time.Now(), &err).
func observe(op string, start time.Time, errp *error) {
	metrics.StoreQueryLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if *errp != nil {
		metrics.StoreQueryErrors.WithLabelValues(op).Inc()
	}
}

// LatestDate returns the most recent observation date.
func (s *Store) LatestDate(ctx context.Context) (date string, err error) {
	defer observe("latest_date", time.Now(), &err)

	var latest sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(date) FROM measurement`).Scan(&latest); err != nil {
		return "", fmt.Errorf("latest date: %w", err)
	}
	if !latest.Valid {
		return "", fmt.Errorf("latest date: %w", ErrNotFound)
	}
	return latest.String, nil
}

// ObservationsSince returns (date, prcp) for every observation on or after date,
// ordered by date.
func (s *Store) ObservationsSince(ctx context.Context, date string) (readings []models.PrecipReading, err error) {
	defer observe("observations_since", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, prcp
		FROM measurement
		WHERE date >= ?
		ORDER BY date ASC, rowid ASC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("observations since %s: %w", date, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.PrecipReading
		if err := rows.Scan(&r.Date, &r.Precip); err != nil {
			return nil, fmt.Errorf("scan precipitation: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// AllStations returns every station identifier in storage order.
func (s *Store) AllStations(ctx context.Context) (ids []string, err error) {
	defer observe("all_stations", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `SELECT station FROM station ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("all stations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MostActiveStation returns the station with the most temperature observations.
// Equal counts resolve to the lexicographically smallest station identifier.
func (s *Store) MostActiveStation(ctx context.Context) (station string, err error) {
	defer observe("most_active_station", time.Now(), &err)

	err = s.db.QueryRowContext(ctx, `
		SELECT station
		FROM measurement
		GROUP BY station
		HAVING COUNT(tobs) > 0
		ORDER BY COUNT(tobs) DESC, station ASC
		LIMIT 1
	`).Scan(&station)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("most active station: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("most active station: %w", err)
	}
	return station, nil
}

// ObservationsForStation returns (date, tobs) for one station on or after since.
func (s *Store) ObservationsForStation(ctx context.Context, stationID, since string) (readings []models.TempReading, err error) {
	defer observe("observations_for_station", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, tobs
		FROM measurement
		WHERE station = ? AND date >= ? AND tobs IS NOT NULL
		ORDER BY date ASC, rowid ASC
	`, stationID, since)
	if err != nil {
		return nil, fmt.Errorf("observations for %s: %w", stationID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.TempReading
		if err := rows.Scan(&r.Date, &r.Tobs); err != nil {
			return nil, fmt.Errorf("scan temperature: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// TemperatureStats returns min, avg and max tobs for dates >= start and, when
// end is non-empty, <= end. Bounds are compared as strings.
func (s *Store) TemperatureStats(ctx context.Context, start, end string) (stats models.TemperatureStats, err error) {
	defer observe("temperature_stats", time.Now(), &err)

	query := `SELECT MIN(tobs), AVG(tobs), MAX(tobs) FROM measurement WHERE date >= ?`
	args := []any{start}
	if end != "" {
		query += ` AND date <= ?`
		args = append(args, end)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&stats.Min, &stats.Avg, &stats.Max); err != nil {
		return models.TemperatureStats{}, fmt.Errorf("temperature stats: %w", err)
	}
	return stats, nil
}
