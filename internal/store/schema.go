package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaMismatch is returned when the dataset does not have the expected tables or columns.
var ErrSchemaMismatch = errors.New("dataset schema mismatch")

type column struct {
	Name string
	Type string // declared SQLite type affinity: TEXT, REAL, INTEGER
}

type table struct {
	Name    string
	Columns []column
}

// schema is the subset of the dataset this service reads. Extra columns and
// tables are allowed; missing ones are not.
var schema = []table{
	{
		Name: "measurement",
		Columns: []column{
			{Name: "station", Type: "TEXT"},
			{Name: "date", Type: "TEXT"},
			{Name: "prcp", Type: "REAL"},
			{Name: "tobs", Type: "REAL"},
		},
	},
	{
		Name: "station",
		Columns: []column{
			{Name: "station", Type: "TEXT"},
			{Name: "name", Type: "TEXT"},
			{Name: "latitude", Type: "REAL"},
			{Name: "longitude", Type: "REAL"},
			{Name: "elevation", Type: "REAL"},
		},
	},
}

// VerifySchema checks that the dataset has every table and column the queries use.
func (s *Store) VerifySchema(ctx context.Context) error {
	for _, t := range schema {
		have, err := s.tableColumns(ctx, t.Name)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", t.Name, err)
		}
		if len(have) == 0 {
			return fmt.Errorf("%w: table %q not found", ErrSchemaMismatch, t.Name)
		}
		for _, c := range t.Columns {
			declared, ok := have[c.Name]
			if !ok {
				return fmt.Errorf("%w: table %q missing column %q", ErrSchemaMismatch, t.Name, c.Name)
			}
			if affinity(declared) != c.Type {
				return fmt.Errorf("%w: column %s.%s has type %q, want %s", ErrSchemaMismatch, t.Name, c.Name, declared, c.Type)
			}
		}
	}
	return nil
}

func (s *Store) tableColumns(ctx context.Context, name string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var colName, colType string
		if err := rows.Scan(&colName, &colType); err != nil {
			return nil, err
		}
		cols[strings.ToLower(colName)] = colType
	}
	return cols, rows.Err()
}

// affinity maps a declared column type to its SQLite type affinity, following
// the rules in https://www.sqlite.org/datatype3.html#determination_of_column_affinity.
func affinity(declared string) string {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "INT"):
		return "INTEGER"
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return "TEXT"
	case strings.Contains(t, "BLOB"), t == "":
		return "BLOB"
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return "REAL"
	default:
		return "NUMERIC"
	}
}
