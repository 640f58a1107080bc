// Package source reads raw tables out of the systems a catalogue is built
// over. Every reader returns cell values as strings, with "" standing in for
// NULL or an absent cell.
package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tordrt/catalogue/internal/catalog"
)

// ErrMissingSource is returned when a table named by the discovery map does
// not exist in the source
var ErrMissingSource = errors.New("source table not found")

// Reader loads tables located by layer and name
type Reader interface {
	ReadTable(ctx context.Context, layer, name string) (*catalog.RawTable, error)
	Close() error
}

// Lister is implemented by readers that can enumerate the tables of a layer
type Lister interface {
	ListTables(ctx context.Context, layer string) ([]string, error)
}

// MissingError carries the location of a table that has no data. It
// matches ErrMissingSource.
type MissingError struct {
	Location string
}

func (e *MissingError) Error() string {
	return ErrMissingSource.Error() + ": " + e.Location
}

func (e *MissingError) Is(target error) bool {
	return target == ErrMissingSource
}

func missing(location string) error {
	return &MissingError{Location: location}
}

// scanRows drains a database/sql result set into string records. The byte
// length of all values stands in for the table size.
func scanRows(rows *sql.Rows) ([]string, []map[string]string, int64, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to read columns: %w", err)
	}

	raw := make([]sql.RawBytes, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	var records []map[string]string
	var size int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}
		record := make(map[string]string, len(columns))
		for i, col := range columns {
			record[col] = string(raw[i])
			size += int64(len(raw[i]))
		}
		records = append(records, record)
	}

	return columns, records, size, rows.Err()
}

// scanNames collects a single string column, as returned by table listings
func scanNames(rows *sql.Rows) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
