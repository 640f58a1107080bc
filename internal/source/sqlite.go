package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/catalogue/internal/catalog"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db   *sql.DB
	path string
}

// NewSQLiteClient creates a new SQLite client
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db, path: path}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

// SQLiteReader reads tables from a single SQLite file. SQLite has no schema
// namespace to map layers onto, so the layer is only recorded.
type SQLiteReader struct {
	client *SQLiteClient
}

// NewSQLiteReader creates a reader over an open client
func NewSQLiteReader(client *SQLiteClient) *SQLiteReader {
	return &SQLiteReader{client: client}
}

// ReadTable selects every row of the named table
func (r *SQLiteReader) ReadTable(ctx context.Context, layer, name string) (*catalog.RawTable, error) {
	location := r.client.path + "#" + name

	var found string
	err := r.client.GetDB().QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, missing(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", name, err)
	}

	rows, err := r.client.GetDB().QueryContext(ctx, "SELECT * FROM "+quoteSQLite(name))
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", name, err)
	}
	defer rows.Close()

	columns, records, size, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}

	return &catalog.RawTable{
		Name:      name,
		Layer:     layer,
		Location:  location,
		Columns:   columns,
		Rows:      records,
		SizeBytes: size,
	}, nil
}

// ListTables returns every user table in the database, whatever the layer
func (r *SQLiteReader) ListTables(ctx context.Context, _ string) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	return scanNames(rows)
}

// Close closes the underlying client
func (r *SQLiteReader) Close() error {
	return r.client.Close()
}

func quoteSQLite(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
