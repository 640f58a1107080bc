package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/tordrt/catalogue/internal/catalog"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

// MySQLReader reads tables from MySQL, one database per layer
type MySQLReader struct {
	client *MySQLClient
}

// NewMySQLReader creates a reader over an open client
func NewMySQLReader(client *MySQLClient) *MySQLReader {
	return &MySQLReader{client: client}
}

// ReadTable selects every row of <layer>.<name>. The reported size is the
// data plus index length from information_schema.
func (r *MySQLReader) ReadTable(ctx context.Context, layer, name string) (*catalog.RawTable, error) {
	location := quoteMySQL(layer) + "." + quoteMySQL(name)

	var size sql.NullInt64
	err := r.client.GetDB().QueryRowContext(ctx, `
		SELECT data_length + index_length
		FROM information_schema.tables
		WHERE table_schema = ? AND table_name = ?
	`, layer, name).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, missing(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", location, err)
	}

	rows, err := r.client.GetDB().QueryContext(ctx, "SELECT * FROM "+location)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", location, err)
	}
	defer rows.Close()

	columns, records, _, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", location, err)
	}

	return &catalog.RawTable{
		Name:      name,
		Layer:     layer,
		Location:  location,
		Columns:   columns,
		Rows:      records,
		SizeBytes: size.Int64,
	}, nil
}

// ListTables returns the base tables of the layer's database
func (r *MySQLReader) ListTables(ctx context.Context, layer string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := r.client.GetDB().QueryContext(ctx, query, layer)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	return scanNames(rows)
}

// Close closes the underlying client
func (r *MySQLReader) Close() error {
	return r.client.Close()
}

func quoteMySQL(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
