package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tordrt/catalogue/internal/catalog"
)

// PostgresClient manages a connection pool to PostgreSQL
type PostgresClient struct {
	pool *pgxpool.Pool
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{pool: pool}, nil
}

// Close closes the pool
func (c *PostgresClient) Close() {
	c.pool.Close()
}

// GetPool returns the underlying pool
func (c *PostgresClient) GetPool() *pgxpool.Pool {
	return c.pool
}

// PostgresReader reads tables from PostgreSQL, one schema per layer
type PostgresReader struct {
	client *PostgresClient
}

// NewPostgresReader creates a reader over an open client
func NewPostgresReader(client *PostgresClient) *PostgresReader {
	return &PostgresReader{client: client}
}

// ReadTable selects every row of <layer>.<name>. The simple protocol makes
// the server return every value in its text form.
func (r *PostgresReader) ReadTable(ctx context.Context, layer, name string) (*catalog.RawTable, error) {
	ident := pgx.Identifier{layer, name}.Sanitize()

	var size *int64
	err := r.client.GetPool().QueryRow(ctx,
		`SELECT pg_total_relation_size(to_regclass($1))`, ident).Scan(&size)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", ident, err)
	}
	if size == nil {
		return nil, missing(ident)
	}

	rows, err := r.client.GetPool().Query(ctx, "SELECT * FROM "+ident, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", ident, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	var records []map[string]string
	for rows.Next() {
		values := rows.RawValues()
		record := make(map[string]string, len(columns))
		for i, col := range columns {
			record[col] = string(values[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", ident, err)
	}

	return &catalog.RawTable{
		Name:      name,
		Layer:     layer,
		Location:  ident,
		Columns:   columns,
		Rows:      records,
		SizeBytes: *size,
	}, nil
}

// ListTables returns the base tables of the layer's schema
func (r *PostgresReader) ListTables(ctx context.Context, layer string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := r.client.GetPool().Query(ctx, query, layer)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// Close closes the underlying pool
func (r *PostgresReader) Close() error {
	r.client.Close()
	return nil
}
