package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tordrt/catalogue/internal/catalog"
)

const csvExt = ".csv"

// CSVReader reads tables laid out as <dir>/<layer>/<table>.csv, the first
// row of each file being the header
type CSVReader struct {
	dir string
}

// NewCSVReader creates a reader rooted at dir
func NewCSVReader(dir string) (*CSVReader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to open data directory: %s is not a directory", dir)
	}
	return &CSVReader{dir: dir}, nil
}

// Path returns the file a table is read from
func (r *CSVReader) Path(layer, name string) string {
	return filepath.Join(r.dir, layer, name+csvExt)
}

// ReadTable parses one CSV file. Short records leave their trailing columns
// absent and extra fields past the header are ignored.
func (r *CSVReader) ReadTable(ctx context.Context, layer, name string) (*catalog.RawTable, error) {
	path := r.Path(layer, name)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, missing(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table := &catalog.RawTable{
		Name:      name,
		Layer:     layer,
		Location:  path,
		SizeBytes: info.Size(),
	}

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	table.Columns = header

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ListTables returns the table names of a layer directory in sorted order
func (r *CSVReader) ListTables(_ context.Context, layer string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dir, layer))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list layer %s: %w", layer, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != csvExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), csvExt))
	}
	slices.Sort(names)
	return names, nil
}

// Close is a no-op; files are closed after each read
func (r *CSVReader) Close() error {
	return nil
}
