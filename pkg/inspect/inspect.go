// Package inspect examines produced Parquet artifacts via DuckDB.
package inspect

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Inspector reads Parquet files through an in-memory DuckDB instance.
type Inspector struct {
	db *sql.DB
}

// NewInspector opens an in-memory DuckDB connection.
func NewInspector() (*Inspector, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return &Inspector{db: db}, nil
}

// Close releases the DuckDB connection.
func (i *Inspector) Close() error {
	return i.db.Close()
}

// ColumnInfo describes one column of a Parquet file.
type ColumnInfo struct {
	Name string
	Type string
}

// Schema retrieves column names and types from a Parquet file.
func (i *Inspector) Schema(path string) ([]ColumnInfo, error) {
	query := fmt.Sprintf(`DESCRIBE SELECT * FROM read_parquet('%s')`, escape(path))

	rows, err := i.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var name, dtype string
		var null, key, dflt, extra interface{}
		if err := rows.Scan(&name, &dtype, &null, &key, &dflt, &extra); err != nil {
			return nil, err
		}
		columns = append(columns, ColumnInfo{Name: name, Type: dtype})
	}
	return columns, rows.Err()
}

// RowCount returns the number of rows in a Parquet file.
func (i *Inspector) RowCount(path string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM read_parquet('%s')`, escape(path))

	var count int64
	if err := i.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// Preview returns up to limit rows rendered as strings, with the column
// names, for a quick look at the extracted data.
func (i *Inspector) Preview(path string, limit int) ([]string, [][]string, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT * FROM read_parquet('%s') LIMIT %d`, escape(path), limit)

	rows, err := i.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to preview: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for j := range raw {
			ptrs[j] = &raw[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		rendered := make([]string, len(cols))
		for j, v := range raw {
			if v == nil {
				rendered[j] = "NULL"
			} else {
				rendered[j] = fmt.Sprintf("%v", v)
			}
		}
		out = append(out, rendered)
	}
	return cols, out, rows.Err()
}

func escape(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
