package vulndb

import (
	"database/sql"
	"errors"
)

var ErrNoKeys = errors.New("no api keys stored in the database")

type Client struct {
	DB *sql.DB

	Path string
}

// Row holds one result row in column order, NULL values as empty strings
type Row []string

// Result is the full outcome of a statement
type Result struct {
	Columns []string
	Rows    []Row
}

// Get returns the column value at position i, or false when the row is too short
func (r Row) Get(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}
