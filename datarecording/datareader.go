package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// QueryParams selects and orders the rows returned by a query.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, for example
	// "Kind = ?". Its placeholders are bound to Args.
	Where string
	Args  []any

	// OrderBy is a sort clause without the ORDER BY keywords.
	OrderBy string

	// Limit caps the number of rows. Zero means no cap.
	Limit int
}

func (p QueryParams) sql(tableName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SELECT * FROM %s", tableName)

	if p.Where != "" {
		b.WriteString(" WHERE " + p.Where)
	}

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	if p.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)
	}

	return b.String()
}

// DataReader reads rows written by a DataRecorder back into structs.
type DataReader interface {
	// MapTable tells the reader which struct the rows of a table decode into.
	// A table must be mapped before it is queried.
	MapTable(tableName string, sampleEntry any)

	// Query returns one pointer to the mapped struct per selected row.
	Query(ctx context.Context, tableName string, params QueryParams) ([]any, error)

	// Close closes the database.
	Close() error
}

type sqliteReader struct {
	*sql.DB

	types map[string]reflect.Type
}

// NewReader opens path.sqlite3 for reading.
func NewReader(path string) (DataReader, error) {
	db, err := sql.Open("sqlite3", path+".sqlite3")
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a DataReader on an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:    db,
		types: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.types[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, error) {
	t, ok := r.types[tableName]
	if !ok {
		return nil, fmt.Errorf("table %s is not mapped", tableName)
	}

	rows, err := r.QueryContext(ctx, params.sql(tableName), params.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []any
	for rows.Next() {
		entry := reflect.New(t)
		if err := rows.Scan(scanTargets(entry.Elem(), columns)...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

// scanTargets points every column at the field of the same name. Columns
// without a field are scanned and dropped.
func scanTargets(entry reflect.Value, columns []string) []any {
	targets := make([]any, len(columns))

	for i, name := range columns {
		field := entry.FieldByName(name)
		if !field.IsValid() {
			targets[i] = new(any)
			continue
		}

		targets[i] = field.Addr().Interface()
	}

	return targets
}
