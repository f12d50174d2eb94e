package record

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// QueryParams narrows and paginates a table query.
type QueryParams struct {
	// Where is a WHERE clause without the keyword, with ? placeholders
	// bound from Args.
	Where string
	Args  []any

	// OrderBy is an ORDER BY clause without the keywords.
	OrderBy string

	// Limit caps the number of returned rows; 0 means no cap. Offset
	// skips rows and only applies together with Limit.
	Limit  int
	Offset int
}

// Reader reads previously recorded results back from a database.
type Reader interface {
	// MapTable binds a table to the struct type its rows scan into. The
	// binding is required before the table can be queried.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns all mapped table names.
	ListTables() []string

	// Query returns rows as pointers to the mapped struct type, plus the
	// total row count ignoring pagination.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any, totalCount int, err error)

	// Close closes the database connection.
	Close() error
}

type sqliteLoader struct {
	*sql.DB

	typeMap map[string]reflect.Type
}

// NewReader opens the database file a Recorder wrote earlier.
func NewReader(dbFilename string) Reader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return &sqliteLoader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

// NewReaderWithDB creates a Reader on an existing database connection.
func NewReaderWithDB(db *sql.DB) Reader {
	return &sqliteLoader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

func (r *sqliteLoader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteLoader) ListTables() []string {
	names := make([]string, 0, len(r.typeMap))
	for name := range r.typeMap {
		names = append(names, name)
	}

	return names
}

func (r *sqliteLoader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, errors.Errorf("table %s is not mapped", tableName)
	}

	totalCount, err := r.queryTotalCount(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM " + tableName

	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	rows, err := r.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := scanRows(rows, structType)
	if err != nil {
		return nil, 0, err
	}

	return results, totalCount, nil
}

func (r *sqliteLoader) queryTotalCount(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	query := "SELECT COUNT(*) FROM " + tableName
	if params.Where != "" {
		query += " WHERE " + params.Where
	}

	var count int
	err := r.QueryRowContext(ctx, query, params.Args...).Scan(&count)

	return count, err
}

func scanRows(rows *sql.Rows, structType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIdx := make(map[string]int, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		fieldIdx[structType.Field(i).Name] = i
	}

	var results []any

	for rows.Next() {
		ptr := reflect.New(structType)
		val := ptr.Elem()
		targets := make([]any, len(columns))

		for i, col := range columns {
			if idx, ok := fieldIdx[col]; ok {
				targets[i] = val.Field(idx).Addr().Interface()
			} else {
				var discard any
				targets[i] = &discard
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, ptr.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteLoader) Close() error {
	return r.DB.Close()
}
