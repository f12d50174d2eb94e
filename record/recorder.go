package record

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Registers the SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// Recorder is a backend that stores simulation results.
type Recorder interface {
	// CreateTable creates a table whose columns mirror the fields of the
	// sample entry. The sample must be a flat struct of scalar fields.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one row for a table created earlier. Rows reach
	// the database on the next flush.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered rows in one transaction.
	Flush()
}

// NewRecorder creates a SQLite-backed Recorder writing to path+".sqlite3".
// An empty path picks a fresh random name.
func NewRecorder(path string) Recorder {
	s := &sqliteStore{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*tableBuffer),
	}

	s.open()

	atexit.Register(func() { s.Flush() })

	return s
}

// NewRecorderWithDB creates a Recorder on an existing database connection.
// The caller keeps ownership of the connection.
func NewRecorderWithDB(db *sql.DB) Recorder {
	s := &sqliteStore{
		DB:        db,
		batchSize: 100000,
		tables:    make(map[string]*tableBuffer),
	}

	atexit.Register(func() { s.Flush() })

	return s
}

type tableBuffer struct {
	fields []string
	rows   []any
}

type sqliteStore struct {
	*sql.DB

	dbName    string
	tables    map[string]*tableBuffer
	batchSize int
	buffered  int
}

func (s *sqliteStore) open() {
	if s.dbName == "" {
		s.dbName = "deltav_run_" + xid.New().String()
	}

	filename := s.dbName + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(errors.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Recording simulation results to %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	s.DB = db
}

func scalarKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// fieldNames returns the exported field names of a flat struct, in
// declaration order.
func fieldNames(entry any) ([]string, error) {
	t := reflect.TypeOf(entry)
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("entry must be a struct, got %s", t.Kind())
	}

	names := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			return nil, errors.Errorf(
				"field %s must be exported", field.Name)
		}

		if !scalarKind(field.Type.Kind()) {
			return nil, errors.Errorf(
				"field %s has unsupported type %s",
				field.Name, field.Type)
		}

		names = append(names, field.Name)
	}

	return names, nil
}

func (s *sqliteStore) CreateTable(tableName string, sampleEntry any) {
	fields, err := fieldNames(sampleEntry)
	if err != nil {
		panic(errors.Wrapf(err, "cannot create table %s", tableName))
	}

	stmt := "CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(fields, ",\n\t") + "\n);"
	s.mustExecute(stmt)

	s.tables[tableName] = &tableBuffer{fields: fields}
}

func (s *sqliteStore) InsertData(tableName string, entry any) {
	buf, ok := s.tables[tableName]
	if !ok {
		panic(errors.Errorf("table %s does not exist", tableName))
	}

	buf.rows = append(buf.rows, entry)

	s.buffered++
	if s.buffered >= s.batchSize {
		s.Flush()
	}
}

func (s *sqliteStore) ListTables() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}

	return names
}

func (s *sqliteStore) Flush() {
	if s.buffered == 0 {
		return
	}

	s.mustExecute("BEGIN TRANSACTION")
	defer s.mustExecute("COMMIT TRANSACTION")

	for tableName, buf := range s.tables {
		if len(buf.rows) == 0 {
			continue
		}

		s.flushTable(tableName, buf)
	}

	s.buffered = 0
}

func (s *sqliteStore) flushTable(tableName string, buf *tableBuffer) {
	placeholders := make([]string, len(buf.fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	stmt, err := s.Prepare("INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, row := range buf.rows {
		v := reflect.ValueOf(row)
		args := make([]any, v.NumField())

		for i := range args {
			args[i] = v.Field(i).Interface()
		}

		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}

	buf.rows = nil
}

func (s *sqliteStore) mustExecute(query string) sql.Result {
	res, err := s.Exec(query)
	if err != nil {
		panic(errors.Wrapf(err, "failed to execute %q", query))
	}

	return res
}
