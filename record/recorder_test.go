package record_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltav-sim/deltav/record"
)

type tickRow struct {
	TimeLow uint64
	Delta   uint64
	Signal  string
	Value   string
}

func setupTestDB(t *testing.T) (*sql.DB, record.Recorder, record.Reader) {
	db, err := sql.Open("sqlite3", "file:"+t.TempDir()+"/run.sqlite3")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, record.NewRecorderWithDB(db), record.NewReaderWithDB(db)
}

func TestRecorderCreateTable(t *testing.T) {
	db, rec, _ := setupTestDB(t)

	rec.CreateTable("ticks", tickRow{})

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master " +
		"WHERE type='table' AND name='ticks';").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "ticks", name)
	assert.Contains(t, rec.ListTables(), "ticks")
}

func TestRecorderInsertAndFlush(t *testing.T) {
	db, rec, _ := setupTestDB(t)

	rec.CreateTable("ticks", tickRow{})
	rec.InsertData("ticks", tickRow{10, 0, "clk", "1"})
	rec.InsertData("ticks", tickRow{20, 1, "clk", "0"})

	var count int
	require.NoError(t,
		db.QueryRow("SELECT COUNT(*) FROM ticks;").Scan(&count))
	assert.Equal(t, 0, count, "rows stay buffered until flush")

	rec.Flush()

	require.NoError(t,
		db.QueryRow("SELECT COUNT(*) FROM ticks;").Scan(&count))
	assert.Equal(t, 2, count)

	var timeLow uint64
	var value string
	require.NoError(t, db.QueryRow(
		"SELECT TimeLow, Value FROM ticks WHERE Delta=1;").
		Scan(&timeLow, &value))
	assert.Equal(t, uint64(20), timeLow)
	assert.Equal(t, "0", value)
}

func TestRecorderFlushSkipsEmptyTables(t *testing.T) {
	_, rec, _ := setupTestDB(t)

	rec.CreateTable("ticks", tickRow{})
	rec.CreateTable("marks", struct{ Name string }{})
	rec.InsertData("marks", struct{ Name string }{"start"})

	assert.NotPanics(t, func() { rec.Flush() })
}

func TestRecorderRejectsNestedStructs(t *testing.T) {
	_, rec, _ := setupTestDB(t)

	type inner struct{ ID int }

	assert.Panics(t, func() {
		rec.CreateTable("bad", struct{ In inner }{})
	})
}

func TestRecorderRejectsMissingTable(t *testing.T) {
	_, rec, _ := setupTestDB(t)

	assert.Panics(t, func() {
		rec.InsertData("nope", tickRow{})
	})
}

func TestReaderQuery(t *testing.T) {
	_, rec, rd := setupTestDB(t)

	rec.CreateTable("ticks", tickRow{})
	for i := uint64(0); i < 10; i++ {
		rec.InsertData("ticks", tickRow{i * 10, 0, "clk", "1"})
	}
	rec.Flush()

	rd.MapTable("ticks", tickRow{})

	results, total, err := rd.Query(context.Background(), "ticks",
		record.QueryParams{
			Where:   "TimeLow >= ?",
			Args:    []any{uint64(50)},
			OrderBy: "TimeLow ASC",
			Limit:   3,
		})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, results, 3)

	first, ok := results[0].(*tickRow)
	require.True(t, ok)
	assert.Equal(t, uint64(50), first.TimeLow)
}

func TestReaderRequiresMapping(t *testing.T) {
	_, _, rd := setupTestDB(t)

	_, _, err := rd.Query(context.Background(), "nope",
		record.QueryParams{})
	require.Error(t, err)
}
