// Package record stores simulation results in a SQLite database. Writers
// buffer rows in memory and flush them in batched transactions; any rows
// still buffered when the program exits are flushed through an atexit hook.
// Table schemas are derived from flat Go structs by reflection.
package record
