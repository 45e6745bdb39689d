// Package xref keeps a cross-reference index of analyzed programs in
// SQLite: every declaration and every reference, keyed by symbol identity.
package xref

import (
	"database/sql"
	"fmt"

	"github.com/ddfreyne/clarke/internal/analyzer"
	"github.com/ddfreyne/clarke/internal/ast"
	"github.com/ddfreyne/clarke/internal/symbols"
	"github.com/ddfreyne/clarke/internal/token"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // enable the "sqlite" SQL driver
)

const SchemaVersion = 1

var initDB = []string{
	`create table if not exists schema_version (version integer)`,
	`create table if not exists symbols (
		id text primary key,
		file text not null,
		name text not null,
		kind text not null,
		type text not null,
		line integer not null,
		col integer not null,
		declared integer not null
	)`,
	`create table if not exists refs (
		file text not null,
		line integer not null,
		col integer not null,
		end_line integer not null,
		end_col integer not null,
		symbol_id text not null
	)`,
	`create index if not exists refs_by_symbol on refs (symbol_id)`,
}

// Index is the cross-reference store.
type Index struct {
	db *sql.DB
}

// Entry is one indexed symbol. Built-ins have an empty File and Line 0.
type Entry struct {
	ID     uuid.UUID
	File   string
	Name   string
	Kind   string
	Type   string
	Line   int
	Column int
}

// Location is a position of a reference.
type Location struct {
	File string
	Span token.Span
}

// Open opens (creating if needed) the index database at path. ":memory:"
// gives a private in-memory index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndexDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// NewIndexDB creates an Index on an open SQLite database.
func NewIndexDB(db *sql.DB) (*Index, error) {
	// One connection keeps ":memory:" databases shared by all queries.
	db.SetMaxOpenConns(1)

	for _, q := range initDB {
		if _, err := db.Exec(q); err != nil {
			return nil, fmt.Errorf("failed to initialize index: %v", err)
		}
	}
	var n int
	if err := db.QueryRow(`select count(*) from schema_version`).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := db.Exec(`insert into schema_version (version) values (?)`, SchemaVersion); err != nil {
			return nil, err
		}
	}
	return &Index{db}, nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

// SchemaUpToDate reports whether the database carries the current schema.
func (idx *Index) SchemaUpToDate() bool {
	var v int
	row := idx.db.QueryRow(`select version from schema_version`)
	return row.Scan(&v) == nil && v >= SchemaVersion
}

// Record replaces everything indexed for file with the declarations and
// references of prog, which must have been analyzed.
func (idx *Index) Record(file string, prog *ast.Program) error {
	return transaction(idx.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`delete from refs where file = ?`, file); err != nil {
			return err
		}
		if _, err := tx.Exec(`delete from symbols where file = ?`, file); err != nil {
			return err
		}

		var err error
		ast.Inspect(prog, func(n ast.Node) bool {
			if err != nil {
				return false
			}
			sym, declares := analyzer.SymbolOf(n)
			if sym == nil {
				return true
			}
			if declares {
				err = putSymbol(tx, `insert or replace`, file, sym, true)
				return err == nil
			}
			if err = putSymbol(tx, `insert or ignore`, builtinFile(file, sym), sym, false); err != nil {
				return false
			}
			span := n.Meta().Span
			_, err = tx.Exec(`insert into refs (file, line, col, end_line, end_col, symbol_id) values (?, ?, ?, ?, ?, ?)`,
				file, span.Start.Line, span.Start.Column, span.End.Line, span.End.Column, sym.ID().String())
			return err == nil
		})
		if err != nil {
			return err
		}
		_, err = tx.Exec(`delete from symbols where file = '' and id not in (select symbol_id from refs)`)
		return err
	})
}

// builtinFile is the file a referenced symbol is attributed to when it has
// not been declared yet. Symbols without a source position are built-ins.
func builtinFile(file string, sym symbols.Symbol) string {
	if sym.Span().IsZero() {
		return ""
	}
	return file
}

// putSymbol writes sym. declared is false for symbols only seen through a
// reference so far, such as built-ins or this.
func putSymbol(tx *sql.Tx, verb, file string, sym symbols.Symbol, declared bool) error {
	typ := ""
	if t := symbols.TypeOf(sym); t != nil {
		typ = t.TypeName()
	}
	pos := sym.Span().Start
	_, err := tx.Exec(verb+` into symbols (id, file, name, kind, type, line, col, declared) values (?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.ID().String(), file, sym.Name(), sym.Kind().String(), typ, pos.Line, pos.Column, declared)
	return err
}

// Lookup answers "go to definition" for the position line:col in file. A
// position on a declared name yields that declaration. Otherwise the
// innermost reference covering the position decides. It returns nil
// without error when nothing is there.
func (idx *Index) Lookup(file string, line, col int) (*Entry, error) {
	row := idx.db.QueryRow(`select id from symbols
		where file = ? and declared and line = ? and col <= ? and col + length(name) > ?`,
		file, line, col, col)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		row = idx.db.QueryRow(`select symbol_id from refs
			where file = ?
			and (line < ? or (line = ? and col <= ?))
			and (end_line > ? or (end_line = ? and end_col > ?))
			order by end_line - line, end_col - col
			limit 1`,
			file, line, line, col, line, line, col)
		err = row.Scan(&id)
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return idx.Symbol(id)
}

// Symbol returns the indexed symbol with the given id.
func (idx *Index) Symbol(id string) (*Entry, error) {
	var e Entry
	var rawID string
	err := idx.db.QueryRow(`select id, file, name, kind, type, line, col from symbols where id = ?`, id).
		Scan(&rawID, &e.File, &e.Name, &e.Kind, &e.Type, &e.Line, &e.Column)
	if err != nil {
		return nil, err
	}
	if e.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("corrupt symbol id %q: %v", rawID, err)
	}
	return &e, nil
}

// References lists where the symbol id is referenced, in source order.
func (idx *Index) References(id uuid.UUID) ([]Location, error) {
	rows, err := idx.db.Query(`select file, line, col, end_line, end_col from refs
		where symbol_id = ? order by file, line, col`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.File, &l.Span.Start.Line, &l.Span.Start.Column, &l.Span.End.Line, &l.Span.End.Column); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

// transaction creates a Tx and calls f on it. It commits or rolls back
// the transaction depending on whether f succeeded.
func transaction(db *sql.DB, f func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
