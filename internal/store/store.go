package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/rezi"
	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed cache of compiled parse tables, keyed by
// grammar checksum. Grounded on dekarrin/tunaq's server/dao/sqlite package:
// one *sql.DB, a CREATE TABLE IF NOT EXISTS in a constructor-time init, and
// rezi for the payload encoding (sqlite.go/sessions.go's
// rezi.EncBinary/rezi.DecBinary round-trip of a plain struct, used here for
// the Blob instead of a per-field column scan).
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS compiled_tables (
		checksum TEXT NOT NULL PRIMARY KEY,
		data     BLOB NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put persists b under its own GrammarChecksum, replacing any prior entry.
func (s *Store) Put(ctx context.Context, b Blob) error {
	data := rezi.EncBinary(b)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compiled_tables (checksum, data) VALUES (?, ?)
		 ON CONFLICT(checksum) DO UPDATE SET data = excluded.data`,
		b.GrammarChecksum, data)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", b.GrammarChecksum, err)
	}
	return nil
}

// Get looks up the Blob cached under checksum. The bool result is false
// when nothing is cached for that checksum.
func (s *Store) Get(ctx context.Context, checksum string) (Blob, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM compiled_tables WHERE checksum = ?`, checksum)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return Blob{}, false, nil
		}
		return Blob{}, false, fmt.Errorf("store: get %s: %w", checksum, err)
	}

	var b Blob
	if _, err := rezi.DecBinary(data, &b); err != nil {
		return Blob{}, false, fmt.Errorf("store: decode %s: %w", checksum, err)
	}
	return b, true, nil
}
