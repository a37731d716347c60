package anki

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DatabaseWriter materializes a collection row and its records into a
// serialized database file at path. Implementations must apply everything as
// one atomic unit: a constraint failure on any row fails the whole write, it
// never drops the offending row.
type DatabaseWriter interface {
	Write(path string, col Collection, records []Record) error
}

// SQLiteWriter materializes the collection through the linked sqlite engine.
type SQLiteWriter struct{}

// Write creates the collection database file at path: schema, the single col
// row, then every note and card row in record order, all inside one
// transaction.
func (SQLiteWriter) Write(path string, col Collection, records []Record) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("%w: open database: %w", ErrEncoding, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrEncoding, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("%w: apply schema: %w", ErrEncoding, err)
	}

	_, err = tx.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')
	`,
		col.Created,
		col.Modified,
		col.SchemaMod,
		col.Version,
		col.Conf,
		col.Models,
		col.Decks,
		col.DeckConf,
	)
	if err != nil {
		return fmt.Errorf("%w: insert collection row: %w", ErrEncoding, err)
	}

	noteStmt, err := tx.Prepare(`
		INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare note insert: %w", ErrEncoding, err)
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`
		INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')
	`)
	if err != nil {
		return fmt.Errorf("%w: prepare card insert: %w", ErrEncoding, err)
	}
	defer cardStmt.Close()

	for _, rec := range records {
		n := rec.Note
		if _, err := noteStmt.Exec(n.ID, n.GUID, n.ModelID, n.Mod, n.Fields, n.SortFld, int64(n.Checksum)); err != nil {
			return fmt.Errorf("%w: insert note %d: %w", ErrEncoding, n.ID, err)
		}
		c := rec.Card
		if _, err := cardStmt.Exec(c.ID, c.NoteID, c.DeckID, c.Mod, c.Due); err != nil {
			return fmt.Errorf("%w: insert card %d: %w", ErrEncoding, c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrEncoding, err)
	}
	return nil
}
