// Package anki encodes question/answer pairs into a flashcard package the
// Anki application imports: a SQLite collection database wrapped in a zip
// archive, with the row layouts, ID scheme, escaping rules and field checksum
// the consumer expects.
package anki

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/conorfennell/apkgen/internal/domain"
)

// Encoder builds flashcard packages. Every Encode call derives its ID base
// from the injected clock and owns an isolated scratch directory, so no state
// crosses invocations and concurrent calls never interfere.
type Encoder struct {
	// Now supplies the creation instant that seeds all generated IDs.
	Now func() time.Time
	// Rand supplies randomness for note guids.
	Rand io.Reader
	// Scratch is the parent directory for per-call scratch space. Empty
	// means the system temp directory.
	Scratch string
	// Writer materializes the collection database.
	Writer DatabaseWriter
}

// NewEncoder returns an encoder with production defaults: wall clock,
// crypto/rand guids, system temp scratch, and the sqlite writer.
func NewEncoder() *Encoder {
	return &Encoder{
		Now:    time.Now,
		Rand:   rand.Reader,
		Writer: SQLiteWriter{},
	}
}

// Encode builds a single-deck package titled title from the ordered pairs and
// returns the archive bytes. The scratch directory is removed on success and
// failure alike.
func (e *Encoder) Encode(title string, pairs []domain.Pair) ([]byte, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs to encode", ErrValidation)
	}

	now := e.Now()
	col, err := buildCollection(title, now)
	if err != nil {
		return nil, err
	}

	// Model and deck IDs took epoch ms and ms+1; notes and cards interleave
	// upward from ms+2.
	base := now.UnixMilli() + 2
	records, err := buildRecords(pairs, base, col.ModelID, col.DeckID, now.Unix(), e.Rand)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp(e.Scratch, "apkgen-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create scratch directory: %w", ErrEncoding, err)
	}
	defer os.RemoveAll(scratch)

	dbPath := filepath.Join(scratch, databaseEntry)
	if err := e.Writer.Write(dbPath, col, records); err != nil {
		return nil, err
	}

	pkg, err := buildArchive(dbPath)
	if err != nil {
		return nil, err
	}
	if len(pkg) == 0 {
		return nil, fmt.Errorf("%w: produced an empty package", ErrEncoding)
	}
	return pkg, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename suggests a download name for a deck: whitespace runs collapse to
// underscores and the package extension is appended.
func Filename(title string) string {
	return whitespaceRun.ReplaceAllString(title, "_") + ".apkg"
}
