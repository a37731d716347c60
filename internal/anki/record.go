package anki

import (
	"fmt"
	"io"
	"strings"

	"github.com/conorfennell/apkgen/internal/domain"
)

// fieldSeparator is the reserved byte joining packed field values inside a
// note row. It must never appear in escaped field text, so Escape strips it
// from input first.
const fieldSeparator = "\x1f"

// lineBreak is the inline marker the consumer renders as a line break.
const lineBreak = "<br>"

const guidLength = 10

const guidAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Note is one row of the notes table.
type Note struct {
	ID       int64
	GUID     string
	ModelID  int64
	Mod      int64 // seconds
	Tags     string
	Fields   string // escaped values joined by fieldSeparator
	SortFld  string // escaped first field, drives list ordering
	Checksum uint32
}

// Card is one row of the cards table. Scheduling fields are implicit: every
// generated card is written in the "new, never studied" state.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Mod    int64 // seconds
	Due    int   // 1-based input position, drives display order
}

// Record pairs a note with its single card.
type Record struct {
	Note Note
	Card Card
}

// Escape rewrites field text into the form stored in the package: line
// endings normalized and replaced with the inline line-break marker, every
// single quote doubled, and the reserved separator byte stripped.
func Escape(s string) string {
	s = strings.ReplaceAll(s, fieldSeparator, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "'", "''")
	return strings.ReplaceAll(s, "\n", lineBreak)
}

// buildRecords turns the ordered input pairs into note and card rows. IDs are
// interleaved from base (note = base+2i, card = base+2i+1) so they strictly
// increase and never collide within the invocation. Input order is preserved:
// both insertion order and the card due position follow it.
func buildRecords(pairs []domain.Pair, base int64, modelID, deckID int64, mod int64, random io.Reader) ([]Record, error) {
	records := make([]Record, 0, len(pairs))
	for i, pair := range pairs {
		question := strings.ReplaceAll(pair.Question, fieldSeparator, "")
		answer := strings.ReplaceAll(pair.Answer, fieldSeparator, "")
		if strings.TrimSpace(question) == "" {
			return nil, fmt.Errorf("%w: pair %d has an empty question", ErrValidation, i)
		}
		if strings.TrimSpace(answer) == "" {
			return nil, fmt.Errorf("%w: pair %d has an empty answer", ErrValidation, i)
		}

		guid, err := newGUID(random)
		if err != nil {
			return nil, fmt.Errorf("%w: generate guid for pair %d: %w", ErrEncoding, i, err)
		}

		escapedQ := Escape(question)
		escapedA := Escape(answer)
		noteID := base + int64(i)*2
		cardID := base + int64(i)*2 + 1

		records = append(records, Record{
			Note: Note{
				ID:       noteID,
				GUID:     guid,
				ModelID:  modelID,
				Mod:      mod,
				Fields:   escapedQ + fieldSeparator + escapedA,
				SortFld:  escapedQ,
				Checksum: Checksum(question),
			},
			Card: Card{
				ID:     cardID,
				NoteID: noteID,
				DeckID: deckID,
				Mod:    mod,
				Due:    i + 1,
			},
		})
	}
	return records, nil
}

// newGUID draws a short alphanumeric token from the injected random source.
// Collisions are statistically negligible at deck scale, so no collision
// check is performed.
func newGUID(random io.Reader) (string, error) {
	buf := make([]byte, guidLength)
	if _, err := io.ReadFull(random, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = guidAlphabet[int(b)%len(guidAlphabet)]
	}
	return string(buf), nil
}
