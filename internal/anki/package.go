package anki

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
)

// Fixed entry names the consumer looks for inside the package archive.
const (
	databaseEntry = "collection.anki2"
	mediaEntry    = "media"
)

// emptyMediaManifest is the JSON object for a package with no media assets.
const emptyMediaManifest = "{}"

// buildArchive assembles the final package: a zip with exactly two file
// entries, the collection database and the media manifest. No directory
// entries and no extra files.
func buildArchive(dbPath string) ([]byte, error) {
	database, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read collection database: %w", ErrPackaging, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		body []byte
	}{
		{databaseEntry, database},
		{mediaEntry, []byte(emptyMediaManifest)},
	}
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, fmt.Errorf("%w: create archive entry %s: %w", ErrPackaging, entry.name, err)
		}
		if _, err := w.Write(entry.body); err != nil {
			return nil, fmt.Errorf("%w: write archive entry %s: %w", ErrPackaging, entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize archive: %w", ErrPackaging, err)
	}
	return buf.Bytes(), nil
}
