package web

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/conorfennell/apkgen/internal/anki"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	encoder := anki.NewEncoder()
	encoder.Scratch = t.TempDir()
	return NewServer(encoder)
}

func TestCreateDeck(t *testing.T) {
	server := testServer(t)
	body := `{"title": "Sample Deck", "pairs": [
		{"question": "Q1", "answer": "A1"},
		{"question": "Q2", "answer": "A2"}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("Expected an octet-stream content type, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=Sample_Deck.apkg" {
		t.Errorf("Unexpected content disposition %q", got)
	}

	pkg := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatalf("Response body is not a readable zip archive: %v", err)
	}
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if len(names) != 2 || !names["collection.anki2"] || !names["media"] {
		t.Errorf("Expected entries collection.anki2 and media, got %v", names)
	}
}

func TestCreateDeckRejectsBadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "empty title",
			body: `{"title": "", "pairs": [{"question": "Q", "answer": "A"}]}`,
		},
		{
			name: "no pairs",
			body: `{"title": "Deck", "pairs": []}`,
		},
		{
			name: "pair with an empty question",
			body: `{"title": "Deck", "pairs": [{"question": "", "answer": "A"}]}`,
		},
		{
			name: "invalid JSON",
			body: `{"title": "Deck"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := testServer(t)
			req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateDeckRejectsNonPost(t *testing.T) {
	server := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/decks", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	server := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected health body %q", rec.Body.String())
	}
}
