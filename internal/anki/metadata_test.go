package anki

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestBuildCollection(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	col, err := buildCollection("Sample Deck", now)
	if err != nil {
		t.Fatalf("buildCollection() returned an unexpected error: %v", err)
	}

	if col.Version != formatVersion {
		t.Errorf("Expected format version %d, got %d", formatVersion, col.Version)
	}
	if col.Created != now.Unix() {
		t.Errorf("Expected creation time %d, got %d", now.Unix(), col.Created)
	}
	if col.Modified != now.UnixMilli() || col.SchemaMod != now.UnixMilli() {
		t.Errorf("Expected mod/scm of %d, got %d/%d", now.UnixMilli(), col.Modified, col.SchemaMod)
	}
	if col.ModelID == col.DeckID {
		t.Error("Expected distinct model and deck IDs")
	}

	t.Run("models blob defines the Basic model", func(t *testing.T) {
		var models map[string]struct {
			Name   string `json:"name"`
			Fields []struct {
				Name string `json:"name"`
			} `json:"flds"`
			Templates []struct {
				Qfmt string `json:"qfmt"`
				Afmt string `json:"afmt"`
			} `json:"tmpls"`
		}
		if err := json.Unmarshal([]byte(col.Models), &models); err != nil {
			t.Fatalf("Models blob is not valid JSON: %v", err)
		}
		m, ok := models[strconv.FormatInt(col.ModelID, 10)]
		if !ok {
			t.Fatalf("Models blob is not keyed by model ID %d: %s", col.ModelID, col.Models)
		}
		if m.Name != "Basic" {
			t.Errorf("Expected model name Basic, got %q", m.Name)
		}
		if len(m.Fields) != 2 || m.Fields[0].Name != "Front" || m.Fields[1].Name != "Back" {
			t.Errorf("Expected fields Front and Back, got %+v", m.Fields)
		}
		if len(m.Templates) != 1 {
			t.Fatalf("Expected exactly one template, got %d", len(m.Templates))
		}
		if m.Templates[0].Qfmt != "{{Front}}" {
			t.Errorf("Unexpected question format %q", m.Templates[0].Qfmt)
		}
		if m.Templates[0].Afmt != `{{FrontSide}}<hr id="answer">{{Back}}` {
			t.Errorf("Unexpected answer format %q", m.Templates[0].Afmt)
		}
	})

	t.Run("decks blob names the deck", func(t *testing.T) {
		var decks map[string]struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Conf int64  `json:"conf"`
		}
		if err := json.Unmarshal([]byte(col.Decks), &decks); err != nil {
			t.Fatalf("Decks blob is not valid JSON: %v", err)
		}
		if len(decks) != 1 {
			t.Fatalf("Expected exactly one deck, got %d", len(decks))
		}
		d, ok := decks[strconv.FormatInt(col.DeckID, 10)]
		if !ok {
			t.Fatalf("Decks blob is not keyed by deck ID %d: %s", col.DeckID, col.Decks)
		}
		if d.Name != "Sample Deck" {
			t.Errorf("Expected deck name %q, got %q", "Sample Deck", d.Name)
		}
		if d.ID != col.DeckID {
			t.Errorf("Deck blob ID %d does not match %d", d.ID, col.DeckID)
		}
		if d.Conf != 1 {
			t.Errorf("Expected deck to use options group 1, got %d", d.Conf)
		}
	})

	t.Run("conf blob selects the deck and sort field", func(t *testing.T) {
		var conf struct {
			ActiveDecks []int64 `json:"activeDecks"`
			CurDeck     int64   `json:"curDeck"`
			SortType    string  `json:"sortType"`
			TimeLim     int     `json:"timeLim"`
		}
		if err := json.Unmarshal([]byte(col.Conf), &conf); err != nil {
			t.Fatalf("Conf blob is not valid JSON: %v", err)
		}
		if len(conf.ActiveDecks) != 1 || conf.ActiveDecks[0] != col.DeckID {
			t.Errorf("Expected activeDecks [%d], got %v", col.DeckID, conf.ActiveDecks)
		}
		if conf.CurDeck != col.DeckID {
			t.Errorf("Expected curDeck %d, got %d", col.DeckID, conf.CurDeck)
		}
		if conf.SortType != "noteFld" {
			t.Errorf("Expected sortType noteFld, got %q", conf.SortType)
		}
		if conf.TimeLim != 0 {
			t.Errorf("Expected no time limit, got %d", conf.TimeLim)
		}
	})

	t.Run("deck options blob holds the default group", func(t *testing.T) {
		var dconf map[string]struct {
			Name string `json:"name"`
			New  struct {
				InitialFactor int `json:"initialFactor"`
			} `json:"new"`
		}
		if err := json.Unmarshal([]byte(col.DeckConf), &dconf); err != nil {
			t.Fatalf("Deck options blob is not valid JSON: %v", err)
		}
		group, ok := dconf["1"]
		if !ok {
			t.Fatalf("Expected options group keyed by 1, got %s", col.DeckConf)
		}
		if group.Name != "Default" {
			t.Errorf("Expected group name Default, got %q", group.Name)
		}
		if group.New.InitialFactor != 2500 {
			t.Errorf("Expected initial factor 2500, got %d", group.New.InitialFactor)
		}
	})
}

func TestBuildCollectionEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := buildCollection(title, time.Now()); !errors.Is(err, ErrValidation) {
			t.Errorf("Expected a validation error for title %q, got %v", title, err)
		}
	}
}
