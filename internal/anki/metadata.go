package anki

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Fixed rendering rules for the single "Basic" note type. The consumer
// resolves a note's model ID against the models blob to find these.
const (
	modelName      = "Basic"
	frontField     = "Front"
	backField      = "Back"
	templateName   = "Card 1"
	questionFormat = "{{Front}}"
	answerFormat   = `{{FrontSide}}<hr id="answer">{{Back}}`

	defaultCSS = ".card {\n font-family: arial;\n font-size: 20px;\n text-align: center;\n color: black;\n background-color: white;\n}\n"
)

// Collection is the single col row of a package: timestamps, format version
// and the serialized configuration blobs.
type Collection struct {
	Created   int64 // seconds
	Modified  int64 // milliseconds
	SchemaMod int64 // milliseconds
	Version   int
	Conf      string
	Models    string
	Decks     string
	DeckConf  string

	ModelID int64
	DeckID  int64
}

type collectionConf struct {
	ActiveDecks   []int64 `json:"activeDecks"`
	CurDeck       int64   `json:"curDeck"`
	CurModel      string  `json:"curModel"`
	NewSpread     int     `json:"newSpread"`
	CollapseTime  int     `json:"collapseTime"`
	TimeLim       int     `json:"timeLim"`
	EstTimes      bool    `json:"estTimes"`
	DueCounts     bool    `json:"dueCounts"`
	SortType      string  `json:"sortType"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
	NextPos       int     `json:"nextPos"`
}

type modelField struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type modelTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
}

type model struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	Usn       int             `json:"usn"`
	SortField int             `json:"sortf"`
	DeckID    int64           `json:"did"`
	Fields    []modelField    `json:"flds"`
	Templates []modelTemplate `json:"tmpls"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Tags      []string        `json:"tags"`
	Req       [][]interface{} `json:"req"`
}

type deck struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Mod       int64  `json:"mod"`
	Usn       int    `json:"usn"`
	Collapsed bool   `json:"collapsed"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
	Dyn       int    `json:"dyn"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
	ConfID    int64  `json:"conf"`
}

type deckConf struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Mod      int64  `json:"mod"`
	Usn      int    `json:"usn"`
	MaxTaken int    `json:"maxTaken"`
	Timer    int    `json:"timer"`
	Autoplay bool   `json:"autoplay"`
	Replayq  bool   `json:"replayq"`
	New      struct {
		Delays        []float64 `json:"delays"`
		Ints          []int     `json:"ints"`
		InitialFactor int       `json:"initialFactor"`
		PerDay        int       `json:"perDay"`
		Order         int       `json:"order"`
		Separate      bool      `json:"separate"`
	} `json:"new"`
	Rev struct {
		PerDay   int     `json:"perDay"`
		Ease4    float64 `json:"ease4"`
		IvlFct   float64 `json:"ivlFct"`
		MaxIvl   int     `json:"maxIvl"`
		Fuzz     float64 `json:"fuzz"`
		MinSpace int     `json:"minSpace"`
	} `json:"rev"`
	Lapse struct {
		Delays      []float64 `json:"delays"`
		Mult        float64   `json:"mult"`
		MinInt      int       `json:"minInt"`
		LeechFails  int       `json:"leechFails"`
		LeechAction int       `json:"leechAction"`
	} `json:"lapse"`
}

const latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
const latexPost = "\\end{document}"

// buildCollection assembles the single collection row for a deck titled
// title, created at now. Model and deck IDs derive from the creation instant,
// which keeps them unique within one invocation; they are not required to be
// unique across invocations.
func buildCollection(title string, now time.Time) (Collection, error) {
	if strings.TrimSpace(title) == "" {
		return Collection{}, fmt.Errorf("%w: deck title must not be empty", ErrValidation)
	}

	millis := now.UnixMilli()
	secs := now.Unix()
	modelID := millis
	deckID := millis + 1

	conf, err := json.Marshal(collectionConf{
		ActiveDecks:  []int64{deckID},
		CurDeck:      deckID,
		CurModel:     strconv.FormatInt(modelID, 10),
		CollapseTime: 1200,
		EstTimes:     true,
		DueCounts:    true,
		SortType:     "noteFld",
		AddToCur:     true,
		NextPos:      1,
	})
	if err != nil {
		return Collection{}, fmt.Errorf("%w: marshal collection conf: %w", ErrEncoding, err)
	}

	m := model{
		ID:     modelID,
		Name:   modelName,
		Mod:    secs,
		Usn:    -1,
		DeckID: deckID,
		Fields: []modelField{
			{Name: frontField, Ord: 0, Font: "Arial", Size: 20, Media: []string{}},
			{Name: backField, Ord: 1, Font: "Arial", Size: 20, Media: []string{}},
		},
		Templates: []modelTemplate{
			{Name: templateName, Ord: 0, Qfmt: questionFormat, Afmt: answerFormat},
		},
		CSS:       defaultCSS,
		LatexPre:  latexPre,
		LatexPost: latexPost,
		Tags:      []string{},
		// The template renders as long as the first field is present.
		Req: [][]interface{}{{0, "all", []int{0}}},
	}
	models, err := json.Marshal(map[string]model{
		strconv.FormatInt(modelID, 10): m,
	})
	if err != nil {
		return Collection{}, fmt.Errorf("%w: marshal models: %w", ErrEncoding, err)
	}

	d := deck{
		ID:     deckID,
		Name:   title,
		Mod:    secs,
		ConfID: 1,
	}
	decks, err := json.Marshal(map[string]deck{
		strconv.FormatInt(deckID, 10): d,
	})
	if err != nil {
		return Collection{}, fmt.Errorf("%w: marshal decks: %w", ErrEncoding, err)
	}

	dc := defaultDeckConf(secs)
	dconf, err := json.Marshal(map[string]deckConf{"1": dc})
	if err != nil {
		return Collection{}, fmt.Errorf("%w: marshal deck conf: %w", ErrEncoding, err)
	}

	return Collection{
		Created:   secs,
		Modified:  millis,
		SchemaMod: millis,
		Version:   formatVersion,
		Conf:      string(conf),
		Models:    string(models),
		Decks:     string(decks),
		DeckConf:  string(dconf),
		ModelID:   modelID,
		DeckID:    deckID,
	}, nil
}

// defaultDeckConf is the stock options group every deck points at.
func defaultDeckConf(mod int64) deckConf {
	dc := deckConf{
		ID:       1,
		Name:     "Default",
		Mod:      mod,
		MaxTaken: 60,
		Autoplay: true,
		Replayq:  true,
	}
	dc.New.Delays = []float64{1, 10}
	dc.New.Ints = []int{1, 4, 7}
	dc.New.InitialFactor = 2500
	dc.New.PerDay = 20
	dc.New.Order = 1
	dc.New.Separate = true
	dc.Rev.PerDay = 100
	dc.Rev.Ease4 = 1.3
	dc.Rev.IvlFct = 1
	dc.Rev.MaxIvl = 36500
	dc.Rev.Fuzz = 0.05
	dc.Rev.MinSpace = 1
	dc.Lapse.Delays = []float64{10}
	dc.Lapse.MinInt = 1
	dc.Lapse.LeechFails = 8
	return dc
}
