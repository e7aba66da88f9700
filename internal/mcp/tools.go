package mcp

import "github.com/Aman-CERP/amanels/internal/sequence"

// Tool names.
const (
	ToolSearch    = "els_search"
	ToolLanguages = "els_languages"
	ToolHistory   = "els_history"
)

// SearchInput defines the input schema for els_search.
type SearchInput struct {
	Path      string   `json:"path,omitempty" jsonschema:"path to a UTF-8 text file to search"`
	Text      string   `json:"text,omitempty" jsonschema:"inline text to search instead of a file"`
	Terms     []string `json:"terms" jsonschema:"words to look for; reversed spellings are searched too"`
	Language  string   `json:"language,omitempty" jsonschema:"latin, greek, hebrew, or auto (default)"`
	Start     int      `json:"start,omitempty" jsonschema:"first letter index of the range, default 0"`
	Stop      *int     `json:"stop,omitempty" jsonschema:"last letter index of the range, inclusive; default end of text"`
	FromSkip  int      `json:"from_skip,omitempty" jsonschema:"smallest skip, default 2"`
	ToSkip    *int     `json:"to_skip,omitempty" jsonschema:"exclusive largest skip; default the range length"`
	Proximity *int     `json:"proximity,omitempty" jsonschema:"keep only hits within this many letters of a neighbour"`
	Format    string   `json:"format,omitempty" jsonschema:"grid rendering: text (default), rtf, or json"`
	Width     int      `json:"width,omitempty" jsonschema:"letters per grid row; default the first hit's skip"`
	Save      bool     `json:"save,omitempty" jsonschema:"store the search in history"`
	Name      string   `json:"name,omitempty" jsonschema:"label for the saved search"`
}

// HitOutput is one hit with absolute, 1-based positions.
type HitOutput struct {
	Term      string `json:"term"`
	Position  int    `json:"position" jsonschema:"1-based position of the first letter in the corpus"`
	Skip      int    `json:"skip"`
	Letters   []int  `json:"letters" jsonschema:"1-based positions of every letter of the hit"`
	Statement string `json:"statement"`
}

// SearchOutput defines the output schema for els_search.
type SearchOutput struct {
	Corpus    string         `json:"corpus"`
	Language  string         `json:"language"`
	Letters   int            `json:"letters"`
	Terms     []string       `json:"terms"`
	Hits      []HitOutput    `json:"hits"`
	Grid      string         `json:"grid"`
	Rendered  string         `json:"rendered,omitempty"`
	Status    string         `json:"status"`
	Stats     sequence.Stats `json:"stats"`
	HistoryID string         `json:"history_id,omitempty"`
}

// LanguagesInput defines the input schema for els_languages (no parameters).
type LanguagesInput struct{}

// LanguageOutput describes one supported language.
type LanguageOutput struct {
	Name        string   `json:"name"`
	Display     string   `json:"display"`
	Aliases     []string `json:"aliases"`
	FileHints   []string `json:"file_hints"`
	Letters     int      `json:"letters"`
	RightToLeft bool     `json:"right_to_left"`
}

// LanguagesOutput defines the output schema for els_languages.
type LanguagesOutput struct {
	Languages []LanguageOutput `json:"languages"`
}

// HistoryInput defines the input schema for els_history.
type HistoryInput struct {
	ID     string `json:"id,omitempty" jsonschema:"saved search id or prefix; omit to list recent searches"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum searches to list, default 20"`
	Corpus string `json:"corpus,omitempty" jsonschema:"only list searches of this corpus path"`
}

// HistoryEntry is one saved search.
type HistoryEntry struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Corpus     string   `json:"corpus"`
	Language   string   `json:"language"`
	Terms      []string `json:"terms"`
	HitCount   int      `json:"hit_count"`
	Status     string   `json:"status"`
	DurationMS int64    `json:"duration_ms"`
	CreatedAt  string   `json:"created_at" jsonschema:"RFC 3339 timestamp"`
}

// HistoryOutput defines the output schema for els_history.
type HistoryOutput struct {
	Searches []HistoryEntry `json:"searches"`
}
