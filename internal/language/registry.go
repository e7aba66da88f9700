// Package language resolves a language name to everything a search needs for
// it: the normalizer that builds the letter stream and the rendering style.
package language

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Aman-CERP/amanels/internal/alphabet"
	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/render"
)

// Auto asks for the language to be detected from the text.
const Auto = "auto"

// Profile is the function table for one language.
type Profile struct {
	Language   alphabet.Language
	Name       string
	Aliases    []string
	FileHints  []string
	Normalizer alphabet.Normalizer
	Style      render.Style
	Letters    int
}

// Normalize runs the profile's normalizer.
func (p *Profile) Normalize(raw string) string {
	return p.Normalizer.Normalize(raw)
}

// Renderer returns a renderer for format using the profile's style, with
// width and color taken from the caller.
func (p *Profile) Renderer(format render.Format, width int, color bool) (render.Renderer, error) {
	style := p.Style
	style.Width = width
	style.Color = color
	return render.New(format, style)
}

// Registry maps names, aliases and file name hints to profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[alphabet.Language]*Profile
	names    map[string]alphabet.Language
}

// NewRegistry creates a registry with the built-in languages.
func NewRegistry() *Registry {
	r := &Registry{
		profiles: make(map[alphabet.Language]*Profile),
		names:    make(map[string]alphabet.Language),
	}

	r.register(&Profile{
		Language:   alphabet.Latin,
		Name:       "Latin",
		Aliases:    []string{"english", "en", "la"},
		Normalizer: alphabet.NewLatin(),
		Style:      render.Style{Font: "Consolas"},
		Letters:    26,
	})
	r.register(&Profile{
		Language:   alphabet.Greek,
		Name:       "Greek",
		Aliases:    []string{"el", "grc", "koine"},
		FileHints:  []string{"sblgnt", "greek", "lxx"},
		Normalizer: alphabet.NewGreek(),
		Style:      render.Style{Font: "SBL Greek"},
		Letters:    24,
	})
	r.register(&Profile{
		Language:   alphabet.Hebrew,
		Name:       "Hebrew",
		Aliases:    []string{"he", "heb", "hbo"},
		FileHints:  []string{"tanach", "tanakh", "wlc", "hebrew"},
		Normalizer: alphabet.NewHebrew(),
		Style:      render.Style{Font: "SBL Hebrew", RightToLeft: true},
		Letters:    22,
	})

	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared built-in registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *Registry) register(p *Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.Language] = p
	r.names[string(p.Language)] = p.Language
	for _, a := range p.Aliases {
		r.names[a] = p.Language
	}
}

// Lookup resolves a language name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if lang, ok := r.names[key]; ok {
		return r.profiles[lang], nil
	}
	return nil, elserrors.New(elserrors.ErrCodeUnknownLanguage, "unknown language: "+name, nil).
		WithSuggestion("Run 'amanels languages' to list supported languages")
}

// ByFileName guesses a language from hints in a corpus file name, as in
// "tanach.txt" or "SBLGNT.txt".
func (r *Registry) ByFileName(path string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	base := strings.ToLower(filepath.Base(path))
	for _, lang := range alphabet.Languages {
		p, ok := r.profiles[lang]
		if !ok {
			continue
		}
		for _, hint := range p.FileHints {
			if strings.Contains(base, hint) {
				return p, true
			}
		}
	}
	return nil, false
}

// Resolve picks a profile for a corpus. An explicit name wins; "auto" or ""
// tries the file name, then the script of the text, then Latin.
func (r *Registry) Resolve(name, path, sample string) (*Profile, error) {
	if name != "" && !strings.EqualFold(name, Auto) {
		return r.Lookup(name)
	}
	if p, ok := r.ByFileName(path); ok {
		return p, nil
	}
	lang, _ := alphabet.Detect(sample)
	return r.Lookup(string(lang))
}

// Profiles returns every profile sorted by language name.
func (r *Registry) Profiles() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Language < out[j].Language
	})
	return out
}
