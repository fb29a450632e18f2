package ner

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/findoc-reader/internal/extract"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Lexicon is the gazetteer of known names. Every variant found in a text
// becomes a span of the entry's label.
type Lexicon struct {
	Entries []Entry `yaml:"entries"`
}

// Entry is one canonical name and the spellings that refer to it.
type Entry struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
	Label     string   `yaml:"label"`
}

// Terms returns the canonical name and its variants, deduplicated
// case-insensitively, longest first.
func (e Entry) Terms() []string {
	seen := make(map[string]struct{}, len(e.Variants)+1)
	var out []string
	for _, t := range append([]string{e.Canonical}, e.Variants...) {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	sortLongestFirst(out)
	return out
}

// ParseLexicon decodes a YAML lexicon. Entries without a label are ORG.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	for i := range lex.Entries {
		e := &lex.Entries[i]
		if len(e.Terms()) == 0 {
			return nil, fmt.Errorf("lexicon entry %d: no canonical name or variants", i)
		}
		e.Label = strings.ToUpper(strings.TrimSpace(e.Label))
		if e.Label == "" {
			e.Label = extract.LabelOrg
		}
	}
	return &lex, nil
}

// LoadLexicon reads a YAML lexicon from path; an empty path selects the
// built-in lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// DefaultLexicon returns the built-in bank gazetteer.
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}
