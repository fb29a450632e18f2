// Package ner is a rule-based span labeller for chat text. It tags the
// generic labels the mapper consumes (ORG, PERSON, DATE, CARDINAL, MONEY,
// PERCENT) from a gazetteer and a table of regular expressions.
package ner

import (
	"context"
	"log/slog"
	"sort"

	"github.com/joseph-ayodele/findoc-reader/internal/extract"
)

// Span is one labelled piece of text. Start and End are byte offsets.
type Span struct {
	Label string
	Text  string
	Start int
	End   int
}

// Model labels text. It is built once and never modified afterwards, so
// concurrent Label calls are safe.
type Model struct {
	rules  []*rule
	logger *slog.Logger
}

// NewModel compiles the gazetteer of lex ahead of the pattern rules. A nil
// lexicon means no gazetteer.
func NewModel(lex *Lexicon, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	var rules []*rule
	if lex != nil {
		for _, e := range lex.Entries {
			rules = append(rules, gazetteerRule(e))
		}
	}
	rules = append(rules, initRules()...)
	logger.Debug("ner.model.built", "rules", len(rules))
	return &Model{rules: rules, logger: logger}
}

// Load builds a model over the lexicon at path, or the built-in one when
// path is empty.
func Load(path string, logger *slog.Logger) (*Model, error) {
	lex, err := LoadLexicon(path)
	if err != nil {
		return nil, err
	}
	return NewModel(lex, logger), nil
}

// Label implements extract.LabelSource.
func (m *Model) Label(ctx context.Context, text string) (extract.Labels, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := extract.Labels{}
	for _, s := range m.Spans(text) {
		labels.Add(s.Label, s.Text)
	}
	return labels, nil
}

// Spans returns non-overlapping spans in order of appearance. Where
// candidates overlap the longest wins; equal lengths go to the earlier
// start, then to the rule listed first.
func (m *Model) Spans(text string) []Span {
	type candidate struct {
		Span
		priority int
	}
	var cands []candidate
	for p, r := range m.rules {
		for _, loc := range r.regex.FindAllStringSubmatchIndex(text, -1) {
			i := 2 * r.group
			if i+1 >= len(loc) || loc[i] < 0 || loc[i] == loc[i+1] {
				continue
			}
			start, end := loc[i], loc[i+1]
			cands = append(cands, candidate{
				Span:     Span{Label: r.label, Text: text[start:end], Start: start, End: end},
				priority: p,
			})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		li, lj := cands[i].End-cands[i].Start, cands[j].End-cands[j].Start
		if li != lj {
			return li > lj
		}
		if cands[i].Start != cands[j].Start {
			return cands[i].Start < cands[j].Start
		}
		return cands[i].priority < cands[j].priority
	})

	taken := make([]bool, len(text))
	var out []Span
	for _, c := range cands {
		if overlaps(taken, c.Start, c.End) {
			continue
		}
		for k := c.Start; k < c.End; k++ {
			taken[k] = true
		}
		out = append(out, c.Span)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func overlaps(taken []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if taken[k] {
			return true
		}
	}
	return false
}
