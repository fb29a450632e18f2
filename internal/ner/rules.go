package ner

import (
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/internal/extract"
)

// LabelTime marks clock times. The mapper ignores it; it keeps timestamps
// from being read as numbers.
const LabelTime = "TIME"

// rule is one span pattern. group selects the capture that forms the span;
// 0 is the whole match.
type rule struct {
	regex *regexp.Regexp
	label string
	name  string
	group int
}

// initRules returns the pattern rules in priority order. Gazetteer rules are
// added in front of these by NewModel.
func initRules() []*rule {
	return []*rule{
		// Chat speaker after a timestamp: "11:02 John Smith: ..."
		{
			regex: regexp.MustCompile(`(?m)^\[?\d{1,2}:\d{2}(?::\d{2})?\]?[ \t]+([A-Z][\w.\-]*(?:[ \t][A-Z][\w.\-]*)?)[ \t]*:`),
			label: extract.LabelPerson,
			name:  "speaker",
			group: 1,
		},
		{
			regex: regexp.MustCompile(`\b(?:[A-Z][A-Za-z&]+[ \t]+){1,3}(?:AG|SA|PLC|Plc|plc|Inc|LLC|Ltd|Group|Bank|Securities|Capital)\b`),
			label: extract.LabelOrg,
			name:  "org_suffix",
		},
		{
			regex: regexp.MustCompile(`(?:\b(?:EUR|USD|GBP|CHF|JPY)|[€$£])[ \t]?\d[\d,]*(?:\.\d+)?`),
			label: extract.LabelMoney,
			name:  "money_prefix",
		},
		{
			regex: regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?[ \t]?(?:EUR|USD|GBP|CHF|JPY)\b`),
			label: extract.LabelMoney,
			name:  "money_suffix",
		},
		{
			regex: regexp.MustCompile(`\b\d+(?:\.\d+)?[ \t]?%`),
			label: extract.LabelPercent,
			name:  "percent",
		},
		{
			regex: regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
			label: extract.LabelDate,
			name:  "date_slash",
		},
		{
			regex: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
			label: extract.LabelDate,
			name:  "date_iso",
		},
		{
			regex: regexp.MustCompile(`(?i)\b\d{1,2}[ \t]+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?[ \t]+\d{4}\b`),
			label: extract.LabelDate,
			name:  "date_text",
		},
		{
			regex: regexp.MustCompile(`(?i)\b(?:daily|weekly|monthly|quarterly|semi-annually|annually|yearly)\b`),
			label: extract.LabelDate,
			name:  "frequency",
		},
		{
			regex: regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`),
			label: LabelTime,
			name:  "clock",
		},
		// Tenors ("5Y", "18M") are read as numbers, like a statistical tagger does.
		{
			regex: regexp.MustCompile(`\b\d+(?:\.\d+)?[YMW]\b`),
			label: extract.LabelCardinal,
			name:  "tenor",
		},
		{
			regex: regexp.MustCompile(`\b\d+(?:[.,]\d+)*\b`),
			label: extract.LabelCardinal,
			name:  "number",
		},
	}
}

// gazetteerRule matches any term of e as a whole word, case-insensitively.
func gazetteerRule(e Entry) *rule {
	terms := e.Terms()
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return &rule{
		regex: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		label: e.Label,
		name:  "gazetteer:" + e.Canonical,
	}
}

func sortLongestFirst(terms []string) {
	sort.SliceStable(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
}
