// Package mapper turns generic labelled spans and the raw chat text into the
// financial field set using keyword, substring and regex rules.
//
// Every field is resolved on its own; within a field the first qualifying
// candidate wins. The only cross-field dependency is Underlying, which is read
// next to the ISIN once that is known.
package mapper

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
	"github.com/joseph-ayodele/findoc-reader/internal/extract"
)

// Mapper applies the financial rules. It is stateless and safe for concurrent use.
type Mapper struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

func (m *Mapper) Fields() []constants.Field {
	return append([]constants.Field(nil), constants.ChatFields...)
}

// Map resolves every chat field from text and labels. Fields without a
// qualifying candidate stay null.
func (m *Mapper) Map(text string, labels extract.Labels) *entity.FieldSet {
	out := entity.NewFieldSet(constants.ChatFields)

	m.counterparty(out, text, labels.Spans(extract.LabelOrg))
	m.notional(out, text, labels.Spans(extract.LabelCardinal))
	m.maturity(out, labels.Spans(extract.LabelCardinal))
	m.paymentFrequency(out, labels.Spans(extract.LabelDate))
	m.isin(out, text)
	m.underlying(out, text)
	m.bid(out, text)
	m.offer(out, text)

	m.logger.Debug("mapper.done", "resolved", out.Resolved(), "labels", len(labels))
	return out
}

// counterparty takes the first ORG span when the text mentions a bank keyword
// and the span itself occurs in the text; otherwise "BANK <WORD>" from the text.
func (m *Mapper) counterparty(out *entity.FieldSet, text string, orgs []string) {
	if containsAny(text, BankKeywords) {
		for _, org := range orgs {
			if org != "" && strings.Contains(text, org) && out.Assign(constants.Counterparty, org) {
				return
			}
		}
	}
	if v, ok := submatch(reBankFallback, text, 1); ok {
		out.Assign(constants.Counterparty, v)
	}
}

// notional takes the first CARDINAL span written as "<span> mio" in the text.
func (m *Mapper) notional(out *entity.FieldSet, text string, cardinals []string) {
	for _, c := range cardinals {
		if c == "" {
			continue
		}
		v := c + notionalSuffix
		if strings.Contains(text, v) && out.Assign(constants.Notional, v) {
			return
		}
	}
}

// maturity takes the first CARDINAL span carrying a tenor marker (5Y, 10Y).
// The same span may also have produced the notional.
func (m *Mapper) maturity(out *entity.FieldSet, cardinals []string) {
	for _, c := range cardinals {
		if strings.Contains(c, tenorMarker) && out.Assign(constants.Maturity, c) {
			return
		}
	}
}

func (m *Mapper) paymentFrequency(out *entity.FieldSet, dates []string) {
	for _, d := range dates {
		if _, ok := FrequencyWords[strings.ToLower(d)]; ok && out.Assign(constants.PaymentFrequency, d) {
			return
		}
	}
}

func (m *Mapper) isin(out *entity.FieldSet, text string) {
	if v := reISIN.FindString(text); v != "" {
		out.Assign(constants.ISIN, v)
	}
}

// underlying reads the uppercase run after the ISIN with date-like parts removed.
func (m *Mapper) underlying(out *entity.FieldSet, text string) {
	isin, ok := out.Get(constants.ISIN)
	if !ok {
		return
	}
	run, ok := submatch(underlyingPattern(isin), text, 1)
	if !ok {
		return
	}
	run = reDateLike.ReplaceAllString(run, "")
	out.Assign(constants.Underlying, strings.Join(strings.Fields(run), " "))
}

func (m *Mapper) bid(out *entity.FieldSet, text string) {
	if v := reBid.FindString(text); v != "" {
		out.Assign(constants.Bid, v)
	}
}

func (m *Mapper) offer(out *entity.FieldSet, text string) {
	if v := reOffer.FindString(text); v != "" {
		out.Assign(constants.Offer, v)
	}
}
