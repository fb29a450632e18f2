package constants

import (
	"strings"
)

// Field is a canonical financial attribute name. The string value is the exact
// key used in every result set.
type Field string

const (
	Counterparty         Field = "Counterparty"
	InitialValuationDate Field = "Initial Valuation Date"
	Notional             Field = "Notional"
	ValuationDate        Field = "Valuation Date"
	Maturity             Field = "Maturity"
	Underlying           Field = "Underlying"
	Coupon               Field = "Coupon"
	Barrier              Field = "Barrier"
	Calendar             Field = "Calendar"
	ISIN                 Field = "ISIN"
	Bid                  Field = "Bid"
	Offer                Field = "Offer"
	PaymentFrequency     Field = "PaymentFrequency"

	// PartyA and PartyB are not in the default document set; custom line-scan
	// tables may declare them as fields of their own.
	PartyA Field = "Party A"
	PartyB Field = "Party B"
)

// DocumentFields is the output order of the line-scan extractor.
var DocumentFields = []Field{
	Counterparty,
	InitialValuationDate,
	Notional,
	ValuationDate,
	Maturity,
	Underlying,
	Coupon,
	Barrier,
	Calendar,
}

// ChatFields is the output order of the span mapper.
var ChatFields = []Field{
	Counterparty,
	Notional,
	ISIN,
	Underlying,
	Maturity,
	Bid,
	Offer,
	PaymentFrequency,
}

func AsStringSlice(fields []Field) []string {
	result := make([]string, len(fields))
	for i, f := range fields {
		result[i] = string(f)
	}
	return result
}

// Canonicalize resolves a loosely spelled field name ("payment frequency",
// "isin ") to the canonical field of the given set.
func Canonicalize(input string, set []Field) (Field, bool) {
	normalized := squash(input)
	if normalized == "" {
		return "", false
	}
	for _, f := range set {
		if normalized == squash(string(f)) {
			return f, true
		}
	}
	return "", false
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), "")
}
