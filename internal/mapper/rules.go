package mapper

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/constants"
)

// ruleSources describes where each chat field is read from.
var ruleSources = map[constants.Field]string{
	constants.Counterparty:     "first ORG span present in the text when a bank keyword occurs; else BANK <WORD>",
	constants.Notional:         "first CARDINAL span followed by \" mio\"",
	constants.ISIN:             "first 2 letters + 10 alphanumerics token",
	constants.Underlying:       "uppercase run after the ISIN, date removed",
	constants.Maturity:         "first CARDINAL span containing Y",
	constants.Bid:              "ESTR+<n>bps, any case",
	constants.Offer:            "first line starting with offer, any case",
	constants.PaymentFrequency: "first DATE span that is quarterly, monthly or annually",
}

// Source describes the rule that resolves f, or "" for unknown fields.
func Source(f constants.Field) string {
	return ruleSources[f]
}

// BankKeywords trigger the organisation rule for Counterparty. Matching is
// case-sensitive against the whole raw text.
var BankKeywords = []string{"BANK", "CACIB", "GS", "BNP", "JPM", "HSBC"}

// FrequencyWords are the DATE spans accepted as a payment frequency.
var FrequencyWords = map[string]struct{}{
	"quarterly": {},
	"monthly":   {},
	"annually":  {},
}

const (
	notionalSuffix = " mio"
	tenorMarker    = "Y"
)

var (
	reBankFallback = regexp.MustCompile(`\b(BANK\s+[A-Z]+)\b`)
	reISIN         = regexp.MustCompile(`\b[A-Z]{2}[0-9A-Z]{10}\b`)
	reDateLike     = regexp.MustCompile(`\d{2}/\d{2}/\d{2,4}`)
	reBid          = regexp.MustCompile(`(?i)estr\+?\d+bps`)
	reOffer        = regexp.MustCompile(`(?im)^offer.*$`)
)

// underlyingPattern matches the ISIN, whitespace (a line break included), then
// a run of uppercase letters, digits and blanks. A slash enters the run only
// inside a DD/MM/YY(YY) date, which is tried first so the date stays whole.
func underlyingPattern(isin string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(isin) + `\s+((?:\d{2}/\d{2}/\d{2,4}|[A-Z0-9 \t])+)`)
}

// submatch returns capture group n of the first match of re in s. A missing
// match or an unexpected group layout reports false.
func submatch(re *regexp.Regexp, s string, n int) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil || n < 0 || n >= len(m) {
		return "", false
	}
	return m[n], true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
