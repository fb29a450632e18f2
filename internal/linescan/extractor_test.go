package linescan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

func value(t *testing.T, fs *entity.FieldSet, f constants.Field) string {
	t.Helper()
	v, ok := fs.Get(f)
	require.Truef(t, ok, "expected %q to be set", f)
	return v
}

func termSheet() []string {
	return []string{
		"Indicative Terms and Conditions",
		"Party A: Bank X",
		"Party B: Bank Y",
		"Termination Date\t15 June 2030",
		"Business Day Convention: Following",
		"Notional Amount (N) ► 50,000,000 EUR",
		"Initial Valuation Date ► 01/02/2024",
		"Coupon (C) ► 4.5% p.a.",
		"Barrier (B) ► 60% of Initial Level",
		"Underlying ► TOTAL ENERGIES SE",
	}
}

func TestExtract_TermSheet(t *testing.T) {
	fs := NewExtractor(nil, nil).Extract(termSheet())

	assert.Equal(t, "Bank X", value(t, fs, constants.Counterparty))
	assert.Equal(t, "50,000,000 EUR", value(t, fs, constants.Notional))
	assert.Equal(t, "15 June 2030", value(t, fs, constants.Maturity))
	assert.Equal(t, "Following", value(t, fs, constants.Calendar))
	assert.Equal(t, "01/02/2024", value(t, fs, constants.InitialValuationDate))
	assert.Equal(t, "4.5% p.a.", value(t, fs, constants.Coupon))
	assert.Equal(t, "60% of Initial Level", value(t, fs, constants.Barrier))
	assert.Equal(t, "TOTAL ENERGIES SE", value(t, fs, constants.Underlying))
}

func TestExtract_NotionalTableRow(t *testing.T) {
	fs := NewExtractor(DefaultTable(), nil).Extract([]string{"Notional Amount (N) ► 50,000,000 EUR"})
	assert.Equal(t, "50,000,000 EUR", value(t, fs, constants.Notional))
}

func TestExtract_EveryKeyPresent(t *testing.T) {
	for _, lines := range [][]string{nil, {}, {""}, {"no fields here"}, termSheet()} {
		fs := NewExtractor(nil, nil).Extract(lines)
		m := fs.ToMap()
		require.Len(t, m, len(constants.DocumentFields))
		for _, f := range constants.DocumentFields {
			v, present := m[string(f)]
			require.True(t, present, "missing key %q", f)
			if v != nil {
				assert.NotEmpty(t, *v)
				assert.Equal(t, strings.TrimSpace(*v), *v)
			}
		}
	}
}

func TestExtract_EmptyInputIsAllNull(t *testing.T) {
	fs := NewExtractor(nil, nil).Extract(nil)
	assert.Equal(t, 0, fs.Resolved())
}

func TestExtract_LineOrderBeatsAliasOrder(t *testing.T) {
	lines := []string{
		"Party B ► Bank Y",
		"Party A ► Bank X",
	}
	fs := NewExtractor(nil, nil).Extract(lines)
	assert.Equal(t, "Bank Y", value(t, fs, constants.Counterparty))
}

func TestExtract_AliasOrderOnSameLine(t *testing.T) {
	table := Table{{Field: constants.Notional, Aliases: []string{"Notional Amount", "Notional"}}}
	fs := NewExtractor(table, nil).Extract([]string{"Notional Amount: 10 mio"})
	assert.Equal(t, "10 mio", value(t, fs, constants.Notional))
}

func TestExtract_EmptyValueKeepsScanning(t *testing.T) {
	lines := []string{
		"Coupon:",
		"Coupon is described in the annex",
		"Coupon (C) ► 3.25%",
	}
	fs := NewExtractor(nil, nil).Extract(lines)
	assert.Equal(t, "3.25%", value(t, fs, constants.Coupon))
}

func TestExtract_FirstHitIsNeverOverwritten(t *testing.T) {
	lines := []string{
		"Maturity: 5Y",
		"Termination Date: 15/06/2030",
	}
	fs := NewExtractor(nil, nil).Extract(lines)
	assert.Equal(t, "5Y", value(t, fs, constants.Maturity))
}

func TestExtract_OneLineFeedsSeveralFields(t *testing.T) {
	// "Valuation Date" is a substring of "Initial Valuation Date": both fields
	// resolve from the same line.
	fs := NewExtractor(nil, nil).Extract([]string{"Initial Valuation Date ► 01/02/2024"})
	assert.Equal(t, "01/02/2024", value(t, fs, constants.InitialValuationDate))
	assert.Equal(t, "01/02/2024", value(t, fs, constants.ValuationDate))
}

func TestExtract_SubstringMatchIsPermissive(t *testing.T) {
	fs := NewExtractor(nil, nil).Extract([]string{"Underlyings: basket of 3 stocks"})
	assert.Equal(t, "basket of 3 stocks", value(t, fs, constants.Underlying))
}

func TestExtract_CaseInsensitiveAlias(t *testing.T) {
	fs := NewExtractor(nil, nil).Extract([]string{"BARRIER: 70%"})
	assert.Equal(t, "70%", value(t, fs, constants.Barrier))
}

func TestExtract_PartiesAsDistinctFields(t *testing.T) {
	lines := []string{
		"Party A ► Bank X",
		"Party B ► Bank Y",
	}
	fs := NewExtractor(PartiesTable(), nil).Extract(lines)

	assert.Equal(t, "Bank X", value(t, fs, constants.PartyA))
	assert.Equal(t, "Bank Y", value(t, fs, constants.PartyB))
	assert.False(t, fs.IsSet(constants.Counterparty))
	assert.True(t, fs.Has(constants.Calendar))
}

func TestExtract_Idempotent(t *testing.T) {
	x := NewExtractor(nil, nil)
	first := x.Extract(termSheet()).ToMap()
	second := x.Extract(termSheet()).ToMap()
	assert.Equal(t, first, second)
}

func TestSplitKeyValue(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		key   string
		value string
	}{
		{"row separator", "Notional ► 5 mio", "Notional", "5 mio"},
		{"row separator wins over colon", "Maturity: Note ► 5Y", "Maturity: Note", "5Y"},
		{"tab wins over colon", "Coupon\t12:00", "Coupon", "12:00"},
		{"colon keeps remainder", "Valuation Date: 12:00 CET", "Valuation Date", "12:00 CET"},
		{"no separator", "Barrier level below", "Barrier level below", ""},
		{"empty row value", "Coupon ► ", "Coupon", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, v := SplitKeyValue(tt.line)
			assert.Equal(t, tt.key, k)
			assert.Equal(t, tt.value, v)
		})
	}
}

func TestPartiesTable_KeepsDefaultOrderAfterParties(t *testing.T) {
	fields := PartiesTable().Fields()
	require.Len(t, fields, len(constants.DocumentFields)+2)
	assert.Equal(t, constants.PartyA, fields[0])
	assert.Equal(t, constants.PartyB, fields[1])
	assert.Equal(t, constants.DocumentFields, fields[2:])
}
