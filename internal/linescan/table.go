package linescan

import (
	"github.com/joseph-ayodele/findoc-reader/constants"
)

// FieldAliases binds a canonical field to the surface strings that name it,
// highest priority first. An entry without aliases matches on the field name.
type FieldAliases struct {
	Field   constants.Field
	Aliases []string
}

// Table is an ordered field/alias table. Order decides output order; alias
// order decides which alias wins on a line.
type Table []FieldAliases

// DefaultTable is the term-sheet table for word-processor documents.
func DefaultTable() Table {
	return Table{
		{Field: constants.Counterparty, Aliases: []string{"Party A", "Party B"}},
		{Field: constants.InitialValuationDate},
		{Field: constants.Notional, Aliases: []string{"Notional", "Notional Amount", "Notional Amount (N)"}},
		{Field: constants.ValuationDate},
		{Field: constants.Maturity, Aliases: []string{"Termination Date", "Maturity"}},
		{Field: constants.Underlying},
		{Field: constants.Coupon, Aliases: []string{"Coupon", "Coupon (C)"}},
		{Field: constants.Barrier, Aliases: []string{"Barrier", "Barrier (B)"}},
		{Field: constants.Calendar, Aliases: []string{"Business Day"}},
	}
}

// PartiesTable declares Party A and Party B as distinct fields so both can be
// read and combined by the caller, followed by the rest of the default table.
func PartiesTable() Table {
	t := Table{
		{Field: constants.PartyA},
		{Field: constants.PartyB},
	}
	for _, fa := range DefaultTable() {
		if fa.Field == constants.Counterparty {
			fa.Aliases = nil
		}
		t = append(t, fa)
	}
	return t
}

// Fields returns the table's fields in order.
func (t Table) Fields() []constants.Field {
	out := make([]constants.Field, len(t))
	for i, fa := range t {
		out[i] = fa.Field
	}
	return out
}

// Names returns the declared aliases, or the field name when none are declared.
func (fa FieldAliases) Names() []string {
	if len(fa.Aliases) == 0 {
		return []string{string(fa.Field)}
	}
	return fa.Aliases
}
