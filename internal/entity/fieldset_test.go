package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/findoc-reader/constants"
)

func TestFieldSet_StartsAllNull(t *testing.T) {
	fs := NewFieldSet(constants.ChatFields)

	assert.Equal(t, len(constants.ChatFields), fs.Len())
	assert.Equal(t, 0, fs.Resolved())
	for _, f := range constants.ChatFields {
		assert.True(t, fs.Has(f))
		assert.False(t, fs.IsSet(f))
	}
}

func TestFieldSet_AssignIsFirstWins(t *testing.T) {
	fs := NewFieldSet(constants.DocumentFields)

	assert.False(t, fs.Assign(constants.Notional, "   "), "blank values are not assigned")
	assert.True(t, fs.Assign(constants.Notional, " 50,000,000 EUR "))
	assert.False(t, fs.Assign(constants.Notional, "10,000,000 USD"))

	v, ok := fs.Get(constants.Notional)
	require.True(t, ok)
	assert.Equal(t, "50,000,000 EUR", v)
}

func TestFieldSet_AssignUnknownField(t *testing.T) {
	fs := NewFieldSet(constants.DocumentFields)

	assert.False(t, fs.Assign(constants.ISIN, "FR0001234567"))
	assert.False(t, fs.Has(constants.ISIN))
	_, present := fs.ToMap()[string(constants.ISIN)]
	assert.False(t, present)
}

func TestFieldSet_Override(t *testing.T) {
	fs := NewFieldSet(constants.DocumentFields)
	fs.Assign(constants.Counterparty, "Bank X")

	fs.Override(constants.Counterparty, "Bank X, Bank Y")
	v, _ := fs.Get(constants.Counterparty)
	assert.Equal(t, "Bank X, Bank Y", v)

	fs.Override(constants.Counterparty, "")
	assert.False(t, fs.IsSet(constants.Counterparty))
}

func TestFieldSet_MarshalJSONKeepsOrderAndNulls(t *testing.T) {
	fs := NewFieldSet([]constants.Field{constants.ISIN, constants.Bid, constants.Offer})
	fs.Assign(constants.Bid, "ESTR+35bps")

	b, err := json.Marshal(fs)
	require.NoError(t, err)
	assert.Equal(t, `{"ISIN":null,"Bid":"ESTR+35bps","Offer":null}`, string(b))
}

func TestFieldSet_ToMapIsACopy(t *testing.T) {
	fs := NewFieldSet([]constants.Field{constants.ISIN})
	fs.Assign(constants.ISIN, "FR0001234567")

	m := fs.ToMap()
	*m[string(constants.ISIN)] = "changed"

	v, _ := fs.Get(constants.ISIN)
	assert.Equal(t, "FR0001234567", v)
}

func TestFieldSet_DuplicateFieldsCollapse(t *testing.T) {
	fs := NewFieldSet([]constants.Field{constants.Bid, constants.Bid, constants.Offer})
	assert.Equal(t, []constants.Field{constants.Bid, constants.Offer}, fs.Fields())
}

func TestFieldSet_UnmarshalJSON(t *testing.T) {
	var fs FieldSet
	require.NoError(t, json.Unmarshal([]byte(`{"Offer":" 99.5 ","ISIN":null,"Bid":""}`), &fs))

	assert.Equal(t, []constants.Field{constants.Offer, constants.ISIN, constants.Bid}, fs.Fields())
	v, ok := fs.Get(constants.Offer)
	require.True(t, ok)
	assert.Equal(t, "99.5", v)
	assert.False(t, fs.IsSet(constants.Bid))

	out, err := json.Marshal(&fs)
	require.NoError(t, err)
	assert.Equal(t, `{"Offer":"99.5","ISIN":null,"Bid":null}`, string(out))
}

func TestFieldSet_UnmarshalJSONErrors(t *testing.T) {
	var fs FieldSet
	assert.Error(t, json.Unmarshal([]byte(`["Offer"]`), &fs))
	assert.Error(t, json.Unmarshal([]byte(`{"Offer":1}`), &fs))
}
