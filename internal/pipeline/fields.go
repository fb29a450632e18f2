package processor

import (
	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/linescan"
	"github.com/joseph-ayodele/findoc-reader/internal/mapper"
)

// FieldInfo describes one output key.
type FieldInfo struct {
	Field   constants.Field `json:"field"`
	Aliases []string        `json:"aliases,omitempty"`
	Rule    string          `json:"rule,omitempty"`
}

// FieldTables lists the keys of both pipelines in output order.
type FieldTables struct {
	Document []FieldInfo `json:"document"`
	Chat     []FieldInfo `json:"chat"`
}

// FieldTables reports the document alias table and the chat rules in use.
func (p *Processor) FieldTables() FieldTables {
	var out FieldTables

	if tabled, ok := p.Document.Extractor.(interface{ Table() linescan.Table }); ok {
		for _, fa := range tabled.Table() {
			out.Document = append(out.Document, FieldInfo{Field: fa.Field, Aliases: fa.Names()})
		}
	} else {
		for _, f := range p.DocumentFields() {
			out.Document = append(out.Document, FieldInfo{Field: f})
		}
	}
	for _, f := range p.ChatFields() {
		out.Chat = append(out.Chat, FieldInfo{Field: f, Rule: mapper.Source(f)})
	}
	return out
}

// Filter keeps the entries whose key matches name loosely ("payment
// frequency" finds PaymentFrequency). It reports false when neither
// pipeline has such a key.
func (t FieldTables) Filter(name string) (FieldTables, bool) {
	out := FieldTables{
		Document: filterInfo(t.Document, name),
		Chat:     filterInfo(t.Chat, name),
	}
	return out, len(out.Document)+len(out.Chat) > 0
}

func filterInfo(infos []FieldInfo, name string) []FieldInfo {
	keys := make([]constants.Field, len(infos))
	for i, fi := range infos {
		keys[i] = fi.Field
	}
	out := []FieldInfo{}
	f, ok := constants.Canonicalize(name, keys)
	if !ok {
		return out
	}
	for _, fi := range infos {
		if fi.Field == f {
			out = append(out, fi)
		}
	}
	return out
}
