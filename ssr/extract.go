// Package ssr moves styles across the server-to-client boundary. Extract
// serializes a register's cached styles as styling markup; Hydrate replays
// that markup into a client document so registration there is
// recompute-free.
package ssr

import (
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/agentuity/go-cssinjs/dom"
	"github.com/agentuity/go-cssinjs/style"
)

// Record is one extracted style, identified by the same attributes its
// styling markup carries.
type Record struct {
	StyleHash string `msgpack:"s"`
	TokenHash string `msgpack:"t"`
	CSSText   string `msgpack:"c"`
}

// Extract renders every style record in the register as styling markup, in
// insertion order of first registration so cascade behavior is reproducible.
// It is idempotent and never mutates use counts; calling it repeatedly
// without new registrations yields identical output.
func Extract(reg *style.Register) string {
	var sb strings.Builder
	for _, rec := range reg.Records() {
		sb.WriteString(dom.NewStyleNode(rec.TokenHash, rec.StyleID, rec.CSSText, "").Markup())
	}
	return sb.String()
}

// ExtractRecords returns the register's styles as structured records, in the
// same order Extract renders them.
func ExtractRecords(reg *style.Register) []Record {
	styleRecs := reg.Records()
	out := make([]Record, 0, len(styleRecs))
	for _, rec := range styleRecs {
		out = append(out, Record{
			StyleHash: rec.StyleID,
			TokenHash: rec.TokenHash,
			CSSText:   rec.CSSText,
		})
	}
	return out
}

// MarshalPayload encodes records for binary transport.
func MarshalPayload(recs []Record) ([]byte, error) {
	return msgpack.Marshal(recs)
}

// UnmarshalPayload decodes a payload produced by MarshalPayload.
func UnmarshalPayload(data []byte) ([]Record, error) {
	var recs []Record
	if err := msgpack.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// HydrateRecords inserts records into doc as untagged (adoptable) styling
// nodes, skipping style hashes the document already holds. Returns the
// number of nodes inserted.
func HydrateRecords(doc *dom.Document, recs []Record) int {
	var inserted int
	for _, rec := range recs {
		if rec.StyleHash == "" || doc.FindByStyleHash(rec.StyleHash) != nil {
			continue
		}
		doc.Insert(dom.NewStyleNode(rec.TokenHash, rec.StyleHash, rec.CSSText, ""))
		inserted++
	}
	return inserted
}
