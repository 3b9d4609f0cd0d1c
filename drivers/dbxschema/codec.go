// Package dbxschema implements the dbcrossbar-schema: locator scheme, the
// canonical JSON interchange format for portable schemas (spec §6). It is
// the wire form every other driver's schema ultimately round-trips
// through when doing a schema-only conversion.
package dbxschema

import (
	"encoding/json"
	"fmt"

	"github.com/seamusabshere/dbcrossbar/portable"
)

// wireTable and wireColumn mirror the JSON document shape from spec §6:
//
//	{ "name": string, "columns": [ {"name", "data_type", "is_nullable", "comment"?} ] }
type wireTable struct {
	Name    string       `json:"name"`
	Columns []wireColumn `json:"columns"`
}

type wireColumn struct {
	Name       string          `json:"name"`
	DataType   json.RawMessage `json:"data_type"`
	IsNullable bool            `json:"is_nullable"`
	Comment    string          `json:"comment,omitempty"`
}

// Codec implements portable.Codec for the dbcrossbar-schema: format.
type Codec struct{}

var _ portable.Codec = Codec{}

// Encode renders t as canonical dbcrossbar-schema JSON. Sibling key order
// within each JSON object follows Go's struct-tag declaration order
// above; readers must not depend on it (property 6), but column order is
// always preserved since Columns is encoded as a JSON array in table
// order.
func (Codec) Encode(t *portable.Table) ([]byte, error) {
	wt := wireTable{Name: t.Name, Columns: make([]wireColumn, len(t.Columns))}
	for i, c := range t.Columns {
		raw, err := portable.EncodeDataType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("dbxschema: encoding column %q: %w", c.Name, err)
		}
		wt.Columns[i] = wireColumn{
			Name:       c.Name,
			DataType:   raw,
			IsNullable: c.IsNullable,
			Comment:    c.Comment,
		}
	}
	out, err := json.MarshalIndent(wt, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("dbxschema: %w", err)
	}
	return append(out, '\n'), nil
}

// Decode parses dbcrossbar-schema JSON into a Table. Column order is
// taken from the JSON array; this format is insensitive to the ordering
// of sibling keys within an individual column object (property 6).
func (Codec) Decode(data []byte) (*portable.Table, error) {
	var wt wireTable
	if err := json.Unmarshal(data, &wt); err != nil {
		return nil, fmt.Errorf("dbxschema: parsing schema document: %w", err)
	}
	t := &portable.Table{Name: wt.Name, Columns: make([]portable.Column, len(wt.Columns))}
	for i, wc := range wt.Columns {
		dt, err := portable.DecodeDataType(wc.DataType)
		if err != nil {
			return nil, fmt.Errorf("dbxschema: column %q: %w", wc.Name, err)
		}
		t.Columns[i] = portable.Column{
			Name:       wc.Name,
			Type:       dt,
			IsNullable: wc.IsNullable,
			Comment:    wc.Comment,
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
