package bigquery

import (
	"strings"

	"github.com/seamusabshere/dbcrossbar/errs"
)

// parser is a small hand-written recursive-descent parser over the
// BigQuery type grammar (spec §4.1). It recognizes three productions:
//
//	data_type                    -> ARRAY<non_array_data_type> | non_array_data_type
//	non_array_data_type          -> scalar keyword | STRUCT<field_list>
//	record_or_non_array_data_type -> RECORD | non_array_data_type
//
// RECORD is a placeholder that only appears in schema JSON, where it is
// resolved against the column's separately supplied "fields" key (see
// schema.go); it is deliberately not part of non_array_data_type, which
// parses ordinary BigQuery type strings such as those found in STRUCT
// field lists.
type parser struct {
	input string
	pos   int
}

// ParseDataType parses a full BigQuery type expression, e.g. "ARRAY<STRING>".
func ParseDataType(s string) (DataType, error) {
	p := &parser{input: s}
	p.skipSpace()
	dt, err := p.dataType()
	if err != nil {
		return DataType{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return DataType{}, p.errorf("end of input")
	}
	return dt, nil
}

// ParseNonArrayDataType parses a BigQuery type expression that must not
// be a top-level ARRAY, e.g. a STRUCT field's type.
func ParseNonArrayDataType(s string) (NonArrayType, error) {
	p := &parser{input: s}
	p.skipSpace()
	t, err := p.nonArrayDataType()
	if err != nil {
		return NonArrayType{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return NonArrayType{}, p.errorf("end of input")
	}
	return t, nil
}

// RecordOrNonArray is the result of parsing a
// record_or_non_array_data_type production: either the RECORD
// placeholder, or a concrete NonArrayType.
type RecordOrNonArray struct {
	IsRecord bool
	Type     NonArrayType
}

// ParseRecordOrNonArrayDataType parses the "type" key of a BigQuery
// schema JSON column, which may be the literal placeholder "RECORD".
func ParseRecordOrNonArrayDataType(s string) (RecordOrNonArray, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "RECORD") {
		return RecordOrNonArray{IsRecord: true}, nil
	}
	t, err := ParseNonArrayDataType(s)
	if err != nil {
		return RecordOrNonArray{}, err
	}
	return RecordOrNonArray{Type: t}, nil
}

func (p *parser) errorf(expected string) error {
	return &errs.ParseError{
		Kind:     "bigquery.data_type",
		Position: p.pos,
		Expected: expected,
		Input:    p.input,
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) peekByte() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

// dataType parses: ARRAY<non_array_data_type> | non_array_data_type
func (p *parser) dataType() (DataType, error) {
	if p.consumeKeyword("ARRAY") {
		p.skipSpace()
		if !p.consumeByte('<') {
			return DataType{}, p.errorf("'<'")
		}
		p.skipSpace()
		elem, err := p.nonArrayDataType()
		if err != nil {
			return DataType{}, err
		}
		p.skipSpace()
		if !p.consumeByte('>') {
			return DataType{}, p.errorf("'>'")
		}
		return NewArray(elem), nil
	}
	t, err := p.nonArrayDataType()
	if err != nil {
		return DataType{}, err
	}
	return NewNonArray(t), nil
}

// nonArrayDataType parses a scalar keyword or a STRUCT<...>.
func (p *parser) nonArrayDataType() (NonArrayType, error) {
	ident := p.peekIdent()
	switch strings.ToUpper(ident) {
	case "BOOL", "BOOLEAN":
		// BOOLEAN is an undocumented-but-accepted synonym for BOOL (§4.1).
		p.consumeIdent(len(ident))
		return NonArrayOf(Bool), nil
	case "BYTES":
		p.consumeIdent(len(ident))
		return NonArrayOf(Bytes), nil
	case "DATE":
		p.consumeIdent(len(ident))
		return NonArrayOf(Date), nil
	case "DATETIME":
		p.consumeIdent(len(ident))
		return NonArrayOf(Datetime), nil
	case "FLOAT64":
		p.consumeIdent(len(ident))
		return NonArrayOf(Float64), nil
	case "GEOGRAPHY":
		p.consumeIdent(len(ident))
		return NonArrayOf(Geography), nil
	case "INT64":
		p.consumeIdent(len(ident))
		return NonArrayOf(Int64), nil
	case "NUMERIC":
		p.consumeIdent(len(ident))
		return NonArrayOf(Numeric), nil
	case "STRING":
		p.consumeIdent(len(ident))
		return NonArrayOf(String), nil
	case "TIME":
		p.consumeIdent(len(ident))
		return NonArrayOf(Time), nil
	case "TIMESTAMP":
		p.consumeIdent(len(ident))
		return NonArrayOf(Timestamp), nil
	case "STRUCT":
		p.consumeIdent(len(ident))
		return p.structFields()
	default:
		return NonArrayType{}, p.errorf("a BigQuery type keyword")
	}
}

func (p *parser) structFields() (NonArrayType, error) {
	p.skipSpace()
	if !p.consumeByte('<') {
		return NonArrayType{}, p.errorf("'<'")
	}
	p.skipSpace()
	var fields []StructField
	if b, ok := p.peekByte(); ok && b == '>' {
		p.pos++
		return StructOf(fields), nil
	}
	for {
		p.skipSpace()
		field, err := p.structField()
		if err != nil {
			return NonArrayType{}, err
		}
		fields = append(fields, field)
		p.skipSpace()
		b, ok := p.peekByte()
		if !ok {
			return NonArrayType{}, p.errorf("',' or '>'")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == '>' {
			p.pos++
			break
		}
		return NonArrayType{}, p.errorf("',' or '>'")
	}
	return StructOf(fields), nil
}

// structField parses one "[name] type" within a STRUCT<...> field list.
// A field has a name when it is followed by a second identifier that is
// itself a valid type keyword start; we use the simple, documented
// BigQuery rule of "identifier followed by a type" to detect a name,
// falling back to an unnamed field when only one identifier is present
// before the type grammar takes over (e.g. "FLOAT64" alone).
func (p *parser) structField() (StructField, error) {
	first := p.peekIdent()
	if first == "" {
		return StructField{}, p.errorf("a field name or type")
	}
	if isTypeKeyword(first) {
		// Unnamed field: the identifier is itself the start of a full
		// data_type production (which may be an ARRAY), so let dataType
		// consume it from the beginning.
		dt, err := p.dataType()
		if err != nil {
			return StructField{}, err
		}
		return StructField{Type: dt}, nil
	}
	// first is a field name; consume it, then require a nested data_type
	// (which may itself be an ARRAY, unlike a bare struct member).
	p.consumeIdent(len(first))
	p.skipSpace()
	dt, err := p.dataType()
	if err != nil {
		return StructField{}, err
	}
	return StructField{Name: first, Type: dt}, nil
}

func isTypeKeyword(ident string) bool {
	switch strings.ToUpper(ident) {
	case "BOOL", "BOOLEAN", "BYTES", "DATE", "DATETIME", "FLOAT64",
		"GEOGRAPHY", "INT64", "NUMERIC", "STRING", "STRUCT", "TIME",
		"TIMESTAMP", "ARRAY":
		return true
	default:
		return false
	}
}

// peekIdent returns the identifier starting at the current position
// without consuming it.
func (p *parser) peekIdent() string {
	i := p.pos
	for i < len(p.input) && isIdentByte(p.input[i]) {
		i++
	}
	return p.input[p.pos:i]
}

func (p *parser) consumeIdent(n int) {
	p.pos += n
}

func (p *parser) consumeKeyword(kw string) bool {
	ident := p.peekIdent()
	if strings.EqualFold(ident, kw) {
		p.consumeIdent(len(ident))
		return true
	}
	return false
}

func (p *parser) consumeByte(b byte) bool {
	if cur, ok := p.peekByte(); ok && cur == b {
		p.pos++
		return true
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
