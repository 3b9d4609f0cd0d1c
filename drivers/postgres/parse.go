package postgres

import (
	"strconv"
	"strings"

	"github.com/seamusabshere/dbcrossbar/errs"
)

// parser is a hand-written recursive-descent parser for the subset of
// CREATE TABLE this driver needs to round-trip every portable type
// (spec §4.3): column name, base type with optional precision/length
// modifiers, any number of trailing "[]" array suffixes, and NOT NULL.
//
// It accepts both unquoted identifiers (folded to lower case, as
// PostgreSQL does) and double-quoted identifiers (case preserved
// verbatim), matching PostgreSQL's documented identifier rules.
type parser struct {
	input string
	pos   int
}

// ParseCreateTable parses a single "CREATE TABLE name (...);" statement.
func ParseCreateTable(s string) (*CreateTable, error) {
	p := &parser{input: s}
	p.skipSpace()
	if !p.consumeKeyword("CREATE") {
		return nil, p.errorf("CREATE")
	}
	p.skipSpace()
	if !p.consumeKeyword("TABLE") {
		return nil, p.errorf("TABLE")
	}
	p.skipSpace()
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consumeByte('(') {
		return nil, p.errorf("'('")
	}
	var cols []Column
	p.skipSpace()
	for {
		p.skipSpace()
		col, err := p.column()
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		p.skipSpace()
		b, ok := p.peekByte()
		if !ok {
			return nil, p.errorf("',' or ')'")
		}
		if b == ',' {
			p.pos++
			continue
		}
		if b == ')' {
			p.pos++
			break
		}
		return nil, p.errorf("',' or ')'")
	}
	p.skipSpace()
	p.consumeByte(';')
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, p.errorf("end of input")
	}
	return &CreateTable{Name: name, Columns: cols}, nil
}

func (p *parser) column() (Column, error) {
	name, err := p.identifier()
	if err != nil {
		return Column{}, err
	}
	p.skipSpace()
	dt, err := p.dataType()
	if err != nil {
		return Column{}, err
	}
	col := Column{Name: name, Type: dt, IsNullable: true}
	for {
		p.skipSpace()
		if p.consumeKeyword("NOT") {
			p.skipSpace()
			if !p.consumeKeyword("NULL") {
				return Column{}, p.errorf("NULL")
			}
			col.IsNullable = false
			continue
		}
		if p.consumeKeyword("NULL") {
			col.IsNullable = true
			continue
		}
		break
	}
	return col, nil
}

// dataType parses a base type, optional modifiers, then any number of
// trailing "[]" suffixes.
func (p *parser) dataType() (DataType, error) {
	dt, err := p.baseType()
	if err != nil {
		return DataType{}, err
	}
	for {
		p.skipSpace()
		save := p.pos
		if !p.consumeByte('[') {
			break
		}
		p.skipSpace()
		p.number() // PostgreSQL ignores any length inside [], e.g. int[3].
		p.skipSpace()
		if !p.consumeByte(']') {
			p.pos = save
			break
		}
		dt = dt.Array()
	}
	return dt, nil
}

func (p *parser) baseType() (DataType, error) {
	ident := p.peekIdent()
	upper := strings.ToUpper(ident)
	switch upper {
	case "BOOLEAN", "BOOL":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Boolean}, nil
	case "SMALLINT", "INT2":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: SmallInt}, nil
	case "INTEGER", "INT", "INT4":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Integer}, nil
	case "BIGINT", "INT8":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: BigInt}, nil
	case "REAL", "FLOAT4":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Real}, nil
	case "DOUBLE":
		p.consumeIdentLen(len(ident))
		p.skipSpace()
		if !p.consumeKeyword("PRECISION") {
			return DataType{}, p.errorf("PRECISION")
		}
		return DataType{Kind: DoublePrecision}, nil
	case "FLOAT8":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: DoublePrecision}, nil
	case "NUMERIC", "DECIMAL":
		p.consumeIdentLen(len(ident))
		prec, scale, err := p.optionalPrecisionScale()
		if err != nil {
			return DataType{}, err
		}
		return DataType{Kind: Numeric, NumPrec: prec, NumScale: scale}, nil
	case "TEXT":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Text}, nil
	case "VARCHAR":
		p.consumeIdentLen(len(ident))
		n, err := p.optionalLength()
		if err != nil {
			return DataType{}, err
		}
		return DataType{Kind: VarChar, VarCharLen: n}, nil
	case "CHARACTER":
		p.consumeIdentLen(len(ident))
		p.skipSpace()
		if p.consumeKeyword("VARYING") {
			n, err := p.optionalLength()
			if err != nil {
				return DataType{}, err
			}
			return DataType{Kind: VarChar, VarCharLen: n}, nil
		}
		return DataType{Kind: Other, Native: "character"}, nil
	case "BYTEA":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Bytea}, nil
	case "DATE":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Date}, nil
	case "TIME":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Time}, nil
	case "TIMESTAMP":
		p.consumeIdentLen(len(ident))
		p.skipSpace()
		if p.consumeKeyword("WITH") {
			p.skipSpace()
			if !p.consumeKeyword("TIME") {
				return DataType{}, p.errorf("TIME")
			}
			p.skipSpace()
			if !p.consumeKeyword("ZONE") {
				return DataType{}, p.errorf("ZONE")
			}
			return DataType{Kind: TimestampTZ}, nil
		}
		if p.consumeKeyword("WITHOUT") {
			p.skipSpace()
			if !p.consumeKeyword("TIME") {
				return DataType{}, p.errorf("TIME")
			}
			p.skipSpace()
			if !p.consumeKeyword("ZONE") {
				return DataType{}, p.errorf("ZONE")
			}
		}
		return DataType{Kind: Timestamp}, nil
	case "TIMESTAMPTZ":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: TimestampTZ}, nil
	case "UUID":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: UUID}, nil
	case "JSONB":
		p.consumeIdentLen(len(ident))
		return DataType{Kind: JSONB}, nil
	case "JSON":
		p.consumeIdentLen(len(ident))
		// Plain json is accepted on read and treated as jsonb, since the
		// portable lattice has a single Json member (spec §3).
		return DataType{Kind: JSONB}, nil
	case "GEOMETRY":
		p.consumeIdentLen(len(ident))
		return p.geometryModifier()
	default:
		if ident == "" {
			return DataType{}, p.errorf("a type name")
		}
		// An unrecognized type name is carried through verbatim as an
		// Other escape rather than failing the parse (spec §3 Other).
		p.consumeIdentLen(len(ident))
		return DataType{Kind: Other, Native: ident}, nil
	}
}

func (p *parser) geometryModifier() (DataType, error) {
	p.skipSpace()
	if !p.consumeByte('(') {
		// Bare "geometry" with no modifier.
		return DataType{Kind: Geometry}, nil
	}
	p.skipSpace()
	// The first argument names a geometry subtype (e.g. "Geometry",
	// "Point"); this driver round-trips only the generic "Geometry" form
	// used for portable GeoJson columns (spec §6).
	p.peekIdent()
	for {
		b, ok := p.peekByte()
		if !ok {
			return DataType{}, p.errorf("')'")
		}
		if b == ',' || b == ')' {
			break
		}
		p.pos++
	}
	var srid int
	if b, ok := p.peekByte(); ok && b == ',' {
		p.pos++
		p.skipSpace()
		n, err := p.number()
		if err != nil {
			return DataType{}, err
		}
		srid = n
	}
	if !p.consumeByte(')') {
		return DataType{}, p.errorf("')'")
	}
	return DataType{Kind: Geometry, GeometrySrid: srid}, nil
}

func (p *parser) optionalLength() (int, error) {
	p.skipSpace()
	if !p.consumeByte('(') {
		return 0, nil
	}
	p.skipSpace()
	n, err := p.number()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.consumeByte(')') {
		return 0, p.errorf("')'")
	}
	return n, nil
}

func (p *parser) optionalPrecisionScale() (int, int, error) {
	p.skipSpace()
	if !p.consumeByte('(') {
		return 0, 0, nil
	}
	p.skipSpace()
	prec, err := p.number()
	if err != nil {
		return 0, 0, err
	}
	p.skipSpace()
	scale := 0
	if p.consumeByte(',') {
		p.skipSpace()
		scale, err = p.number()
		if err != nil {
			return 0, 0, err
		}
		p.skipSpace()
	}
	if !p.consumeByte(')') {
		return 0, 0, p.errorf("')'")
	}
	return prec, scale, nil
}

func (p *parser) number() (int, error) {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf("a number")
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, p.errorf("a number")
	}
	return n, nil
}

// identifier parses a double-quoted identifier (case preserved) or an
// unquoted identifier (folded to lower case, PostgreSQL's default
// case-folding rule).
func (p *parser) identifier() (string, error) {
	if b, ok := p.peekByte(); ok && b == '"' {
		p.pos++
		start := p.pos
		for {
			b, ok := p.peekByte()
			if !ok {
				return "", p.errorf(`closing '"'`)
			}
			if b == '"' {
				name := p.input[start:p.pos]
				p.pos++
				return name, nil
			}
			p.pos++
		}
	}
	ident := p.peekIdent()
	if ident == "" {
		return "", p.errorf("an identifier")
	}
	p.pos += len(ident)
	return strings.ToLower(ident), nil
}

func (p *parser) errorf(expected string) error {
	return &errs.ParseError{
		Kind:     "postgres.create_table",
		Position: p.pos,
		Expected: expected,
		Input:    p.input,
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peekByte() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) peekIdent() string {
	i := p.pos
	for i < len(p.input) && isIdentByte(p.input[i]) {
		i++
	}
	return p.input[p.pos:i]
}

func (p *parser) consumeIdentLen(n int) { p.pos += n }

func (p *parser) consumeKeyword(kw string) bool {
	ident := p.peekIdent()
	if strings.EqualFold(ident, kw) {
		p.pos += len(ident)
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
