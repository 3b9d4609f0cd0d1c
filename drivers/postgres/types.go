// Package postgres implements the PostgreSQL schema driver: a native
// PgDataType AST, a recursive-descent parser/printer for the subset of
// CREATE TABLE sufficient to express every portable type (spec §4.3,
// §6), the portable mapper, and the count operation run over
// github.com/jackc/pgx/v5. It is grounded on
// original_source/dbcrossbarlib/src/drivers/postgres/count.rs for the
// count query shape, and on ariga.io/atlas/sql/postgres's FormatType /
// type-name-table style (convert.go) for the native type AST and its
// printer, adapted from atlas's live-introspection model to dbcrossbar's
// text-based CREATE TABLE parse/print model.
package postgres

import (
	"fmt"
	"strings"
)

// Kind enumerates PgDataType: the native PostgreSQL types this driver
// can parse, print, and map to/from the portable lattice.
type Kind int

const (
	Boolean Kind = iota
	SmallInt
	Integer
	BigInt
	Real
	DoublePrecision
	Numeric
	Text
	VarChar
	Bytea
	Date
	Time
	Timestamp
	TimestampTZ
	UUID
	JSONB
	Geometry
	// Other is an escape hatch for a native type string this driver does
	// not otherwise model, round-tripped verbatim (portable.Other).
	Other
)

var kindNames = map[Kind]string{
	Boolean:         "boolean",
	SmallInt:        "smallint",
	Integer:         "integer",
	BigInt:          "bigint",
	Real:            "real",
	DoublePrecision: "double precision",
	Numeric:         "numeric",
	Text:            "text",
	VarChar:         "varchar",
	Bytea:           "bytea",
	Date:            "date",
	Time:            "time",
	Timestamp:       "timestamp without time zone",
	TimestampTZ:     "timestamp with time zone",
	UUID:            "uuid",
	JSONB:           "jsonb",
}

// DataType is the native PostgreSQL column type AST: a scalar Kind, a
// nesting depth of trailing "[]" array suffixes, a VarChar length
// modifier, a Numeric precision/scale pair, a Geometry srid, or an
// Other escape carrying the original type string verbatim.
type DataType struct {
	Kind        Kind
	ArrayDepth  int
	VarCharLen  int // 0 means unspecified ("varchar" with no length)
	NumPrec     int
	NumScale    int
	GeometrySrid int
	Native      string // only set when Kind == Other
}

// Array wraps t in one more level of "[]", PostgreSQL's only array
// notation (spec §4.3 "arrays with [] suffix").
func (t DataType) Array() DataType {
	t.ArrayDepth++
	return t
}

// Elem strips one "[]" level. ok is false if t is not an array.
func (t DataType) Elem() (DataType, bool) {
	if t.ArrayDepth == 0 {
		return DataType{}, false
	}
	elem := t
	elem.ArrayDepth--
	return elem, true
}

// IsArray reports whether t has at least one "[]" suffix.
func (t DataType) IsArray() bool { return t.ArrayDepth > 0 }

// String renders t the way it appears in a CREATE TABLE column
// definition, e.g. "numeric(10,2)", "text[]", "varchar(255)".
func (t DataType) String() string {
	var base string
	switch t.Kind {
	case Other:
		base = t.Native
	case VarChar:
		if t.VarCharLen > 0 {
			base = fmt.Sprintf("character varying(%d)", t.VarCharLen)
		} else {
			base = "character varying"
		}
	case Numeric:
		switch {
		case t.NumPrec == 0 && t.NumScale == 0:
			base = "numeric"
		case t.NumScale == 0:
			base = fmt.Sprintf("numeric(%d)", t.NumPrec)
		default:
			base = fmt.Sprintf("numeric(%d,%d)", t.NumPrec, t.NumScale)
		}
	case Geometry:
		if t.GeometrySrid != 0 {
			base = fmt.Sprintf("geometry(Geometry,%d)", t.GeometrySrid)
		} else {
			base = "geometry(Geometry)"
		}
	default:
		name, ok := kindNames[t.Kind]
		if !ok {
			base = "text"
		} else {
			base = name
		}
	}
	return base + strings.Repeat("[]", t.ArrayDepth)
}

// Column is one column of a native PgCreateTable, carrying the pieces
// of a CREATE TABLE column definition that don't round-trip through
// DataType: nullability and a comment. The comment is only carried to
// and from the portable Column: Print does not emit it, and the parser
// does not read COMMENT ON COLUMN statements.
type Column struct {
	Name       string
	Type       DataType
	IsNullable bool
	Comment    string
}

// CreateTable is the native AST for a single CREATE TABLE statement:
// PgCreateTable in the original driver's terms.
type CreateTable struct {
	Name    string
	Columns []Column
}
