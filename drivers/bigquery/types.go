// Package bigquery implements the BigQuery schema driver: the native
// BqDataType AST, its recursive-descent parser and printer, the
// context-indexed portable mapper, and read/write of BigQuery schema
// JSON (spec §3, §4.1-4.3). It is grounded directly on
// original_source/dbcrossbarlib/src/drivers/bigquery_shared/data_type.rs,
// transliterated from the original Rust enum/grammar into an idiomatic
// Go sum type in the style of ariga.io/atlas/sql/schema's Type interface.
package bigquery

import (
	"fmt"
	"strings"
)

// NonArrayKind enumerates BqNonArrayDataType: any BigQuery type except
// ARRAY, which cannot be nested directly inside another ARRAY.
type NonArrayKind int

const (
	Bool NonArrayKind = iota
	Bytes
	Date
	Datetime
	Float64
	Geography
	Int64
	Numeric
	String
	Struct
	Time
	Timestamp
)

var nonArrayNames = map[NonArrayKind]string{
	Bool:      "BOOL",
	Bytes:     "BYTES",
	Date:      "DATE",
	Datetime:  "DATETIME",
	Float64:   "FLOAT64",
	Geography: "GEOGRAPHY",
	Int64:     "INT64",
	Numeric:   "NUMERIC",
	String:    "STRING",
	Time:      "TIME",
	Timestamp: "TIMESTAMP",
}

// StructField is one field of a STRUCT. Name is optional: BigQuery
// STRUCTs are tuples with optional names at each position, and unlike
// column names, field names do not need to be unique within a struct.
type StructField struct {
	Name string // "" if the field is unnamed.
	Type DataType
}

// DataType is the native BigQuery type AST (BqDataType): either an Array
// of a NonArrayType, or a NonArrayType directly. Splitting Array out as
// its own variant is what makes it a compile-time error to construct an
// illegal ARRAY<ARRAY<_>> (spec §3 invariant, §9 design note).
type DataType struct {
	isArray bool
	nonArray NonArrayType
}

// NonArrayType is BqNonArrayDataType: every BigQuery type except a
// top-level ARRAY.
type NonArrayType struct {
	Kind   NonArrayKind
	Fields []StructField // only set when Kind == Struct
}

// NewArray constructs an ARRAY<elem> native type. elem must not itself
// be an array; callers needing nested arrays must first wrap the inner
// array in a single-field Struct (see ForDataType in convert.go).
func NewArray(elem NonArrayType) DataType {
	return DataType{isArray: true, nonArray: elem}
}

// NewNonArray constructs a non-array native type.
func NewNonArray(t NonArrayType) DataType {
	return DataType{isArray: false, nonArray: t}
}

// NonArrayOf constructs a NonArrayType of a scalar Kind (not Struct).
func NonArrayOf(k NonArrayKind) NonArrayType {
	return NonArrayType{Kind: k}
}

// StructOf constructs a STRUCT native type with the given fields.
func StructOf(fields []StructField) NonArrayType {
	return NonArrayType{Kind: Struct, Fields: fields}
}

// IsArray reports whether t is a top-level ARRAY.
func (t DataType) IsArray() bool { return t.isArray }

// NonArray returns the non-array payload of t: either the array's
// element type, or t's own type if t is not an array.
func (t DataType) NonArray() NonArrayType { return t.nonArray }

// String renders t the way BigQuery's DDL/schema JSON does.
func (t DataType) String() string {
	if t.isArray {
		return fmt.Sprintf("ARRAY<%s>", t.nonArray.String())
	}
	return t.nonArray.String()
}

// String renders a NonArrayType.
func (t NonArrayType) String() string {
	if t.Kind == Struct {
		var b strings.Builder
		b.WriteString("STRUCT<")
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			if f.Name != "" {
				b.WriteString(f.Name)
				b.WriteByte(' ')
			}
			b.WriteString(f.Type.String())
		}
		b.WriteByte('>')
		return b.String()
	}
	name, ok := nonArrayNames[t.Kind]
	if !ok {
		return "UNKNOWN"
	}
	return name
}

// IsJSONSafe reports whether t can be safely represented as a JSON
// value: a struct is JSON-safe only if every field is named, those
// names are unique within the struct, and every child type is
// recursively JSON-safe (spec §4.2, testable property 5). Non-struct
// types are always JSON-safe.
func (t DataType) IsJSONSafe() bool {
	return t.nonArray.IsJSONSafe()
}

// IsJSONSafe implements the struct-safety rule described on DataType.
func (t NonArrayType) IsJSONSafe() bool {
	if t.Kind != Struct {
		return true
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if f.Name == "" {
			return false
		}
		if _, dup := seen[f.Name]; dup {
			return false
		}
		seen[f.Name] = struct{}{}
		if !f.Type.IsJSONSafe() {
			return false
		}
	}
	return true
}

// CanImportFromCSV reports whether BigQuery's CSV loader can ingest a
// column of this native type directly, without the caller first
// stringifying it. Per the original driver, only ARRAY columns need
// special handling (they cannot be loaded from CSV; see Usage.CsvLoad).
func (t DataType) CanImportFromCSV() bool {
	return !t.isArray
}
