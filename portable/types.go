// Package portable defines the canonical type lattice that every driver in
// this module maps into and out of: the "portable data model" described in
// dbcrossbar's schema specification.
package portable

import "fmt"

// Srid is a spatial-reference identifier attached to GeoJson columns.
type Srid int

// WGS84 is the default spatial reference system used by GeoJson columns
// when none is specified.
const WGS84 Srid = 4326

// Kind enumerates the members of the portable DataType sum type.
type Kind int

// The members of the portable DataType lattice (§3).
const (
	KindBool Kind = iota
	KindBytes
	KindDate
	KindDecimal
	KindFloat32
	KindFloat64
	KindGeoJSON
	KindInt16
	KindInt32
	KindInt64
	KindJSON
	KindText
	KindTimestampTZ
	KindTimestampNoTZ
	KindUUID
	KindOther
	KindArray
)

// DataType is a single member of the portable type lattice. It is a sum
// type over the Kind values above; Array and Other carry extra payload
// (Elem and Native respectively), GeoJson carries a Srid. DataType values
// are immutable once constructed and safe to share.
type DataType struct {
	kind   Kind
	elem   *DataType // only set when kind == KindArray
	native string    // only set when kind == KindOther
	srid   Srid      // only set when kind == KindGeoJSON
}

// Constructors for the non-parameterized members.
var (
	Bool              = DataType{kind: KindBool}
	Bytes             = DataType{kind: KindBytes}
	Date              = DataType{kind: KindDate}
	Decimal           = DataType{kind: KindDecimal}
	Float32           = DataType{kind: KindFloat32}
	Float64           = DataType{kind: KindFloat64}
	Int16             = DataType{kind: KindInt16}
	Int32             = DataType{kind: KindInt32}
	Int64             = DataType{kind: KindInt64}
	JSON              = DataType{kind: KindJSON}
	Text              = DataType{kind: KindText}
	TimestampTZ       = DataType{kind: KindTimestampTZ}
	TimestampWithoutTZ = DataType{kind: KindTimestampNoTZ}
	UUID              = DataType{kind: KindUUID}
)

// Array constructs Array(elem). Arrays may nest arbitrarily in the
// portable model; individual drivers are responsible for flattening or
// wrapping to honor their own constraints (§3 invariant).
func Array(elem DataType) DataType {
	e := elem
	return DataType{kind: KindArray, elem: &e}
}

// GeoJSON constructs GeoJson(srid).
func GeoJSON(srid Srid) DataType {
	return DataType{kind: KindGeoJSON, srid: srid}
}

// Other constructs a pass-through escape for a native type this module
// does not otherwise model. Round-tripping Other through the same
// backend it came from is lossless. Other does not record which backend
// it came from: the BigQuery mapper turns it into STRING (read back as
// Text), while the PostgreSQL mapper emits the native name verbatim as
// the column type, so an Other from another backend is not coerced to
// Text there.
func Other(native string) DataType {
	return DataType{kind: KindOther, native: native}
}

// Kind reports which member of the lattice this value is.
func (t DataType) Kind() Kind { return t.kind }

// Elem returns the element type of an Array, and ok=false otherwise.
func (t DataType) Elem() (DataType, bool) {
	if t.kind != KindArray {
		return DataType{}, false
	}
	return *t.elem, true
}

// Srid returns the spatial-reference id of a GeoJson type, and ok=false
// otherwise.
func (t DataType) Srid() (Srid, bool) {
	if t.kind != KindGeoJSON {
		return 0, false
	}
	return t.srid, true
}

// Native returns the native type name of an Other escape, and ok=false
// otherwise.
func (t DataType) Native() (string, bool) {
	if t.kind != KindOther {
		return "", false
	}
	return t.native, true
}

// IsArray reports whether t is an Array of any depth.
func (t DataType) IsArray() bool { return t.kind == KindArray }

// Equal reports whether two portable types are structurally identical.
func (t DataType) Equal(o DataType) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindArray:
		return t.elem.Equal(*o.elem)
	case KindGeoJSON:
		return t.srid == o.srid
	case KindOther:
		return t.native == o.native
	default:
		return true
	}
}

// String renders a DataType the way it appears in error messages; it is
// not the wire format (see codec.go for that).
func (t DataType) String() string {
	switch t.kind {
	case KindArray:
		return fmt.Sprintf("array(%s)", t.elem.String())
	case KindGeoJSON:
		return fmt.Sprintf("geo_json(%d)", t.srid)
	case KindOther:
		return fmt.Sprintf("other(%s)", t.native)
	default:
		name, ok := kindNames[t.kind]
		if !ok {
			return "unknown"
		}
		return name
	}
}

var kindNames = map[Kind]string{
	KindBool:          "bool",
	KindBytes:         "bytes",
	KindDate:          "date",
	KindDecimal:       "decimal",
	KindFloat32:       "float32",
	KindFloat64:       "float64",
	KindInt16:         "int16",
	KindInt32:         "int32",
	KindInt64:         "int64",
	KindJSON:          "json",
	KindText:          "text",
	KindTimestampTZ:   "timestamp_with_time_zone",
	KindTimestampNoTZ: "timestamp_without_time_zone",
	KindUUID:          "uuid",
}

// Column is a single column of a portable Table (§3).
type Column struct {
	Name       string
	Type       DataType
	IsNullable bool
	Comment    string
}

// Table is an ordered sequence of Columns plus a qualified name. Column
// order is significant: it defines CSV field order and must be preserved
// through every round-trip (§3).
type Table struct {
	// Schema or dataset qualifying Name, if any (e.g. a Postgres schema
	// or a BigQuery dataset). Empty when the backend has no such concept.
	Namespace string
	Name      string
	Columns   []Column
}

// Column returns the first column with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Validate checks the invariant common to every portable table:
// unique column names (case-sensitive).
// It does not check backend-specific constraints (e.g. "no nested
// arrays"); that is the job of each driver's from_portable mapper.
func (t *Table) Validate() error {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("portable: duplicate column name %q in table %q", c.Name, t.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
