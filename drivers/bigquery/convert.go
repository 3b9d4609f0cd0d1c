package bigquery

import (
	"fmt"

	"github.com/seamusabshere/dbcrossbar/portable"
)

// Usage is the context that parameterizes portable -> native mapping
// (spec §4.2). The mapping is not a pair of inverses; it is a context-
// indexed family, which is why CsvLoad and FinalTable are modeled as an
// explicit parameter rather than two separate functions that happen to
// look similar.
type Usage int

const (
	// CsvLoad is the native type used while BigQuery's loader is
	// reading a staged CSV file.
	CsvLoad Usage = iota
	// FinalTable is the native type used in the durable destination
	// table.
	FinalTable
)

// ForDataType maps a portable type to its BigQuery native representation
// under the given usage, following
// original_source/dbcrossbarlib/src/drivers/bigquery_shared/data_type.rs
// exactly, including the nested-array-wrapping trick: BigQuery forbids
// ARRAY<ARRAY<_>>, so a nested array is represented as
// ARRAY<STRUCT<ARRAY<_>>> via an anonymous single-field struct.
func ForDataType(t portable.DataType, usage Usage) (DataType, error) {
	if elem, ok := t.Elem(); ok {
		// Arrays cannot be loaded directly from a CSV file, so when
		// staging through CSV we always emit STRING at the top level
		// (testable property 3).
		if usage == CsvLoad {
			return NewNonArray(NonArrayOf(String)), nil
		}
		if elem.Kind() == portable.KindJSON {
			return DataType{}, fmt.Errorf("bigquery: cannot represent arrays of JSON yet")
		}
		bqElem, err := nonArrayForDataType(elem, usage)
		if err != nil {
			return DataType{}, err
		}
		return NewArray(bqElem), nil
	}
	bqT, err := nonArrayForDataType(t, usage)
	if err != nil {
		return DataType{}, err
	}
	return NewNonArray(bqT), nil
}

// nonArrayForDataType maps a portable type to BqNonArrayDataType. If
// handed a nested Array it wraps it in a single-element anonymous
// struct, since BigQuery always needs ARRAY<STRUCT<ARRAY<...>>> instead
// of ARRAY<ARRAY<...>> — the entire reason DataType and NonArrayType are
// separate Go types (spec §4.2, testable property 4).
func nonArrayForDataType(t portable.DataType, usage Usage) (NonArrayType, error) {
	if elem, ok := t.Elem(); ok {
		if usage == CsvLoad {
			return NonArrayType{}, fmt.Errorf("bigquery: should never encounter nested arrays in CSV mode")
		}
		bqElem, err := nonArrayForDataType(elem, usage)
		if err != nil {
			return NonArrayType{}, err
		}
		field := StructField{Type: NewArray(bqElem)}
		return StructOf([]StructField{field}), nil
	}
	switch t.Kind() {
	case portable.KindBool:
		return NonArrayOf(Bool), nil
	case portable.KindDate:
		return NonArrayOf(Date), nil
	case portable.KindDecimal:
		return NonArrayOf(Numeric), nil
	case portable.KindFloat32, portable.KindFloat64:
		return NonArrayOf(Float64), nil
	case portable.KindGeoJSON:
		srid, _ := t.Srid()
		if srid == portable.WGS84 {
			return NonArrayOf(Geography), nil
		}
		return NonArrayOf(String), nil
	case portable.KindInt16, portable.KindInt32, portable.KindInt64:
		return NonArrayOf(Int64), nil
	case portable.KindJSON:
		return NonArrayOf(String), nil
	case portable.KindOther:
		// Unknown types become strings.
		return NonArrayOf(String), nil
	case portable.KindText:
		return NonArrayOf(String), nil
	case portable.KindTimestampNoTZ:
		return NonArrayOf(Datetime), nil
	case portable.KindTimestampTZ:
		// BigQuery converts timestamps with timezones to UTC.
		return NonArrayOf(Timestamp), nil
	case portable.KindUUID:
		return NonArrayOf(String), nil
	case portable.KindBytes:
		return NonArrayType{}, fmt.Errorf("bigquery: %w", unsupportedFromPortable(t))
	default:
		return NonArrayType{}, fmt.Errorf("bigquery: %w", unsupportedFromPortable(t))
	}
}

func unsupportedFromPortable(t portable.DataType) error {
	return fmt.Errorf("cannot represent portable type %s in BigQuery", t)
}

// ToDataType maps a BigQuery native type back to the portable lattice.
// Arrays of structs collapse to Json: a deliberate choice, since arrays
// of structured values are almost never useful as a portable Json[], and
// the common BigQuery pattern is a JSON-bearing struct array (spec §4.2
// "Reverse mapping").
func (t DataType) ToDataType() (portable.DataType, error) {
	if t.isArray {
		if t.nonArray.Kind == Struct {
			return portable.JSON, nil
		}
		elem, err := t.nonArray.ToDataType()
		if err != nil {
			return portable.DataType{}, err
		}
		return portable.Array(elem), nil
	}
	return t.nonArray.ToDataType()
}

// ToDataType maps a BqNonArrayDataType back to the portable lattice.
// BYTES and TIME are not round-tripped yet and report Unsupported, per
// the same limitation in the original BigQuery driver.
func (t NonArrayType) ToDataType() (portable.DataType, error) {
	switch t.Kind {
	case Bool:
		return portable.Bool, nil
	case Date:
		return portable.Date, nil
	case Numeric:
		return portable.Decimal, nil
	case Float64:
		return portable.Float64, nil
	case Geography:
		return portable.GeoJSON(portable.WGS84), nil
	case Int64:
		return portable.Int64, nil
	case String:
		return portable.Text, nil
	case Datetime:
		return portable.TimestampWithoutTZ, nil
	case Struct:
		return portable.JSON, nil
	case Timestamp:
		return portable.TimestampTZ, nil
	case Bytes, Time:
		return portable.DataType{}, fmt.Errorf("bigquery: cannot convert %s to a portable type (yet)", t)
	default:
		return portable.DataType{}, fmt.Errorf("bigquery: cannot convert %s to a portable type (yet)", t)
	}
}
