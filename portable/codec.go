package portable

import (
	"encoding/json"
	"fmt"
)

// Encoder takes a Table and renders it in some interchange format.
type Encoder interface {
	Encode(*Table) ([]byte, error)
}

// Decoder parses a byte slice in some interchange format into a Table.
type Decoder interface {
	Decode([]byte) (*Table, error)
}

// Codec groups the Encoder and Decoder interfaces.
type Codec interface {
	Encoder
	Decoder
}

// jsonTable and jsonColumn are the wire shapes for the dbcrossbar-schema:
// interchange format (§6). DataType is encoded/decoded through an explicit
// tag table (primitiveTag below) rather than struct reflection, per the design
// note in spec §9 that native and portable wire forms should be derived
// from an explicit tag table.
type jsonTable struct {
	Name    string        `json:"name"`
	Columns []jsonColumn  `json:"columns"`
}

type jsonColumn struct {
	Name       string          `json:"name"`
	DataType   json.RawMessage `json:"data_type"`
	IsNullable bool            `json:"is_nullable"`
	Comment    string          `json:"comment,omitempty"`
}

// primitiveTag maps each non-parameterized Kind to the string used for it
// on the wire, and back. This is the "explicit tag table" driving
// (de)serialization instead of reflection.
var primitiveTag = map[Kind]string{
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

var tagPrimitive = func() map[string]Kind {
	m := make(map[string]Kind, len(primitiveTag))
	for k, v := range primitiveTag {
		m[v] = k
	}
	return m
}()

// EncodeDataType renders a DataType as a JSON value per §6: primitive
// types as a bare string, compound types as a single-key object.
func EncodeDataType(t DataType) ([]byte, error) {
	switch t.kind {
	case KindArray:
		elem, _ := t.Elem()
		inner, err := EncodeDataType(elem)
		if err != nil {
			return nil, err
		}
		return json.Marshal(struct {
			Array json.RawMessage `json:"array"`
		}{Array: inner})
	case KindGeoJSON:
		srid, _ := t.Srid()
		return json.Marshal(struct {
			GeoJSON Srid `json:"geo_json"`
		}{GeoJSON: srid})
	case KindOther:
		native, _ := t.Native()
		return json.Marshal(struct {
			Other string `json:"other"`
		}{Other: native})
	default:
		tag, ok := primitiveTag[t.kind]
		if !ok {
			return nil, fmt.Errorf("portable: cannot encode data type %s", t)
		}
		return json.Marshal(tag)
	}
}

// DecodeDataType parses a JSON value in the §6 data_type format back into
// a DataType.
func DecodeDataType(raw json.RawMessage) (DataType, error) {
	// Primitive types decode as a bare string.
	var tag string
	if err := json.Unmarshal(raw, &tag); err == nil {
		kind, ok := tagPrimitive[tag]
		if !ok {
			return DataType{}, fmt.Errorf("portable: unknown primitive data type %q", tag)
		}
		return DataType{kind: kind}, nil
	}
	// Otherwise it must be a single-key compound object. Decode into a
	// generic map first so we can tell which key is present; unknown or
	// multiple keys are rejected rather than silently picking one, so
	// malformed schemas fail fast instead of losing information.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return DataType{}, fmt.Errorf("portable: data type is neither a string nor an object: %w", err)
	}
	if len(obj) != 1 {
		return DataType{}, fmt.Errorf("portable: compound data type must have exactly one key, got %d", len(obj))
	}
	for key, val := range obj {
		switch key {
		case "array":
			elem, err := DecodeDataType(val)
			if err != nil {
				return DataType{}, err
			}
			return Array(elem), nil
		case "geo_json":
			var srid Srid
			if err := json.Unmarshal(val, &srid); err != nil {
				return DataType{}, fmt.Errorf("portable: invalid geo_json srid: %w", err)
			}
			return GeoJSON(srid), nil
		case "other":
			var native string
			if err := json.Unmarshal(val, &native); err != nil {
				return DataType{}, fmt.Errorf("portable: invalid other type name: %w", err)
			}
			return Other(native), nil
		default:
			return DataType{}, fmt.Errorf("portable: unknown compound data type key %q", key)
		}
	}
	panic("unreachable")
}
