package postgres

import (
	"fmt"

	"github.com/seamusabshere/dbcrossbar/portable"
)

// FromPortable maps a portable table to a native CreateTable, choosing
// jsonb for Json and geometry(Geometry,srid) for GeoJson as specified
// in §4.3/§6.
func FromPortable(t *portable.Table) (*CreateTable, error) {
	ct := &CreateTable{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		dt, err := dataTypeFromPortable(c.Type)
		if err != nil {
			return nil, fmt.Errorf("postgres: column %q: %w", c.Name, err)
		}
		ct.Columns[i] = Column{Name: c.Name, Type: dt, IsNullable: c.IsNullable, Comment: c.Comment}
	}
	return ct, nil
}

func dataTypeFromPortable(t portable.DataType) (DataType, error) {
	if elem, ok := t.Elem(); ok {
		inner, err := dataTypeFromPortable(elem)
		if err != nil {
			return DataType{}, err
		}
		return inner.Array(), nil
	}
	switch t.Kind() {
	case portable.KindBool:
		return DataType{Kind: Boolean}, nil
	case portable.KindBytes:
		return DataType{Kind: Bytea}, nil
	case portable.KindDate:
		return DataType{Kind: Date}, nil
	case portable.KindDecimal:
		return DataType{Kind: Numeric}, nil
	case portable.KindFloat32:
		return DataType{Kind: Real}, nil
	case portable.KindFloat64:
		return DataType{Kind: DoublePrecision}, nil
	case portable.KindGeoJSON:
		srid, _ := t.Srid()
		return DataType{Kind: Geometry, GeometrySrid: int(srid)}, nil
	case portable.KindInt16:
		return DataType{Kind: SmallInt}, nil
	case portable.KindInt32:
		return DataType{Kind: Integer}, nil
	case portable.KindInt64:
		return DataType{Kind: BigInt}, nil
	case portable.KindJSON:
		return DataType{Kind: JSONB}, nil
	case portable.KindText:
		return DataType{Kind: Text}, nil
	case portable.KindTimestampTZ:
		return DataType{Kind: TimestampTZ}, nil
	case portable.KindTimestampNoTZ:
		return DataType{Kind: Timestamp}, nil
	case portable.KindUUID:
		return DataType{Kind: UUID}, nil
	case portable.KindOther:
		native, _ := t.Native()
		return DataType{Kind: Other, Native: native}, nil
	default:
		return DataType{}, fmt.Errorf("postgres: cannot represent portable type %s", t)
	}
}

// ToPortable maps a native CreateTable to a portable table.
func (ct *CreateTable) ToPortable() (*portable.Table, error) {
	table := &portable.Table{Name: ct.Name, Columns: make([]portable.Column, len(ct.Columns))}
	for i, c := range ct.Columns {
		pt, err := dataTypeToPortable(c.Type)
		if err != nil {
			return nil, fmt.Errorf("postgres: column %q: %w", c.Name, err)
		}
		table.Columns[i] = portable.Column{Name: c.Name, Type: pt, IsNullable: c.IsNullable, Comment: c.Comment}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func dataTypeToPortable(t DataType) (portable.DataType, error) {
	if elem, ok := t.Elem(); ok {
		inner, err := dataTypeToPortable(elem)
		if err != nil {
			return portable.DataType{}, err
		}
		return portable.Array(inner), nil
	}
	switch t.Kind {
	case Boolean:
		return portable.Bool, nil
	case Bytea:
		return portable.Bytes, nil
	case Date:
		return portable.Date, nil
	case Numeric:
		return portable.Decimal, nil
	case Real:
		return portable.Float32, nil
	case DoublePrecision:
		return portable.Float64, nil
	case Geometry:
		srid := portable.WGS84
		if t.GeometrySrid != 0 {
			srid = portable.Srid(t.GeometrySrid)
		}
		return portable.GeoJSON(srid), nil
	case SmallInt:
		return portable.Int16, nil
	case Integer:
		return portable.Int32, nil
	case BigInt:
		return portable.Int64, nil
	case JSONB:
		return portable.JSON, nil
	case Text, VarChar:
		return portable.Text, nil
	case TimestampTZ:
		return portable.TimestampTZ, nil
	case Timestamp, Time:
		return portable.TimestampWithoutTZ, nil
	case UUID:
		return portable.UUID, nil
	case Other:
		return portable.Other(t.Native), nil
	default:
		return portable.DataType{}, fmt.Errorf("postgres: cannot convert %s to a portable type", t)
	}
}
