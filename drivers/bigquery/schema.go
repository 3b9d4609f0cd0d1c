package bigquery

import (
	"encoding/json"
	"fmt"

	"github.com/seamusabshere/dbcrossbar/portable"
)

// Mode is the BigQuery column "mode" from schema JSON: REPEATED lifts a
// column's type into an array, the other two are scalar (spec §4.3).
type Mode string

const (
	ModeNullable Mode = "NULLABLE"
	ModeRequired Mode = "REQUIRED"
	ModeRepeated Mode = "REPEATED"
)

// jsonColumn is one element of a BigQuery schema JSON array:
// {name, type, mode, fields?, description?} (spec §6).
type jsonColumn struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Mode        Mode         `json:"mode"`
	Description string       `json:"description,omitempty"`
	Fields      []jsonColumn `json:"fields,omitempty"`
}

// Driver implements schema read/write for the bigquery-schema: locator
// scheme (spec §4.3, §6).
type Driver struct{}

// ReadSchema parses a BigQuery schema JSON document into a portable
// Table. The "name" of the table is not encoded in BigQuery schema
// JSON, so it is supplied by the caller (cmd/dbcrossbar derives it from
// the file name of the schema locator being read).
func (Driver) ReadSchema(tableName string, data []byte) (*portable.Table, error) {
	var cols []jsonColumn
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("bigquery: parsing schema JSON: %w", err)
	}
	table := &portable.Table{Name: tableName, Columns: make([]portable.Column, len(cols))}
	for i, jc := range cols {
		col, err := columnToPortable(jc)
		if err != nil {
			return nil, fmt.Errorf("bigquery: column %q: %w", jc.Name, err)
		}
		table.Columns[i] = col
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func columnToPortable(jc jsonColumn) (portable.Column, error) {
	rec, err := ParseRecordOrNonArrayDataType(jc.Type)
	if err != nil {
		return portable.Column{}, err
	}
	var nonArray NonArrayType
	if rec.IsRecord {
		fields := make([]StructField, len(jc.Fields))
		for i, f := range jc.Fields {
			ft, err := columnFieldType(f)
			if err != nil {
				return portable.Column{}, err
			}
			fields[i] = StructField{Name: f.Name, Type: ft}
		}
		nonArray = StructOf(fields)
	} else {
		nonArray = rec.Type
	}
	var native DataType
	if jc.Mode == ModeRepeated {
		native = NewArray(nonArray)
	} else {
		native = NewNonArray(nonArray)
	}
	portableType, err := native.ToDataType()
	if err != nil {
		return portable.Column{}, err
	}
	return portable.Column{
		Name:       jc.Name,
		Type:       portableType,
		IsNullable: jc.Mode != ModeRequired,
		Comment:    jc.Description,
	}, nil
}

// columnFieldType resolves one nested field of a RECORD into a native
// DataType, recursively handling nested RECORDs.
func columnFieldType(jc jsonColumn) (DataType, error) {
	rec, err := ParseRecordOrNonArrayDataType(jc.Type)
	if err != nil {
		return DataType{}, err
	}
	var nonArray NonArrayType
	if rec.IsRecord {
		fields := make([]StructField, len(jc.Fields))
		for i, f := range jc.Fields {
			ft, err := columnFieldType(f)
			if err != nil {
				return DataType{}, err
			}
			fields[i] = StructField{Name: f.Name, Type: ft}
		}
		nonArray = StructOf(fields)
	} else {
		nonArray = rec.Type
	}
	if jc.Mode == ModeRepeated {
		return NewArray(nonArray), nil
	}
	return NewNonArray(nonArray), nil
}

// WriteSchema renders a portable Table as BigQuery schema JSON under
// Usage::FinalTable, which is the representation that belongs in a
// durable destination table (spec §4.2, §4.3).
func (Driver) WriteSchema(table *portable.Table) ([]byte, error) {
	cols := make([]jsonColumn, len(table.Columns))
	for i, c := range table.Columns {
		jc, err := columnFromPortable(c, FinalTable)
		if err != nil {
			return nil, fmt.Errorf("bigquery: column %q: %w", c.Name, err)
		}
		cols[i] = jc
	}
	out, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("bigquery: %w", err)
	}
	return append(out, '\n'), nil
}

func columnFromPortable(c portable.Column, usage Usage) (jsonColumn, error) {
	native, err := ForDataType(c.Type, usage)
	if err != nil {
		return jsonColumn{}, err
	}
	mode := ModeNullable
	if !c.IsNullable {
		mode = ModeRequired
	}
	nonArray := native.NonArray()
	if native.IsArray() {
		mode = ModeRepeated
	}
	jc := jsonColumn{Name: c.Name, Mode: mode, Description: c.Comment}
	if nonArray.Kind == Struct {
		jc.Type = "RECORD"
		jc.Fields = make([]jsonColumn, len(nonArray.Fields))
		for i, f := range nonArray.Fields {
			fjc, err := structFieldToJSON(f)
			if err != nil {
				return jsonColumn{}, err
			}
			jc.Fields[i] = fjc
		}
	} else {
		jc.Type = nonArray.String()
	}
	return jc, nil
}

func structFieldToJSON(f StructField) (jsonColumn, error) {
	jc := jsonColumn{Name: f.Name, Mode: ModeNullable}
	if f.Type.IsArray() {
		jc.Mode = ModeRepeated
	}
	na := f.Type.NonArray()
	if na.Kind == Struct {
		jc.Type = "RECORD"
		jc.Fields = make([]jsonColumn, len(na.Fields))
		for i, nested := range na.Fields {
			njc, err := structFieldToJSON(nested)
			if err != nil {
				return jsonColumn{}, err
			}
			jc.Fields[i] = njc
		}
	} else {
		jc.Type = na.String()
	}
	return jc, nil
}

// WriteSchemaForCSVLoad renders a portable Table as the BigQuery schema
// used while the CSV loader reads a staged file (Usage::CsvLoad). This
// is a distinct representation from WriteSchema's FinalTable usage
// (spec §4.2 "Usage context is the critical design decision").
func (Driver) WriteSchemaForCSVLoad(table *portable.Table) ([]byte, error) {
	cols := make([]jsonColumn, len(table.Columns))
	for i, c := range table.Columns {
		jc, err := columnFromPortable(c, CsvLoad)
		if err != nil {
			return nil, fmt.Errorf("bigquery: column %q: %w", c.Name, err)
		}
		cols[i] = jc
	}
	out, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("bigquery: %w", err)
	}
	return append(out, '\n'), nil
}
