// Package csv implements the CSV driver: schema inference from a
// header row plus one sample row, and local byte-stream read/write
// (spec §4.3, §6). It is grounded on the conv_csv_to_pg_sql scenario in
// original_source/dbcrossbar/tests/cli/conv.rs, which exercises exactly
// this inference path end to end.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/portable"
)

// Driver implements schema inference and local data movement for
// csv: locators. A bare path, or "-" for stdin/stdout (spec §6).
type Driver struct{}

// Features declares the CSV driver's capability set: local data
// movement and schema inference, but no counting, remote copy, or
// staging (spec §4.4).
func Features() capability.Set {
	return capability.NewSet(
		"csv",
		[]capability.Op{capability.OpLocalData, capability.OpWriteSchema},
		[]capability.IfExists{capability.IfExistsError, capability.IfExistsOverwrite, capability.IfExistsAppend},
	)
}

// InferSchema reads the header and first data row of a CSV stream and
// infers a portable Table from the sample row: each column gets the
// first of Int64, Float64, Bool, or Date (YYYY-MM-DD) that its sample
// field parses as, and Text otherwise (including an empty field or a
// missing sample row), and every column is nullable (CSV carries no
// nullability information of its own).
func InferSchema(tableName string, r io.Reader) (*portable.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, &errs.IoError{Context: "csv schema inference: reading header", Err: err}
	}
	sample, err := cr.Read()
	if err == io.EOF {
		// No data rows: fall back to Text for every column.
		sample = make([]string, len(header))
	} else if err != nil {
		return nil, &errs.IoError{Context: "csv schema inference: reading sample row", Err: err}
	}

	table := &portable.Table{Name: tableName, Columns: make([]portable.Column, len(header))}
	for i, name := range header {
		var field string
		if i < len(sample) {
			field = sample[i]
		}
		table.Columns[i] = portable.Column{
			Name:       name,
			Type:       inferFieldType(field),
			IsNullable: true,
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func inferFieldType(field string) portable.DataType {
	if field == "" {
		return portable.Text
	}
	if _, err := strconv.ParseInt(field, 10, 64); err == nil {
		return portable.Int64
	}
	if _, err := strconv.ParseFloat(field, 64); err == nil {
		return portable.Float64
	}
	if field == "true" || field == "false" {
		return portable.Bool
	}
	if _, err := time.Parse("2006-01-02", field); err == nil {
		return portable.Date
	}
	return portable.Text
}

// ReadLocalData copies a CSV byte stream through unmodified: by the
// time a CsvStream reaches the pipeline, the CSV driver's own local
// data is already in dbcrossbar's on-the-wire shape (spec §4.5), so
// there is nothing to transcode.
func ReadLocalData(w io.Writer, r io.Reader) error {
	if _, err := io.Copy(w, r); err != nil {
		return &errs.IoError{Context: "csv read_local_data", Err: err}
	}
	return nil
}

// WriteLocalData appends (or overwrites) a CSV byte stream at its
// destination.
func WriteLocalData(w io.Writer, r io.Reader) (int64, error) {
	n, err := io.Copy(w, r)
	if err != nil {
		return n, &errs.IoError{Context: "csv write_local_data", Err: err}
	}
	return n, nil
}

// WriteSchema is unsupported: CSV has no native schema format of its
// own, it only ever supplies one via InferSchema (spec §6: "csv:
// inferring from header + first row").
func (Driver) WriteSchema(*portable.Table) ([]byte, error) {
	return nil, fmt.Errorf("csv: %w", unsupportedWriteSchema)
}

var unsupportedWriteSchema = &errs.Unsupported{Reason: "csv has no native schema format; schemas are always inferred, never written"}
