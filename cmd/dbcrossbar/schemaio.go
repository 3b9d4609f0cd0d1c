package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seamusabshere/dbcrossbar/drivers/bigquery"
	csvdriver "github.com/seamusabshere/dbcrossbar/drivers/csv"
	"github.com/seamusabshere/dbcrossbar/drivers/dbxschema"
	"github.com/seamusabshere/dbcrossbar/drivers/postgres"
	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/locator"
	"github.com/seamusabshere/dbcrossbar/portable"
)

// openReader opens a locator's rest path for reading, or stdin for "-".
func openReader(rest string) (io.ReadCloser, error) {
	if rest == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(rest)
	if err != nil {
		return nil, &errs.IoError{Context: "opening " + rest, Err: err}
	}
	return f, nil
}

// openWriter opens a locator's rest path for writing, or stdout for "-".
func openWriter(rest string) (io.WriteCloser, error) {
	if rest == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(rest)
	if err != nil {
		return nil, &errs.IoError{Context: "creating " + rest, Err: err}
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// tableNameFromRest derives a table name for schema formats that don't
// carry one (BigQuery schema JSON, CSV) from the path's base name.
func tableNameFromRest(rest string) string {
	if rest == "-" || rest == "" {
		return "table"
	}
	base := rest
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return "table"
	}
	return base
}

// ReadSchema reads a portable Table from any schema-capable locator,
// dispatching on scheme (spec §4.3, §6).
func ReadSchema(loc *locator.Locator) (*portable.Table, error) {
	switch loc.Scheme {
	case locator.SchemePostgresSQL:
		r, err := openReader(loc.Rest)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &errs.IoError{Context: "reading " + loc.Rest, Err: err}
		}
		return postgres.Driver{}.ReadSchemaText(data)
	case locator.SchemeBigQuerySchema:
		r, err := openReader(loc.Rest)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &errs.IoError{Context: "reading " + loc.Rest, Err: err}
		}
		return bigquery.Driver{}.ReadSchema(tableNameFromRest(loc.Rest), data)
	case locator.SchemeDbcrossbar:
		r, err := openReader(loc.Rest)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &errs.IoError{Context: "reading " + loc.Rest, Err: err}
		}
		return dbxschema.Codec{}.Decode(data)
	case locator.SchemeCSV:
		r, err := openReader(loc.Rest)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return csvdriver.InferSchema(tableNameFromRest(loc.Rest), r)
	default:
		return nil, &errs.Unsupported{Source: string(loc.Scheme), Reason: "not a schema-capable locator"}
	}
}

// WriteSchema writes a portable Table to any schema-capable locator.
func WriteSchema(loc *locator.Locator, table *portable.Table) error {
	var data []byte
	var err error
	switch loc.Scheme {
	case locator.SchemePostgresSQL:
		data, err = postgres.Driver{}.WriteSchemaText(table)
	case locator.SchemeBigQuerySchema:
		data, err = bigquery.Driver{}.WriteSchema(table)
	case locator.SchemeDbcrossbar:
		data, err = dbxschema.Codec{}.Encode(table)
	default:
		return &errs.Unsupported{Destination: string(loc.Scheme), Reason: "not a schema-capable locator"}
	}
	if err != nil {
		return err
	}
	w, werr := openWriter(loc.Rest)
	if werr != nil {
		return werr
	}
	defer w.Close()
	if _, err := w.Write(data); err != nil {
		return &errs.IoError{Context: fmt.Sprintf("writing %s", loc.Rest), Err: err}
	}
	return nil
}
