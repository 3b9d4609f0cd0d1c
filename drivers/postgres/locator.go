package postgres

import (
	"fmt"
	"strings"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
)

// Locator is a parsed postgres:// locator: a connection URL plus the
// table it names after the "#" separator (spec §2 example
// "postgres://host/db#table").
type Locator struct {
	URL       string
	TableName string
}

// ParseLocator parses the "rest" half of a postgres://host/db#table
// locator (the "postgres:" scheme prefix has already been stripped by
// the registry, see locator/locator.go). A rest of the form
// "//host/db#table" gets the "postgres:" prefix back so that URL is a
// connection URL; a full "postgres://..." string is accepted as well.
func ParseLocator(rest string) (*Locator, error) {
	url, table, ok := strings.Cut(rest, "#")
	if !ok || table == "" {
		return nil, &errs.ArgumentError{Option: "locator", Reason: fmt.Sprintf("postgres: locator %q must have the form postgres://host/db#table", rest)}
	}
	if strings.HasPrefix(url, "//") {
		url = "postgres:" + url
	}
	return &Locator{URL: url, TableName: table}, nil
}

// SQLLocator is a parsed postgres-sql: locator: a schema-only file
// path, or "-" for stdin/stdout (spec §4.4, §6).
type SQLLocator struct {
	Path string
}

// ParseSQLLocator parses the "rest" half of a postgres-sql:path locator.
func ParseSQLLocator(rest string) (*SQLLocator, error) {
	if rest == "" {
		return nil, fmt.Errorf("postgres-sql: locator requires a path or '-'")
	}
	return &SQLLocator{Path: rest}, nil
}

// Features declares the capability set of the live postgres: driver
// (spec §4.4, §4.6): it supports local and remote data movement, row
// counting, schema writes, WHERE pass-through, and upsert, but not
// serving as a staging area for another destination's remote copy.
func Features() capability.Set {
	return capability.NewSet(
		"postgres",
		[]capability.Op{
			capability.OpLocalData,
			capability.OpRemoteData,
			capability.OpCount,
			capability.OpWriteSchema,
			capability.OpWhere,
			capability.OpUpsert,
		},
		[]capability.IfExists{
			capability.IfExistsError,
			capability.IfExistsAppend,
			capability.IfExistsOverwrite,
			capability.IfExistsUpsert,
		},
	)
}

// SQLFeatures declares the capability set of the schema-only
// postgres-sql: driver: write_schema only, usable from "conv" and as a
// --schema source, never as a data source or destination.
func SQLFeatures() capability.Set {
	return capability.NewSet(
		"postgres-sql",
		[]capability.Op{capability.OpWriteSchema},
		[]capability.IfExists{capability.IfExistsError},
	)
}
