// Package locator parses the scheme:rest locator strings named
// throughout the spec (§4.4, §6) and dispatches them to the driver
// that owns their scheme. It is grounded on the CLI end-to-end
// scenarios in original_source/dbcrossbar/tests/cli/conv.rs, which
// exercise exactly these scheme strings ("postgres-sql:-",
// "bigquery-schema:-", "csv:path", "dbcrossbar-schema:-").
package locator

import (
	"strings"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
)

// Scheme names one of the drivers registered in this module.
type Scheme string

const (
	SchemePostgres       Scheme = "postgres"
	SchemePostgresSQL    Scheme = "postgres-sql"
	SchemeBigQuery       Scheme = "bigquery"
	SchemeBigQuerySchema Scheme = "bigquery-schema"
	SchemeDbcrossbar     Scheme = "dbcrossbar-schema"
	SchemeCSV            Scheme = "csv"
	SchemeS3             Scheme = "s3"
	SchemeFile           Scheme = "file"
)

// Locator is a parsed scheme:rest locator string (spec §4.4).
type Locator struct {
	Scheme Scheme
	Rest   string
}

// Parse splits a locator string at its first ":" into scheme and rest.
// "-" as the rest denotes stdin/stdout, per the CLI convention (spec
// §6); it is passed through uninterpreted and resolved by the caller
// against the process's actual stdin/stdout.
func Parse(s string) (*Locator, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return nil, &errs.ArgumentError{Option: "locator", Reason: "missing ':' in locator " + s}
	}
	sc := Scheme(scheme)
	if _, ok := registry[sc]; !ok {
		return nil, &errs.ArgumentError{Option: "locator", Reason: "unrecognized scheme " + scheme}
	}
	return &Locator{Scheme: sc, Rest: rest}, nil
}

// IsStdio reports whether this locator's rest is the "-" stdin/stdout
// convention.
func (l *Locator) IsStdio() bool { return l.Rest == "-" }

// driverInfo is the registry entry for one scheme: its capability set
// and whether it can serve as a --temporary staging candidate.
type driverInfo struct {
	features capability.Set
}

var registry = map[Scheme]driverInfo{}

// Register adds scheme to the registry with the given capability set.
// Called from each driver package's init, the way database/sql drivers
// register themselves (spec §4.4 "registry").
func Register(scheme Scheme, features capability.Set) {
	registry[scheme] = driverInfo{features: features}
}

// Features returns the capability set registered for a locator's
// scheme.
func (l *Locator) Features() (capability.Set, bool) {
	info, ok := registry[l.Scheme]
	return info.features, ok
}

// IsSchemaCapable reports whether a scheme supports write_schema, the
// requirement "conv" places on both of its locators (spec §6).
func (l *Locator) IsSchemaCapable() bool {
	info, ok := registry[l.Scheme]
	if !ok {
		return false
	}
	return info.features.Ops[capability.OpWriteSchema]
}
