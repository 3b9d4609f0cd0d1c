// Package capability implements the capability model from spec §4.6: each
// driver declares which operations and argument shapes it supports, and
// source/destination arguments carry a phantom verification state so
// that no I/O can begin before those capabilities are checked.
package capability

import "github.com/seamusabshere/dbcrossbar/errs"

// IfExists selects the destination's behavior when the target table
// already exists.
type IfExists int

const (
	IfExistsError IfExists = iota
	IfExistsAppend
	IfExistsOverwrite
	IfExistsUpsert
)

// Op names one operation a driver may or may not support.
type Op string

// The operations a driver's capability Set may declare support for (§4.4).
const (
	OpLocalData    Op = "local_data"
	OpRemoteData   Op = "remote_data"
	OpCount        Op = "count"
	OpWriteSchema  Op = "write_schema"
	OpStaging      Op = "staging"
	OpWhere        Op = "where"
	OpTemporary    Op = "temporary"
	OpUpsert       Op = "upsert"
)

// Set is a driver's declared capability set: which operations it
// supports and which IfExists shapes it accepts as a destination.
type Set struct {
	Ops       map[Op]bool
	IfExists  map[IfExists]bool
	DriverName string
}

// NewSet builds a capability Set for a driver supporting the given
// operations and IfExists modes.
func NewSet(driverName string, ops []Op, ifExists []IfExists) Set {
	s := Set{
		Ops:        make(map[Op]bool, len(ops)),
		IfExists:   make(map[IfExists]bool, len(ifExists)),
		DriverName: driverName,
	}
	for _, o := range ops {
		s.Ops[o] = true
	}
	for _, ie := range ifExists {
		s.IfExists[ie] = true
	}
	return s
}

func (s Set) supports(op Op) bool { return s.Ops[op] }

// UnverifiedArgs carries the user-supplied options for one side of a
// copy before they have been checked against any driver's capability
// Set. No driver I/O is performed from an UnverifiedArgs value; the cp
// and count commands obtain their VerifiedArgs from Verify (§9 design
// note). Go
// has no type-level phase parameter the way a language with a real
// typestate system would, so the phase distinction is enforced the
// idiomatic Go way described in §9: two concrete types and a single
// verify-then-execute entry point, rather than ad-hoc pre-checks
// scattered through the drivers.
type UnverifiedArgs struct {
	IfExists   IfExists
	Where      string
	Temporary  []string
	MaxStreams int
	UpsertOn   []string
}

// VerifiedArgs is the result of a successful Verify call. Operations
// that take options (postgres.Count, and cp's source-read path) accept a
// VerifiedArgs, never an UnverifiedArgs, and cp and count call Verify
// before any driver I/O, so "unsupported flag" errors surface before
// any I/O begins. The other driver I/O functions take no options value.
type VerifiedArgs struct {
	IfExists   IfExists
	Where      string
	Temporary  []string
	MaxStreams int
	UpsertOn   []string
}

// NewArgs constructs an UnverifiedArgs value with spec-default options
// (§5: max_streams defaults to 4).
func NewArgs() UnverifiedArgs {
	return UnverifiedArgs{MaxStreams: 4}
}

// Verify checks that every option set on a is one caps declares support
// for, and returns a VerifiedArgs. This is the single verify-then-execute
// entry point: operations accept only a VerifiedArgs (§9 design note).
func (a UnverifiedArgs) Verify(caps Set) (VerifiedArgs, error) {
	if a.Where != "" && !caps.supports(OpWhere) {
		return VerifiedArgs{}, &errs.ArgumentError{Option: "--where", Reason: caps.DriverName + " does not support WHERE pass-through"}
	}
	if len(a.Temporary) > 0 && !caps.supports(OpTemporary) {
		return VerifiedArgs{}, &errs.ArgumentError{Option: "--temporary", Reason: caps.DriverName + " cannot use temporary staging"}
	}
	if a.IfExists == IfExistsUpsert && !caps.IfExists[IfExistsUpsert] {
		return VerifiedArgs{}, &errs.ArgumentError{Option: "--if-exists=upsert", Reason: caps.DriverName + " does not support upsert"}
	}
	if !caps.IfExists[a.IfExists] {
		return VerifiedArgs{}, &errs.ArgumentError{Option: "--if-exists", Reason: caps.DriverName + " does not support the requested if-exists mode"}
	}
	if a.MaxStreams <= 0 {
		return VerifiedArgs{}, &errs.ArgumentError{Option: "--max-streams", Reason: "must be positive"}
	}
	return VerifiedArgs{
		IfExists:   a.IfExists,
		Where:      a.Where,
		Temporary:  a.Temporary,
		MaxStreams: a.MaxStreams,
		UpsertOn:   a.UpsertOn,
	}, nil
}
