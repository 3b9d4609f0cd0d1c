package dbxschema

import (
	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/locator"
)

// Features declares the dbcrossbar-schema: driver's capability set:
// write_schema only, the interchange format never moves rows itself
// (spec §6).
func Features() capability.Set {
	return capability.NewSet(
		"dbcrossbar-schema",
		[]capability.Op{capability.OpWriteSchema},
		[]capability.IfExists{capability.IfExistsError},
	)
}

func init() {
	locator.Register(locator.SchemeDbcrossbar, Features())
}
