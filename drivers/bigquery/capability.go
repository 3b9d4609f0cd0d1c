package bigquery

import "github.com/seamusabshere/dbcrossbar/capability"

// Features declares the capability set of the live bigquery: driver:
// local and remote data movement via load jobs, row counting, schema
// writes, and upsert via MERGE, but WHERE pass-through only on the
// source side (no Temporary of its own; it is itself a common staging
// destination for other backends' --temporary, spec §4.4).
func Features() capability.Set {
	return capability.NewSet(
		"bigquery",
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

// SchemaFeatures declares the capability set of the schema-only
// bigquery-schema: driver used by "conv" and --schema (spec §6).
func SchemaFeatures() capability.Set {
	return capability.NewSet(
		"bigquery-schema",
		[]capability.Op{capability.OpWriteSchema},
		[]capability.IfExists{capability.IfExistsError},
	)
}
