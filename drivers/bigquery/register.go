package bigquery

import "github.com/seamusabshere/dbcrossbar/locator"

func init() {
	locator.Register(locator.SchemeBigQuery, Features())
	locator.Register(locator.SchemeBigQuerySchema, SchemaFeatures())
}
