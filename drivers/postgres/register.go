package postgres

import "github.com/seamusabshere/dbcrossbar/locator"

func init() {
	locator.Register(locator.SchemePostgres, Features())
	locator.Register(locator.SchemePostgresSQL, SQLFeatures())
}
