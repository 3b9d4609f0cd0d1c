package csv

import "github.com/seamusabshere/dbcrossbar/locator"

func init() {
	locator.Register(locator.SchemeCSV, Features())
}
