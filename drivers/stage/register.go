package stage

import "github.com/seamusabshere/dbcrossbar/locator"

func init() {
	locator.Register(locator.SchemeS3, Features())
	locator.Register(locator.SchemeFile, Features())
}
