// Command dbcrossbar is the CLI surface for this module: cp, conv, and
// count over the locators and drivers named in spec §6. Its cobra
// wiring follows ariga-atlas/cmd/atlas's package-main, var-block,
// init()-registers-flags style, with one departure: the original
// atlas CLI exits 1 on any error via cobra.CheckErr, while this spec
// requires distinguishing user errors (exit 1) from I/O/remote errors
// (exit 2), so main inspects the returned error's concrete type
// instead of calling cobra.CheckErr directly (spec §6).
package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/seamusabshere/dbcrossbar/errs"

	_ "github.com/seamusabshere/dbcrossbar/drivers/bigquery"
	_ "github.com/seamusabshere/dbcrossbar/drivers/csv"
	_ "github.com/seamusabshere/dbcrossbar/drivers/dbxschema"
	_ "github.com/seamusabshere/dbcrossbar/drivers/postgres"
	_ "github.com/seamusabshere/dbcrossbar/drivers/stage"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("dbcrossbar failed")
		return exitCodeFor(err)
	}
	return 0
}

// exitCodeFor maps an error to the exit code named in spec §6: 1 for a
// user error (bad locator, unsupported conversion, rejected argument),
// 2 for an I/O or remote error.
func exitCodeFor(err error) int {
	var argErr *errs.ArgumentError
	var unsupported *errs.Unsupported
	var parseErr *errs.ParseError
	if errors.As(err, &argErr) || errors.As(err, &unsupported) || errors.As(err, &parseErr) {
		return 1
	}
	return 2
}
