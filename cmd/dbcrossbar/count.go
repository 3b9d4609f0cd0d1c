package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/drivers/postgres"
	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/locator"
)

var countFlags struct {
	schema string
	where  string
}

var countCmd = &cobra.Command{
	Use:   "count <locator>",
	Short: "Print the row count of a locator's table to stdout.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return countRun(cmd.Context(), args[0])
	},
}

func init() {
	countCmd.Flags().StringVar(&countFlags.schema, "schema", "", "locator of the table's schema (accepted, but not read by count)")
	countCmd.Flags().StringVar(&countFlags.where, "where", "", "SQL WHERE clause passed through to the backend")
	rootCmd.AddCommand(countCmd)
}

func countRun(ctx context.Context, locArg string) error {
	loc, err := locator.Parse(locArg)
	if err != nil {
		return err
	}
	features, ok := loc.Features()
	if !ok || !features.Ops[capability.OpCount] {
		return &errs.Unsupported{Source: locArg, Reason: "locator does not support count"}
	}

	unverified := capability.NewArgs()
	unverified.Where = countFlags.where
	verified, err := unverified.Verify(features)
	if err != nil {
		return err
	}

	switch loc.Scheme {
	case locator.SchemePostgres:
		pgLoc, err := postgres.ParseLocator(loc.Rest)
		if err != nil {
			return err
		}
		count, err := postgres.Count(ctx, log, pgLoc, verified)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil
	default:
		return &errs.Unsupported{Source: locArg, Reason: "count is only implemented for postgres: locators"}
	}
}
