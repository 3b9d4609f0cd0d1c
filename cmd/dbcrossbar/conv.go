package main

import (
	"github.com/spf13/cobra"

	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/locator"
)

var convCmd = &cobra.Command{
	Use:   "conv <from_locator> <to_locator>",
	Short: "Translate a schema from one locator's format to another's.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return convRun(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convCmd)
}

func convRun(fromArg, toArg string) error {
	from, err := locator.Parse(fromArg)
	if err != nil {
		return err
	}
	to, err := locator.Parse(toArg)
	if err != nil {
		return err
	}
	if !from.IsSchemaCapable() {
		return &errs.Unsupported{Source: fromArg, Reason: "conv requires a schema-capable source locator"}
	}
	if !to.IsSchemaCapable() {
		return &errs.Unsupported{Destination: toArg, Reason: "conv requires a schema-capable destination locator"}
	}
	table, err := ReadSchema(from)
	if err != nil {
		return err
	}
	return WriteSchema(to, table)
}
