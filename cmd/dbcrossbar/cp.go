package main

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seamusabshere/dbcrossbar/capability"
	csvdriver "github.com/seamusabshere/dbcrossbar/drivers/csv"
	"github.com/seamusabshere/dbcrossbar/drivers/postgres"
	"github.com/seamusabshere/dbcrossbar/drivers/stage"
	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/locator"
	"github.com/seamusabshere/dbcrossbar/pipeline"
	"github.com/seamusabshere/dbcrossbar/plan"
	"github.com/seamusabshere/dbcrossbar/portable"
)

var cpFlags struct {
	schema     string
	ifExists   string
	temporary  []string
	where      string
	maxStreams int
}

var cpCmd = &cobra.Command{
	Use:   "cp <from_locator> <to_locator>",
	Short: "Copy tabular data (and its schema) from one locator to another.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cpRun(cmd.Context(), args[0], args[1])
	},
}

func init() {
	cpCmd.Flags().StringVar(&cpFlags.schema, "schema", "", "locator to read the source's schema from, if the source isn't schema-capable itself")
	cpCmd.Flags().StringVar(&cpFlags.ifExists, "if-exists", "error", "error|append|overwrite|upsert:COL[,COL...]")
	cpCmd.Flags().StringArrayVar(&cpFlags.temporary, "temporary", nil, "candidate staging locator (may be repeated)")
	cpCmd.Flags().StringVar(&cpFlags.where, "where", "", "SQL WHERE clause passed through to the source")
	cpCmd.Flags().IntVar(&cpFlags.maxStreams, "max-streams", 4, "bounded concurrency for in-flight CSV streams")
	rootCmd.AddCommand(cpCmd)
}

func parseIfExists(s string) (capability.IfExists, []string, error) {
	if rest, ok := strings.CutPrefix(s, "upsert:"); ok {
		cols := strings.Split(rest, ",")
		return capability.IfExistsUpsert, cols, nil
	}
	switch s {
	case "error":
		return capability.IfExistsError, nil, nil
	case "append":
		return capability.IfExistsAppend, nil, nil
	case "overwrite":
		return capability.IfExistsOverwrite, nil, nil
	default:
		return 0, nil, &errs.ArgumentError{Option: "--if-exists", Reason: "must be error|append|overwrite|upsert:COL[,COL...], got " + s}
	}
}

func cpRun(ctx context.Context, fromArg, toArg string) error {
	from, err := locator.Parse(fromArg)
	if err != nil {
		return err
	}
	to, err := locator.Parse(toArg)
	if err != nil {
		return err
	}

	ifExists, upsertOn, err := parseIfExists(cpFlags.ifExists)
	if err != nil {
		return err
	}
	var temporaries []*locator.Locator
	for _, t := range cpFlags.temporary {
		tl, err := locator.Parse(t)
		if err != nil {
			return err
		}
		temporaries = append(temporaries, tl)
	}

	unverified := capability.NewArgs()
	unverified.IfExists = ifExists
	unverified.UpsertOn = upsertOn
	unverified.Where = cpFlags.where
	unverified.MaxStreams = cpFlags.maxStreams
	unverified.Temporary = cpFlags.temporary

	srcFeatures, ok := from.Features()
	if !ok {
		return &errs.Unsupported{Source: fromArg, Reason: "unregistered source scheme"}
	}
	destFeatures, ok := to.Features()
	if !ok {
		return &errs.Unsupported{Destination: toArg, Reason: "unregistered destination scheme"}
	}
	srcArgs, err := unverified.Verify(srcFeatures)
	if err != nil {
		return err
	}
	destArgs, err := unverified.Verify(destFeatures)
	if err != nil {
		return err
	}

	chosen, err := plan.Choose(from, to, temporaries, destArgs)
	if err != nil {
		return err
	}
	log.Info().Str("strategy", strategyName(chosen.Strategy)).Msg("planned copy")

	table, err := resolveSchema(from)
	if err != nil {
		return err
	}

	if err := writeDestinationSchema(ctx, to, table, ifExists); err != nil {
		return err
	}

	switch chosen.Strategy {
	case plan.DirectRemoteCopy:
		return runDirectRemoteCopy(ctx, from, to, table)
	case plan.StagedCopy:
		return runStagedCopy(ctx, from, to, table, chosen.Staging, srcArgs)
	default:
		return runLocalStream(ctx, from, to, table, srcArgs)
	}
}

// runDirectRemoteCopy implements the planner's rule-1 choice (spec
// §4.4 rule 1): the destination pulls data straight from the source's
// native form, with no local streaming through this process at all.
// Only postgres -> postgres is wired, the only direct-copy pair the
// registered drivers currently support (see DESIGN.md Open Question a).
func runDirectRemoteCopy(ctx context.Context, from, to *locator.Locator, table *portable.Table) error {
	if from.Scheme != locator.SchemePostgres || to.Scheme != locator.SchemePostgres {
		return &errs.Unsupported{Source: string(from.Scheme), Destination: string(to.Scheme), Reason: "direct remote copy is only wired for postgres: -> postgres:"}
	}
	fromLoc, err := postgres.ParseLocator(from.Rest)
	if err != nil {
		return err
	}
	toLoc, err := postgres.ParseLocator(to.Rest)
	if err != nil {
		return err
	}
	return postgres.WriteRemoteData(ctx, fromLoc, toLoc, table)
}

// runStagedCopy implements the planner's rule-2 choice (spec §4.4 rule
// 2): source -> staging as a local CSV byte stream, then staging ->
// destination. The destination side is implemented by reading the
// staged object back and feeding it through the same local-data sink
// runLocalStream uses, since none of the registered drivers expose a
// native "load from staged object" call; the staging hop is still real
// I/O through drivers/stage (an S3 upload and download, or a file on
// disk for file://), not a local pass-through.
func runStagedCopy(ctx context.Context, from, to *locator.Locator, table *portable.Table, stagingLoc *locator.Locator, args capability.VerifiedArgs) error {
	// stage.ParseLocator wants the full "scheme://..." staging URL, not
	// locator.Locator's already-split Rest, so reconstruct it.
	stageLoc, err := stage.ParseLocator(string(stagingLoc.Scheme) + ":" + stagingLoc.Rest)
	if err != nil {
		return err
	}
	key := stage.NewTempKey(stageLoc)

	pr, pw := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		err := readSourceData(ctx, from, table, args, pw)
		errCh <- err
		pw.CloseWithError(err)
	}()
	if err := stage.WriteStream(ctx, stageLoc, key, pr); err != nil {
		<-errCh
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}

	staged, err := stage.ReadStream(ctx, stageLoc, key)
	if err != nil {
		return err
	}
	defer staged.Close()

	if _, err := writeDestinationData(ctx, to, table, staged); err != nil {
		return err
	}
	return stage.Cleanup(ctx, stageLoc, key)
}

func strategyName(s plan.Strategy) string {
	switch s {
	case plan.DirectRemoteCopy:
		return "direct_remote_copy"
	case plan.StagedCopy:
		return "staged_copy"
	default:
		return "local_stream"
	}
}

// resolveSchema reads the source's schema from --schema if given,
// otherwise infers it from the source locator itself (e.g. a csv:
// locator's header + first row, or a live postgres: table's catalog).
func resolveSchema(from *locator.Locator) (*portable.Table, error) {
	if cpFlags.schema != "" {
		schemaLoc, err := locator.Parse(cpFlags.schema)
		if err != nil {
			return nil, err
		}
		return ReadSchema(schemaLoc)
	}
	switch from.Scheme {
	case locator.SchemeCSV:
		return ReadSchema(from)
	case locator.SchemePostgres:
		pgLoc, err := postgres.ParseLocator(from.Rest)
		if err != nil {
			return nil, err
		}
		return postgres.ReadSchemaLive(context.Background(), pgLoc)
	default:
		return nil, &errs.ArgumentError{Option: "--schema", Reason: "source locator cannot supply its own schema; pass --schema explicitly"}
	}
}

func writeDestinationSchema(ctx context.Context, to *locator.Locator, table *portable.Table, ifExists capability.IfExists) error {
	switch to.Scheme {
	case locator.SchemePostgres:
		pgLoc, err := postgres.ParseLocator(to.Rest)
		if err != nil {
			return err
		}
		if ifExists == capability.IfExistsError || ifExists == capability.IfExistsOverwrite {
			return postgres.WriteSchemaLive(ctx, pgLoc, table, ifExists)
		}
		return nil
	case locator.SchemeCSV:
		// A csv: destination has no DDL step of its own; the data write
		// below is itself the schema (its header row).
		return nil
	default:
		return &errs.Unsupported{Destination: string(to.Scheme), Reason: "cp currently writes data to postgres: and csv: destinations only"}
	}
}

// runLocalStream implements the planner's rule-3 fallback (spec §4.4):
// stream source -> destination as local CSV byte streams through the
// bounded-concurrency pipeline. A live postgres: or csv: source
// produces exactly one CsvStream, since neither backend partitions
// data the way a sharded warehouse export would.
func runLocalStream(ctx context.Context, from, to *locator.Locator, table *portable.Table, args capability.VerifiedArgs) error {
	pr, pw := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		err := readSourceData(ctx, from, table, args, pw)
		errCh <- err
		pw.CloseWithError(err)
	}()

	p := pipeline.New(args.MaxStreams, log)
	streams := make(chan pipeline.CsvStream, 1)
	streams <- pipeline.CsvStream{Name: from.Rest, Bytes: pr}
	close(streams)

	runErr := p.Run(ctx, streams, func(ctx context.Context, streamLog zerolog.Logger, s pipeline.CsvStream) ([]func(context.Context) error, error) {
		n, err := writeDestinationData(ctx, to, table, s.Bytes)
		if err != nil {
			return nil, err
		}
		streamLog.Info().Int64("rows_bytes", n).Msg("wrote local data")
		return nil, nil
	})
	if readErr := <-errCh; readErr != nil {
		return readErr
	}
	return runErr
}

func writeDestinationData(ctx context.Context, to *locator.Locator, table *portable.Table, r io.Reader) (int64, error) {
	switch to.Scheme {
	case locator.SchemePostgres:
		pgLoc, err := postgres.ParseLocator(to.Rest)
		if err != nil {
			return 0, err
		}
		return postgres.WriteLocalData(ctx, log, pgLoc, table, r)
	case locator.SchemeCSV:
		w, err := openWriter(to.Rest)
		if err != nil {
			return 0, err
		}
		defer w.Close()
		return csvdriver.WriteLocalData(w, r)
	default:
		return 0, &errs.Unsupported{Destination: string(to.Scheme), Reason: "cp currently writes data to postgres: and csv: destinations only"}
	}
}

func readSourceData(ctx context.Context, from *locator.Locator, table *portable.Table, args capability.VerifiedArgs, w io.Writer) error {
	switch from.Scheme {
	case locator.SchemeCSV:
		r, err := openReader(from.Rest)
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = csvdriver.WriteLocalData(w, r)
		return err
	case locator.SchemePostgres:
		pgLoc, err := postgres.ParseLocator(from.Rest)
		if err != nil {
			return err
		}
		return postgres.ReadRemoteData(ctx, pgLoc, table, w)
	default:
		return &errs.Unsupported{Source: string(from.Scheme), Reason: "cp currently reads data from postgres: and csv: sources only"}
	}
}
