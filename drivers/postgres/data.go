package postgres

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/portable"
)

// csvCopySource adapts a CSV byte stream into a pgx.CopyFromSource, so
// that a single CsvStream (spec §4.5) can be loaded with one COPY
// instead of one INSERT per row.
type csvCopySource struct {
	r       *csv.Reader
	header  []string
	current []string
	err     error
}

func newCSVCopySource(r io.Reader) (*csvCopySource, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("postgres: reading CSV header: %w", err)
	}
	return &csvCopySource{r: cr, header: header}, nil
}

func (s *csvCopySource) Next() bool {
	row, err := s.r.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		s.err = err
		return false
	}
	s.current = row
	return true
}

func (s *csvCopySource) Values() ([]any, error) {
	values := make([]any, len(s.current))
	for i, v := range s.current {
		values[i] = v
	}
	return values, nil
}

func (s *csvCopySource) Err() error { return s.err }

// WriteLocalData loads one CsvStream into table via COPY, the
// PostgreSQL driver's implementation of write_local_data (spec §4.4
// rule 3, §4.5). Column order is taken from the CSV header, matching
// the portable model's column-order invariant (spec §3).
func WriteLocalData(ctx context.Context, log zerolog.Logger, loc *Locator, table *portable.Table, stream io.Reader) (int64, error) {
	pool, err := pgxpool.New(ctx, loc.URL)
	if err != nil {
		return 0, &errs.RemoteError{Backend: "postgres", Err: err}
	}
	defer pool.Close()

	src, err := newCSVCopySource(stream)
	if err != nil {
		return 0, &errs.IoError{Context: "postgres write_local_data", Err: err}
	}
	log.Debug().Strs("columns", src.header).Msg("copying into table")

	n, err := pool.CopyFrom(ctx, pgx.Identifier{loc.TableName}, src.header, src)
	if err != nil {
		return 0, &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("COPY into %q: %w", loc.TableName, err)}
	}
	if src.Err() != nil {
		return n, &errs.IoError{Context: "postgres write_local_data", Err: src.Err()}
	}
	return n, nil
}

// ReadRemoteData streams table's rows out as CSV, the PostgreSQL
// driver's read side of local data movement (the source half of spec
// §4.4 rule 3). It writes directly to w rather than returning a
// pgx.Rows cursor, since the pipeline consumes CsvStream as a plain
// byte stream (spec §4.5).
func ReadRemoteData(ctx context.Context, loc *Locator, table *portable.Table, w io.Writer) error {
	pool, err := pgxpool.New(ctx, loc.URL)
	if err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: err}
	}
	defer pool.Close()

	colNames := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		colNames[i] = quoteIdent(c.Name)
	}
	sql := "SELECT " + joinComma(colNames) + " FROM " + quoteIdent(loc.TableName)

	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: err}
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return &errs.IoError{Context: "postgres read_remote_data", Err: err}
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return &errs.RemoteError{Backend: "postgres", Err: err}
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = fmt.Sprint(v)
		}
		if err := cw.Write(record); err != nil {
			return &errs.IoError{Context: "postgres read_remote_data", Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: err}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRemoteData performs a direct postgres-to-postgres copy (spec
// §4.4 rule 1 "destination accepts a remote copy from the source's
// native URL form"): the destination pulls rows straight from the
// source over dblink, so no byte ever streams through this process.
func WriteRemoteData(ctx context.Context, from, to *Locator, table *portable.Table) error {
	pool, err := pgxpool.New(ctx, to.URL)
	if err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: err}
	}
	defer pool.Close()

	ct, err := FromPortable(table)
	if err != nil {
		return err
	}

	colNames := make([]string, len(ct.Columns))
	colDecls := make([]string, len(ct.Columns))
	for i, c := range ct.Columns {
		colNames[i] = quoteIdent(c.Name)
		colDecls[i] = quoteIdent(c.Name) + " " + c.Type.String()
	}
	sourceSelect := "SELECT " + joinComma(colNames) + " FROM " + quoteIdent(from.TableName)

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS dblink"); err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("enabling dblink: %w", err)}
	}

	sql := "INSERT INTO " + quoteIdent(to.TableName) + " (" + joinComma(colNames) + ") " +
		"SELECT * FROM dblink(" + quoteLiteral(from.URL) + ", " + quoteLiteral(sourceSelect) + ") " +
		"AS t(" + joinComma(colDecls) + ")"
	if _, err := pool.Exec(ctx, sql); err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("dblink copy into %q: %w", to.TableName, err)}
	}
	return nil
}

func joinComma(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}
