package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
)

// Count runs the count operation against a live PostgreSQL table,
// grounded directly on
// original_source/dbcrossbarlib/src/drivers/postgres/count.rs: connect,
// build "SELECT COUNT(*) FROM table [WHERE ...]", run it, and return
// the single result. Unlike the original's async-await-over-one-future
// shape, idiomatic Go expresses this as a single blocking call taking a
// context.Context, since pgx already suspends goroutines at the
// network boundary without needing an explicit futures combinator.
func Count(ctx context.Context, log zerolog.Logger, loc *Locator, args capability.VerifiedArgs) (int64, error) {
	pool, err := pgxpool.New(ctx, loc.URL)
	if err != nil {
		return 0, &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("connecting: %w", err)}
	}
	defer pool.Close()

	sql := buildCountSQL(loc.TableName, args.Where)
	log.Debug().Str("sql", sql).Msg("count SQL")

	var count int64
	if err := pool.QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("running count query: %w", err)}
	}
	return count, nil
}

func buildCountSQL(tableName, where string) string {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) AS count FROM ")
	b.WriteString(quoteIdent(tableName))
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String()
}
