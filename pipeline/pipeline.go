// Package pipeline implements the stream-of-streams-of-futures
// dataflow described in spec §4.5 and the design note in §9: a copy is
// a stream of CsvStream values, bounded by a concurrency gate, whose
// consumer (write_local_data) may itself fan out into further
// completion futures. Idiomatic Go expresses "stream of futures" as
// golang.org/x/sync/errgroup.Group with SetLimit, rather than hand
// rolling a futures combinator: the errgroup already suspends
// goroutines at I/O boundaries, propagates the first error, and
// cancels its derived context on failure, which is exactly the
// cooperative-cancellation behavior §5 asks for.
package pipeline

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seamusabshere/dbcrossbar/errs"
)

// CsvStream is one partition/shard of a copy: a name (typically the
// source's own shard identifier, e.g. an S3 key or BigQuery export
// part) and its CSV byte stream (spec §4.5).
type CsvStream struct {
	Name  string
	Bytes io.ReadCloser
}

// WriteLocalData is the shape of a destination's local-data sink: it
// consumes one CsvStream and may return any number of completion
// futures of its own (a destination that batches or reorders
// internally reports each batch's completion separately, spec §4.5
// "completion-future stream").
type WriteLocalData func(ctx context.Context, log zerolog.Logger, stream CsvStream) ([]func(ctx context.Context) error, error)

// Pipeline drives one copy: bounded concurrency, per-stream logger
// context, and completion gathering (spec §4.5).
type Pipeline struct {
	MaxStreams int
	Logger     zerolog.Logger
}

// New constructs a Pipeline with the given concurrency gate and base
// logger. MaxStreams defaults to 4 if non-positive (spec §5).
func New(maxStreams int, logger zerolog.Logger) *Pipeline {
	if maxStreams <= 0 {
		maxStreams = 4
	}
	return &Pipeline{MaxStreams: maxStreams, Logger: logger}
}

// Run consumes streams, pushes each into sink under the bounded
// concurrency gate, and gathers every completion future sink returns.
// The overall copy resolves when all completions have succeeded, or
// returns the first error and cancels every other in-flight stream and
// completion (spec §4.5, §5 "Cancellation").
//
// Run does not hold the concurrency permit across a completion future:
// per §5 "the pipeline must not hold a permit across an unrelated
// suspension", each stream's slot is released as soon as
// write_local_data returns, and completions run on a second, unbounded
// errgroup rather than the stream-limited one.
func (p *Pipeline) Run(ctx context.Context, streams <-chan CsvStream, sink WriteLocalData) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.MaxStreams)

	// Completions run on their own unlimited group, derived from gctx so
	// a stream failure cancels in-flight completions too. It must stay
	// separate from g: g holds at most MaxStreams permits, and a stream
	// goroutine scheduling its completions on g while holding one of
	// those permits can fill every remaining slot with completions and
	// deadlock the holder, which can never return to release its own.
	cg, cgctx := errgroup.WithContext(gctx)

	for stream := range streams {
		stream := stream
		select {
		case <-gctx.Done():
			stream.Bytes.Close()
			if err := g.Wait(); err != nil {
				cg.Wait()
				return err
			}
			return cg.Wait()
		default:
		}
		g.Go(func() error {
			defer stream.Bytes.Close()
			streamLog := p.Logger.With().Str("stream", stream.Name).Logger()

			select {
			case <-gctx.Done():
				return errs.Cancelled
			default:
			}

			completions, err := sink(gctx, streamLog, stream)
			if err != nil {
				return &errs.IoError{Context: "write_local_data for stream " + stream.Name, Err: err}
			}
			for _, complete := range completions {
				complete := complete
				cg.Go(func() error {
					select {
					case <-cgctx.Done():
						return errs.Cancelled
					default:
					}
					return complete(cgctx)
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		cg.Wait()
		return err
	}
	return cg.Wait()
}
