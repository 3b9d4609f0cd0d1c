package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type closeTrackingReader struct {
	*bytes.Reader
	closed *int32
}

func (r closeTrackingReader) Close() error {
	atomic.AddInt32(r.closed, 1)
	return nil
}

func newStream(name, data string, closed *int32) CsvStream {
	return CsvStream{Name: name, Bytes: closeTrackingReader{Reader: bytes.NewReader([]byte(data)), closed: closed}}
}

func TestRunCallsSinkForEveryStreamAndClosesBytes(t *testing.T) {
	var closed int32
	streams := make(chan CsvStream, 3)
	streams <- newStream("a", "1", &closed)
	streams <- newStream("b", "2", &closed)
	streams <- newStream("c", "3", &closed)
	close(streams)

	var seen int32
	p := New(2, zerolog.Nop())
	err := p.Run(context.Background(), streams, func(ctx context.Context, log zerolog.Logger, s CsvStream) ([]func(context.Context) error, error) {
		atomic.AddInt32(&seen, 1)
		_, _ = io.ReadAll(s.Bytes)
		return nil, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, seen)
	require.EqualValues(t, 3, closed)
}

func TestRunPropagatesSinkError(t *testing.T) {
	var closed int32
	streams := make(chan CsvStream, 1)
	streams <- newStream("a", "1", &closed)
	close(streams)

	p := New(1, zerolog.Nop())
	sinkErr := errors.New("boom")
	err := p.Run(context.Background(), streams, func(ctx context.Context, log zerolog.Logger, s CsvStream) ([]func(context.Context) error, error) {
		return nil, sinkErr
	})
	require.Error(t, err)
	require.ErrorIs(t, err, sinkErr)
}

// TestRunGathersCompletionFutures also doubles as a regression test for
// the permit-holding deadlock: MaxStreams=1 means the single stream
// goroutine holds the only concurrency permit when it schedules its
// completions, so if completions were gathered on the same limited
// group this would hang instead of returning.
func TestRunGathersCompletionFutures(t *testing.T) {
	var closed int32
	streams := make(chan CsvStream, 1)
	streams <- newStream("a", "1", &closed)
	close(streams)

	var completed int32
	p := New(1, zerolog.Nop())
	err := p.Run(context.Background(), streams, func(ctx context.Context, log zerolog.Logger, s CsvStream) ([]func(context.Context) error, error) {
		return []func(context.Context) error{
			func(context.Context) error {
				atomic.AddInt32(&completed, 1)
				return nil
			},
			func(context.Context) error {
				atomic.AddInt32(&completed, 1)
				return nil
			},
		}, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, completed)
}

// TestRunCompletionsDoNotDeadlockAtConcurrencyLimit saturates MaxStreams
// with concurrently-active streams that each schedule a completion
// future, so every permit is held at the moment completions are
// scheduled. It must still return promptly rather than hang.
func TestRunCompletionsDoNotDeadlockAtConcurrencyLimit(t *testing.T) {
	var closed int32
	const n = 4
	streams := make(chan CsvStream, n)
	for i := 0; i < n; i++ {
		streams <- newStream("s", "x", &closed)
	}
	close(streams)

	var completed int32
	p := New(n, zerolog.Nop())
	err := p.Run(context.Background(), streams, func(ctx context.Context, log zerolog.Logger, s CsvStream) ([]func(context.Context) error, error) {
		return []func(context.Context) error{
			func(context.Context) error {
				atomic.AddInt32(&completed, 1)
				return nil
			},
		}, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, n, completed)
}
