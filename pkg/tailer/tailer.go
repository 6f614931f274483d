package tailer

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/cuemby/venice-admin-consumer/pkg/codec"
	"github.com/cuemby/venice-admin-consumer/pkg/log"
	"github.com/cuemby/venice-admin-consumer/pkg/metrics"
	"github.com/cuemby/venice-admin-consumer/pkg/queue"
	"github.com/cuemby/venice-admin-consumer/pkg/stream"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
	"github.com/rs/zerolog"
)

// Tailer owns the single log consumer cursor, decodes each record, and
// routes it into the registry's per-store queues. A malformed record
// advances the cursor past itself rather than stalling the whole log
// behind one poison entry (spec.md §4.6).
type Tailer struct {
	stream   stream.LogStream
	codec    *codec.OperationCodec
	registry *queue.Registry

	// cursor is the offset one past the last record handed to a queue.
	cursor atomic.Int64
}

// New builds a Tailer over src, decoding with c and routing into
// registry.
func New(src stream.LogStream, c *codec.OperationCodec, registry *queue.Registry) *Tailer {
	return &Tailer{stream: src, codec: c, registry: registry}
}

// Cursor returns the current tailerCursor: the offset one past the last
// record handed to a queue. Used by the Coordinator to compute the
// global safe offset when every queue is empty (spec.md §4.7).
func (t *Tailer) Cursor() int64 {
	return t.cursor.Load()
}

// Run consumes src starting at startOffset until ctx is cancelled, or
// returns nil once the stream closes its record channel. It
// blocks for the lifetime of the consumption; callers run it on its own
// goroutine (spec.md §5, "Tailer runs on its own thread").
func (t *Tailer) Run(ctx context.Context, startOffset int64) error {
	t.cursor.Store(startOffset)

	records, err := t.stream.ReadFrom(ctx, startOffset)
	if err != nil {
		return err
	}

	logger := log.WithComponent("tailer")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-records:
			if !ok {
				return nil
			}
			t.consume(logger, rec)
		}
	}
}

func (t *Tailer) consume(logger zerolog.Logger, rec stream.Record) {
	metrics.RecordsConsumedTotal.Inc()

	op, err := t.codec.Decode(rec.Value)
	if err != nil {
		var malformed *codec.ErrMalformedRecord
		if errors.As(err, &malformed) {
			metrics.MalformedRecordsTotal.Inc()
			logger.Warn().Int64("offset", rec.Offset).Err(err).
				Msg("skipping malformed admin log record")
			t.advance(rec.Offset)
			return
		}
		logger.Error().Int64("offset", rec.Offset).Err(err).Msg("unexpected decode error, skipping record")
		t.advance(rec.Offset)
		return
	}

	t.registry.Enqueue(&types.OperationWrapper{Op: op, Offset: rec.Offset})
	t.advance(rec.Offset)
}

func (t *Tailer) advance(offset int64) {
	t.cursor.Store(offset + 1)
	metrics.TailerCursor.Set(float64(offset + 1))
}
