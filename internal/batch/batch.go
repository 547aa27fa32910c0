// Package batch compiles a source of documents in parallel and hands the
// resulting streams to an index writer in source order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/annodex/core/cache"
	"github.com/FocuswithJustin/annodex/core/compiler"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/ir"
	"github.com/FocuswithJustin/annodex/core/stream"
	"github.com/FocuswithJustin/annodex/internal/formats"
	"github.com/FocuswithJustin/annodex/internal/logging"
	"github.com/FocuswithJustin/annodex/internal/metrics"
	"github.com/FocuswithJustin/annodex/internal/sink"
)

// Options configures a batch run.
type Options struct {
	// Workers bounds concurrent compilations. Defaults to GOMAXPROCS.
	Workers int

	// FailFast stops the run at the first document that fails to compile.
	// Otherwise failures are recorded and the run continues.
	FailFast bool

	// Metrics receives per-document observations when set.
	Metrics *metrics.Metrics

	// Cache, when set, reuses results for documents repeated in the source.
	// It must only have been filled by the same compiler.
	Cache *cache.Streams
}

// Failure records a document that could not be compiled.
type Failure struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

// Report summarizes a batch run.
type Report struct {
	RunID    string         `json:"run_id"`
	Compiled int            `json:"compiled"`
	Failed   []Failure      `json:"failed,omitempty"`
	Stats    compiler.Stats `json:"stats"`
	Duration time.Duration  `json:"duration"`
}

// ErrFailFast is returned when a run stops at a failed document.
var ErrFailFast = errors.New("batch stopped at first failure")

type result struct {
	doc      *ir.Document
	stream   *stream.Stream
	stats    compiler.Stats
	duration time.Duration
	err      error
}

// Run reads every document from src, compiles it with c and writes the
// stream to w. Documents are compiled concurrently but written in the
// order src yields them. A failure to read src or to write w ends the run;
// compile failures are reported per document. On cancellation, documents
// not yet written are discarded and the context error is returned along
// with the partial report.
func Run(ctx context.Context, c *compiler.Compiler, src formats.Source, w sink.Writer, opts Options) (*Report, error) {
	n := opts.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	rep := &Report{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, rep.RunID)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	pending := make(chan chan result, n)

	g.Go(func() error {
		defer close(pending)

		var workers errgroup.Group
		workers.SetLimit(n)
		defer workers.Wait()

		for {
			doc, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read documents: %w", err)
			}
			doc.EnsureID()

			slot := make(chan result, 1)
			select {
			case pending <- slot:
			case <-gctx.Done():
				return gctx.Err()
			}
			workers.Go(func() error {
				begin := time.Now()
				var (
					s     *stream.Stream
					stats compiler.Stats
					err   error
				)
				if opts.Cache != nil {
					s, stats, err = opts.Cache.Compile(c, doc)
				} else {
					s, stats, err = c.CompileStats(doc)
				}
				slot <- result{doc: doc, stream: s, stats: stats, duration: time.Since(begin), err: err}
				return nil
			})
		}
	})

	g.Go(func() error {
		for slot := range pending {
			r := <-slot
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := rep.handle(gctx, w, r, opts); err != nil {
				return err
			}
		}
		return nil
	})

	err := g.Wait()
	rep.Duration = time.Since(start)
	logging.BatchFinished(ctx, rep.Compiled, len(rep.Failed), rep.Duration, "workers", n)
	if err == nil {
		err = ctx.Err()
	}
	return rep, err
}

func (rep *Report) handle(ctx context.Context, w sink.Writer, r result, opts Options) error {
	id := r.doc.ID
	if r.err != nil {
		reason := apperrors.Reason(r.err)
		rep.Failed = append(rep.Failed, Failure{DocumentID: id, Reason: reason, Err: r.err})
		logging.DocumentFailed(ctx, id, reason, r.err)
		if opts.Metrics != nil {
			opts.Metrics.ObserveFailed(reason)
		}
		if opts.FailFast {
			return fmt.Errorf("%w: %w", ErrFailFast, r.err)
		}
		return nil
	}

	tokens := r.stream.Len()
	if err := w.Write(ctx, r.doc, r.stream); err != nil {
		return fmt.Errorf("write %s: %w", id, err)
	}
	rep.Compiled++
	rep.Stats.Add(r.stats)
	logging.DocumentCompiled(ctx, id, r.stats.Positions, tokens, r.duration)
	if opts.Metrics != nil {
		opts.Metrics.ObserveCompiled(r.stats, r.duration)
	}
	return nil
}
