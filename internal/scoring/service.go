// Package scoring drives a similarity job: it iterates the dataset range row
// by row, scores each source/target pair and writes the results back. It is
// the job.Processor the worker pool invokes with a claimed job.
package scoring

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ahmethakanbesel/similarity-api/internal/job"
	"github.com/ahmethakanbesel/similarity-api/internal/sheet"
	"github.com/ahmethakanbesel/similarity-api/internal/similarity"
)

type Service struct {
	store    *job.Store
	opener   sheet.Opener
	resolver Resolver
	engine   *similarity.Engine
}

// Resolver mirrors content.Resolver; declared here so the package depends on
// the contract, not the fetcher.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

func NewService(store *job.Store, opener sheet.Opener, resolver Resolver, engine *similarity.Engine) *Service {
	return &Service{
		store:    store,
		opener:   opener,
		resolver: resolver,
		engine:   engine,
	}
}

// Process implements job.Processor. The job is already in the processing
// state when it arrives; this method always drives it to a terminal state.
// Row-level failures are absorbed into the failed count; only job-level
// failures (dataset unreachable, row count unavailable) fail the job.
func (s *Service) Process(ctx context.Context, j *job.Job) error {
	src := j.Source

	s.progress(j.ID, job.Progress{
		Stage:   "reading_spreadsheet",
		Message: fmt.Sprintf("reading %s", src.SheetName),
	})

	ds, err := s.opener.Open(ctx, src.SpreadsheetID, src.SheetName)
	if err != nil {
		return s.fail(j, fmt.Errorf("open dataset %s: %w", src.SpreadsheetID, err))
	}
	defer func() { _ = ds.Close() }()

	// The range ends at the first blank source cell; counted once, here.
	total, err := ds.ColumnLength(ctx, src.SourceColumn)
	if err != nil {
		return s.fail(j, fmt.Errorf("count rows: %w", err))
	}

	if total == 0 {
		s.complete(j.ID, job.Result{}, "no data rows found")
		return nil
	}

	s.progress(j.ID, job.Progress{
		Stage:     "processing",
		TotalRows: total,
		Message:   fmt.Sprintf("processing %d rows", total),
	})

	success, failed := 0, 0
	for i := range total {
		if ctx.Err() != nil {
			return s.fail(j, fmt.Errorf("interrupted at row %d/%d: %w", i, total, ctx.Err()))
		}

		row := sheet.DataStartRow + i
		if err := s.processRow(ctx, ds, src, row); err != nil {
			failed++
			slog.Warn("row failed", "job", j.ID, "row", row, "error", err)
		} else {
			success++
		}

		s.progress(j.ID, job.Progress{
			Stage:      "processing",
			TotalRows:  total,
			CurrentRow: i + 1,
			Message:    fmt.Sprintf("processed row %d (%d/%d, %d ok, %d failed)", row, i+1, total, success, failed),
		})
	}

	s.complete(j.ID, job.Result{Processed: total, Success: success, Failed: failed},
		fmt.Sprintf("processed %d rows", total))

	slog.Info("job completed", "job", j.ID, "processed", total, "success", success, "failed", failed)
	return nil
}

// errorMarker is written to the output cells of a failed row so the row is
// visibly handled rather than silently skipped.
const errorMarker = "N/A"

// processRow runs one row through acquisition, scoring and write-back.
// Exactly one write per output cell on success; the marker on failure.
func (s *Service) processRow(ctx context.Context, ds sheet.Dataset, src job.Source, row int) error {
	srcRef, err := ds.ReadCell(ctx, src.SourceColumn, row)
	if err != nil {
		return fmt.Errorf("read source cell: %w", err)
	}
	tgtRef, err := ds.ReadCell(ctx, src.TargetColumn, row)
	if err != nil {
		return fmt.Errorf("read target cell: %w", err)
	}
	if tgtRef == "" {
		s.markFailed(ctx, ds, src, row)
		return fmt.Errorf("row %d: empty target reference", row)
	}

	srcText, tgtText, err := s.resolvePair(ctx, srcRef, tgtRef)
	if err != nil {
		s.markFailed(ctx, ds, src, row)
		return fmt.Errorf("row %d: %w", row, err)
	}

	score, label, err := s.engine.Score(ctx, srcText, tgtText)
	if err != nil {
		s.markFailed(ctx, ds, src, row)
		return fmt.Errorf("row %d: %w", row, err)
	}

	if err := ds.WriteCell(ctx, src.OutputColumn, row, fmt.Sprintf("%.4f", score)); err != nil {
		return fmt.Errorf("row %d: write score: %w", row, err)
	}
	if err := ds.WriteCell(ctx, src.LabelColumn, row, label); err != nil {
		return fmt.Errorf("row %d: write label: %w", row, err)
	}
	return nil
}

// resolvePair fetches both references concurrently. Both are I/O-bound and
// independent; the first failure cancels the peer.
func (s *Service) resolvePair(ctx context.Context, srcRef, tgtRef string) (string, string, error) {
	var srcText, tgtText string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if srcText, err = s.resolver.Resolve(gctx, srcRef); err != nil {
			return fmt.Errorf("resolve source: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tgtText, err = s.resolver.Resolve(gctx, tgtRef); err != nil {
			return fmt.Errorf("resolve target: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return srcText, tgtText, nil
}

// markFailed best-effort writes the error marker to both output cells.
func (s *Service) markFailed(ctx context.Context, ds sheet.Dataset, src job.Source, row int) {
	if err := ds.WriteCell(ctx, src.OutputColumn, row, errorMarker); err != nil {
		slog.Warn("write error marker", "row", row, "error", err)
		return
	}
	_ = ds.WriteCell(ctx, src.LabelColumn, row, errorMarker)
}

func (s *Service) progress(id string, p job.Progress) {
	_ = s.store.Update(id, func(rec *job.Job) {
		rec.Progress = &p
	})
}

// complete applies the terminal transition and the result in one atomic
// store update.
func (s *Service) complete(id string, res job.Result, message string) {
	_ = s.store.Update(id, func(rec *job.Job) {
		rec.Status = job.StatusCompleted
		rec.Result = &res
		if rec.Progress == nil {
			rec.Progress = &job.Progress{}
		}
		rec.Progress.Stage = "done"
		rec.Progress.Message = message
	})
}

func (s *Service) fail(j *job.Job, err error) error {
	_ = s.store.Update(j.ID, func(rec *job.Job) {
		rec.Status = job.StatusFailed
		rec.Error = err.Error()
	})
	return err
}
