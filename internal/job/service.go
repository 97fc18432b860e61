package job

import (
	"log/slog"
	"time"
)

type Service struct {
	store  *Store
	notify func() // optional: wake worker pool
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// SetNotify sets a callback invoked when a new queued job is created.
func (s *Service) SetNotify(fn func()) { s.notify = fn }

// Create validates the request, inserts a queued job and hands off to the
// worker pool. It returns as soon as the record exists; it never waits for
// processing to start.
func (s *Service) Create(req CreateJobRequest) (*Job, error) {
	src, appErr := req.Parse()
	if appErr != nil {
		return nil, appErr
	}

	j := s.store.Create(src)
	slog.Info("job created", "job", j.ID, "spreadsheet", src.SpreadsheetID, "sheet", src.SheetName)

	if s.notify != nil {
		s.notify()
	}
	return j, nil
}

func (s *Service) Get(req GetJobRequest) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.Get(req.ID)
}

func (s *Service) List() []Job {
	return s.store.List()
}

func (s *Service) Delete(req GetJobRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.store.Delete(req.ID)
}

// Cleanup removes terminal jobs older than maxAge. Called periodically by
// the janitor in main.
func (s *Service) Cleanup(maxAge time.Duration) {
	if n := s.store.DeleteOlderThan(maxAge); n > 0 {
		slog.Info("removed old jobs", "count", n, "maxAge", maxAge)
	}
}
