package job

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ahmethakanbesel/similarity-api/internal/apperror"
)

// Store is the process-wide in-memory job registry and the only shared state
// between the request path and the worker pool. Every read returns a deep
// copy, so callers never observe a half-applied update.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a queued job for the source and returns a copy. IDs are
// short uuid prefixes; the loop regenerates on the (unlikely) collision so
// concurrent creates never collide.
func (s *Store) Create(src Source) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()[:8]
	for _, exists := s.jobs[id]; exists; _, exists = s.jobs[id] {
		id = uuid.NewString()[:8]
	}

	now := s.now()
	j := &Job{
		ID:        id,
		Status:    StatusQueued,
		Source:    src,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[id] = j
	return j.clone()
}

// Get returns a copy of the job or a NotFound apperror.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, apperror.New(apperror.NotFound, "job not found")
	}
	return j.clone(), nil
}

// Update applies the mutator to the job record under the store lock, as one
// atomic replace. Terminal jobs are immutable: the mutator is not invoked.
func (s *Store) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return apperror.New(apperror.NotFound, "job not found")
	}
	if j.Status.Terminal() {
		return nil
	}
	fn(j)
	j.UpdatedAt = s.now()
	return nil
}

// List returns a snapshot of all jobs, newest first.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j.clone())
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

// Delete removes the job record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return apperror.New(apperror.NotFound, "job not found")
	}
	delete(s.jobs, id)
	return nil
}

// ClaimQueued atomically flips the oldest queued job to processing and
// returns a copy, or nil when nothing is queued. The claim is what
// guarantees a single active runner per job.
func (s *Store) ClaimQueued() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *Job
	for _, j := range s.jobs {
		if j.Status != StatusQueued {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil
	}

	oldest.Status = StatusProcessing
	oldest.Progress = &Progress{Stage: "initializing", Message: "starting"}
	oldest.UpdatedAt = s.now()
	return oldest.clone()
}

// DeleteOlderThan removes terminal jobs whose last update is older than age
// and reports how many were removed. In-flight jobs are never swept.
func (s *Store) DeleteOlderThan(age time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-age)
	removed := 0
	for id, j := range s.jobs {
		if j.Status.Terminal() && j.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}
