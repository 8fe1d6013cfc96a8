// Package engine implements the import workflow controller: it fans
// suggestion calls out over the draft records of a session, merges results,
// and applies user edits and deletes.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orderflow/orderflow/internal/common"
	"github.com/orderflow/orderflow/internal/model"
)

// Event notifies a presentation layer of a single record's status change.
// It replaces the original design's global notification side effects.
type Event struct {
	Err    error
	ID     string
	Status model.Status
}

// Config holds configuration options for an import session.
type Config struct {
	// Workers bounds the number of suggestion calls in flight at once.
	Workers int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Workers: 4,
	}
}

// Session owns the in-memory working set of one import. All mutations are
// atomic single-record replacements keyed by id under one mutex; each
// record's async completion only ever touches its own entry.
type Session struct {
	startedAt time.Time
	suggester Suggester
	logger    *slog.Logger
	events    chan Event
	records   []model.Product
	workers   int
	mu        sync.Mutex
}

// NewSession creates a session over the given draft records. The records are
// expected to be in StatusPending; their order is the display order.
func NewSession(products []model.Product, suggester Suggester, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	records := make([]model.Product, len(products))
	copy(records, products)

	return &Session{
		records:   records,
		suggester: suggester,
		workers:   cfg.Workers,
		logger:    logger,
		startedAt: time.Now(),
		// Two transitions per record; sized so emitting never blocks.
		events: make(chan Event, 2*len(products)+1),
	}
}

// Events returns the per-record status notification stream. The channel is
// closed once Run has settled every record.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Run dispatches a suggestion call for every pending record, at most
// Workers in flight at once. Failures are local to a record and never abort
// the run; Run itself only fails on a nil suggester.
func (s *Session) Run(ctx context.Context) error {
	if s.suggester == nil {
		close(s.events)
		return common.ErrMissingConfig
	}

	s.mu.Lock()
	ids := make([]string, 0, len(s.records))
	for _, r := range s.records {
		if r.Status == model.StatusPending {
			ids = append(ids, r.ID)
		}
	}
	s.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, id := range ids {
		g.Go(func() error {
			s.process(ctx, id)
			return nil
		})
	}

	// Goroutines never return errors; per-record failures land on the
	// records themselves.
	_ = g.Wait()
	close(s.events)

	return nil
}

// process runs the suggestion call for one record. Once dispatched it runs
// to completion even if the record is deleted in the meantime; a late result
// for a missing id is discarded silently.
func (s *Session) process(ctx context.Context, id string) {
	description, ok := s.markProcessing(id)
	if !ok {
		return
	}

	suggestion, err := s.suggester.Suggest(ctx, description)
	s.merge(id, suggestion, err)
}

// markProcessing transitions a record from pending to processing and returns
// its description. Returns false if the record was deleted before dispatch.
func (s *Session) markProcessing(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(id)
	if !ok {
		s.logger.Debug("record deleted before dispatch", "id", id)
		return "", false
	}
	if !s.records[i].Status.CanTransition(model.StatusProcessing) {
		return "", false
	}

	s.records[i].Status = model.StatusProcessing
	s.emit(Event{ID: id, Status: model.StatusProcessing})

	return s.records[i].Description, true
}

// merge applies a suggestion result (or failure) to its record. The category
// of record is only initialized from the suggestion when the user has not
// already filled it in.
func (s *Session) merge(id string, suggestion model.Suggestion, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(id)
	if !ok {
		s.logger.Debug("late suggestion result discarded", "id", id)
		return
	}

	if err != nil {
		if !s.records[i].Status.CanTransition(model.StatusError) {
			return
		}
		s.records[i].Status = model.StatusError
		s.records[i].Err = err.Error()
		s.emit(Event{ID: id, Status: model.StatusError, Err: err})

		s.logger.Warn("suggestion failed",
			"id", id,
			"description", s.records[i].Description,
			"error", err)
		return
	}

	if !s.records[i].Status.CanTransition(model.StatusProcessed) {
		return
	}

	s.records[i].Status = model.StatusProcessed
	s.records[i].AICategory = suggestion.Category
	s.records[i].AIConfidence = suggestion.Confidence
	if s.records[i].Category == "" {
		s.records[i].Category = suggestion.Category
	}
	s.emit(Event{ID: id, Status: model.StatusProcessed})
}

// Edit sets a record's category as a user override. It never changes the
// record's status or advisory fields, and a later suggestion result will not
// clobber it.
func (s *Session) Edit(id, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(id)
	if !ok {
		return common.ErrRecordGone
	}

	s.records[i].Category = category
	return nil
}

// Delete removes exactly one record by id. Other records keep their ids and
// order; an in-flight suggestion for the deleted record is left to finish
// and its result discarded.
func (s *Session) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(id)
	if !ok {
		return common.ErrRecordGone
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

// Record returns a copy of a single record.
func (s *Session) Record(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.find(id)
	if !ok {
		return model.Product{}, false
	}
	return s.records[i], true
}

// Snapshot returns a copy of the current records in display order.
func (s *Session) Snapshot() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, len(s.records))
	copy(out, s.records)
	return out
}

// Totals recomputes the aggregates from the live record list. They are never
// maintained incrementally, so they are always consistent with whatever
// edits and deletes have been applied.
func (s *Session) Totals() model.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := model.Totals{Count: len(s.records)}
	for _, r := range s.records {
		totals.Sum += r.Price
	}
	return totals
}

// Summary builds the history entry for a finished session.
func (s *Session) Summary(source string) model.ImportRun {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := model.ImportRun{
		StartedAt:  s.startedAt,
		FinishedAt: time.Now(),
		Source:     source,
		Total:      len(s.records),
	}
	for _, r := range s.records {
		run.Sum += r.Price
		switch r.Status {
		case model.StatusProcessed:
			run.Processed++
		case model.StatusError:
			run.Errored++
		}
	}
	return run
}

// find locates a record index by id. Caller must hold the mutex.
func (s *Session) find(id string) (int, bool) {
	for i := range s.records {
		if s.records[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// emit never blocks: the channel is sized for every possible transition.
// Caller must hold the mutex.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Debug("event dropped", "id", ev.ID, "status", ev.Status)
	}
}
