// Package syncstore maintains the evaluator's live working set of
// submissions: an initial load from the database kept current by applying
// change events from a feed, newest submission first.
package syncstore

import (
	"context"
	"sync"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/logging"
	"github.com/saydemoon/internship-portal/internal/server/models"
)

// Feed is a live source of submission change events in commit order.
type Feed interface {
	// Events returns the event channel. It is closed when the feed ends.
	Events() <-chan models.ChangeEvent
	// Close tears the feed down. Safe to call more than once.
	Close() error
}

// Loader performs the initial full read of the submission table,
// newest first.
type Loader interface {
	SelectAll(ctx context.Context) ([]*models.Submission, error)
}

// Store is the in-memory working set. All methods are safe for concurrent
// use; Run owns the mutations driven by the feed, SetFeedback is the one
// caller-driven mutation (the evaluator's draft feedback text lives only
// here until a decision persists it).
type Store struct {
	loader Loader
	feed   Feed
	log    logging.Logger

	mu    sync.RWMutex
	items []*models.Submission
	err   error
}

// New constructs a Store over the loader and feed.
func New(loader Loader, feed Feed, log logging.Logger) *Store {
	return &Store{loader: loader, feed: feed, log: log}
}

// Run performs the initial load and then applies feed events until ctx is
// done or the feed closes. If the initial load fails the working set stays
// empty and the error is retained for Err; events are still applied so the
// set converges on new activity.
//
// Run closes the feed on every exit path and returns the load error, if any.
func (s *Store) Run(ctx context.Context) error {
	defer s.feed.Close()

	loaded, err := s.loader.SelectAll(ctx)
	s.mu.Lock()
	if err != nil {
		s.items = nil
		s.err = err
	} else {
		s.items = loaded
		s.err = nil
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Error(ctx, "initial submission load failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return s.Err()
		case ev, ok := <-s.feed.Events():
			if !ok {
				return s.Err()
			}
			s.apply(ctx, ev)
		}
	}
}

// apply folds one change event into the working set. Events arrive in
// commit order, so each case is a plain positional edit.
func (s *Store) apply(ctx context.Context, ev models.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Op {
	case models.OpInsert:
		if ev.Row == nil {
			return
		}
		s.items = append([]*models.Submission{ev.Row}, s.items...)
	case models.OpUpdate:
		if ev.Row == nil {
			return
		}
		for i, item := range s.items {
			if item.ID == ev.Row.ID {
				// Keep a draft feedback edit over the stored text so a
				// refresh does not eat what the evaluator is typing.
				if item.Feedback != "" && ev.Row.Feedback == "" {
					ev.Row.Feedback = item.Feedback
				}
				s.items[i] = ev.Row
				return
			}
		}
		// An update for a row we never saw is dropped, not inserted:
		// without its creation event the ordering slot is unknown.
		s.log.Warn(ctx, "update event for unknown submission", "id", ev.Row.ID)
	case models.OpDelete:
		for i, item := range s.items {
			if item.ID == ev.ID {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a copy of the current working set, newest first.
func (s *Store) Snapshot() []*models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Submission, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the submission with the given id, if present.
func (s *Store) Get(id int64) (*models.Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// SetFeedback stores draft feedback text on the working-set copy of a
// submission. Nothing is written to the database until a decision is made.
// The row pointer is swapped, not mutated: rows already handed out by
// Snapshot or Get stay stable for concurrent readers.
func (s *Store) SetFeedback(id int64, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			updated := *item
			updated.Feedback = feedback
			s.items[i] = &updated
			return nil
		}
	}
	return common.ErrorNotFound
}

// Err returns the retained initial-load error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
