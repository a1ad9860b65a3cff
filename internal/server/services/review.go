package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/saydemoon/internship-portal/internal/common"
	"github.com/saydemoon/internship-portal/internal/server/models"
	"github.com/saydemoon/internship-portal/internal/server/notify"
	"github.com/saydemoon/internship-portal/internal/server/repositories/repomanager"
)

// WorkingSet is the evaluator's current view of the submission list. The
// review workflow reads the feedback text from here, not from the database:
// an in-flight feedback edit must be the text that gets persisted with the
// decision.
type WorkingSet interface {
	Get(id int64) (*models.Submission, bool)
}

// Outcome reports how far a decision got. Persisted without Notified is a
// valid terminal state ("saved, not notified"): the decision is
// authoritative once written, notification is best-effort.
type Outcome struct {
	Persisted bool
	Notified  bool
}

// ReviewService executes the two-step review decision: persist status and
// feedback, then send the outcome e-mail. Step 2 never starts unless step 1
// succeeded, and a step-2 failure is never rolled back.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	set         WorkingSet
	notifier    notify.Notifier

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewReviewService constructs a ReviewService over the evaluator working set.
func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, set WorkingSet, notifier notify.Notifier) *ReviewService {
	return &ReviewService{
		db:          db,
		repomanager: m,
		set:         set,
		notifier:    notifier,
		inFlight:    make(map[int64]struct{}),
	}
}

// Decide persists the decision for one submission and then triggers the
// notification.
//
// Error mapping: common.ErrorPersist means nothing was changed and the whole
// operation may be retried; common.ErrorNotify means the decision IS saved
// and only the e-mail failed, so retrying the whole call would double-send
// and callers should surface "saved, not notified" instead. A second concurrent
// decision for the same id is rejected with common.ErrorDecisionInFlight;
// decisions for distinct ids run independently.
func (s *ReviewService) Decide(ctx context.Context, id int64, decision models.Decision) (Outcome, error) {
	if !decision.Valid() {
		return Outcome{}, common.ErrorInvalidDecision
	}

	if !s.begin(id) {
		return Outcome{}, common.ErrorDecisionInFlight
	}
	defer s.end(id)

	current, ok := s.set.Get(id)
	if !ok {
		return Outcome{}, common.ErrorNotFound
	}
	feedback := current.Feedback

	repo := s.repomanager.Submissions(s.db)
	if err := repo.UpdateDecision(ctx, id, decision, feedback); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", common.ErrorPersist, err)
	}

	err := s.notifier.Send(ctx, notify.Notification{
		ToEmail:  current.Email,
		FullName: current.FullName,
		Status:   decision,
		Feedback: feedback,
	})
	if err != nil {
		return Outcome{Persisted: true}, fmt.Errorf("%w: %v", common.ErrorNotify, err)
	}

	return Outcome{Persisted: true, Notified: true}, nil
}

func (s *ReviewService) begin(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *ReviewService) end(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
