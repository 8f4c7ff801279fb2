package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/responder/responder/pkg/types"
	"github.com/responder/responder/server/internal/store"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeNoData   = "no_data"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Store decorates a store.Repository, counting each call by operation and
// outcome.
type Store struct {
	next store.Repository
	ops  *prometheus.CounterVec
}

var _ store.Repository = (*Store)(nil)

// NewStore registers responder_store_operations_total on reg and wraps next.
func NewStore(reg prometheus.Registerer, next store.Repository) *Store {
	return &Store{
		next: next,
		ops: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "responder_store_operations_total",
			Help: "Store operations, by operation and outcome.",
		}, []string{"op", "outcome"})),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, store.ErrNoData):
		return OutcomeNoData
	case errors.Is(err, store.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, store.ErrRejected):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func (s *Store) record(op string, err error) {
	s.ops.WithLabelValues(op, outcome(err)).Inc()
}

func (s *Store) ListQuestions() ([]types.Question, error) {
	qs, err := s.next.ListQuestions()
	s.record("list_questions", err)
	return qs, err
}

func (s *Store) GetQuestion(id string) (types.Question, error) {
	q, err := s.next.GetQuestion(id)
	s.record("get_question", err)
	return q, err
}

func (s *Store) AddQuestion(q types.Question) (types.Question, error) {
	q, err := s.next.AddQuestion(q)
	s.record("add_question", err)
	return q, err
}

func (s *Store) GetAnswers(questionID string) ([]types.Answer, error) {
	as, err := s.next.GetAnswers(questionID)
	s.record("get_answers", err)
	return as, err
}

func (s *Store) GetAnswer(questionID, answerID string) (types.Answer, error) {
	a, err := s.next.GetAnswer(questionID, answerID)
	s.record("get_answer", err)
	return a, err
}

func (s *Store) AddAnswer(questionID string, a types.Answer) (types.Answer, error) {
	a, err := s.next.AddAnswer(questionID, a)
	s.record("add_answer", err)
	return a, err
}
