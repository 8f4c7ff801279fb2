package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/responder/responder/pkg/types"
)

var (
	ErrNoData   = errors.New("store: no data")
	ErrNotFound = errors.New("store: not found")
	ErrRejected = errors.New("store: rejected")
	ErrStorage  = errors.New("store: storage failure")
)

// Repository is the set of operations served over the collection.
// *Store implements it; wrappers (metrics) decorate it.
type Repository interface {
	ListQuestions() ([]types.Question, error)
	GetQuestion(id string) (types.Question, error)
	AddQuestion(q types.Question) (types.Question, error)
	GetAnswers(questionID string) ([]types.Answer, error)
	GetAnswer(questionID, answerID string) (types.Answer, error)
	AddAnswer(questionID string, a types.Answer) (types.Answer, error)
}

// Store is the sole owner of the persisted collection.
type Store struct {
	doc Document
}

// New creates a Store persisting through doc.
func New(doc Document) *Store {
	return &Store{doc: doc}
}

// NewFile creates a Store backed by the JSON file at path.
func NewFile(path string) *Store {
	return New(NewFileDocument(path))
}

// ListQuestions returns the whole collection in stored order. An empty or
// missing document is ErrNoData; an empty array is a zero-length result.
func (s *Store) ListQuestions() ([]types.Question, error) {
	qs, ok, err := s.load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoData
	}
	return qs, nil
}

// GetQuestion returns the first question with the given id.
func (s *Store) GetQuestion(id string) (types.Question, error) {
	qs, _, err := s.load()
	if err != nil {
		return types.Question{}, err
	}
	if i := indexByID(qs, id); i >= 0 {
		return qs[i], nil
	}
	return types.Question{}, ErrNotFound
}

// AddQuestion appends q unless a question with the same summary (or id)
// already exists, or q carries answers that collide with each other.
// A missing document starts a new collection.
func (s *Store) AddQuestion(q types.Question) (types.Question, error) {
	qs, _, err := s.load()
	if err != nil {
		return types.Question{}, err
	}
	q = q.Normalized()

	for _, existing := range qs {
		if existing.Summary == q.Summary {
			return types.Question{}, fmt.Errorf("%w: duplicate question summary %q", ErrRejected, q.Summary)
		}
		if existing.ID == q.ID {
			return types.Question{}, fmt.Errorf("%w: duplicate question id %q", ErrRejected, q.ID)
		}
	}
	for i, a := range q.Answers {
		if err := checkAnswer(q.Answers[:i], a); err != nil {
			return types.Question{}, err
		}
	}

	qs = append(qs, q)
	if err := s.save(qs); err != nil {
		return types.Question{}, err
	}
	slog.Debug("store: question added", "id", q.ID, "count", len(qs))
	return q, nil
}

// GetAnswers returns the answers of a question. A question without answers
// yields a zero-length slice, not ErrNotFound.
func (s *Store) GetAnswers(questionID string) ([]types.Answer, error) {
	q, err := s.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}
	return q.Answers, nil
}

// GetAnswer returns one answer of a question. A missing question and a
// missing answer are both ErrNotFound.
func (s *Store) GetAnswer(questionID, answerID string) (types.Answer, error) {
	q, err := s.GetQuestion(questionID)
	if err != nil {
		return types.Answer{}, err
	}
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a, nil
		}
	}
	return types.Answer{}, ErrNotFound
}

// AddAnswer appends a to the question's answers. An empty or missing document
// is ErrNoData; a missing question and a duplicate summary are ErrRejected.
func (s *Store) AddAnswer(questionID string, a types.Answer) (types.Answer, error) {
	qs, ok, err := s.load()
	if err != nil {
		return types.Answer{}, err
	}
	if !ok {
		return types.Answer{}, ErrNoData
	}

	i := indexByID(qs, questionID)
	if i < 0 {
		return types.Answer{}, fmt.Errorf("%w: question %q does not exist", ErrRejected, questionID)
	}
	if err := checkAnswer(qs[i].Answers, a); err != nil {
		return types.Answer{}, err
	}

	qs[i].Answers = append(qs[i].Answers, a)
	if err := s.save(qs); err != nil {
		return types.Answer{}, err
	}
	slog.Debug("store: answer added", "question_id", questionID, "id", a.ID, "count", len(qs[i].Answers))
	return a, nil
}

// Probe loads and parses the document without changing it.
func (s *Store) Probe() error {
	_, _, err := s.load()
	return err
}

// load reads and parses the document. ok is false when the document is empty
// or missing; both are the same no-document case.
func (s *Store) load() (qs []types.Question, ok bool, err error) {
	data, err := s.doc.Load()
	if err != nil {
		return nil, false, fmt.Errorf("%w: read document: %w", ErrStorage, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false, nil
	}
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, false, fmt.Errorf("%w: parse document: %w", ErrStorage, err)
	}
	if qs == nil {
		qs = []types.Question{}
	}
	for i := range qs {
		qs[i] = qs[i].Normalized()
	}
	return qs, true, nil
}

func (s *Store) save(qs []types.Question) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("%w: encode document: %w", ErrStorage, err)
	}
	if err := s.doc.Save(data); err != nil {
		return fmt.Errorf("%w: write document: %w", ErrStorage, err)
	}
	return nil
}

func indexByID(qs []types.Question, id string) int {
	for i := range qs {
		if qs[i].ID == id {
			return i
		}
	}
	return -1
}

// checkAnswer rejects a when its summary or id is already used in existing.
func checkAnswer(existing []types.Answer, a types.Answer) error {
	for _, e := range existing {
		if e.Summary == a.Summary {
			return fmt.Errorf("%w: duplicate answer summary %q", ErrRejected, a.Summary)
		}
		if e.ID == a.ID {
			return fmt.Errorf("%w: duplicate answer id %q", ErrRejected, a.ID)
		}
	}
	return nil
}
