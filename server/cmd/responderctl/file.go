package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/responder/responder/pkg/types"
	"github.com/responder/responder/server/internal/store"
	"github.com/responder/responder/server/internal/validate"
)

// fileBackend runs commands against a data file through the store, assigning
// and validating ids the way the HTTP API does.
type fileBackend struct {
	st *store.Store
}

func newFileBackend(path string) *fileBackend {
	return &fileBackend{st: store.NewFile(path)}
}

func (b *fileBackend) ListQuestions(context.Context) ([]types.Question, error) {
	return b.st.ListQuestions()
}

func (b *fileBackend) GetQuestion(_ context.Context, id string) (types.Question, error) {
	return b.st.GetQuestion(id)
}

func (b *fileBackend) AddQuestion(_ context.Context, author, summary string) (types.Question, error) {
	q := types.Question{ID: uuid.NewString(), Author: author, Summary: summary}.Normalized()
	if err := validate.Question(q); err != nil {
		return types.Question{}, fmt.Errorf("question: %w", err)
	}
	return b.st.AddQuestion(q)
}

func (b *fileBackend) GetAnswers(_ context.Context, questionID string) ([]types.Answer, error) {
	return b.st.GetAnswers(questionID)
}

func (b *fileBackend) GetAnswer(_ context.Context, questionID, answerID string) (types.Answer, error) {
	return b.st.GetAnswer(questionID, answerID)
}

func (b *fileBackend) AddAnswer(_ context.Context, questionID, author, summary string) (types.Answer, error) {
	a := types.Answer{ID: uuid.NewString(), Author: author, Summary: summary}
	if err := validate.Answer(a); err != nil {
		return types.Answer{}, fmt.Errorf("answer: %w", err)
	}
	return b.st.AddAnswer(questionID, a)
}
