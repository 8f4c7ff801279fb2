package validate

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/responder/responder/pkg/types"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid record")

// FieldError reports the first field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

type assertion struct {
	field string
	check func() string
}

// run evaluates assertions in order and stops at the first failure.
func run(prefix string, asserts []assertion) error {
	for _, a := range asserts {
		if reason := a.check(); reason != "" {
			return &FieldError{Field: prefix + a.field, Reason: reason}
		}
	}
	return nil
}

// Question validates q and every nested answer.
func Question(q types.Question) error {
	if err := run("", recordAssertions(q.ID, q.Author, q.Summary)); err != nil {
		return err
	}
	for i, a := range q.Answers {
		if err := answer(fmt.Sprintf("answers[%d].", i), a); err != nil {
			return err
		}
	}
	return nil
}

// Answer validates a.
func Answer(a types.Answer) error {
	return answer("", a)
}

func answer(prefix string, a types.Answer) error {
	return run(prefix, recordAssertions(a.ID, a.Author, a.Summary))
}

func recordAssertions(id, author, summary string) []assertion {
	return []assertion{
		{"id", func() string { return checkID(id) }},
		{"author", func() string { return required(author) }},
		{"summary", func() string { return required(summary) }},
	}
}

func checkID(id string) string {
	if id == "" {
		return "is required"
	}
	// uuid.Parse also accepts urn: and braced forms; only the plain form is stored.
	if len(id) != 36 {
		return "must be a uuid"
	}
	if _, err := uuid.Parse(id); err != nil {
		return "must be a uuid"
	}
	return ""
}

func required(s string) string {
	if s == "" {
		return "is required"
	}
	return ""
}
