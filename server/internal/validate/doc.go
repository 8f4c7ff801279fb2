// Package validate checks candidate questions and answers before they reach
// the store.
//
// Question(q) and Answer(a) run a fixed, ordered list of field assertions and
// return the first failure as a *FieldError wrapping ErrInvalid:
//
//	id        canonical hyphenated uuid (36 chars)
//	author    non-empty
//	summary   non-empty
//	answers   each entry passes Answer (questions only)
//
// Validation is pure. Uniqueness is the store's job and always runs after.
package validate
