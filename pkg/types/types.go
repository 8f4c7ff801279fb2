package types

// Answer is one reply attached to a Question.
type Answer struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Summary string `json:"summary"`
}

// Question is a top-level entry of the collection. Answers keeps insertion
// order and is never serialized as null.
type Question struct {
	ID      string   `json:"id"`
	Author  string   `json:"author"`
	Summary string   `json:"summary"`
	Answers []Answer `json:"answers"`
}

// Normalized returns q with a non-nil Answers slice.
func (q Question) Normalized() Question {
	if q.Answers == nil {
		q.Answers = []Answer{}
	}
	return q
}
