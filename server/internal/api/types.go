package api

import "github.com/responder/responder/pkg/types"

// WelcomeResponse is the payload for GET /.
type WelcomeResponse struct {
	Message string `json:"message"`
}

// QuestionRequest is the accepted body for POST /questions.
type QuestionRequest struct {
	Author  string         `json:"author"`
	Summary string         `json:"summary"`
	Answers []types.Answer `json:"answers,omitempty"`
}

// AnswerRequest is the accepted body for POST /questions/{questionId}/answers.
type AnswerRequest struct {
	Author  string `json:"author"`
	Summary string `json:"summary"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Messages returned to clients.
const (
	msgWelcome         = "Welcome to responder!"
	msgNoData          = "No data found."
	msgInvalidQuestion = "The provided question is invalid."
	msgInvalidAnswer   = "The provided answer is invalid"
	msgDuplicate       = "A question with this summary already exists."
	msgInternal        = "internal error"
	msgMethod          = "method not allowed"
	msgNoRoute         = "not found"
)
