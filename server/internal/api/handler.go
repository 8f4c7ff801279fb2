package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/responder/responder/pkg/types"
	"github.com/responder/responder/server/internal/store"
	"github.com/responder/responder/server/internal/validate"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Handler is the HTTP handler for the question and answer resources.
type Handler struct {
	repo       store.Repository
	newID      func() string
	instrument func(route string, next http.Handler) http.Handler
	mux        *http.ServeMux
}

// Option configures a Handler.
type Option func(*Handler)

// WithIDGenerator replaces uuid.NewString as the identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(h *Handler) { h.newID = fn }
}

// WithInstrumentation wraps every route handler with mw, which receives the
// route pattern as a stable label.
func WithInstrumentation(mw func(route string, next http.Handler) http.Handler) Option {
	return func(h *Handler) { h.instrument = mw }
}

// New creates a Handler wired to repo and registers all routes.
func New(repo store.Repository, opts ...Option) http.Handler {
	h := &Handler{repo: repo, newID: uuid.NewString, mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(h)
	}

	h.handle("/{$}", h.welcome)
	h.handle("/questions", h.questions)
	h.handle("/questions/{questionId}", h.question)
	h.handle("/questions/{questionId}/answers", h.answers)
	h.handle("/questions/{questionId}/answers/{answerId}", h.answer)
	h.handle("/", h.notFound)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handle(pattern string, fn http.HandlerFunc) {
	var next http.Handler = fn
	if h.instrument != nil {
		next = h.instrument(pattern, next)
	}
	h.mux.Handle(pattern, next)
}

// --- route handlers ---------------------------------------------------------

// welcome serves GET / with a static greeting.
func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	jsonResp(w, http.StatusOK, WelcomeResponse{Message: msgWelcome})
}

// questions serves GET and POST /questions.
func (h *Handler) questions(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		h.addQuestion(w, r)
		return
	}

	qs, err := h.repo.ListQuestions()
	if err != nil {
		h.storeErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, qs)
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.Debug("api: undecodable question body", "err", err)
		jsonErr(w, http.StatusBadRequest, msgInvalidQuestion)
		return
	}

	q := types.Question{
		ID:      h.newID(),
		Author:  req.Author,
		Summary: req.Summary,
		Answers: req.Answers,
	}.Normalized()
	if err := validate.Question(q); err != nil {
		slog.Debug("api: invalid question", "err", err)
		jsonErr(w, http.StatusBadRequest, msgInvalidQuestion)
		return
	}

	stored, err := h.repo.AddQuestion(q)
	if errors.Is(err, store.ErrRejected) {
		slog.Debug("api: question rejected", "err", err)
		jsonErr(w, http.StatusConflict, msgDuplicate)
		return
	}
	if err != nil {
		h.storeErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusCreated, stored)
}

// question returns GET /questions/{questionId}.
func (h *Handler) question(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	q, err := h.repo.GetQuestion(r.PathValue("questionId"))
	if err != nil {
		h.storeErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, q)
}

// answers serves GET and POST /questions/{questionId}/answers.
func (h *Handler) answers(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	questionID := r.PathValue("questionId")
	if r.Method == http.MethodPost {
		h.addAnswer(w, r, questionID)
		return
	}

	as, err := h.repo.GetAnswers(questionID)
	if err != nil {
		h.storeErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, as)
}

func (h *Handler) addAnswer(w http.ResponseWriter, r *http.Request, questionID string) {
	var req AnswerRequest
	if err := decodeBody(w, r, &req); err != nil {
		slog.Debug("api: undecodable answer body", "err", err)
		jsonErr(w, http.StatusBadRequest, msgInvalidAnswer)
		return
	}

	a := types.Answer{ID: h.newID(), Author: req.Author, Summary: req.Summary}
	if err := validate.Answer(a); err != nil {
		slog.Debug("api: invalid answer", "err", err)
		jsonErr(w, http.StatusBadRequest, msgInvalidAnswer)
		return
	}

	stored, err := h.repo.AddAnswer(questionID, a)
	if errors.Is(err, store.ErrRejected) {
		// Missing parent and duplicate summary are indistinguishable to clients.
		slog.Debug("api: answer rejected", "question_id", questionID, "err", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err != nil {
		h.storeErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusCreated, stored)
}

// answer returns GET /questions/{questionId}/answers/{answerId}.
func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	a, err := h.repo.GetAnswer(r.PathValue("questionId"), r.PathValue("answerId"))
	if err != nil {
		h.storeErr(w, r, err)
		return
	}
	jsonResp(w, http.StatusOK, a)
}

// notFound answers every path no route matches.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	jsonErr(w, http.StatusNotFound, msgNoRoute)
}

// --- helpers ----------------------------------------------------------------

// storeErr maps store outcomes that are not handled inline to a response.
func (h *Handler) storeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNoData), errors.Is(err, store.ErrNotFound):
		jsonErr(w, http.StatusNotFound, msgNoData)
	default:
		slog.Error("api: store failure", "method", r.Method, "path", r.URL.Path, "err", err)
		jsonErr(w, http.StatusInternalServerError, msgInternal)
	}
}

// allow writes 405 and returns false unless r.Method is one of methods.
func allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	jsonErr(w, http.StatusMethodNotAllowed, msgMethod)
	return false
}

// decodeBody fills dst from a JSON or form-encoded body. An empty body leaves
// dst untouched so validation reports the missing fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return err
		}
		author, summary := r.PostForm.Get("author"), r.PostForm.Get("summary")
		switch v := dst.(type) {
		case *QuestionRequest:
			v.Author, v.Summary = author, summary
		case *AnswerRequest:
			v.Author, v.Summary = author, summary
		}
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
