package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/responder/responder/pkg/client"
	"github.com/responder/responder/pkg/types"
	"github.com/responder/responder/server/internal/api"
	"github.com/responder/responder/server/internal/store"
	"github.com/responder/responder/server/internal/validate"
)

// execute runs responderctl with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustJSON(t *testing.T, s string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, s)
	}
}

// modes yields the flag sets for file mode and server mode over fresh data.
func modes(t *testing.T) map[string][]string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), "questions.json")

	srvPath := filepath.Join(t.TempDir(), "questions.json")
	srv := httptest.NewServer(api.New(store.NewFile(srvPath)))
	t.Cleanup(srv.Close)

	return map[string][]string{
		"file":   {"--file", filePath},
		"server": {"--server", srv.URL},
	}
}

func TestWorkflow(t *testing.T) {
	for mode, flags := range modes(t) {
		t.Run(mode, func(t *testing.T) {
			with := func(args ...string) []string { return append(append([]string{}, args...), flags...) }

			if _, err := execute(t, with("list")...); !errors.Is(err, store.ErrNoData) && !errors.Is(err, client.ErrNoData) {
				t.Fatalf("list on empty: got %v, want no data", err)
			}

			out, err := execute(t, with("ask", "--author", "Jack London", "--summary", "What is my name?")...)
			if err != nil {
				t.Fatalf("ask: %v", err)
			}
			var q types.Question
			mustJSON(t, out, &q)
			if q.ID == "" || q.Summary != "What is my name?" || q.Answers == nil {
				t.Fatalf("ask: got %+v", q)
			}

			out, err = execute(t, with("reply", q.ID, "--author", "Author1", "--summary", "answer1")...)
			if err != nil {
				t.Fatalf("reply: %v", err)
			}
			var a types.Answer
			mustJSON(t, out, &a)

			out, err = execute(t, with("get", q.ID)...)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			var got types.Question
			mustJSON(t, out, &got)
			if len(got.Answers) != 1 || got.Answers[0] != a {
				t.Errorf("get: answers %+v, want [%+v]", got.Answers, a)
			}

			out, err = execute(t, with("answers", q.ID)...)
			if err != nil {
				t.Fatalf("answers: %v", err)
			}
			var as []types.Answer
			mustJSON(t, out, &as)
			if len(as) != 1 {
				t.Errorf("answers: got %d, want 1", len(as))
			}

			out, err = execute(t, with("answer", q.ID, a.ID)...)
			if err != nil {
				t.Fatalf("answer: %v", err)
			}
			var one types.Answer
			mustJSON(t, out, &one)
			if one != a {
				t.Errorf("answer: got %+v, want %+v", one, a)
			}

			out, err = execute(t, with("list")...)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var qs []types.Question
			mustJSON(t, out, &qs)
			if len(qs) != 1 {
				t.Errorf("list: got %d, want 1", len(qs))
			}

			if _, err := execute(t, with("reply", q.ID, "--author", "Other", "--summary", "answer1")...); !errors.Is(err, store.ErrRejected) && !errors.Is(err, client.ErrRejected) {
				t.Errorf("duplicate reply: got %v, want rejected", err)
			}
		})
	}
}

func TestFileMode_ValidatesInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	_, err := execute(t, "ask", "--author", "", "--summary", "s", "--file", path)
	if !errors.Is(err, validate.ErrInvalid) {
		t.Errorf("ask with empty author: got %v, want ErrInvalid", err)
	}
}

func TestArgsAndFlagsEnforced(t *testing.T) {
	cases := map[string][]string{
		"get without id":      {"get"},
		"answer with one arg": {"answer", "x"},
		"ask without summary": {"ask", "--author", "a"},
		"list with arg":       {"list", "extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := execute(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestServerMode_BadURL(t *testing.T) {
	if _, err := execute(t, "list", "--server", "not a url"); err == nil {
		t.Error("expected error for bad server URL")
	}
}
