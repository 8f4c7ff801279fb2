// Command responderctl reads and writes questions either directly in a
// responder data file (--file) or through a running server (--server).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/responder/responder/pkg/client"
	"github.com/responder/responder/pkg/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// backend is what every subcommand runs against.
type backend interface {
	ListQuestions(ctx context.Context) ([]types.Question, error)
	GetQuestion(ctx context.Context, id string) (types.Question, error)
	AddQuestion(ctx context.Context, author, summary string) (types.Question, error)
	GetAnswers(ctx context.Context, questionID string) ([]types.Answer, error)
	GetAnswer(ctx context.Context, questionID, answerID string) (types.Answer, error)
	AddAnswer(ctx context.Context, questionID, author, summary string) (types.Answer, error)
}

type rootFlags struct {
	file    string
	server  string
	timeout time.Duration
}

func (f *rootFlags) backend() (backend, error) {
	if f.file != "" {
		return newFileBackend(f.file), nil
	}
	return client.New(f.server, client.WithTimeout(f.timeout))
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "responderctl",
		Short:         "Inspect and edit responder questions and answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.file, "file", "", "operate on this data file directly instead of a server")
	root.PersistentFlags().StringVar(&flags.server, "server", "http://localhost:3000", "base URL of a responder server")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "request timeout in server mode")

	root.AddCommand(
		newListCmd(flags),
		newGetCmd(flags),
		newAnswersCmd(flags),
		newAnswerCmd(flags),
		newAskCmd(flags),
		newReplyCmd(flags),
	)
	return root
}

// run resolves the backend, calls fn and prints its result as indented JSON.
func run(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, b backend) (interface{}, error)) error {
	b, err := flags.backend()
	if err != nil {
		return err
	}
	v, err := fn(cmd.Context(), b)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, b backend) (interface{}, error) {
				return b.ListQuestions(ctx)
			})
		},
	}
}

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <question-id>",
		Short: "Show one question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, b backend) (interface{}, error) {
				return b.GetQuestion(ctx, args[0])
			})
		},
	}
}

func newAnswersCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "answers <question-id>",
		Short: "List the answers of a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, b backend) (interface{}, error) {
				return b.GetAnswers(ctx, args[0])
			})
		},
	}
}

func newAnswerCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <question-id> <answer-id>",
		Short: "Show one answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, b backend) (interface{}, error) {
				return b.GetAnswer(ctx, args[0], args[1])
			})
		},
	}
}

func newAskCmd(flags *rootFlags) *cobra.Command {
	var author, summary string
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Add a question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, b backend) (interface{}, error) {
				return b.AddQuestion(ctx, author, summary)
			})
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "question author")
	cmd.Flags().StringVar(&summary, "summary", "", "question text")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}

func newReplyCmd(flags *rootFlags) *cobra.Command {
	var author, summary string
	cmd := &cobra.Command{
		Use:   "reply <question-id>",
		Short: "Add an answer to a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, func(ctx context.Context, b backend) (interface{}, error) {
				return b.AddAnswer(ctx, args[0], author, summary)
			})
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "answer author")
	cmd.Flags().StringVar(&summary, "summary", "", "answer text")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}
