package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-engine/internal/domain"
	"persona-engine/internal/scoring"
)

var errNoAnswers = errors.New("no answers: use --answers, --file or --demo")

// demoAnswers is a fixed sample covering the first ten questions.
var demoAnswers = []domain.Answer{
	{QuestionID: 1, Value: 4},
	{QuestionID: 2, Value: 2},
	{QuestionID: 3, Value: 5},
	{QuestionID: 4, Value: 1},
	{QuestionID: 5, Value: 4},
	{QuestionID: 6, Value: 2},
	{QuestionID: 7, Value: 2},
	{QuestionID: 8, Value: 4},
	{QuestionID: 9, Value: 5},
	{QuestionID: 10, Value: 1},
}

type runFlags struct {
	answers string
	file    string
	demo    bool
	explain bool
}

func newRunCmd(opts *cliOptions) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score an answer set and print the profile as JSON",
		Example: `  score run --answers "1:4,2:2,3:5"
  score run --file answers.json
  score run --demo --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			answers, err := f.collect()
			if err != nil {
				return err
			}
			bank, err := opts.bank()
			if err != nil {
				return err
			}
			res := scoring.NewEngine(bank, nil).Score(answers)
			if res.Resolved < len(answers) {
				opts.logger.Warn("some answers did not match a question",
					zap.Int("answers", len(answers)),
					zap.Int("resolved", res.Resolved),
				)
			}

			var out interface{} = res.Profile
			if f.explain {
				out = res
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&f.answers, "answers", "", `answers as "question:value" pairs, comma separated`)
	cmd.Flags().StringVar(&f.file, "file", "", "JSON file with answers (\"-\" for stdin)")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "score the built-in sample answers")
	cmd.Flags().BoolVar(&f.explain, "explain", false, "include base and adjusted vectors and both classifications")
	cmd.MarkFlagsMutuallyExclusive("answers", "file", "demo")
	return cmd
}

func (f runFlags) collect() ([]domain.Answer, error) {
	switch {
	case f.demo:
		return append([]domain.Answer(nil), demoAnswers...), nil
	case f.answers != "":
		return parseAnswerPairs(f.answers)
	case f.file == "-":
		return decodeAnswers(os.Stdin)
	case f.file != "":
		file, err := os.Open(f.file)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer file.Close()
		return decodeAnswers(file)
	}
	return nil, errNoAnswers
}

// parseAnswerPairs parses "1:4,2:2". Whitespace around items is ignored.
func parseAnswerPairs(s string) ([]domain.Answer, error) {
	var answers []domain.Answer
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, value, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("answer %q: expected question:value", item)
		}
		qid, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return nil, fmt.Errorf("answer %q: question id: %w", item, err)
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("answer %q: value: %w", item, err)
		}
		answers = append(answers, domain.Answer{QuestionID: qid, Value: v})
	}
	if len(answers) == 0 {
		return nil, errNoAnswers
	}
	return answers, nil
}

// decodeAnswers accepts either a bare array of answers or {"answers": [...]}.
func decodeAnswers(r io.Reader) ([]domain.Answer, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var answers []domain.Answer
	if err := json.Unmarshal(raw, &answers); err != nil {
		var wrapped struct {
			Answers []domain.Answer `json:"answers"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		answers = wrapped.Answers
	}
	if len(answers) == 0 {
		return nil, errNoAnswers
	}
	return answers, nil
}
