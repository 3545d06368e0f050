// Command score runs the scoring engine offline: it scores answer sets from flags or files,
// prints the questionnaire and mints development tokens for the API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona-engine/internal/scoring"
)

type cliOptions struct {
	questionnaire string
	verbose       bool
	logger        *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "score",
		Short:         "Score personality questionnaire answers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.questionnaire, "questionnaire", "", "questionnaire YAML file (default: embedded)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newRunCmd(opts), newQuestionsCmd(opts), newTokenCmd(opts))
	return root
}

// bank loads the questionnaire named by --questionnaire, or the embedded one.
func (o *cliOptions) bank() (*scoring.Questionnaire, error) {
	if o.questionnaire == "" {
		return scoring.DefaultQuestionnaire(), nil
	}
	q, err := scoring.LoadQuestionnaireFile(o.questionnaire)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("questionnaire loaded", zap.String("path", o.questionnaire), zap.Int("questions", q.Len()))
	return q, nil
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
