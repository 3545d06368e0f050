package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newQuestionsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bank, err := opts.bank()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTRAIT\tTEXT")
			for _, q := range bank.Questions() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", q.ID, q.Trait.Key(), q.Text)
			}
			return w.Flush()
		},
	}
}
