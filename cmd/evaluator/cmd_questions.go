package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evaluator/internal/model"
	"evaluator/internal/schema"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalogue in the order fields are asked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := schema.Default()
			out := cmd.OutOrStdout()

			var section model.Section
			for i, ref := range schema.QuestionOrder() {
				if ref.Section != section {
					section = ref.Section
					fmt.Fprintf(out, "\n[%s]\n", section)
				}
				fmt.Fprintf(out, "%2d. %-36s %s\n", i+1, ref.Field, catalog.Question(ref))
			}
			return nil
		},
	}
}
