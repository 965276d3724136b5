package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evaluator/internal/model"
	"evaluator/internal/scoring"
)

func newScoreCmd(app *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "score [file|-]",
		Short: "Score a property record given as JSON",
		Long: `Reads a record in the same JSON shape the API returns in session
snapshots and prints its privacy score. With no argument or "-" the record
is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("unsupported format %q (want json or text)", format)
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open record: %w", err)
				}
				defer f.Close()
				in = f
			}

			record, err := readRecord(in)
			if err != nil {
				return err
			}
			result := scoring.Score(record)
			app.logger.Debug("scored record",
				zap.Float64("score", result.Score),
				zap.String("confidence", string(result.Confidence)))

			out := cmd.OutOrStdout()
			if format == "text" {
				printResult(out, &result)
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func readRecord(r io.Reader) (*model.Record, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var record model.Record
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}

// printResult writes a score in the layout used by the chat command
func printResult(w io.Writer, result *model.ScoreResult) {
	fmt.Fprintf(w, "Privacy score: %.1f / 10 (%s confidence)\n", result.Score, result.Confidence)
	fmt.Fprintf(w, "  between units: %.2f\n", result.Breakdown.BetweenUnits)
	fmt.Fprintf(w, "  between rooms: %.2f\n", result.Breakdown.BetweenRooms)
	fmt.Fprintf(w, "  in the room:   %.2f\n", result.Breakdown.InRoom)
	printList(w, "Strengths", result.Explanation.Strengths)
	printList(w, "Concerns", result.Explanation.Concerns)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", strings.TrimSpace(item))
	}
}
