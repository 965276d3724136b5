package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evaluator/internal/config"
	"evaluator/internal/dialogue"
	"evaluator/internal/model"
	"evaluator/internal/service"
)

const prompt = "> "

func newChatCmd(app *cli) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interview about a home in the terminal and print its privacy score",
		Long: `Starts the same conversation the HTTP API runs. Answers are read line by
line until the evaluation finishes or input ends. Without OPENAI_API_KEY, or
with --offline, answers are matched by phrase rules.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			for _, w := range cfg.Warnings {
				app.logger.Warn("configuration", zap.String("warning", w))
			}
			if offline {
				cfg.OpenAI.Enabled = false
			}

			client := service.NewOpenAIClient(&cfg.OpenAI, app.logger)
			chat := service.NewEvaluator(client, nil, dialogue.NewStore(0, app.logger), nil, app.logger)
			defer chat.Close()

			return runChat(cmd, chat, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Do not call the language model")
	return cmd
}

func runChat(cmd *cobra.Command, chat *service.ChatService, in io.Reader, out io.Writer) error {
	start := chat.StartSession()
	printMessages(out, start.Messages)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp, err := chat.SendMessage(cmd.Context(), start.SessionID, line)
		if err != nil {
			return err
		}
		printMessages(out, resp.Replies)
		if resp.Done {
			fmt.Fprintln(out)
			printResult(out, resp.Result)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Conversation ended before the evaluation finished.")
	return nil
}

func printMessages(w io.Writer, messages []model.Message) {
	for _, m := range messages {
		if m.Role == model.RoleAssistant {
			fmt.Fprintln(w, m.Content)
		}
	}
}
