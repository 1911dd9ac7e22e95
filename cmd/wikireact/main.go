// Command wikireact answers a factual question from the command line by
// reasoning over Wikipedia with an OpenAI-compatible model.
//
// Usage:
//
//	export OPENAI_API_KEY=sk-...
//	wikireact "When was the first crewed moon landing?"
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/tugaep/wikireact"
	"github.com/tugaep/wikireact/patterns/react"
	"github.com/tugaep/wikireact/providers/observability/slogobs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		model      string
		maxTurns   int
		promptFile string
		lang       string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "wikireact [question]",
		Short: "Answer a question by reasoning over Wikipedia",
		Long: `wikireact runs a bounded reasoning loop: the model alternates between
thinking and acting on Wikipedia (search, lookup) until it commits to a
final answer or runs out of turns.

Reads OPENAI_API_KEY from the environment or a .env file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			opts := []wikireact.Option{
				wikireact.WithModel(model),
				wikireact.WithTurnBudget(maxTurns),
			}
			if promptFile != "" {
				opts = append(opts, wikireact.WithPromptFile(promptFile))
			}
			if lang != "" {
				opts = append(opts, wikireact.WithLanguage(lang))
			}
			if verbose {
				opts = append(opts, wikireact.WithObserver(
					slogobs.New(slogobs.WithLevel(slog.LevelDebug))))
			}

			agent, err := wikireact.New(opts...)
			if err != nil {
				return err
			}

			result, err := agent.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Finished {
				fmt.Fprintf(out, "No final answer after %d turns.\n", result.Turns)
			} else {
				fmt.Fprintln(out, result.Answer)
			}
			if len(result.Sources) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Sources:")
				for i, src := range result.Sources {
					fmt.Fprintf(out, "  %s (%s)\n", result.Searched[i], src)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", wikireact.DefaultModel, "model identifier")
	cmd.Flags().IntVarP(&maxTurns, "max-turns", "t", react.DefaultTurnBudget, "maximum reasoning turns per question")
	cmd.Flags().StringVarP(&promptFile, "prompt-file", "p", "", "file to persist and reload the base prompt")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Wikipedia language edition (default English)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every turn, action, and tool call")

	return cmd
}
