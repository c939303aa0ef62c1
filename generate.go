package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// defaultPrompt asks for a README when the user gives no prompt of their own.
const defaultPrompt = "Write a brief README.md file for this project. " +
	"I will provide all of the files' contents along with the files' relative paths. " +
	"Do not, unless necessary, comment on individual files but rather on the project's usage and purpose."

var (
	promptText string
	promptFile string
)

var generateCmd = &cobra.Command{
	Use:   "generate [PATH]",
	Short: "Send the prompt and the packed context to OpenAI and print the answer",
	Long: `Generate assembles the context document, sends it to the chat
completions API together with your prompt and prints the model's answer.
Without --prompt it asks for a project README.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := resolvePrompt()
		if err != nil {
			return err
		}
		root, cleanup, err := resolveRoot(args)
		if err != nil {
			return err
		}
		defer cleanup()

		candidates, err := gatherCandidates(root)
		if err != nil {
			return err
		}
		result, err := BuildContext(candidates, budgetConfig())
		if err != nil {
			return err
		}
		reportSkipped(result.Skipped)
		statusf("Packed %d of %d files into %d tokens.\n",
			len(result.Included), len(candidates), result.TotalTokens)

		cfg := loadConfig()
		client, err := NewClient(cfg)
		if err != nil {
			return err
		}

		var completion *Completion
		err = withSpinner("Waiting for "+cfg.Model+"...", func() error {
			var err error
			completion, err = client.Complete(cmd.Context(), prompt, result.Text, cfg.MaxTokens)
			return err
		})
		if err != nil {
			return err
		}
		logger.Debug("completion received",
			zap.Int64("prompt_tokens", completion.Usage.PromptTokens),
			zap.Int64("completion_tokens", completion.Usage.CompletionTokens),
			zap.Int64("total_tokens", completion.Usage.TotalTokens))

		if pdfPath := viper.GetString("pdf"); pdfPath != "" {
			return writePDF(pdfPath, "Generated answer", completionReport(prompt, completion, result))
		}
		return deliver(completion.Content)
	},
}

func init() {
	flags := generateCmd.Flags()
	flags.StringVarP(&promptText, "prompt", "p", "", "Prompt to send along with the context")
	viper.BindPFlag("prompt", flags.Lookup("prompt"))
	flags.StringVar(&promptFile, "prompt-file", "", "Read the prompt from a file")
	viper.BindPFlag("prompt_file", flags.Lookup("prompt-file"))
}

// resolvePrompt picks --prompt over --prompt-file over the default.
func resolvePrompt() (string, error) {
	if prompt := viper.GetString("prompt"); prompt != "" {
		return prompt, nil
	}
	if path := viper.GetString("prompt_file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("could not read prompt file: %w", err)
		}
		prompt := strings.TrimSpace(string(data))
		if prompt == "" {
			return "", fmt.Errorf("prompt file %s is empty", path)
		}
		return prompt, nil
	}
	return defaultPrompt, nil
}

// withSpinner runs fn behind a stderr spinner when stderr is a terminal.
func withSpinner(message string, fn func() error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}

// completionReport lays out prompt, answer and context stats for the PDF.
func completionReport(prompt string, completion *Completion, result *ContextResult) string {
	var builder strings.Builder
	builder.WriteString("Prompt:\n")
	builder.WriteString(prompt)
	builder.WriteString("\n\n")
	builder.WriteString("Answer:\n")
	builder.WriteString(completion.Content)
	builder.WriteString("\n\n")
	fmt.Fprintf(&builder, "Context: %d files, %d tokens\n", len(result.Included), result.TotalTokens)
	for _, cand := range result.Included {
		fmt.Fprintf(&builder, "  %s\n", cand.Rel)
	}
	return builder.String()
}
