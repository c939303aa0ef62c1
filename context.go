package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// contextSeparator joins file blocks in the assembled document. It is not
// counted against the budget; only the blocks themselves are.
const contextSeparator = "\n\n\n"

// renderBlock formats one file for the context document.
func renderBlock(rel, content string) string {
	return fmt.Sprintf("// File '%s'\n%s\n", rel, content)
}

// BuildContext packs candidates into a context document under cfg.MaxTokens.
// Admission is greedy in input order and whole files only: a candidate that
// does not fit is skipped, never truncated, and the pass continues so a
// later smaller file may still fit. Unreadable candidates become skips with
// a reason; an unknown model aborts before any file is read.
func BuildContext(candidates []FileCandidate, cfg BudgetConfig) (*ContextResult, error) {
	tok, err := NewTokenizer(cfg)
	if err != nil {
		return nil, err
	}
	defer tok.Close()
	return buildContextWith(tok, candidates, cfg), nil
}

// buildContextWith runs the budgeting pass with an already constructed
// tokenizer. The pass is a single blocking loop on the calling goroutine;
// each candidate's file is read and closed before the next one is touched.
func buildContextWith(tok Tokenizer, candidates []FileCandidate, cfg BudgetConfig) *ContextResult {
	result := &ContextResult{}
	var blocks []string

	for _, cand := range candidates {
		content, err := readCandidate(cand)
		if err != nil {
			logger.Debug("skipping unreadable candidate", zap.String("path", cand.Path), zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedFile{FileCandidate: cand, Reason: SkipUnreadable, Err: err})
			continue
		}
		content = strings.TrimSpace(content)
		if cfg.SkipEmpty && content == "" {
			result.Skipped = append(result.Skipped, SkippedFile{FileCandidate: cand, Reason: SkipEmptyFile})
			continue
		}

		block := renderBlock(cand.Rel, content)
		cost, err := tok.Count(block)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{FileCandidate: cand, Reason: SkipTokenizer, Err: err})
			continue
		}

		// A block that lands exactly on the budget is still admitted.
		if result.TotalTokens+cost > cfg.MaxTokens {
			result.Skipped = append(result.Skipped, SkippedFile{FileCandidate: cand, Reason: SkipBudget})
			continue
		}
		result.Included = append(result.Included, cand)
		result.TotalTokens += cost
		blocks = append(blocks, block)
	}

	result.Text = strings.Join(blocks, contextSeparator)
	logger.Debug("context assembled",
		zap.Int("included", len(result.Included)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("tokens", result.TotalTokens))
	return result
}

// readCandidate returns the candidate's UTF-8 content, preferring preloaded
// content over a disk read.
func readCandidate(cand FileCandidate) (string, error) {
	data := cand.Content
	if data == nil {
		var err error
		data, err = os.ReadFile(cand.Path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrFileUnreadable, err)
		}
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrFileUnreadable, cand.Rel)
	}
	return string(data), nil
}

var contextCmd = &cobra.Command{
	Use:   "context [PATH]",
	Short: "Assemble the context document without calling the API",
	Long: `Context runs the collection and budgeting pipeline and prints the
resulting document. Useful for inspecting exactly what generate would send,
or for pasting into a chat by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if pdfPath := viper.GetString("pdf"); pdfPath != "" {
			return writePDF(pdfPath, "Prompt context", result.Text)
		}
		return deliver(result.Text)
	},
}
