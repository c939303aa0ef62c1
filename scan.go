package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanTree bool

var scanCmd = &cobra.Command{
	Use:   "scan [PATH]",
	Short: "List the files that pass the filters, with sizes and token counts",
	Long: `Scan runs the collection filters and reports every candidate with its
size and token count, without assembling a context document. Use it to tune
filters before spending API tokens.`,
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
		tok, err := NewTokenizer(budgetConfig())
		if err != nil {
			return err
		}
		defer tok.Close()

		reports, summary := buildReports(tok, langData, candidates)
		reportUnreadable(reports)

		var text string
		if scanTree {
			text = renderTree(root, candidates)
		} else {
			text = renderReportTable(reports, summary)
		}
		if pdfPath := viper.GetString("pdf"); pdfPath != "" {
			return writePDF(pdfPath, "Project scan", text)
		}
		return deliver(text)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanTree, "tree", false, "Render the candidates as a directory tree instead of a table")
}

// buildReports counts tokens for each candidate's trimmed content. Rows that
// cannot be read keep their place with the error recorded; the summary sums
// bytes over all rows but tokens only over countable ones.
func buildReports(tok Tokenizer, ld *LoadedLanguageData, candidates []FileCandidate) ([]FileReport, Summary) {
	reports := make([]FileReport, 0, len(candidates))
	summary := Summary{Files: len(candidates)}

	for _, cand := range candidates {
		report := FileReport{FileCandidate: cand, Language: ld.LanguageFor(cand.Rel)}
		summary.Bytes += cand.Size

		content, err := readCandidate(cand)
		if err == nil {
			report.Tokens, err = tok.Count(strings.TrimSpace(content))
		}
		if err != nil {
			report.Err = err
		} else {
			summary.Tokens += report.Tokens
		}
		reports = append(reports, report)
	}
	return reports, summary
}
