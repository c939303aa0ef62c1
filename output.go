package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	warnColor = color.New(color.FgYellow)
	boldColor = color.New(color.Bold)
)

// initColors disables ANSI output whenever the product text leaves the
// terminal: piped stdout, --file, --pdf or --clipboard.
func initColors() {
	if viper.GetBool("no_color") ||
		viper.GetString("file") != "" ||
		viper.GetString("pdf") != "" ||
		viper.GetBool("clipboard") ||
		!term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
}

// statusf prints progress messages to stderr so they never mix into piped
// product output.
func statusf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// reportSkipped lists files left out of the context document on stderr.
func reportSkipped(skipped []SkippedFile) {
	for _, s := range skipped {
		if s.Err != nil {
			warnColor.Fprintf(os.Stderr, "skipped %s: %s (%v)\n", s.Rel, s.Reason, s.Err)
		} else {
			warnColor.Fprintf(os.Stderr, "skipped %s: %s\n", s.Rel, s.Reason)
		}
	}
}

// reportUnreadable warns about scan rows whose content could not be counted.
func reportUnreadable(reports []FileReport) {
	for _, r := range reports {
		if r.Err != nil {
			warnColor.Fprintf(os.Stderr, "could not read %s: %v\n", r.Rel, r.Err)
		}
	}
}

// renderReportTable formats scan rows as an aligned table with a totals line.
func renderReportTable(reports []FileReport, summary Summary) string {
	const (
		pathHeader     = "PATH"
		languageHeader = "LANGUAGE"
		sizeHeader     = "SIZE"
		tokensHeader   = "TOKENS"
	)

	pathWidth := len(pathHeader)
	languageWidth := len(languageHeader)
	sizeWidth := len(sizeHeader)
	tokensWidth := len(tokensHeader)

	type row struct {
		path, language, size, tokens string
	}
	rows := make([]row, 0, len(reports))
	for _, r := range reports {
		language := r.Language
		if language == "" {
			language = "-"
		}
		tokens := "-"
		if r.Err == nil {
			tokens = fmt.Sprintf("%d", r.Tokens)
		}
		rw := row{path: r.Rel, language: language, size: humanSize(r.Size), tokens: tokens}
		rows = append(rows, rw)

		pathWidth = max(pathWidth, len(rw.path))
		languageWidth = max(languageWidth, len(rw.language))
		sizeWidth = max(sizeWidth, len(rw.size))
		tokensWidth = max(tokensWidth, len(rw.tokens))
	}

	var builder strings.Builder
	header := fmt.Sprintf("%-*s  %-*s  %*s  %*s",
		pathWidth, pathHeader, languageWidth, languageHeader,
		sizeWidth, sizeHeader, tokensWidth, tokensHeader)
	builder.WriteString(boldColor.Sprint(header))
	builder.WriteString("\n")
	for _, rw := range rows {
		fmt.Fprintf(&builder, "%-*s  %-*s  %*s  %*s\n",
			pathWidth, rw.path, languageWidth, rw.language,
			sizeWidth, rw.size, tokensWidth, rw.tokens)
	}
	fmt.Fprintf(&builder, "\n%d files, %s, %d tokens\n",
		summary.Files, humanSize(summary.Bytes), summary.Tokens)
	return builder.String()
}

// humanSize formats a byte count with binary units.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

type treeNode struct {
	name     string
	children map[string]*treeNode
	isFile   bool
}

func (t *treeNode) child(name string) *treeNode {
	if t.children == nil {
		t.children = make(map[string]*treeNode)
	}
	node, ok := t.children[name]
	if !ok {
		node = &treeNode{name: name}
		t.children[name] = node
	}
	return node
}

// renderTree draws the candidates as a directory tree rooted at root.
// Fetched documents have no place in the hierarchy and are listed flat at
// the end.
func renderTree(root string, candidates []FileCandidate) string {
	label := root
	if abs, err := filepath.Abs(root); err == nil {
		label = filepath.Base(abs)
	}
	top := &treeNode{name: label}

	var fetched []string
	for _, cand := range candidates {
		if cand.Content != nil {
			fetched = append(fetched, cand.Rel)
			continue
		}
		node := top
		parts := strings.Split(cand.Rel, "/")
		for _, part := range parts[:len(parts)-1] {
			node = node.child(part)
		}
		node.child(parts[len(parts)-1]).isFile = true
	}

	var builder strings.Builder
	builder.WriteString(top.name)
	builder.WriteString("\n")
	writeTreeLevel(&builder, top, "")
	for _, rel := range fetched {
		builder.WriteString(rel)
		builder.WriteString("\n")
	}
	return builder.String()
}

func writeTreeLevel(builder *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := node.children[names[i]], node.children[names[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return names[i] < names[j]
	})

	for i, name := range names {
		child := node.children[name]
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(child.name)
		if !child.isFile {
			builder.WriteString("/")
		}
		builder.WriteString("\n")
		writeTreeLevel(builder, child, childPrefix)
	}
}

// deliver routes product text to --file, the clipboard or stdout. A failed
// clipboard write falls back to stdout so the text is never lost.
func deliver(text string) error {
	if outputFile := viper.GetString("file"); outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(text), 0o644); err != nil {
			return fmt.Errorf("could not write %s: %w", outputFile, err)
		}
		statusf("Output saved to %s\n", outputFile)
		return nil
	}
	if viper.GetBool("clipboard") {
		if err := clipboard.WriteAll(text); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
		} else {
			statusf("Output copied to clipboard.\n")
			return nil
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Print(text)
	return nil
}
