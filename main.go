package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// OpenAI
	apiToken      string
	apiBaseURL    string
	openaiModel   string
	maxTokens     int
	contextTokens int

	// Tokenizer
	tokenizerModel string
	tokenizerFile  string

	// Filtering
	fileExtensions []string
	excludePaths   []string
	nameWhitelist  string
	nameBlacklist  string
	pathWhitelist  string
	pathBlacklist  string
	noRecursive    bool
	showHidden     bool
	hiddenDirs     bool
	noIgnore       bool
	maxSizeBytes   int64
	skipEmpty      bool

	// Extra sources
	webURLs []string

	// Output
	outputFile      string
	copyToClipboard bool
	pdfOutputFile   string
	noColor         bool

	// Modes
	presetName      string
	interactiveMode bool
	verbose         bool

	langData *LoadedLanguageData
)

// logger stays a no-op unless --verbose swaps in a development logger.
var logger = zap.NewNop()

// version is the application version, set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "openai-helper",
	Short: "Pack project files into an OpenAI prompt context under a token budget",
	Long: `openai-helper collects a project's files, packs as many of them as fit
into a token budget, and sends the result to the OpenAI chat completions API
together with your prompt. The scan and context commands run the same
pipeline without calling the API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogger, initConfig, initColors, initLanguages, applyPresetFlag)

	flags := rootCmd.PersistentFlags()

	// OpenAI
	flags.StringVar(&apiToken, "token", "", "OpenAI API token (defaults to OPENAI_API_KEY)")
	viper.BindPFlag("openai_token", flags.Lookup("token"))
	flags.StringVar(&apiBaseURL, "base-url", "", "Override the OpenAI API base URL")
	viper.BindPFlag("openai_base_url", flags.Lookup("base-url"))
	flags.StringVarP(&openaiModel, "model", "m", defaultModel, "Model used for completions")
	viper.BindPFlag("openai_model", flags.Lookup("model"))
	flags.IntVar(&maxTokens, "max-tokens", 500, "Completion token limit sent to the API")
	viper.BindPFlag("openai_max_tokens", flags.Lookup("max-tokens"))
	flags.IntVar(&contextTokens, "context-tokens", 6000, "Token budget for the packed context")
	viper.BindPFlag("context_tokens", flags.Lookup("context-tokens"))

	// Tokenizer
	flags.StringVar(&tokenizerModel, "tokenizer-model", "", "Count tokens with this model's encoding instead of the completion model's")
	viper.BindPFlag("tokenizer_model", flags.Lookup("tokenizer-model"))
	flags.StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local HuggingFace tokenizer.json")
	viper.BindPFlag("tokenizer_file", flags.Lookup("tokenizer-file"))

	// Filtering
	flags.StringSliceVarP(&fileExtensions, "ext", "e", nil, "Only include these extensions (comma-separated, e.g. go,md)")
	viper.BindPFlag("extensions", flags.Lookup("ext"))
	flags.StringSliceVar(&excludePaths, "exclude", nil, "Relative paths to exclude (a directory excludes its subtree)")
	viper.BindPFlag("exclude_paths", flags.Lookup("exclude"))
	flags.StringVar(&nameWhitelist, "name-whitelist", "", "Regex a file name must match")
	viper.BindPFlag("name_whitelist", flags.Lookup("name-whitelist"))
	flags.StringVar(&nameBlacklist, "name-blacklist", "", "Regex that rejects matching file names")
	viper.BindPFlag("name_blacklist", flags.Lookup("name-blacklist"))
	flags.StringVar(&pathWhitelist, "path-whitelist", "", "Regex a relative path must match")
	viper.BindPFlag("path_whitelist", flags.Lookup("path-whitelist"))
	flags.StringVar(&pathBlacklist, "path-blacklist", "", "Regex that rejects matching relative paths")
	viper.BindPFlag("path_blacklist", flags.Lookup("path-blacklist"))
	flags.BoolVar(&noRecursive, "no-recursive", false, "Only take direct children of the root")
	viper.BindPFlag("no_recursive", flags.Lookup("no-recursive"))
	flags.BoolVarP(&showHidden, "hidden", "H", false, "Include hidden files and directories")
	viper.BindPFlag("hidden", flags.Lookup("hidden"))
	flags.BoolVar(&hiddenDirs, "hidden-dirs", false, "Descend into hidden directories even without --hidden")
	viper.BindPFlag("hidden_dirs", flags.Lookup("hidden-dirs"))
	flags.BoolVar(&noIgnore, "no-ignore", false, "Don't respect the root .gitignore")
	viper.BindPFlag("no_ignore", flags.Lookup("no-ignore"))
	flags.Int64VarP(&maxSizeBytes, "max-size", "s", 0, "Maximum file size in bytes (0 for no limit)")
	viper.BindPFlag("max_size", flags.Lookup("max-size"))
	flags.BoolVar(&skipEmpty, "skip-empty", false, "Skip files whose trimmed content is empty")
	viper.BindPFlag("skip_empty", flags.Lookup("skip-empty"))

	// Extra sources
	flags.StringSliceVar(&webURLs, "url", nil, "Fetch these pages as Markdown and budget them like files")
	viper.BindPFlag("urls", flags.Lookup("url"))

	// Output
	flags.StringVarP(&outputFile, "file", "f", "", "Save output to the specified file")
	viper.BindPFlag("file", flags.Lookup("file"))
	flags.BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy output to the clipboard")
	viper.BindPFlag("clipboard", flags.Lookup("clipboard"))
	flags.StringVar(&pdfOutputFile, "pdf", "", "Save output as a PDF document")
	viper.BindPFlag("pdf", flags.Lookup("pdf"))
	flags.BoolVar(&noColor, "no-color", false, "Disable colored terminal output")
	viper.BindPFlag("no_color", flags.Lookup("no-color"))

	// Modes
	flags.StringVarP(&presetName, "preset", "P", "", "Apply a named filter preset")
	flags.BoolVarP(&interactiveMode, "interactive", "i", false, "Pick files interactively from the collected candidates")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	viper.SetDefault("openai_model", defaultModel)
	viper.SetDefault("openai_max_tokens", 500)
	viper.SetDefault("context_tokens", 6000)

	rootCmd.AddCommand(scanCmd, contextCmd, generateCmd, modelsCmd, presetsCmd, configCmd)
}

// initLogger swaps in a development logger when --verbose is set.
func initLogger() {
	if !verbose {
		return
	}
	l, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		return
	}
	logger = l
}

// initLanguages loads optional language labels for the scan table. Missing
// definitions just mean unlabeled rows.
func initLanguages() {
	data, err := loadLanguageData()
	if err != nil {
		logger.Debug("no language definitions", zap.Error(err))
		return
	}
	langData = data
}

// applyPresetFlag overlays the requested preset once flags, env and config
// are merged.
func applyPresetFlag() {
	if presetName == "" {
		return
	}
	p, err := loadPreset(presetName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyPreset(p)
	logger.Debug("preset applied", zap.String("name", presetName))
}

// gatherCandidates collects the root directory plus any --url documents,
// then narrows the list interactively when requested.
func gatherCandidates(root string) ([]FileCandidate, error) {
	candidates, err := Collect(root, filterConfig())
	if err != nil {
		return nil, err
	}
	for _, pageURL := range viper.GetStringSlice("urls") {
		doc, err := fetchWebDocument(pageURL)
		if err != nil {
			return nil, fmt.Errorf("could not fetch %s: %w", pageURL, err)
		}
		candidates = append(candidates, doc)
	}
	if interactiveMode {
		candidates, err = pickCandidates(candidates)
		if err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		if errors.Is(err, errSelectionAborted) {
			fmt.Fprintln(os.Stderr, "Selection aborted.")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
