package main

// FileCandidate is a file that survived the collection filters and may be
// packed into the context document.
type FileCandidate struct {
	Path    string // absolute path on disk, or the source URL for fetched documents
	Rel     string // path relative to the scanned root, slash-separated
	Size    int64
	Content []byte // preloaded content for non-filesystem sources; nil means read Path
}

// FilterConfig controls which files Collect returns. The zero value filters
// nothing: every regular file under the root becomes a candidate.
type FilterConfig struct {
	Extensions    []string // admit only these extensions; empty admits all
	ExcludePaths  []string // exact relative paths to drop; a directory prunes its subtree
	Recursive     bool
	ExcludeHidden bool   // drop dot-prefixed files and directories
	HiddenDirs    bool   // with ExcludeHidden, still descend into dot-prefixed directories
	NameWhitelist string // regex the base name must match; empty matches any
	NameBlacklist string // regex the base name must not match
	PathWhitelist string // regex the relative path must match; empty matches any
	PathBlacklist string // regex the relative path must not match
	UseGitignore  bool   // honor .gitignore at the root
	MaxFileSize   int64  // bytes; 0 means unlimited
}

// BudgetConfig controls tokenization and the context token budget.
type BudgetConfig struct {
	MaxTokens     int    // context budget; 0 is valid and skips everything
	Model         string // selects the tokenizer encoding
	TokenizerFile string // local HuggingFace tokenizer.json; overrides Model
	SkipEmpty     bool   // skip files whose trimmed content is empty
}

// SkipReason says why a candidate was left out of the context document.
type SkipReason int

const (
	SkipBudget SkipReason = iota
	SkipUnreadable
	SkipEmptyFile
	SkipTokenizer
)

func (r SkipReason) String() string {
	switch r {
	case SkipBudget:
		return "budget exceeded"
	case SkipUnreadable:
		return "unreadable"
	case SkipEmptyFile:
		return "empty"
	case SkipTokenizer:
		return "tokenizer failure"
	}
	return "unknown"
}

// SkippedFile is a candidate that did not make it into the context document.
type SkippedFile struct {
	FileCandidate
	Reason SkipReason
	Err    error // diagnostic detail, may be nil
}

// ContextResult is the outcome of one budgeting pass. Included and Skipped
// partition the input candidates and both preserve input order.
type ContextResult struct {
	Included    []FileCandidate
	Skipped     []SkippedFile
	TotalTokens int
	Text        string
}

// FileReport is one row of the scan table.
type FileReport struct {
	FileCandidate
	Tokens   int
	Language string
	Err      error
}

// Summary holds aggregated information about a scan.
type Summary struct {
	Files  int
	Bytes  int64
	Tokens int
}
