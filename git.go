package main

import (
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// isGitURL reports whether input names a git repository rather than a local
// path. The .git suffix and the SSH shorthand are unambiguous; plain
// https:// URLs are not treated as repositories.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@")
}

// resolveRoot turns the positional PATH argument into a scannable local
// directory, cloning git URLs into a temporary directory first. The returned
// cleanup removes the clone and is a no-op for plain paths.
func resolveRoot(args []string) (string, func(), error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if !isGitURL(root) {
		return root, func() {}, nil
	}
	dir, err := cloneRepo(root)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		logger.Debug("removing clone", zap.String("dir", dir))
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not remove %s: %v\n", dir, err)
		}
	}
	return dir, cleanup, nil
}

// cloneRepo clones the default branch of url into a fresh temporary
// directory and returns its path. Clone progress goes to stderr so piped
// product output stays clean.
func cloneRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "openai-helper-git-")
	if err != nil {
		return "", fmt.Errorf("could not create temporary directory: %w", err)
	}

	statusf("Cloning %s...\n", url)
	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		Progress:      os.Stderr,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("could not clone %s: %w", url, err)
	}

	logger.Debug("repository cloned", zap.String("url", url), zap.String("dir", tempDir))
	return tempDir, nil
}
