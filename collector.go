package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// collectFilters is a FilterConfig compiled into matchable form.
type collectFilters struct {
	cfg        FilterConfig
	extensions map[string]bool
	excluded   map[string]bool
	nameWhite  *regexp.Regexp
	nameBlack  *regexp.Regexp
	pathWhite  *regexp.Regexp
	pathBlack  *regexp.Regexp
	ignore     gitignore.IgnoreMatcher
}

// Collect walks root depth-first and returns the files admitted by cfg.
// At each level subdirectories are visited before files, both in
// lexicographic name order, so repeated runs over an unchanged tree return
// the same slice. Symbolic links are opaque leaf entries: they are never
// followed, and a link to a directory is filtered like a file.
func Collect(root string, cfg FilterConfig) ([]FileCandidate, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	filters, err := compileFilters(root, cfg)
	if err != nil {
		return nil, err
	}

	var files []FileCandidate
	if err := collectDir(root, "", filters, &files); err != nil {
		return nil, err
	}
	logger.Debug("collection finished", zap.String("root", root), zap.Int("files", len(files)))
	return files, nil
}

// collectDir visits one directory level. rel is the slash-separated path of
// dir relative to the scan root ("" for the root itself).
func collectDir(dir, rel string, f *collectFilters, out *[]FileCandidate) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	// os.ReadDir sorts by name; split the level so directories come first.
	// DirEntry.IsDir is false for symlinks, which keeps links in the file
	// half of the split even when they point at directories.
	var dirs, plain []os.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry)
		} else {
			plain = append(plain, entry)
		}
	}

	if f.cfg.Recursive {
		for _, entry := range dirs {
			childRel := path.Join(rel, entry.Name())
			if !f.admitDir(filepath.Join(dir, entry.Name()), childRel, entry.Name()) {
				continue
			}
			if err := collectDir(filepath.Join(dir, entry.Name()), childRel, f, out); err != nil {
				return err
			}
		}
	}

	for _, entry := range plain {
		name := entry.Name()
		childRel := path.Join(rel, name)
		info, err := entry.Info()
		if err != nil {
			logger.Warn("could not stat entry", zap.String("path", childRel), zap.Error(err))
			continue
		}
		if !f.admitFile(filepath.Join(dir, name), childRel, name, info.Size()) {
			continue
		}
		*out = append(*out, FileCandidate{
			Path: filepath.Join(dir, name),
			Rel:  childRel,
			Size: info.Size(),
		})
	}
	return nil
}

// admitDir decides whether a subdirectory's subtree is visited at all.
// Regex and extension filters apply to files only, so a directory is pruned
// just by the exclude list, the hidden rule, and gitignore.
func (f *collectFilters) admitDir(full, rel, name string) bool {
	// 1. Exact excludes prune the whole subtree.
	if f.excluded[rel] {
		return false
	}
	// 2. Hidden directories, unless explicitly allowed.
	if f.cfg.ExcludeHidden && !f.cfg.HiddenDirs && isHidden(name) {
		return false
	}
	// 3. .gitignore
	if f.ignore != nil && f.ignore.Match(full, true) {
		return false
	}
	return true
}

// admitFile applies the full filter chain to one non-directory entry.
func (f *collectFilters) admitFile(full, rel, name string, size int64) bool {
	// 1. Hidden files.
	if f.cfg.ExcludeHidden && isHidden(name) {
		return false
	}
	// 2. Exact excludes.
	if f.excluded[rel] {
		return false
	}
	// 3. .gitignore
	if f.ignore != nil && f.ignore.Match(full, false) {
		return false
	}
	// 4. Extension set. An empty set admits everything, including files
	// with no extension at all.
	if f.extensions != nil && !f.extensions[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	// 5. Name regexes.
	if f.nameWhite != nil && !f.nameWhite.MatchString(name) {
		return false
	}
	if f.nameBlack != nil && f.nameBlack.MatchString(name) {
		return false
	}
	// 6. Path regexes, against the slash-separated relative path.
	if f.pathWhite != nil && !f.pathWhite.MatchString(rel) {
		return false
	}
	if f.pathBlack != nil && f.pathBlack.MatchString(rel) {
		return false
	}
	// 7. Size cap.
	if f.cfg.MaxFileSize > 0 && size > f.cfg.MaxFileSize {
		return false
	}
	return true
}

func compileFilters(root string, cfg FilterConfig) (*collectFilters, error) {
	f := &collectFilters{cfg: cfg}

	if len(cfg.Extensions) > 0 {
		f.extensions = make(map[string]bool, len(cfg.Extensions))
		for _, ext := range cfg.Extensions {
			f.extensions[normalizeExt(ext)] = true
		}
	}
	if len(cfg.ExcludePaths) > 0 {
		f.excluded = make(map[string]bool, len(cfg.ExcludePaths))
		for _, p := range cfg.ExcludePaths {
			f.excluded[path.Clean(filepath.ToSlash(p))] = true
		}
	}

	var err error
	if f.nameWhite, err = compilePattern(cfg.NameWhitelist); err != nil {
		return nil, err
	}
	if f.nameBlack, err = compilePattern(cfg.NameBlacklist); err != nil {
		return nil, err
	}
	if f.pathWhite, err = compilePattern(cfg.PathWhitelist); err != nil {
		return nil, err
	}
	if f.pathBlack, err = compilePattern(cfg.PathBlacklist); err != nil {
		return nil, err
	}

	if cfg.UseGitignore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, statErr := os.Stat(gitIgnorePath); statErr == nil {
			matcher, parseErr := gitignore.NewGitIgnore(gitIgnorePath)
			if parseErr != nil {
				logger.Warn("could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(parseErr))
			} else {
				f.ignore = matcher
			}
		}
	}
	return f, nil
}

// compilePattern compiles a filter regex; an empty pattern means "no filter".
func compilePattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", expr, err)
	}
	return re, nil
}

// normalizeExt lowercases an extension and ensures the leading dot, so that
// "go", ".go" and ".GO" all select the same files.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// isHidden reports whether a directory entry name is dot-prefixed.
func isHidden(name string) bool {
	return name != "." && name != ".." && strings.HasPrefix(name, ".")
}
