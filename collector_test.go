package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeTree creates files under root from rel path to content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func rels(files []FileCandidate) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestCollectOrdering(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"zz.txt":    "z",
		"aa.txt":    "a",
		"b/y.txt":   "y",
		"b/x.txt":   "x",
		"a/c.txt":   "c",
		"a/d/z.txt": "z",
	})

	got, err := Collect(root, FilterConfig{Recursive: true})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	want := []string{"a/d/z.txt", "a/c.txt", "b/x.txt", "b/y.txt", "aa.txt", "zz.txt"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() order = %v, want %v", rels(got), want)
	}

	// An unchanged tree must collect identically on every run.
	again, err := Collect(root, FilterConfig{Recursive: true})
	if err != nil {
		t.Fatalf("Collect() second run error = %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("Collect() is not deterministic: %v vs %v", rels(got), rels(again))
	}
}

func TestCollectPathErrors(t *testing.T) {
	root := t.TempDir()

	_, err := Collect(filepath.Join(root, "missing"), FilterConfig{})
	if !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Collect(missing) error = %v, want ErrPathNotFound", err)
	}

	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Collect(file, FilterConfig{})
	if !errors.Is(err, ErrNotADirectory) {
		t.Errorf("Collect(file) error = %v, want ErrNotADirectory", err)
	}
}

func TestCollectExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":   "package main",
		"notes.MD":  "notes",
		"data.txt":  "data",
		"README":    "readme",
		"sub/a.go":  "package sub",
		"sub/b.yml": "b: 1",
	})

	// Extensions normalize: dot optional, case-insensitive on both sides.
	got, err := Collect(root, FilterConfig{Recursive: true, Extensions: []string{"go", ".Md"}})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{"sub/a.go", "main.go", "notes.MD"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}

func TestCollectExcludePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.txt":          "k",
		"notes/keep.txt":    "k",
		"notes/skip.txt":    "s",
		"vendor/lib/dep.go": "package dep",
	})

	cfg := FilterConfig{Recursive: true, ExcludePaths: []string{"vendor", "notes/skip.txt"}}
	got, err := Collect(root, cfg)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{"notes/keep.txt", "keep.txt"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}

func TestCollectNonRecursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"top.txt":        "t",
		"sub/nested.txt": "n",
	})

	got, err := Collect(root, FilterConfig{})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{"top.txt"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}

func TestCollectHidden(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".env":        "secret",
		".git/config": "[core]",
		"src/app.go":  "package app",
	})

	tests := []struct {
		name string
		cfg  FilterConfig
		want []string
	}{
		{
			name: "zero config keeps hidden entries",
			cfg:  FilterConfig{Recursive: true},
			want: []string{".git/config", "src/app.go", ".env"},
		},
		{
			name: "exclude hidden drops files and subtrees",
			cfg:  FilterConfig{Recursive: true, ExcludeHidden: true},
			want: []string{"src/app.go"},
		},
		{
			name: "hidden dirs descends but still drops dot files",
			cfg:  FilterConfig{Recursive: true, ExcludeHidden: true, HiddenDirs: true},
			want: []string{".git/config", "src/app.go"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(root, tt.cfg)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if !reflect.DeepEqual(rels(got), tt.want) {
				t.Errorf("Collect() = %v, want %v", rels(got), tt.want)
			}
		})
	}
}

func TestCollectGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":    "*.log\nbuild/\n",
		"app.log":       "log",
		"keep.txt":      "k",
		"build/out.txt": "o",
	})

	got, err := Collect(root, FilterConfig{Recursive: true, UseGitignore: true})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{".gitignore", "keep.txt"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}

func TestCollectRegexFilters(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":     "print()",
		"config.toml": "[tool]",
		"__init__.py": "",
		"venv/lib.py": "x",
		"README.md":   "readme",
	})

	cfg := FilterConfig{
		Recursive:     true,
		NameWhitelist: `\.py$|\.toml$`,
		NameBlacklist: `__\w+__\.py$`,
		PathBlacklist: `venv/`,
	}
	got, err := Collect(root, cfg)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{"config.toml", "main.py"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}

func TestCollectInvalidPattern(t *testing.T) {
	root := t.TempDir()
	if _, err := Collect(root, FilterConfig{NameWhitelist: "("}); err == nil {
		t.Error("Collect() with invalid regex expected an error, got nil")
	}
}

func TestCollectMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"small.txt": "0123456789",
		"large.txt": string(make([]byte, 100)),
	})

	got, err := Collect(root, FilterConfig{Recursive: true, MaxFileSize: 50})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	want := []string{"small.txt"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}

func TestCollectEverythingByDefault(t *testing.T) {
	root := t.TempDir()
	tree := map[string]string{
		".hidden":        "h",
		"a.txt":          "a",
		"deep/b.txt":     "b",
		"deep/down/c.md": "c",
	}
	writeTree(t, root, tree)

	got, err := Collect(root, FilterConfig{Recursive: true})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != len(tree) {
		t.Fatalf("Collect() returned %d files, want %d", len(got), len(tree))
	}
	for _, f := range got {
		if _, ok := tree[f.Rel]; !ok {
			t.Errorf("Collect() returned unexpected file %q", f.Rel)
		}
	}
}

func TestCollectSymlinks(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"target.txt":   "t",
		"sub/real.txt": "r",
	})
	if err := os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "dirlink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "target.txt"), filepath.Join(root, "filelink")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken")); err != nil {
		t.Fatal(err)
	}

	got, err := Collect(root, FilterConfig{Recursive: true})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	// Links are leaf entries: dirlink is never descended into, and even a
	// dangling link is listed.
	want := []string{"sub/real.txt", "broken", "dirlink", "filelink", "target.txt"}
	if !reflect.DeepEqual(rels(got), want) {
		t.Errorf("Collect() = %v, want %v", rels(got), want)
	}
}
