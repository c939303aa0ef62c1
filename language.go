package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LanguageInfo holds the detection-relevant fields of one languages.yml entry.
type LanguageInfo struct {
	Type       string   `yaml:"type"`
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// LoadedLanguageData maps extensions and exact filenames to language names.
type LoadedLanguageData struct {
	byExtension map[string]string
	byFilename  map[string]string
}

// loadLanguageData parses languages.yml from the config directory or the
// current directory. The file is optional; callers treat an error as "no
// labels" rather than a failure.
func loadLanguageData() (*LoadedLanguageData, error) {
	searchPaths := []string{configDir(), "."}

	var langFilePath string
	for _, p := range searchPaths {
		testPath := filepath.Join(p, "languages.yml")
		if _, err := os.Stat(testPath); err == nil {
			langFilePath = testPath
			break
		}
	}
	if langFilePath == "" {
		return nil, fmt.Errorf("languages.yml not found")
	}

	yamlFile, err := os.ReadFile(langFilePath)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", langFilePath, err)
	}

	var langs map[string]LanguageInfo
	if err := yaml.Unmarshal(yamlFile, &langs); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", langFilePath, err)
	}

	data := &LoadedLanguageData{
		byExtension: make(map[string]string),
		byFilename:  make(map[string]string),
	}

	// Iterate names in sorted order so ties between languages claiming the
	// same extension resolve the same way on every run.
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := langs[name]
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			if data.byExtension[lowerExt] == "" {
				data.byExtension[lowerExt] = name
			}
		}
		for _, fname := range info.Filenames {
			if data.byFilename[fname] == "" {
				data.byFilename[fname] = name
			}
		}
	}

	logger.Debug("language definitions loaded",
		zap.String("path", langFilePath),
		zap.Int("languages", len(langs)),
		zap.Int("extensions", len(data.byExtension)),
		zap.Int("filenames", len(data.byFilename)))
	return data, nil
}

// LanguageFor returns the language name for a path, or "" when unknown. An
// exact filename match (Makefile, Dockerfile) wins over the extension.
func (ld *LoadedLanguageData) LanguageFor(path string) string {
	if ld == nil {
		return ""
	}
	baseName := filepath.Base(path)
	if lang, ok := ld.byFilename[baseName]; ok {
		return lang
	}
	if ext := strings.ToLower(filepath.Ext(baseName)); ext != "" {
		if lang, ok := ld.byExtension[ext]; ok {
			return lang
		}
	}
	return ""
}
