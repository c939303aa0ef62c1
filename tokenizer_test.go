package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTokenizerUnknownModel(t *testing.T) {
	_, err := NewTokenizer(BudgetConfig{Model: "definitely-not-a-model"})
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("NewTokenizer() error = %v, want ErrUnknownModel", err)
	}
	if !strings.Contains(err.Error(), "definitely-not-a-model") {
		t.Errorf("NewTokenizer() error %q does not name the model", err)
	}
}

func TestNewTokenizerMissingFile(t *testing.T) {
	cfg := BudgetConfig{TokenizerFile: filepath.Join(t.TempDir(), "missing.json")}
	if _, err := NewTokenizer(cfg); err == nil {
		t.Fatal("NewTokenizer() with missing tokenizer file expected an error, got nil")
	}
}

func TestTokenizerFileOverridesModel(t *testing.T) {
	// The file path wins over the model, so a bogus model must not be the
	// failure here.
	cfg := BudgetConfig{Model: "definitely-not-a-model", TokenizerFile: filepath.Join(t.TempDir(), "missing.json")}
	_, err := NewTokenizer(cfg)
	if err == nil {
		t.Fatal("NewTokenizer() expected an error, got nil")
	}
	if errors.Is(err, ErrUnknownModel) {
		t.Errorf("NewTokenizer() error = %v, want a file load failure, not ErrUnknownModel", err)
	}
}
