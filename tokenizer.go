package main

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	"go.uber.org/zap"
)

// Tokenizer counts tokens the way the target model does.
type Tokenizer interface {
	Count(text string) (int, error)
	Close()
}

// defaultModel is used when no model is configured anywhere.
const defaultModel = "gpt-4"

// NewTokenizer picks the tokenizer for cfg: a local HuggingFace
// tokenizer.json when cfg.TokenizerFile is set, otherwise the tiktoken
// encoding registered for cfg.Model. A model without a registered encoding
// fails with ErrUnknownModel; there is no fallback encoding.
func NewTokenizer(cfg BudgetConfig) (Tokenizer, error) {
	if cfg.TokenizerFile != "" {
		return loadHuggingFace(cfg.TokenizerFile)
	}
	return loadTiktoken(cfg.Model)
}

func loadTiktoken(model string) (Tokenizer, error) {
	if model == "" {
		model = defaultModel
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownModel, model, err)
	}
	logger.Debug("tiktoken encoding loaded", zap.String("model", model))
	return &tiktokenCounter{ttk: tke}, nil
}

func loadHuggingFace(file string) (Tokenizer, error) {
	htk, err := pretrained.FromFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from file %s: %w", file, err)
	}
	logger.Debug("huggingface tokenizer loaded", zap.String("file", file))
	return &hfCounter{htk: htk}, nil
}

// --- Tiktoken ---

type tiktokenCounter struct {
	ttk *tiktoken.Tiktoken
}

// Count uses ordinary encoding so that special-token text inside file
// contents is counted as plain text rather than rejected.
func (c *tiktokenCounter) Count(text string) (int, error) {
	return len(c.ttk.EncodeOrdinary(text)), nil
}

func (c *tiktokenCounter) Close() {
	// No explicit close needed for tiktoken-go.
}

// --- HuggingFace (sugarme) ---

type hfCounter struct {
	htk *hf.Tokenizer
}

func (c *hfCounter) Count(text string) (int, error) {
	en, err := c.htk.EncodeSingle(text)
	if err != nil {
		return 0, fmt.Errorf("encode failed: %w", err)
	}
	return len(en.Tokens), nil
}

func (c *hfCounter) Close() {
	// sugarme/tokenizer has no explicit Close/Free method.
}
