package main

import "errors"

// Sentinel errors returned by the collection and budgeting pipeline. Callers
// classify failures with errors.Is; the wrapped message carries the detail.
var (
	// ErrPathNotFound means the scan root does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrNotADirectory means the scan root exists but is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrUnknownModel means no tokenizer encoding is registered for the
	// requested model. It aborts a budgeting pass before any file is read.
	ErrUnknownModel = errors.New("unknown tokenizer model")

	// ErrFileUnreadable marks a candidate that could not be read as UTF-8
	// text. It is never fatal; the budgeter records it as a skip reason.
	ErrFileUnreadable = errors.New("file is not readable")
)
