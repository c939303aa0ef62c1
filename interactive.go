package main

import (
	"errors"
	"fmt"
	"sort"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// errSelectionAborted signals that the user left the fuzzy finder without
// confirming a selection. The command exits cleanly rather than failing.
var errSelectionAborted = errors.New("selection aborted")

// pickCandidates narrows an already-filtered candidate list through the
// fuzzy finder. The returned slice keeps the original collection order no
// matter in which order the entries were picked.
func pickCandidates(candidates []FileCandidate) ([]FileCandidate, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i].Rel
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Press Tab to multi-select, Enter to confirm, Esc to abort."
			}
			cand := candidates[i]
			return fmt.Sprintf("Path: %s\nSize: %s", cand.Path, humanSize(cand.Size))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errSelectionAborted
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	sort.Ints(idx)
	picked := make([]FileCandidate, len(idx))
	for i, index := range idx {
		picked[i] = candidates[index]
	}
	return picked, nil
}
