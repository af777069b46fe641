package vote

import "errors"

var (
	ErrInvalidOptionIndex    = errors.New("option index missing or invalid")
	ErrSingleSelectionOnly   = errors.New("poll accepts a single selection")
	ErrMaxSelectionsExceeded = errors.New("too many selections")
	ErrInvalidOption         = errors.New("option index out of range")
	ErrDuplicateSelections   = errors.New("duplicate option indices")
)

// ValidateSelection decides whether a submitted index list is acceptable
// for a poll before any storage is touched. The check order is fixed so
// error reporting stays stable: structure, then configuration, then range,
// then duplicates. Each check assumes the previous ones passed.
func ValidateSelection(indices []int, cfg VotingConfig) error {
	if len(indices) == 0 {
		return ErrInvalidOptionIndex
	}
	for _, idx := range indices {
		if idx < 0 {
			return ErrInvalidOptionIndex
		}
	}

	if !cfg.AllowMultiple && len(indices) > 1 {
		return ErrSingleSelectionOnly
	}
	if cfg.AllowMultiple && len(indices) > cfg.MaxSelections {
		return ErrMaxSelectionsExceeded
	}

	for _, idx := range indices {
		if idx >= cfg.OptionCount {
			return ErrInvalidOption
		}
	}

	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if _, dup := seen[idx]; dup {
			return ErrDuplicateSelections
		}
		seen[idx] = struct{}{}
	}

	return nil
}
