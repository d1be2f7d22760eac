package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRowNotFound         = errors.New("row not found")
	ErrStoreUnavailable    = errors.New("tabular store unavailable")
	ErrInvalidStoreBackend = errors.New("invalid store backend")
	ErrArchiveDisabled     = errors.New("export archiving is disabled")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every violation found in a submission so the
// caller sees the full list, not just the first failure.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

func (e ValidationErrors) Messages() []string {
	messages := make([]string, len(e))
	for i, ve := range e {
		messages[i] = ve.Message
	}
	return messages
}
