package scripture

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateReference   = errors.New("verse reference already exists")
	ErrDuplicateCode        = errors.New("language code already exists")
	ErrMissingTranslation   = errors.New("missing translation")
	ErrCannotDisableDefault = errors.New("default language cannot be disabled")
	ErrCannotRemoveDefault  = errors.New("default language cannot be removed")
	ErrLanguageDisabled     = errors.New("language is disabled")
	ErrEmptyCatalog         = errors.New("verse catalog is empty")
	ErrValidation           = errors.New("validation failed")
)

// MissingTranslationError names the enabled language a verse has no text for.
type MissingTranslationError struct {
	Code string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("missing translation for language %q", e.Code)
}

func (e *MissingTranslationError) Is(target error) bool {
	return target == ErrMissingTranslation
}

// ValidationError collects per-field problems with an admin command.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
