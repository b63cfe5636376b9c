package scripture

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// VerseCommand is the admin input for creating a verse.
type VerseCommand struct {
	Chapter         int               `json:"chapter" validate:"required,gt=0"`
	Verse           int               `json:"verse" validate:"required,gt=0"`
	Sanskrit        string            `json:"sanskrit" validate:"required"`
	Transliteration string            `json:"transliteration"`
	Translations    map[string]string `json:"translations" validate:"required,min=1"`
	Meaning         string            `json:"meaning"`
}

func (c VerseCommand) Validate() error {
	return validationError(validate.Struct(c))
}

func (c VerseCommand) ToVerse() Verse {
	return Verse{
		Ref:             Ref{Chapter: c.Chapter, Verse: c.Verse},
		Sanskrit:        c.Sanskrit,
		Transliteration: c.Transliteration,
		Translations:    c.Translations,
		Meaning:         c.Meaning,
	}
}

// VersePatchCommand is the admin input for editing a verse.
type VersePatchCommand struct {
	Translations map[string]string `json:"translations"`
	Meaning      *string           `json:"meaning"`
}

func (c VersePatchCommand) Validate() error {
	if len(c.Translations) == 0 && c.Meaning == nil {
		return NewValidationError("patch", "must change translations or meaning")
	}
	return nil
}

func (c VersePatchCommand) ToPatch() VersePatch {
	return VersePatch{Translations: c.Translations, Meaning: c.Meaning}
}

// LanguageCommand is the admin input for creating a language.
type LanguageCommand struct {
	Code       string `json:"code" validate:"required,lowercase,min=2,max=3,alpha"`
	Name       string `json:"name" validate:"required"`
	NativeName string `json:"native_name" validate:"required"`
	Enabled    *bool  `json:"enabled"`
}

func (c LanguageCommand) Validate() error {
	return validationError(validate.Struct(c))
}

// IsEnabled defaults to true when the field is omitted.
func (c LanguageCommand) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LanguageUpdateCommand is the admin input for renaming a language.
type LanguageUpdateCommand struct {
	Name       string `json:"name" validate:"required"`
	NativeName string `json:"native_name" validate:"required"`
}

func (c LanguageUpdateCommand) Validate() error {
	return validationError(validate.Struct(c))
}

// ValidateStruct runs tag validation on any command struct and converts the
// result to a ValidationError.
func ValidateStruct(v any) error {
	return validationError(validate.Struct(v))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[toSnake(fe.Field())] = describeTag(fe)
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " characters or entries"
	case "max":
		return "must have at most " + fe.Param() + " characters or entries"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
