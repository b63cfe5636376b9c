package scripture

import (
	"fmt"
	"regexp"
	"strings"
)

var languageCodePattern = regexp.MustCompile(`^[a-z]{2,3}$`)

// Language is a display language for translations.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"native_name"`
	Enabled    bool   `json:"enabled"`
	IsDefault  bool   `json:"is_default"`
}

// LanguageCatalog keeps the display languages in insertion order with exactly
// one default. It is not safe for concurrent use.
type LanguageCatalog struct {
	order []string
	langs map[string]*Language
	def   string
}

// NewLanguageCatalog creates a catalog whose first language is the default.
// The default is always enabled.
func NewLanguageCatalog(def Language) (*LanguageCatalog, error) {
	if err := validateLanguage(def.Code, def.Name, def.NativeName); err != nil {
		return nil, err
	}
	def.Enabled = true
	def.IsDefault = true

	c := &LanguageCatalog{langs: make(map[string]*Language)}
	c.order = append(c.order, def.Code)
	c.langs[def.Code] = &def
	c.def = def.Code
	return c, nil
}

// Add registers a new, non-default language.
func (c *LanguageCatalog) Add(code, name, nativeName string, enabled bool) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if err := validateLanguage(code, name, nativeName); err != nil {
		return Language{}, err
	}
	if _, exists := c.langs[code]; exists {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrDuplicateCode)
	}

	lang := &Language{
		Code:       code,
		Name:       strings.TrimSpace(name),
		NativeName: strings.TrimSpace(nativeName),
		Enabled:    enabled,
	}
	c.order = append(c.order, code)
	c.langs[code] = lang
	return *lang, nil
}

// Update changes the display names of a language.
func (c *LanguageCatalog) Update(code, name, nativeName string) (Language, error) {
	lang, ok := c.langs[code]
	if !ok {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrNotFound)
	}
	if err := validateLanguage(code, name, nativeName); err != nil {
		return Language{}, err
	}
	lang.Name = strings.TrimSpace(name)
	lang.NativeName = strings.TrimSpace(nativeName)
	return *lang, nil
}

func (c *LanguageCatalog) SetEnabled(code string, enabled bool) (Language, error) {
	lang, ok := c.langs[code]
	if !ok {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrNotFound)
	}
	if lang.IsDefault && !enabled {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrCannotDisableDefault)
	}
	lang.Enabled = enabled
	return *lang, nil
}

// SetDefault moves the default flag to code. The target must be enabled.
func (c *LanguageCatalog) SetDefault(code string) (Language, error) {
	lang, ok := c.langs[code]
	if !ok {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrNotFound)
	}
	if !lang.Enabled {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrLanguageDisabled)
	}
	if code == c.def {
		return *lang, nil
	}

	c.langs[c.def].IsDefault = false
	lang.IsDefault = true
	c.def = code
	return *lang, nil
}

func (c *LanguageCatalog) Remove(code string) error {
	lang, ok := c.langs[code]
	if !ok {
		return fmt.Errorf("language %q: %w", code, ErrNotFound)
	}
	if lang.IsDefault {
		return fmt.Errorf("language %q: %w", code, ErrCannotRemoveDefault)
	}

	delete(c.langs, code)
	for i, existing := range c.order {
		if existing == code {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *LanguageCatalog) Get(code string) (Language, error) {
	lang, ok := c.langs[code]
	if !ok {
		return Language{}, fmt.Errorf("language %q: %w", code, ErrNotFound)
	}
	return *lang, nil
}

// All returns every language in insertion order.
func (c *LanguageCatalog) All() []Language {
	out := make([]Language, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, *c.langs[code])
	}
	return out
}

// Enabled returns the enabled languages, default first, then insertion order.
func (c *LanguageCatalog) Enabled() []Language {
	out := []Language{*c.langs[c.def]}
	for _, code := range c.order {
		lang := c.langs[code]
		if lang.Enabled && !lang.IsDefault {
			out = append(out, *lang)
		}
	}
	return out
}

func (c *LanguageCatalog) EnabledCodes() []string {
	enabled := c.Enabled()
	codes := make([]string, len(enabled))
	for i, lang := range enabled {
		codes[i] = lang.Code
	}
	return codes
}

func (c *LanguageCatalog) DefaultCode() string {
	return c.def
}

func (c *LanguageCatalog) IsEnabled(code string) bool {
	lang, ok := c.langs[code]
	return ok && lang.Enabled
}

type catalogSnapshot struct {
	order []string
	langs []Language
	def   string
}

func (c *LanguageCatalog) snapshot() catalogSnapshot {
	return catalogSnapshot{
		order: append([]string(nil), c.order...),
		langs: c.All(),
		def:   c.def,
	}
}

func (c *LanguageCatalog) restore(snap catalogSnapshot) {
	c.order = snap.order
	c.langs = make(map[string]*Language, len(snap.langs))
	for i := range snap.langs {
		lang := snap.langs[i]
		c.langs[lang.Code] = &lang
	}
	c.def = snap.def
}

func validateLanguage(code, name, nativeName string) error {
	fields := map[string]string{}
	if !languageCodePattern.MatchString(code) {
		fields["code"] = "must be 2-3 lowercase letters"
	}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(nativeName) == "" {
		fields["native_name"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
