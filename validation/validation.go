// Package validation sanitizes and validates all user- and file-supplied
// input before it enters the data model. Sanitizing is best effort; output
// is escaped again at render time.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"promptvault/model"
)

// Limits enforced on prompt fields and bulk import.
const (
	MaxTitleLength   = 200
	MaxContentLength = 50000
	MaxFolderNameLen = 100
	MaxImportPrompts = 1000
	DefaultMaxTags   = 20
	DefaultMaxTagLen = 50
	maxIconRunes     = 3
	minSymbolRune    = 0x2000
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// SanitizeForHTML escapes the six HTML-significant characters. It is total:
// any input yields a string, empty input yields "".
func SanitizeForHTML(text string) string {
	return htmlEscaper.Replace(text)
}

var (
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	scriptOpenRe   = regexp.MustCompile(`(?i)<script\b[^>]*>`)
	eventAttrDQRe  = regexp.MustCompile(`(?i)on\w+\s*=\s*"[^"]*"`)
	eventAttrSQRe  = regexp.MustCompile(`(?i)on\w+\s*=\s*'[^']*'`)
	jsURIRe        = regexp.MustCompile(`(?i)javascript:[^"']*`)
	dataHTMLURIRe  = regexp.MustCompile(`(?i)data:\s*text/html[^"']*`)
	folderBadChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)
)

// SanitizeContent strips script blocks, inline event-handler attributes and
// javascript:/data:text/html URIs. Not an exhaustive XSS defense.
func SanitizeContent(text string) string {
	text = scriptBlockRe.ReplaceAllString(text, "")
	text = scriptOpenRe.ReplaceAllString(text, "")
	text = eventAttrDQRe.ReplaceAllString(text, "")
	text = eventAttrSQRe.ReplaceAllString(text, "")
	text = jsURIRe.ReplaceAllString(text, "")
	text = dataHTMLURIRe.ReplaceAllString(text, "")
	return text
}

// ValidateLength fails when text is absent, blank after trimming, or longer
// than max runes.
func ValidateLength(text string, max int, field string) error {
	if text == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	return validation.Validate(text, validation.RuneLength(0, max).Error(
		fmt.Sprintf("%s is too long (max %d characters, got %d)", field, max, utf8.RuneCountInString(text)),
	))
}

// ValidateTags splits a comma-separated tag string, trims, drops empties and
// over-long entries, sanitizes and deduplicates preserving first-seen order.
// It fails only when more than maxTags remain.
func ValidateTags(tagsString string, maxTags, maxTagLen int) ([]string, error) {
	if strings.TrimSpace(tagsString) == "" {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, raw := range strings.Split(tagsString, ",") {
		tag := SanitizeForHTML(strings.TrimSpace(raw))
		if tag == "" || utf8.RuneCountInString(tag) > maxTagLen {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if len(tags) > maxTags {
		return nil, fmt.Errorf("too many tags (max %d, got %d)", maxTags, len(tags))
	}
	return tags, nil
}

// reservedFolderNames are OS device names refused case-insensitively.
var reservedFolderNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {},
}

// ValidateFolderName checks length and character constraints and returns the
// sanitized name.
func ValidateFolderName(name string) (string, error) {
	if err := ValidateLength(name, MaxFolderNameLen, "Folder name"); err != nil {
		return "", err
	}
	if folderBadChars.MatchString(name) {
		return "", errors.New("folder name contains invalid characters")
	}
	if _, reserved := reservedFolderNames[strings.ToLower(name)]; reserved {
		return "", errors.New("folder name is reserved")
	}
	return SanitizeForHTML(name), nil
}

// ValidateIcon accepts a short emoji or symbol (1-3 code points outside the
// ASCII/Latin ranges). Empty input falls back to the default folder icon.
func ValidateIcon(icon string) (string, error) {
	if icon == "" {
		return model.DefaultIcon, nil
	}
	n := utf8.RuneCountInString(icon)
	if n < 1 || n > maxIconRunes {
		return "", errors.New("icon must be a valid emoji or simple symbol")
	}
	for _, r := range icon {
		if r < minSymbolRune {
			return "", errors.New("icon must be a valid emoji or simple symbol")
		}
	}
	return icon, nil
}

// PromptForm is raw form input for a prompt; Tags is the comma-separated
// string as typed.
type PromptForm struct {
	Title       string
	Description string
	Category    string
	Content     string
	Tags        string
}

// PromptData is the sanitized result of validating a PromptForm.
type PromptData struct {
	Title       string
	Description string
	Category    string
	Content     string
	Tags        []string
}

// ValidatePromptData composes the title/content/tag checks, aggregating all
// failures into a single error message. On success every field is sanitized.
func ValidatePromptData(form PromptForm) (PromptData, error) {
	var errs []string

	if err := ValidateLength(form.Title, MaxTitleLength, "Title"); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateLength(form.Content, MaxContentLength, "Content"); err != nil {
		errs = append(errs, err.Error())
	}
	tags, err := ValidateTags(form.Tags, DefaultMaxTags, DefaultMaxTagLen)
	if err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return PromptData{}, errors.New(strings.Join(errs, ". "))
	}

	category := form.Category
	if category == "" {
		category = model.FolderDefault
	}

	return PromptData{
		Title:       SanitizeForHTML(form.Title),
		Description: SanitizeForHTML(form.Description),
		Category:    category,
		Content:     SanitizeContent(form.Content),
		Tags:        tags,
	}, nil
}

// ValidateImportData checks a decoded import batch: at most MaxImportPrompts
// entries, each with a non-empty title and content within MaxContentLength.
// Any malformed entry fails the whole batch. The returned slice is a
// sanitized copy; unknown fields were already dropped during decoding.
func ValidateImportData(prompts []model.Prompt) ([]model.Prompt, error) {
	if prompts == nil {
		return nil, errors.New("import data must contain a prompts array")
	}
	if len(prompts) > MaxImportPrompts {
		return nil, fmt.Errorf("too many prompts to import (max %d)", MaxImportPrompts)
	}

	out := make([]model.Prompt, len(prompts))
	for i, p := range prompts {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("prompt %d is missing a valid title", i+1)
		}
		if strings.TrimSpace(p.Content) == "" {
			return nil, fmt.Errorf("prompt %d is missing valid content", i+1)
		}
		if utf8.RuneCountInString(p.Content) > MaxContentLength {
			return nil, fmt.Errorf("prompt %d content is too large (max %d characters)", i+1, MaxContentLength)
		}

		p.Title = SanitizeForHTML(p.Title)
		p.Description = SanitizeForHTML(p.Description)
		p.Content = SanitizeContent(p.Content)

		tags := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			if len(tags) == DefaultMaxTags {
				break
			}
			tags = append(tags, SanitizeForHTML(tag))
		}
		p.Tags = tags

		out[i] = p
	}
	return out, nil
}

// ValidateSettings coerces a raw settings map into a valid Settings value.
// It never hard-fails: unknown keys are dropped and invalid values replaced
// by defaults, each reported as a warning.
func ValidateSettings(raw map[string]any) (model.Settings, []string) {
	out := model.DefaultSettings()
	var warnings []string

	if raw == nil {
		return out, warnings
	}

	str := func(key string, v any) (string, bool) {
		s, ok := v.(string)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("invalid value for %s: %v", key, v))
		}
		return s, ok
	}
	boolean := func(key string, v any) (bool, bool) {
		b, ok := v.(bool)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("invalid value for %s: %v", key, v))
		}
		return b, ok
	}

	for key, v := range raw {
		switch key {
		case "defaultFolder":
			if s, ok := str(key, v); ok && s != "" {
				out.DefaultFolder = SanitizeForHTML(s)
			}
		case "theme":
			if s, ok := str(key, v); ok {
				if err := validation.Validate(s, validation.In("light", "dark", "auto")); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid value for theme: %q", s))
				} else {
					out.Theme = model.Theme(s)
				}
			}
		case "autoSave":
			if s, ok := str(key, v); ok {
				if err := validation.Validate(s, validation.In("immediate", "onClose", "manual")); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid value for autoSave: %q", s))
				} else {
					out.AutoSave = model.AutoSaveMode(s)
				}
			}
		case "exportFormat":
			if s, ok := str(key, v); ok {
				if err := validation.Validate(s, validation.In("json", "csv", "txt")); err != nil {
					warnings = append(warnings, fmt.Sprintf("invalid value for exportFormat: %q", s))
				} else {
					out.ExportFormat = model.ExportFormat(s)
				}
			}
		case "showDescriptions":
			if b, ok := boolean(key, v); ok {
				out.ShowDescriptions = b
			}
		case "showTags":
			if b, ok := boolean(key, v); ok {
				out.ShowTags = b
			}
		case "autoCloseAfterCopy":
			if b, ok := boolean(key, v); ok {
				out.AutoCloseAfterCopy = b
			}
		case "showToasts":
			if b, ok := boolean(key, v); ok {
				out.ShowToasts = b
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown setting: %s", key))
		}
	}

	return out, warnings
}
