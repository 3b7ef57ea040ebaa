package validation

import (
	"strings"
	"testing"

	"promptvault/model"
)

func TestSanitizeForHTMLEscapesEverySpecialCharacter(t *testing.T) {
	got := SanitizeForHTML(`<a href="/x" onclick='y'>&</a>`)
	for _, raw := range []string{"<", ">", `"`, "'", "/"} {
		if strings.Contains(got, raw) {
			t.Fatalf("output still contains %q: %s", raw, got)
		}
	}
	if SanitizeForHTML("") != "" {
		t.Fatalf("empty input must stay empty")
	}
	if got := SanitizeForHTML("plain text"); got != "plain text" {
		t.Fatalf("plain text changed: %q", got)
	}
}

func TestSanitizeContentStripsScripts(t *testing.T) {
	in := `before<script type="text/javascript">alert(1)</script>after`
	got := SanitizeContent(in)
	if strings.Contains(strings.ToLower(got), "<script") {
		t.Fatalf("script tag survived: %q", got)
	}
	if !strings.Contains(got, "before") || !strings.Contains(got, "after") {
		t.Fatalf("surrounding text lost: %q", got)
	}

	got = SanitizeContent(`<div onclick="steal()">x</div> javascript:alert(1)`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "javascript:") {
		t.Fatalf("handler or uri survived: %q", got)
	}
}

func TestValidateLength(t *testing.T) {
	if err := ValidateLength("", 10, "Title"); err == nil {
		t.Fatal("expected error for missing value")
	}
	if err := ValidateLength("   ", 10, "Title"); err == nil {
		t.Fatal("expected error for blank value")
	}
	if err := ValidateLength("12345678901", 10, "Title"); err == nil {
		t.Fatal("expected error for over-long value")
	}
	if err := ValidateLength("1234567890", 10, "Title"); err != nil {
		t.Fatalf("exact max must pass: %v", err)
	}
}

func TestValidateTagsDedupesAndKeepsOrder(t *testing.T) {
	tags, err := ValidateTags("go, cli , go,  ,tui", DefaultMaxTags, DefaultMaxTagLen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"go", "cli", "tui"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, tags)
		}
	}
}

func TestValidateTagsDropsOverlongAndCapsCount(t *testing.T) {
	long := strings.Repeat("x", DefaultMaxTagLen+1)
	tags, err := ValidateTags("ok,"+long, DefaultMaxTags, DefaultMaxTagLen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0] != "ok" {
		t.Fatalf("over-long tag should be dropped: %v", tags)
	}

	many := make([]string, DefaultMaxTags+1)
	for i := range many {
		many[i] = "tag" + string(rune('a'+i))
	}
	if _, err := ValidateTags(strings.Join(many, ","), DefaultMaxTags, DefaultMaxTagLen); err == nil {
		t.Fatal("expected error for too many tags")
	}
}

func TestValidateFolderNameRejectsBadInput(t *testing.T) {
	for _, name := range []string{"", "  ", "bad<name", "CON", "nul", strings.Repeat("x", MaxFolderNameLen+1)} {
		if _, err := ValidateFolderName(name); err == nil {
			t.Fatalf("expected error for %q", name)
		}
	}
	got, err := ValidateFolderName("Code & Review")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "&") && !strings.Contains(got, "&amp;") {
		t.Fatalf("name not sanitized: %q", got)
	}
}

func TestValidateIcon(t *testing.T) {
	if got, err := ValidateIcon(""); err != nil || got != model.DefaultIcon {
		t.Fatalf("empty icon must default, got %q, %v", got, err)
	}
	if _, err := ValidateIcon("abc"); err == nil {
		t.Fatal("ascii letters are not icons")
	}
	if _, err := ValidateIcon("📁📁📁📁"); err == nil {
		t.Fatal("expected error for too many runes")
	}
	if got, err := ValidateIcon("🚀"); err != nil || got != "🚀" {
		t.Fatalf("emoji must pass, got %q, %v", got, err)
	}
}

func TestValidatePromptDataAggregatesErrors(t *testing.T) {
	_, err := ValidatePromptData(PromptForm{})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Title") || !strings.Contains(msg, "Content") {
		t.Fatalf("expected both field failures in one message, got %q", msg)
	}
}

func TestValidatePromptDataDefaultsCategory(t *testing.T) {
	data, err := ValidatePromptData(PromptForm{Title: "T", Content: "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Category != model.FolderDefault {
		t.Fatalf("expected default category, got %q", data.Category)
	}
	if data.Tags == nil {
		t.Fatal("tags must never be nil")
	}
}

func TestValidateImportDataIsAtomic(t *testing.T) {
	batch := []model.Prompt{
		{Title: "ok", Content: "fine"},
		{Title: "", Content: "missing title"},
	}
	_, err := ValidateImportData(batch)
	if err == nil {
		t.Fatal("one bad entry must fail the whole batch")
	}
	if !strings.Contains(err.Error(), "prompt 2") {
		t.Fatalf("error should name the offending entry, got %q", err)
	}

	if _, err := ValidateImportData(nil); err == nil {
		t.Fatal("nil batch must fail")
	}

	big := make([]model.Prompt, MaxImportPrompts+1)
	for i := range big {
		big[i] = model.Prompt{Title: "t", Content: "c"}
	}
	if _, err := ValidateImportData(big); err == nil {
		t.Fatal("oversized batch must fail")
	}
}

func TestValidateSettingsIsLenient(t *testing.T) {
	raw := map[string]any{
		"theme":      "dark",
		"autoSave":   "sometimes",
		"showToasts": false,
		"mystery":    1,
	}
	got, warnings := ValidateSettings(raw)
	if got.Theme != model.ThemeDark {
		t.Fatalf("valid theme not applied: %q", got.Theme)
	}
	if got.AutoSave != model.AutoSaveImmediate {
		t.Fatalf("invalid autoSave must keep default, got %q", got.AutoSave)
	}
	if got.ShowToasts {
		t.Fatal("showToasts should be off")
	}
	if got.DefaultFolder != model.FolderDefault {
		t.Fatalf("missing key must keep default, got %q", got.DefaultFolder)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected warnings for autoSave and mystery, got %v", warnings)
	}
}
