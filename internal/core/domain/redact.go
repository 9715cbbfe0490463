package domain

import (
	"regexp"
	"strings"
)

// Placeholder tokens substituted for identity fields in redacted text.
const (
	PlaceholderName    = "[NAME]"
	PlaceholderEmail   = "[EMAIL]"
	PlaceholderAddress = "[ADDRESS]"
	PlaceholderCity    = "[CITY]"
	PlaceholderState   = "[STATE]"
)

// IdentityFields are the donor values stripped from text before it leaves
// the process boundary for an LLM call.
type IdentityFields struct {
	Name    string
	Email   string
	Address string
	City    string
	State   string
}

// RedactionMap maps placeholder tokens back to the original values for one
// redact/unredact round trip. It must never be persisted or logged.
type RedactionMap map[string]string

// Redact replaces every case-insensitive occurrence of each non-blank
// identity field in text with that field's placeholder token. Field values
// are matched as literal substrings, never as patterns. Blank or
// whitespace-only fields are skipped and produce no map entry.
//
// Known limitation: when one field value is a substring of another (a name
// inside an address, say), replacement order can split the longer value and
// the round trip will not restore the exact original.
func Redact(text string, fields IdentityFields) (string, RedactionMap) {
	restore := make(RedactionMap)

	for _, f := range []struct {
		placeholder string
		value       string
	}{
		{PlaceholderName, fields.Name},
		{PlaceholderEmail, fields.Email},
		{PlaceholderAddress, fields.Address},
		{PlaceholderCity, fields.City},
		{PlaceholderState, fields.State},
	} {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(value))
		text = re.ReplaceAllLiteralString(text, f.placeholder)
		restore[f.placeholder] = value
	}

	return text, restore
}

// Unredact substitutes each placeholder token in text with its original
// value from restore. Placeholders without a map entry are left unchanged.
func Unredact(text string, restore RedactionMap) string {
	for placeholder, value := range restore {
		text = strings.ReplaceAll(text, placeholder, value)
	}
	return text
}
