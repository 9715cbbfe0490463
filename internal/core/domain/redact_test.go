package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_ReplacesAllOccurrencesCaseInsensitive(t *testing.T) {
	fields := IdentityFields{Name: "Jane Moreau", Email: "jane@example.org"}
	text := "Dear Jane Moreau, thank you! We emailed JANE MOREAU at jane@example.org and Jane@Example.ORG."

	redacted, restore := Redact(text, fields)

	assert.NotContains(t, redacted, "Jane Moreau")
	assert.NotContains(t, redacted, "JANE MOREAU")
	assert.NotContains(t, redacted, "jane@example.org")
	assert.Equal(t, "Dear [NAME], thank you! We emailed [NAME] at [EMAIL] and [EMAIL].", redacted)
	assert.Equal(t, "Jane Moreau", restore[PlaceholderName])
	assert.Equal(t, "jane@example.org", restore[PlaceholderEmail])
}

func TestRedact_SkipsBlankFields(t *testing.T) {
	tests := []struct {
		name   string
		fields IdentityFields
	}{
		{"all empty", IdentityFields{}},
		{"whitespace only", IdentityFields{Name: "   ", City: "\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "No identity here [NAME] [CITY]"
			redacted, restore := Redact(text, tt.fields)
			assert.Equal(t, text, redacted)
			assert.Empty(t, restore)
		})
	}
}

func TestRedact_FieldValueIsLiteralNotPattern(t *testing.T) {
	// Regex metacharacters in the value must not be interpreted.
	fields := IdentityFields{Name: "A.C. (Tony) Smith+Jones"}
	text := "Met with A.C. (Tony) Smith+Jones yesterday. Also met AXCX eTony) SmithJones."

	redacted, _ := Redact(text, fields)

	assert.Equal(t, "Met with [NAME] yesterday. Also met AXCX eTony) SmithJones.", redacted)
}

func TestRedactUnredact_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		fields IdentityFields
	}{
		{
			"full identity",
			"Dear Marcus Webb of 41 Elm Street, Dayton, OH: your gift matters. Reply to m.webb@mail.com.",
			IdentityFields{Name: "Marcus Webb", Email: "m.webb@mail.com", Address: "41 Elm Street", City: "Dayton", State: "OH"},
		},
		{
			"partial identity",
			"Hi Priya, hope Chicago is treating you well. Hi again, Priya!",
			IdentityFields{Name: "Priya", City: "Chicago"},
		},
		{
			"no occurrences",
			"A letter that mentions nobody in particular.",
			IdentityFields{Name: "Marcus Webb", Email: "m.webb@mail.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redacted, restore := Redact(tt.text, tt.fields)
			assert.Equal(t, tt.text, Unredact(redacted, restore))
		})
	}
}

func TestUnredact_UnknownPlaceholdersUntouched(t *testing.T) {
	restore := RedactionMap{PlaceholderName: "Marcus Webb"}
	text := "Dear [NAME], greetings from [CITY]."

	result := Unredact(text, restore)

	assert.Equal(t, "Dear Marcus Webb, greetings from [CITY].", result)
}

func TestUnredact_EmptyMapIsIdentity(t *testing.T) {
	text := "Dear [NAME], nothing to restore."
	assert.Equal(t, text, Unredact(text, RedactionMap{}))
	assert.Equal(t, text, Unredact(text, nil))
}

func TestRedact_OverlappingValuesKnownLimitation(t *testing.T) {
	// The donor's name appears inside the address. Name replacement runs
	// first and splits the address, so only the name survives the round
	// trip intact. Documented limitation, pinned here on purpose.
	fields := IdentityFields{Name: "Elm", Address: "41 Elm Street"}
	text := "Ship to 41 Elm Street."

	redacted, restore := Redact(text, fields)
	require.Equal(t, "Ship to 41 [NAME] Street.", redacted)
	assert.Equal(t, "Ship to 41 Elm Street.", Unredact(redacted, restore))
}
