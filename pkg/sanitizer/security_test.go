package sanitizer_test

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/waitlist/pkg/sanitizer"
)

func TestFormInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips angle brackets from script tag",
			input:    "<script>alert(1)</script>",
			expected: "scriptalert(1)/script",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  Meena Kumari \n",
			expected: "Meena Kumari",
		},
		{
			name:     "removes javascript scheme in any case",
			input:    "JavaScript:alert(1) and jAvAsCrIpT:void(0)",
			expected: "alert(1) and void(0)",
		},
		{
			name:     "removes event handler attributes",
			input:    `img src=x onerror="steal()" ONLOAD=run()`,
			expected: `img src=x "steal()" run()`,
		},
		{
			name:     "removes spliced javascript scheme",
			input:    "jajavascript:vascript:alert(1)",
			expected: "alert(1)",
		},
		{
			name:     "removes handler revealed by a later rule",
			input:    "oonclick=nclick=x",
			expected: "x",
		},
		{
			name:     "removes scheme revealed by handler removal",
			input:    "javaonx=script:go",
			expected: "go",
		},
		{
			name:     "trims whitespace exposed by bracket removal",
			input:    "<  Madurai  >",
			expected: "Madurai",
		},
		{
			name:     "keeps ordinary text untouched",
			input:    "Village near Thanjavur, 5 acres (paddy)",
			expected: "Village near Thanjavur, 5 acres (paddy)",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "handles whitespace only",
			input:    " \t\n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.FormInput(tt.input))
		})
	}
}

func TestFormInput_Truncates(t *testing.T) {
	t.Parallel()

	t.Run("caps ascii input", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.FormInput(strings.Repeat("a", 5000))
		assert.Len(t, out, sanitizer.MaxInputLength)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		t.Parallel()
		out := sanitizer.FormInput(strings.Repeat("த", 1500))
		assert.Equal(t, sanitizer.MaxInputLength, utf8.RuneCountInString(out))
	})

	t.Run("truncation happens after removals", func(t *testing.T) {
		t.Parallel()
		in := strings.Repeat("<", 10) + strings.Repeat("b", sanitizer.MaxInputLength)
		out := sanitizer.FormInput(in)
		assert.Equal(t, strings.Repeat("b", sanitizer.MaxInputLength), out)
	})

	t.Run("trailing space left by truncation is trimmed", func(t *testing.T) {
		t.Parallel()
		in := strings.Repeat("c", sanitizer.MaxInputLength-1) + " tail"
		out := sanitizer.FormInput(in)
		assert.Equal(t, strings.Repeat("c", sanitizer.MaxInputLength-1), out)
	})
}

// formInputAlphabet is biased towards the characters the rules act on so
// random strings frequently contain near-miss patterns.
var formInputAlphabet = []string{
	"<", ">", "javascript:", "JAVAscript:", "java", "script:", "on", "ON", "click", "=",
	"x", "_", "1", " ", "\t", "\n", "a", "த", "é", ":", "(", ")",
}

func randomFormInput(r *rand.Rand) string {
	var b strings.Builder
	n := r.IntN(400)
	for range n {
		b.WriteString(formInputAlphabet[r.IntN(len(formInputAlphabet))])
	}
	return b.String()
}

func TestFormInput_Properties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(42, 1024))
	for i := range 2000 {
		in := randomFormInput(r)
		out := sanitizer.FormInput(in)

		assert.NotContains(t, out, "<", "case %d", i)
		assert.NotContains(t, out, ">", "case %d", i)
		assert.NotContains(t, strings.ToLower(out), "javascript:", "case %d", i)
		assert.NotRegexp(t, `(?i)on\w+=`, out, "case %d", i)
		assert.LessOrEqual(t, utf8.RuneCountInString(out), sanitizer.MaxInputLength, "case %d", i)
		assert.Equal(t, out, sanitizer.FormInput(out), "not idempotent for case %d: %q", i, in)
	}
}

func TestRemoveEventHandlers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"alert(1)"`, sanitizer.RemoveEventHandlers(`onclick="alert(1)"`))
	assert.Equal(t, "no handlers here", sanitizer.RemoveEventHandlers("no handlers here"))
	assert.Equal(t, "x", sanitizer.RemoveEventHandlers("ON_MOUSE_OVER=x"))
}

func TestRemoveJavaScriptScheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alert(1)", sanitizer.RemoveJavaScriptScheme("JAVASCRIPT:alert(1)"))
	assert.Equal(t, "javascript alone", sanitizer.RemoveJavaScriptScheme("javascript alone"))
}

func TestStripAngleBrackets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "b/b", sanitizer.StripAngleBrackets("<b></b>"))
}
