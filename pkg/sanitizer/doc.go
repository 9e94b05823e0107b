// Package sanitizer provides small, composable helpers for cleaning
// free-text input before it leaves the process.
//
// The centrepiece is FormInput, the rule set applied to every free-text
// waitlist field before it is sent to the submission sink:
//
//  1. trim leading and trailing whitespace
//  2. remove every '<' and '>' character
//  3. remove case-insensitive "javascript:" scheme prefixes
//  4. remove inline event-handler attributes such as "onclick="
//  5. truncate to MaxInputLength characters
//
// Truncation runs last so that earlier removals never see a pattern cut in
// half. The pipeline is re-applied until the output stops changing, which
// makes FormInput idempotent and guarantees that no forbidden substring is
// re-assembled by a removal.
//
// # Usage
//
//	import "github.com/dmitrymomot/waitlist/pkg/sanitizer"
//
//	clean := sanitizer.FormInput("  <script>alert(1)</script> ")
//	// clean == "scriptalert(1)/script"
//
// Custom pipelines can be built from the same pieces:
//
//	short := sanitizer.Compose(
//	    sanitizer.Trim,
//	    sanitizer.StripAngleBrackets,
//	    sanitizer.Truncate(64),
//	)
//
// # Error handling
//
// None of the helpers returns an error. They are pure functions and accept
// any input, including the empty string.
//
// This is a transmission filter, not an HTML sanitizer. Output must still be
// escaped by whatever renders it.
package sanitizer
