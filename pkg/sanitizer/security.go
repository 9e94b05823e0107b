package sanitizer

// MaxInputLength is the hard cap FormInput applies to every field.
const MaxInputLength = 1000

// StripAngleBrackets removes every '<' and '>' character.
func StripAngleBrackets(s string) string {
	return RemoveChars(s, "<>")
}

// RemoveJavaScriptScheme removes every case-insensitive "javascript:" occurrence.
func RemoveJavaScriptScheme(s string) string {
	return javascriptSchemeRegex.ReplaceAllString(s, "")
}

// RemoveEventHandlers removes inline event-handler attribute prefixes
// ("onclick=", "OnLoad=" ...). Only the name and '=' are removed; the
// attribute value that follows is left in place.
func RemoveEventHandlers(s string) string {
	return eventHandlerRegex.ReplaceAllString(s, "")
}

var formInput = Fixpoint(Compose(
	Trim,
	StripAngleBrackets,
	RemoveJavaScriptScheme,
	RemoveEventHandlers,
	Truncate(MaxInputLength),
))

// FormInput cleans a free-text form field for transmission.
// The result never contains '<', '>', a case-insensitive "javascript:" or an
// "on<word>=" sequence, has no surrounding whitespace, is at most
// MaxInputLength characters long, and FormInput(FormInput(s)) == FormInput(s).
func FormInput(s string) string {
	return formInput(s)
}
