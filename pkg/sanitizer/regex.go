package sanitizer

import "regexp"

// Pre-compiled regular expressions for the form input rule set
var (
	// javascript: scheme, any case
	javascriptSchemeRegex = regexp.MustCompile(`(?i)javascript:`)

	// inline event handler attribute name followed by '=' (onclick=, ONLOAD=)
	eventHandlerRegex = regexp.MustCompile(`(?i)on\w+=`)
)
