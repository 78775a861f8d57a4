package document

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-reserved characters. It is applied exactly once
// to every piece of text on each render path; escaping already-escaped text escapes
// the ampersands again.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
