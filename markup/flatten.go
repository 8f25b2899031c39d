package markup

import "strings"

// Flatten converts a markup body into one plain-text line.
// Text elements contribute their literal text; every other element contributes
// a single "[type]" placeholder. Flatten never fails: empty or malformed input
// yields "".
func Flatten(content string) string {
	return FlattenElements(Parse(content))
}

// FlattenElements concatenates already parsed elements with no separator.
func FlattenElements(elements []Element) string {
	var b strings.Builder
	for _, e := range elements {
		switch v := e.(type) {
		case Text:
			b.WriteString(v.Content)
		case Other:
			b.WriteString("[")
			b.WriteString(v.Type)
			b.WriteString("]")
		}
	}
	return b.String()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Escape encodes text so it can be embedded as literal content in markup.
func Escape(text string) string {
	return escaper.Replace(text)
}
