package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have children even when written without a trailing slash.
var voidElements = map[string]bool{
	"img":   true,
	"br":    true,
	"hr":    true,
	"at":    true,
	"sharp": true,
	"face":  true,
}

// Parse splits a markup body into its ordered top-level elements.
// Adjacent text runs are merged. Malformed input yields nil.
func Parse(content string) []Element {
	if content == "" {
		return nil
	}

	z := html.NewTokenizer(strings.NewReader(content))
	var elements []Element
	depth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return nil
			}
			return elements

		case html.TextToken:
			if depth > 0 {
				continue
			}
			text := string(z.Text())
			if text == "" {
				continue
			}
			if n := len(elements); n > 0 {
				if prev, ok := elements[n-1].(Text); ok {
					elements[n-1] = Text{Content: prev.Content + text}
					continue
				}
			}
			elements = append(elements, Text{Content: text})

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := string(z.Raw())
			name, hasAttr := z.TagName()
			tag := string(name)
			if depth == 0 {
				elements = append(elements, Other{Type: rawTagName(raw, tag), Attrs: readAttrs(z, hasAttr)})
			}
			if tt == html.StartTagToken && !voidElements[tag] {
				depth++
			}

		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
		}
	}
}

// rawTagName recovers the tag name as written, since the tokenizer lowercases it.
func rawTagName(raw, lower string) string {
	name := strings.TrimPrefix(raw, "<")
	if i := strings.IndexAny(name, " \t\r\n\f/>"); i >= 0 {
		name = name[:i]
	}
	if strings.EqualFold(name, lower) {
		return name
	}
	return lower
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	if !more {
		return nil
	}
	attrs := make(map[string]string)
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}
