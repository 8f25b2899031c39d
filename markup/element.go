// Package markup parses the Satori-style message markup stored in the message log
// and flattens it to plain text for prompting.
//
// A message body such as
//
//	hi <at id="10001"/> look: <img src="https://example.com/a.png"/>
//
// parses into Text("hi "), Other("at"), Text(" look: "), Other("img") and flattens to
//
//	hi [at] look: [img]
package markup

// Element is one top-level node of a parsed message body.
// The set of variants is closed: Text and Other.
type Element interface {
	elementType() string
}

// Text is a run of literal text with entities already decoded.
type Text struct {
	Content string
}

// Other is any non-text element (image, mention, forward bundle, ...).
// Children of an Other element are not kept.
type Other struct {
	Type  string
	Attrs map[string]string
}

func (Text) elementType() string { return "text" }

func (o Other) elementType() string { return o.Type }

// Type returns the element type name, "text" for Text.
func Type(e Element) string {
	return e.elementType()
}
