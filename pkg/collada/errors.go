package collada

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedPrimitiveKind = errors.New("unsupported primitive kind")
	ErrUnresolvedReference      = errors.New("unresolved reference")
	ErrMalformedNumericData     = errors.New("malformed numeric data")
	ErrNoVisualScene            = errors.New("no visual scene")

	// ErrCyclicReference is an instance_node chain that reaches itself.
	ErrCyclicReference = fmt.Errorf("cyclic reference: %w", ErrUnresolvedReference)
)

// Error describes a failure at one element of the document. Element is the
// element name, ID the id or URL involved and Text the offending text, if any.
type Error struct {
	Element string
	ID      string
	Text    string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Element)
	if e.ID != "" {
		fmt.Fprintf(&b, " %q", e.ID)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Text != "" {
		fmt.Fprintf(&b, ": %q", e.Text)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unresolved(element, id string) error {
	return &Error{Element: element, ID: id, Err: ErrUnresolvedReference}
}

func malformed(element, id, text string) error {
	return &Error{Element: element, ID: id, Text: text, Err: ErrMalformedNumericData}
}
