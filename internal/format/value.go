package format

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	// KindEmpty is an attribute the device did not report
	KindEmpty Kind = iota
	// KindText is a plain string attribute
	KindText
	// KindIdentifier is a structured attribute such as a URL or URN
	KindIdentifier
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindIdentifier:
		return "identifier"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Value is a renderable attribute value. The zero Value is Empty.
type Value struct {
	kind Kind
	text string
	id   fmt.Stringer
}

// Args maps placeholder names to values
type Args map[string]Value

// Names returns the keys of the mapping
func (a Args) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	return names
}

// Empty returns the value of an absent attribute
func Empty() Value {
	return Value{}
}

// Text wraps a plain string
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Identifier wraps a structured value. A nil identifier, including a typed
// nil pointer such as (*url.URL)(nil), yields Empty.
func Identifier(id fmt.Stringer) Value {
	if isNil(id) {
		return Empty()
	}
	return Value{kind: KindIdentifier, id: id}
}

func isNil(id fmt.Stringer) bool {
	if id == nil {
		return true
	}
	v := reflect.ValueOf(id)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Kind reports the variant held by v
func (v Value) Kind() Kind {
	return v.kind
}

// Supports reports whether v can be rendered with the given style
func (v Value) Supports(style Style) bool {
	switch style {
	case StyleDisplay, StyleDebug:
		return true
	default:
		return false
	}
}

// String returns the display form of v
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindIdentifier:
		return v.id.String()
	default:
		return ""
	}
}

// GoString returns the debug form of v
func (v Value) GoString() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.text)
	case KindIdentifier:
		if gs, ok := v.id.(fmt.GoStringer); ok {
			return gs.GoString()
		}
		return strconv.Quote(v.id.String())
	default:
		return `""`
	}
}

// Format renders v in the requested style.
// Numeric styles always fail with ErrFormatNotSupported.
func (v Value) Format(style Style) (string, error) {
	if !v.Supports(style) {
		return "", fmt.Errorf("%w: %s value cannot be rendered as %s", ErrFormatNotSupported, v.kind, style)
	}
	if style == StyleDebug {
		return v.GoString(), nil
	}
	return v.String(), nil
}
