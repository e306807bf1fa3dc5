// Package format renders user supplied templates such as
// "{name} {url}" against a set of named values.
//
// # Values
//
// A Value is one of three kinds:
//   - Empty: the device did not report the attribute
//   - Text: a plain string
//   - Identifier: a structured value (URL, URN) rendered through its String method
//
// Every kind renders under the default display style and under the debug
// style ("{name:?}"). Numeric styles such as hex or binary are rejected with
// ErrFormatNotSupported.
//
// # Template Syntax
//
// Literal text is copied verbatim. "{{" and "}}" produce single braces.
// A placeholder is "{name}" or "{name:spec}" where spec follows
//
//	[[fill]align][sign]['#']['0'][width]['.' precision][type]
//
// with align one of '<', '^', '>' and type one of "", "?", "x?", "X?",
// "o", "x", "X", "b", "e", "E".
//
// # Usage Example
//
//	tmpl, err := format.Parse("{name:<20} {url}", []string{"name", "url"})
//	if err != nil {
//	    var ferr *format.Error
//	    if errors.As(err, &ferr) {
//	        fmt.Printf("Invalid format string at position %d\n", ferr.Offset)
//	    }
//	    return err
//	}
//
//	line, err := tmpl.Execute(format.Args{
//	    "name": format.Text("Living Room Speaker"),
//	    "url":  format.Identifier(location),
//	})
//
// # Errors
//
// All parse and render failures are *Error values carrying the character
// offset of the failing placeholder. A failed Execute produces no output.
package format
