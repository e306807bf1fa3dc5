package format

import (
	"strings"
)

// segment is either a literal run or a placeholder
type segment struct {
	literal string
	name    string
	spec    Spec
	offset  int // character offset of the opening brace
	isField bool
}

// Template is a parsed format string. It is immutable and may be executed
// any number of times.
type Template struct {
	text     string
	segments []segment
}

// Parse parses text and checks every placeholder against names.
// Errors are *Error values carrying the character offset of the failure.
func Parse(text string, names []string) (*Template, error) {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	runes := []rune(text)
	t := &Template{text: text}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				lit.WriteRune('{')
				i++
				continue
			}
			seg, end, err := parsePlaceholder(runes, i, known)
			if err != nil {
				return nil, err
			}
			flush()
			t.segments = append(t.segments, seg)
			i = end
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				lit.WriteRune('}')
				i++
				continue
			}
			return nil, newSyntaxError(i, "unmatched '}' (use '}}' for a literal brace)")
		default:
			lit.WriteRune(r)
		}
	}
	flush()

	return t, nil
}

// parsePlaceholder parses the placeholder opening at runes[open] and returns
// it with the index of its closing brace
func parsePlaceholder(runes []rune, open int, known map[string]struct{}) (segment, int, error) {
	closeIdx := -1
	colon := -1
	for j := open + 1; j < len(runes); j++ {
		if runes[j] == '}' {
			closeIdx = j
			break
		}
		if runes[j] == '{' {
			return segment{}, 0, newSyntaxError(open, "nested '{' inside placeholder")
		}
		if runes[j] == ':' && colon < 0 {
			colon = j
		}
	}
	if closeIdx < 0 {
		return segment{}, 0, newSyntaxError(open, "unterminated placeholder")
	}

	nameEnd := closeIdx
	if colon >= 0 {
		nameEnd = colon
	}
	name := string(runes[open+1 : nameEnd])
	if name == "" {
		return segment{}, 0, newSyntaxError(open, "positional placeholders are not supported, use {name}")
	}
	if _, ok := known[name]; !ok {
		return segment{}, 0, newUnknownNameError(open, name)
	}

	spec := Spec{Fill: ' '}
	if colon >= 0 {
		var err error
		spec, err = parseSpec(runes[colon+1:closeIdx], colon+1)
		if err != nil {
			return segment{}, 0, err
		}
	}

	return segment{name: name, spec: spec, offset: open, isField: true}, closeIdx, nil
}

// Execute renders the template with args. On failure nothing is returned,
// so a caller never prints a partially rendered line.
func (t *Template) Execute(args Args) (string, error) {
	var b strings.Builder
	b.Grow(len(t.text))

	for _, seg := range t.segments {
		if !seg.isField {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := args[seg.name]
		if !ok {
			return "", newUnknownNameError(seg.offset, seg.name)
		}
		text, err := value.Format(seg.spec.Style)
		if err != nil {
			return "", newUnsupportedError(seg.offset, seg.name, err)
		}
		b.WriteString(seg.spec.apply(text))
	}

	return b.String(), nil
}

// String returns the source text of the template
func (t *Template) String() string {
	return t.text
}

// Names returns placeholder names in order of appearance, duplicates included
func (t *Template) Names() []string {
	var names []string
	for _, seg := range t.segments {
		if seg.isField {
			names = append(names, seg.name)
		}
	}
	return names
}

// Render parses text against the keys of args and executes it once.
func Render(text string, args Args) (string, error) {
	t, err := Parse(text, args.Names())
	if err != nil {
		return "", err
	}
	return t.Execute(args)
}
