package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Style is the rendering style requested by a placeholder's type suffix
type Style uint8

const (
	// StyleDisplay is the default textual style ("{name}")
	StyleDisplay Style = iota
	// StyleDebug is the quoted style ("{name:?}")
	StyleDebug
	// StyleOctal is the octal integer style ("{name:o}")
	StyleOctal
	// StyleLowerHex is the lower-case hex style ("{name:x}")
	StyleLowerHex
	// StyleUpperHex is the upper-case hex style ("{name:X}")
	StyleUpperHex
	// StyleBinary is the binary style ("{name:b}")
	StyleBinary
	// StyleLowerExp is the lower-case exponent style ("{name:e}")
	StyleLowerExp
	// StyleUpperExp is the upper-case exponent style ("{name:E}")
	StyleUpperExp
)

// String returns the name of the style
func (s Style) String() string {
	switch s {
	case StyleDisplay:
		return "display"
	case StyleDebug:
		return "debug"
	case StyleOctal:
		return "octal"
	case StyleLowerHex:
		return "lower hex"
	case StyleUpperHex:
		return "upper hex"
	case StyleBinary:
		return "binary"
	case StyleLowerExp:
		return "lower exponent"
	case StyleUpperExp:
		return "upper exponent"
	default:
		return fmt.Sprintf("Style(%d)", s)
	}
}

// styleSuffixes maps the type suffix of a spec to its style.
// The hex debug forms only change integer output, so for text they are plain debug.
var styleSuffixes = map[string]Style{
	"":   StyleDisplay,
	"?":  StyleDebug,
	"x?": StyleDebug,
	"X?": StyleDebug,
	"o":  StyleOctal,
	"x":  StyleLowerHex,
	"X":  StyleUpperHex,
	"b":  StyleBinary,
	"e":  StyleLowerExp,
	"E":  StyleUpperExp,
}

// Align is the alignment of padded output
type Align uint8

const (
	// AlignNone keeps the default alignment (left for text)
	AlignNone Align = iota
	// AlignLeft pads on the right ('<')
	AlignLeft
	// AlignCenter pads on both sides ('^')
	AlignCenter
	// AlignRight pads on the left ('>')
	AlignRight
)

func alignOf(r rune) (Align, bool) {
	switch r {
	case '<':
		return AlignLeft, true
	case '^':
		return AlignCenter, true
	case '>':
		return AlignRight, true
	default:
		return AlignNone, false
	}
}

// Spec is the parsed part of a placeholder after the colon
type Spec struct {
	Fill         rune
	Align        Align
	Sign         rune // 0, '+' or '-'
	Alternate    bool
	ZeroPad      bool
	Width        int
	HasWidth     bool
	Precision    int
	HasPrecision bool
	Style        Style
}

// maxWidth bounds width and precision so a typo cannot allocate gigabytes
const maxWidth = 1 << 16

// parseSpec parses spec runes. base is the character offset of spec[0]
// within the template and is used for error offsets.
func parseSpec(spec []rune, base int) (Spec, error) {
	s := Spec{Fill: ' '}
	i := 0

	if len(spec) >= 2 {
		if a, ok := alignOf(spec[1]); ok {
			s.Fill, s.Align = spec[0], a
			i = 2
		}
	}
	if i == 0 && len(spec) >= 1 {
		if a, ok := alignOf(spec[0]); ok {
			s.Align = a
			i = 1
		}
	}

	if i < len(spec) && (spec[i] == '+' || spec[i] == '-') {
		s.Sign = spec[i]
		i++
	}
	if i < len(spec) && spec[i] == '#' {
		s.Alternate = true
		i++
	}
	if i < len(spec) && spec[i] == '0' {
		s.ZeroPad = true
		i++
	}

	start := i
	for i < len(spec) && isDigit(spec[i]) {
		i++
	}
	if i > start {
		w, err := parseCount(spec[start:i])
		if err != nil {
			return Spec{}, newSyntaxError(base+start, "invalid width")
		}
		s.Width, s.HasWidth = w, true
	}

	if i < len(spec) && spec[i] == '.' {
		i++
		start = i
		for i < len(spec) && isDigit(spec[i]) {
			i++
		}
		if i == start {
			return Spec{}, newSyntaxError(base+start, "expected precision after '.'")
		}
		p, err := parseCount(spec[start:i])
		if err != nil {
			return Spec{}, newSyntaxError(base+start, "invalid precision")
		}
		s.Precision, s.HasPrecision = p, true
	}

	style, ok := styleSuffixes[string(spec[i:])]
	if !ok {
		return Spec{}, newSyntaxError(base+i, fmt.Sprintf("unknown format type %q", string(spec[i:])))
	}
	s.Style = style

	return s, nil
}

func parseCount(digits []rune) (int, error) {
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, err
	}
	if n > maxWidth {
		return 0, fmt.Errorf("count %d exceeds %d", n, maxWidth)
	}
	return n, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// apply truncates and pads rendered text according to s
func (s Spec) apply(text string) string {
	if s.HasPrecision && s.Style == StyleDisplay && utf8.RuneCountInString(text) > s.Precision {
		text = string([]rune(text)[:s.Precision])
	}

	n := utf8.RuneCountInString(text)
	if !s.HasWidth || n >= s.Width {
		return text
	}

	pad := s.Width - n
	fill := string(s.Fill)
	switch s.Align {
	case AlignRight:
		return strings.Repeat(fill, pad) + text
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(fill, left) + text + strings.Repeat(fill, pad-left)
	default:
		return text + strings.Repeat(fill, pad)
	}
}
