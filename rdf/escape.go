package rdf

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Unicode surrogate pair constants
const (
	unicodeSurrogateHighStart = 0xD800
	unicodeSurrogateHighEnd   = 0xDBFF
	unicodeSurrogateLowStart  = 0xDC00
	unicodeSurrogateLowEnd    = 0xDFFF
	unicodeSurrogateBase      = 0x10000
)

const (
	unicodeEscapeLength     = 6  // Length of \uXXXX escape sequence
	unicodeLongEscapeLength = 10 // Length of \UXXXXXXXX escape sequence
)

const hexDigits = "0123456789ABCDEF"

var errInvalidEscape = errors.New("invalid escape sequence")

// EscapeUnicode replaces every non-ASCII code point of s with \uXXXX, or with
// \UXXXXXXXX when the code point lies outside the Basic Multilingual Plane.
// ASCII characters, backslashes included, are copied unchanged.
func EscapeUnicode(s string) string {
	if isASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		writeUnicodeEscape(&b, r)
	}
	return b.String()
}

// UnescapeUnicode is the inverse of EscapeUnicode. It decodes \uXXXX and
// \UXXXXXXXX sequences, combining UTF-16 surrogate pairs written as two
// consecutive \u escapes. Other backslashes are copied unchanged.
func UnescapeUnicode(s string) (string, error) {
	if !strings.Contains(s, `\u`) && !strings.Contains(s, `\U`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for pos := 0; pos < len(s); {
		if s[pos] == '\\' && pos+1 < len(s) && (s[pos+1] == 'u' || s[pos+1] == 'U') {
			var advance int
			var err error
			if s[pos+1] == 'u' {
				advance, err = unescapeUnicodeEscape(&b, s, pos)
			} else {
				advance, err = unescapeUnicodeLongEscape(&b, s, pos)
			}
			if err != nil {
				return "", err
			}
			pos += advance
			continue
		}
		b.WriteByte(s[pos])
		pos++
	}
	return b.String(), nil
}

// UnescapeString decodes escape sequences in RDF string literals.
// It handles simple escapes (\n, \t, etc.), Unicode escapes (\uXXXX), and Unicode long escapes (\UXXXXXXXX).
// Surrogate pairs are supported for \uXXXX sequences.
func UnescapeString(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var builder strings.Builder
	pos := 0
	for pos < len(s) {
		ch := s[pos]
		if ch != '\\' {
			builder.WriteByte(ch)
			pos++
			continue
		}
		if pos+1 >= len(s) {
			return "", fmt.Errorf("unterminated escape")
		}
		var err error
		advance := 2
		switch next := s[pos+1]; next {
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case 'b':
			builder.WriteByte('\b')
		case 'f':
			builder.WriteByte('\f')
		case '"', '\'', '\\':
			builder.WriteByte(next)
		case 'u':
			advance, err = unescapeUnicodeEscape(&builder, s, pos)
		case 'U':
			advance, err = unescapeUnicodeLongEscape(&builder, s, pos)
		default:
			return "", fmt.Errorf("%w \\%c", errInvalidEscape, next)
		}
		if err != nil {
			return "", err
		}
		pos += advance
	}
	return builder.String(), nil
}

// unescapeUnicodeEscape handles \uXXXX escape sequences, including surrogate pairs.
func unescapeUnicodeEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeEscapeLength > len(s) {
		return 0, errInvalidEscape
	}
	codePoint := decodeUChar(s[pos+2 : pos+6])
	if codePoint < 0 {
		return 0, errInvalidEscape
	}
	if codePoint >= unicodeSurrogateHighStart && codePoint <= unicodeSurrogateHighEnd {
		return unescapeSurrogatePair(builder, s, pos, codePoint)
	}
	if !isValidUnicodeCodePoint(codePoint) {
		return 0, errInvalidEscape
	}
	builder.WriteRune(codePoint)
	return unicodeEscapeLength, nil
}

// unescapeSurrogatePair handles surrogate pair escape sequences \uXXXX\uYYYY.
func unescapeSurrogatePair(builder *strings.Builder, s string, pos int, high rune) (int, error) {
	if pos+2*unicodeEscapeLength > len(s) || s[pos+6] != '\\' || s[pos+7] != 'u' {
		return 0, fmt.Errorf("%w: unpaired surrogate", errInvalidEscape)
	}
	low := decodeUChar(s[pos+8 : pos+12])
	if low < unicodeSurrogateLowStart || low > unicodeSurrogateLowEnd {
		return 0, fmt.Errorf("%w: unpaired surrogate", errInvalidEscape)
	}
	combined := unicodeSurrogateBase + ((high - unicodeSurrogateHighStart) << 10) + (low - unicodeSurrogateLowStart)
	builder.WriteRune(combined)
	return 2 * unicodeEscapeLength, nil
}

// unescapeUnicodeLongEscape handles \UXXXXXXXX escape sequences.
func unescapeUnicodeLongEscape(builder *strings.Builder, s string, pos int) (int, error) {
	if pos+unicodeLongEscapeLength > len(s) {
		return 0, errInvalidEscape
	}
	codePoint := decodeUChar(s[pos+2 : pos+10])
	if codePoint < 0 || !isValidUnicodeCodePoint(codePoint) {
		return 0, errInvalidEscape
	}
	builder.WriteRune(codePoint)
	return unicodeLongEscapeLength, nil
}

func isValidUnicodeCodePoint(codePoint rune) bool {
	if codePoint > 0x10FFFF {
		return false
	}
	return codePoint < unicodeSurrogateHighStart || codePoint > unicodeSurrogateLowEnd
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func decodeUChar(hexStr string) rune {
	if len(hexStr) != 4 && len(hexStr) != 8 {
		return -1
	}
	var codePoint rune
	for i := 0; i < len(hexStr); i++ {
		ch := hexStr[i]
		var digit rune
		switch {
		case ch >= '0' && ch <= '9':
			digit = rune(ch - '0')
		case ch >= 'a' && ch <= 'f':
			digit = rune(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			digit = rune(ch-'A') + 10
		default:
			return -1
		}
		codePoint = codePoint*16 + digit
	}
	return codePoint
}

func writeUnicodeEscape(b *strings.Builder, r rune) {
	if r > 0xFFFF {
		b.WriteString(`\U`)
		writeHex(b, uint32(r), 8)
		return
	}
	b.WriteString(`\u`)
	writeHex(b, uint32(r), 4)
}

func writeHex(b *strings.Builder, v uint32, width int) {
	for shift := (width - 1) * 4; shift >= 0; shift -= 4 {
		b.WriteByte(hexDigits[(v>>uint(shift))&0xF])
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// escapeLiteral renders the body of a quoted literal. In long form ("""...""")
// a quote is only escaped when it would otherwise close the literal.
func escapeLiteral(s string, long bool) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			if !long || i+1 == len(s) || s[i+1] == '"' {
				b.WriteString(`\"`)
			} else {
				b.WriteByte('"')
			}
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\u`)
			writeHex(&b, uint32(r), 4)
		case r >= utf8.RuneSelf:
			writeUnicodeEscape(&b, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func renderIRIRef(value string) string {
	return "<" + EscapeUnicode(value) + ">"
}

// renderNTriplesTerm renders a term in its N-Triples form.
func renderNTriplesTerm(term Term) string {
	switch v := term.(type) {
	case IRI:
		return renderIRIRef(v.Value)
	case BlankNode:
		return v.String()
	case Literal:
		return renderNTriplesLiteral(v)
	case nil:
		return ""
	default:
		return term.String()
	}
}

func renderNTriplesLiteral(l Literal) string {
	out := `"` + escapeLiteral(l.Lexical, false) + `"`
	switch {
	case l.IsTyped():
		out += "^^" + renderIRIRef(l.Datatype.Value)
	case l.Lang != "":
		out += "@" + l.Lang
	}
	return out
}
