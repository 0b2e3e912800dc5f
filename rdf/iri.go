package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateIRI reports whether value is an absolute IRI: a scheme followed by
// a body free of whitespace, control characters and the delimiters that can
// never appear unescaped (<, >, ", {, }, |, ^, `, \).
func ValidateIRI(value string) error {
	return validateAbsoluteIRI(value)
}

func validateAbsoluteIRI(value string) error {
	if value == "" {
		return fmt.Errorf("%w: IRI", ErrEmptyValue)
	}
	colon := strings.IndexByte(value, ':')
	if colon <= 0 || !isSchemeName(value[:colon]) {
		return fmt.Errorf("%w: %q has no scheme", ErrInvalidIRI, value)
	}
	for i, r := range value {
		if r <= 0x20 || r == 0x7f {
			return fmt.Errorf("%w: control or space character at position %d in %q", ErrInvalidIRI, i, value)
		}
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return fmt.Errorf("%w: character %q at position %d in %q", ErrInvalidIRI, r, i, value)
		}
	}
	if _, err := url.Parse(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIRI, err)
	}
	return nil
}

func isSchemeName(scheme string) bool {
	for i := 0; i < len(scheme); i++ {
		ch := scheme[i]
		alpha := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		if i == 0 && !alpha {
			return false
		}
		if !alpha && !(ch >= '0' && ch <= '9') && ch != '+' && ch != '-' && ch != '.' {
			return false
		}
	}
	return scheme != ""
}

// isAbsoluteIRI reports whether value starts with a scheme.
func isAbsoluteIRI(value string) bool {
	colon := strings.IndexByte(value, ':')
	return colon > 0 && isSchemeName(value[:colon])
}

// resolveIRI resolves a relative IRI against a base IRI according to RFC 3986.
func resolveIRI(baseStr, relative string) string {
	if isAbsoluteIRI(relative) {
		return relative
	}
	if baseStr == "" {
		return relative
	}
	baseURL, err := url.Parse(baseStr)
	if err != nil {
		return concatIRI(baseStr, relative)
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return concatIRI(baseStr, relative)
	}
	return baseURL.ResolveReference(relURL).String()
}

func concatIRI(baseStr, relative string) string {
	if strings.HasPrefix(relative, "#") {
		if hash := strings.IndexByte(baseStr, '#'); hash >= 0 {
			baseStr = baseStr[:hash]
		}
		return baseStr + relative
	}
	if strings.HasSuffix(baseStr, "/") {
		return baseStr + relative
	}
	if lastSlash := strings.LastIndex(baseStr, "/"); lastSlash >= 0 {
		return baseStr[:lastSlash+1] + relative
	}
	return baseStr + "/" + relative
}

// splitIRI splits value into a namespace and a local name at the last '#',
// '/' or ':'. The local name is empty when nothing follows the separator.
func splitIRI(value string) (string, string) {
	idx := strings.LastIndexAny(value, "#/:")
	if idx < 0 {
		return "", value
	}
	return value[:idx+1], value[idx+1:]
}
