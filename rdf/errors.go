package rdf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidIRI indicates an invalid IRI was encountered.
	ErrCodeInvalidIRI ErrorCode = "INVALID_IRI"
	// ErrCodeInvalidLiteral indicates a typed literal outside its lexical space.
	ErrCodeInvalidLiteral ErrorCode = "INVALID_LITERAL"
	// ErrCodeInvalidLanguageTag indicates a malformed language tag.
	ErrCodeInvalidLanguageTag ErrorCode = "INVALID_LANGUAGE_TAG"
	// ErrCodeInvalidTerm indicates a term in a position it cannot occupy.
	ErrCodeInvalidTerm ErrorCode = "INVALID_TERM"
	// ErrCodeEmptyValue indicates a required value was missing.
	ErrCodeEmptyValue ErrorCode = "EMPTY_VALUE"
	// ErrCodeParseError indicates a general syntax error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeUnterminated indicates a token that was never closed.
	ErrCodeUnterminated ErrorCode = "UNTERMINATED"
	// ErrCodeUnknownPrefix indicates a prefixed name with no declaration.
	ErrCodeUnknownPrefix ErrorCode = "UNKNOWN_PREFIX"
	// ErrCodeBadBase indicates a malformed base declaration.
	ErrCodeBadBase ErrorCode = "BAD_BASE"
	// ErrCodeBadPrefix indicates a malformed prefix declaration.
	ErrCodeBadPrefix ErrorCode = "BAD_PREFIX"
	// ErrCodeBlankNodeSyntax indicates malformed blank node syntax.
	ErrCodeBlankNodeSyntax ErrorCode = "BLANK_NODE_SYNTAX"
	// ErrCodeInvalidRoot indicates a missing or wrong XML root element.
	ErrCodeInvalidRoot ErrorCode = "INVALID_ROOT"
	// ErrCodeInvalidNamespace indicates a wrong XML namespace.
	ErrCodeInvalidNamespace ErrorCode = "INVALID_NAMESPACE"
	// ErrCodeUnreducibleNamespace indicates a predicate that cannot be written as an XML name.
	ErrCodeUnreducibleNamespace ErrorCode = "UNREDUCIBLE_NAMESPACE"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")

	// ErrInvalidIRI indicates a string that is not an absolute IRI.
	ErrInvalidIRI = errors.New("rdf: invalid IRI")
	// ErrInvalidLiteral indicates a typed literal outside its lexical space.
	ErrInvalidLiteral = errors.New("rdf: invalid typed literal")
	// ErrInvalidLanguageTag indicates a malformed language tag.
	ErrInvalidLanguageTag = errors.New("rdf: invalid language tag")
	// ErrInvalidTerm indicates a term in a position it cannot occupy.
	ErrInvalidTerm = errors.New("rdf: invalid term")
	// ErrEmptyValue indicates a required value was missing.
	ErrEmptyValue = errors.New("rdf: empty value")

	// ErrSyntax indicates a general syntax error.
	ErrSyntax = errors.New("rdf: syntax error")
	// ErrUnterminated indicates a token that was never closed.
	ErrUnterminated = errors.New("rdf: unterminated token")
	// ErrUnknownPrefix indicates a prefixed name with no declaration.
	ErrUnknownPrefix = errors.New("rdf: unknown prefix")
	// ErrBadBase indicates a malformed base declaration.
	ErrBadBase = errors.New("rdf: bad base declaration")
	// ErrBadPrefix indicates a malformed prefix declaration.
	ErrBadPrefix = errors.New("rdf: bad prefix declaration")
	// ErrBlankNodeSyntax indicates malformed blank node syntax.
	ErrBlankNodeSyntax = errors.New("rdf: malformed blank node")
	// ErrInvalidRoot indicates a missing or wrong XML root element.
	ErrInvalidRoot = errors.New("rdf: invalid root element")
	// ErrInvalidNamespace indicates a wrong XML namespace.
	ErrInvalidNamespace = errors.New("rdf: invalid namespace")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples exceeded")

	// ErrUnreducibleNamespace indicates a predicate that cannot be written as an XML name.
	ErrUnreducibleNamespace = errors.New("rdf: predicate has no reducible namespace")
)

var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrUnsupportedFormat, ErrCodeUnsupportedFormat},
	{ErrInvalidIRI, ErrCodeInvalidIRI},
	{ErrInvalidLiteral, ErrCodeInvalidLiteral},
	{ErrInvalidLanguageTag, ErrCodeInvalidLanguageTag},
	{ErrInvalidTerm, ErrCodeInvalidTerm},
	{ErrEmptyValue, ErrCodeEmptyValue},
	{ErrUnterminated, ErrCodeUnterminated},
	{ErrUnknownPrefix, ErrCodeUnknownPrefix},
	{ErrBadBase, ErrCodeBadBase},
	{ErrBadPrefix, ErrCodeBadPrefix},
	{ErrBlankNodeSyntax, ErrCodeBlankNodeSyntax},
	{ErrInvalidRoot, ErrCodeInvalidRoot},
	{ErrInvalidNamespace, ErrCodeInvalidNamespace},
	{ErrUnreducibleNamespace, ErrCodeUnreducibleNamespace},
	{ErrLineTooLong, ErrCodeLineTooLong},
	{ErrTripleLimitExceeded, ErrCodeTripleLimitExceeded},
}

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    string // Format name (e.g., "turtle", "ntriples")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Offset    int    // Byte offset in input (-1 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)

	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	} else if e.Offset >= 0 {
		fmt.Fprintf(&msg, " (offset %d)", e.Offset)
	}

	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())

	if excerpt := e.formatExcerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

// formatExcerpt formats a readable excerpt of the statement around the error position.
func (e *ParseError) formatExcerpt() string {
	if e.Statement == "" {
		return ""
	}

	const maxExcerptLen = 80
	const contextLen = 40

	if e.Column > 0 {
		start := e.Column - 1
		excerptStart := max(start-contextLen, 0)
		excerptEnd := min(start+contextLen, len(e.Statement))
		if excerptStart > excerptEnd {
			excerptStart = excerptEnd
		}

		excerpt := e.Statement[excerptStart:excerptEnd]
		if excerptStart > 0 {
			excerpt = "..." + excerpt
		}
		if excerptEnd < len(e.Statement) {
			excerpt += "..."
		}

		caretPos := start - excerptStart
		if excerptStart > 0 {
			caretPos += 3 // Account for "..."
		}
		caretPos = max(min(caretPos, len(excerpt)-1), 0)

		var result strings.Builder
		result.WriteString(excerpt)
		result.WriteString("\n  ")
		result.WriteString(strings.Repeat(" ", caretPos))
		result.WriteByte('^')
		return result.String()
	}

	if len(e.Statement) > maxExcerptLen {
		return e.Statement[:maxExcerptLen] + "..."
	}
	return e.Statement
}

func (e *ParseError) Unwrap() error { return e.Err }

// newParseError locates offset inside input and wraps err with the
// offending line as the excerpt.
func newParseError(format, input string, offset int, err error) error {
	if err == nil {
		return nil
	}
	var existing *ParseError
	if errors.As(err, &existing) {
		return err
	}
	if offset < 0 || offset > len(input) {
		return &ParseError{Format: format, Offset: -1, Err: err}
	}
	line := 1 + strings.Count(input[:offset], "\n")
	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	lineEnd := strings.IndexByte(input[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += offset
	}
	return &ParseError{
		Format:    format,
		Statement: strings.TrimRight(input[lineStart:lineEnd], "\r"),
		Line:      line,
		Column:    offset - lineStart + 1,
		Offset:    offset,
		Err:       err,
	}
}

// lineError wraps err for a line-oriented format.
func lineError(format, line string, lineNo int, err error) error {
	return &ParseError{Format: format, Statement: line, Line: lineNo, Offset: -1, Err: err}
}
