package rdf

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	assert.Equal(t, ErrorCode(""), Code(nil))
	assert.Equal(t, ErrCodeParseError, Code(errors.New("other")))
	assert.Equal(t, ErrCodeParseError, Code(ErrSyntax))
	for _, entry := range errorCodes {
		wrapped := fmt.Errorf("context: %w", entry.err)
		assert.Equal(t, entry.code, Code(wrapped), entry.err.Error())
		assert.Equal(t, entry.code, Code(&ParseError{Format: "turtle", Offset: -1, Err: wrapped}))
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Format: "ntriples", Statement: "bad line", Line: 3, Offset: -1, Err: ErrSyntax}
	assert.Equal(t, "ntriples:3: rdf: syntax error\n  bad line", err.Error())

	err = &ParseError{Format: "jsonld", Offset: 12, Err: ErrSyntax}
	assert.Equal(t, "jsonld (offset 12): rdf: syntax error", err.Error())

	err = &ParseError{Format: "trix", Line: 2, Column: 5, Offset: -1, Err: ErrInvalidRoot}
	assert.Equal(t, "trix:2:5: rdf: invalid root element", err.Error())
	assert.ErrorIs(t, err, ErrInvalidRoot)
}

func TestParseErrorExcerpt(t *testing.T) {
	long := strings.Repeat("a", 60) + "X" + strings.Repeat("b", 60)
	err := &ParseError{Format: "turtle", Statement: long, Line: 1, Column: 61, Offset: 60, Err: ErrSyntax}
	excerpt := err.formatExcerpt()
	lines := strings.Split(excerpt, "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "..."))
	assert.True(t, strings.HasSuffix(lines[0], "..."))
	caret := strings.Index(lines[1], "^") - 2
	assert.Equal(t, byte('X'), lines[0][caret])

	err = &ParseError{Format: "ntriples", Statement: strings.Repeat("z", 100), Offset: -1, Err: ErrSyntax}
	assert.Equal(t, strings.Repeat("z", 80)+"...", err.formatExcerpt())
}

func TestNewParseError(t *testing.T) {
	input := "first\nsecond line\r\nthird"
	err := newParseError("turtle", input, strings.Index(input, "line"), ErrSyntax)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 8, perr.Column)
	assert.Equal(t, "second line", perr.Statement)

	assert.Same(t, err, newParseError("turtle", input, 0, err), "existing parse errors pass through")
	assert.Nil(t, newParseError("turtle", input, 0, nil))

	err = newParseError("turtle", input, len(input)+5, ErrSyntax)
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, -1, perr.Offset)
}
