package rdf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

type ntriplesCodec struct {
	opts Options
}

func (c *ntriplesCodec) Format() Format { return FormatNTriples }

// Serialize writes one ASCII line per triple in insertion order.
func (c *ntriplesCodec) Serialize(w io.Writer, g *Graph) error {
	var buf bytes.Buffer
	for _, t := range g.Triples() {
		buf.WriteString(t.String())
		buf.WriteString(" .\n")
	}
	c.opts.Logger.Debug("serialized graph", "format", FormatNTriples, "triples", g.Len(), "context", g.Context().Value)
	return writeAll(w, buf.Bytes())
}

func (c *ntriplesCodec) Deserialize(r io.Reader) (*Graph, error) {
	reader := bufio.NewReader(r)
	builder := newGraphBuilder(c.opts)
	for lineNo := 1; ; lineNo++ {
		line, err := readLineWithLimit(reader, c.opts.MaxLineBytes)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				return nil, lineError("ntriples", "", lineNo, err)
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := parseNTLine(line, c.opts.Registry)
		if err != nil {
			return nil, lineError("ntriples", line, lineNo, err)
		}
		if err := builder.add(t); err != nil {
			return nil, lineError("ntriples", line, lineNo, err)
		}
	}
	c.opts.Logger.Debug("deserialized graph", "format", FormatNTriples, "triples", builder.graph.Len())
	return builder.graph, nil
}

func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		line, err := reader.ReadString('\n')
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return line, err
	}

	var buffer []byte
	for {
		part, err := reader.ReadSlice('\n')
		buffer = append(buffer, part...)
		if len(buffer) > maxBytes {
			discardLine(reader)
			return "", ErrLineTooLong
		}
		if err == nil {
			return string(buffer), nil
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && len(buffer) > 0 {
			return string(buffer), nil
		}
		return "", err
	}
}

func discardLine(reader *bufio.Reader) {
	for {
		_, err := reader.ReadSlice('\n')
		if err != bufio.ErrBufferFull {
			return
		}
	}
}

// parseNTLine parses a single statement. Errors name the construct that
// failed: the subject, the predicate, the object or the statement itself.
func parseNTLine(line string, registry *Registry) (Triple, error) {
	if !strings.HasPrefix(line, "<") && !strings.HasPrefix(line, "_:") {
		return Triple{}, fmt.Errorf("declaration: %w: statement must start with '<' or '_:'", ErrSyntax)
	}
	cursor := &ntCursor{input: line, registry: registry}

	subject, err := cursor.parseResource()
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	if !cursor.requireSpace() {
		return Triple{}, fmt.Errorf("subject: %w: expected whitespace after subject", ErrSyntax)
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}
	if !cursor.requireSpace() {
		return Triple{}, fmt.Errorf("predicate: %w: expected whitespace after predicate", ErrSyntax)
	}
	object, err := cursor.parseObject()
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}
	cursor.skipWS()
	if !cursor.consume('.') {
		return Triple{}, fmt.Errorf("declaration: %w: expected '.' at end of statement", ErrUnterminated)
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Triple{}, fmt.Errorf("declaration: %w: unexpected content after '.'", ErrSyntax)
	}
	return Triple{S: subject, P: predicate, O: object}, nil
}

type ntCursor struct {
	input    string
	pos      int
	registry *Registry
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) && (c.input[c.pos] == ' ' || c.input[c.pos] == '\t') {
		c.pos++
	}
}

func (c *ntCursor) requireSpace() bool {
	start := c.pos
	c.skipWS()
	return c.pos > start
}

func (c *ntCursor) consume(ch byte) bool {
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseResource() (Term, error) {
	if strings.HasPrefix(c.input[c.pos:], "_:") {
		return c.parseBlankNode()
	}
	return c.parseIRI()
}

func (c *ntCursor) parseObject() (Term, error) {
	if c.pos < len(c.input) && c.input[c.pos] == '"' {
		return c.parseLiteral()
	}
	if c.pos >= len(c.input) {
		return nil, fmt.Errorf("%w: missing object", ErrUnterminated)
	}
	return c.parseResource()
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, fmt.Errorf("%w: expected IRI", ErrSyntax)
	}
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		switch c.input[c.pos] {
		case ' ', '\t', '<', '"':
			return IRI{}, fmt.Errorf("%w: character %q inside IRI", ErrInvalidIRI, c.input[c.pos])
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, fmt.Errorf("%w: IRI missing closing '>'", ErrUnterminated)
	}
	raw := c.input[start:c.pos]
	c.pos++
	value, err := UnescapeUnicode(raw)
	if err != nil {
		return IRI{}, fmt.Errorf("%w: %v", ErrInvalidIRI, err)
	}
	return NewIRI(value)
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A trailing '.' terminates the statement rather than the label.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	return NewBlankNode(c.input[start:c.pos])
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.pos++
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '"' {
		if c.input[c.pos] == '\\' {
			c.pos++
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return Literal{}, fmt.Errorf("%w: literal missing closing quote", ErrUnterminated)
	}
	lexical, err := UnescapeString(c.input[start:c.pos])
	if err != nil {
		return Literal{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	c.pos++
	switch {
	case c.consume('@'):
		start := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) && c.input[c.pos] != '.' {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, fmt.Errorf("%w: empty language tag", ErrInvalidLanguageTag)
		}
		return NewPlainLiteral(lexical, c.input[start:c.pos])
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return c.registry.TypedLiteral(lexical, dt.Value)
	}
	return Literal{Lexical: lexical}, nil
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}
