package rdf

import (
	"fmt"
	"io"
	"strings"
)

// Deserialize parses a Turtle document. Without an @base directive, relative
// IRIs resolve against the graph context override or DefaultContext; the
// first non-empty @base names the graph.
func (c *turtleCodec) Deserialize(r io.Reader) (*Graph, error) {
	input, err := readAllString(r)
	if err != nil {
		return nil, err
	}
	builder := newGraphBuilder(c.opts)
	defaultBase := builder.graph.Context().Value
	cursor := &turtleCursor{
		input:       input,
		prefixes:    make(map[string]string),
		base:        defaultBase,
		defaultBase: defaultBase,
		opts:        c.opts,
		builder:     builder,
	}
	if err := cursor.parseDocument(); err != nil {
		return nil, err
	}
	c.opts.Logger.Debug("deserialized graph", "format", FormatTurtle, "triples", builder.graph.Len(), "context", builder.graph.Context().Value)
	return builder.graph, nil
}

type turtleCursor struct {
	input       string
	pos         int
	prefixes    map[string]string
	base        string
	defaultBase string
	baseSeen    bool
	opts        Options
	builder     *graphBuilder
}

func (c *turtleCursor) parseDocument() error {
	for {
		c.skipWS()
		if c.pos >= len(c.input) {
			return nil
		}
		var err error
		switch {
		case strings.HasPrefix(c.input[c.pos:], "@prefix"):
			c.pos += len("@prefix")
			err = c.parsePrefixDirective(true)
		case strings.HasPrefix(c.input[c.pos:], "@base"):
			c.pos += len("@base")
			err = c.parseBaseDirective(true)
		case c.hasKeyword("PREFIX"):
			c.pos += len("PREFIX")
			err = c.parsePrefixDirective(false)
		case c.hasKeyword("BASE"):
			c.pos += len("BASE")
			err = c.parseBaseDirective(false)
		default:
			err = c.parseStatement()
		}
		if err != nil {
			return err
		}
	}
}

// hasKeyword matches a case-insensitive SPARQL-style directive keyword.
func (c *turtleCursor) hasKeyword(keyword string) bool {
	end := c.pos + len(keyword)
	if end >= len(c.input) || !strings.EqualFold(c.input[c.pos:end], keyword) {
		return false
	}
	switch c.input[end] {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func (c *turtleCursor) parsePrefixDirective(dotted bool) error {
	start := c.pos
	c.skipWS()
	nameStart := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != ':' && !isTurtleTerminator(c.input[c.pos], c.peekNext()) {
		c.pos++
	}
	if c.pos >= len(c.input) || c.input[c.pos] != ':' {
		return c.errorAt(start, ErrBadPrefix, "expected prefix name followed by ':'")
	}
	prefix := c.input[nameStart:c.pos]
	if !isValidPrefixName(prefix) {
		return c.errorAt(nameStart, ErrBadPrefix, "invalid prefix name %q", prefix)
	}
	c.pos++
	c.skipWS()
	if c.pos >= len(c.input) || c.input[c.pos] != '<' {
		return c.errorAt(c.pos, ErrBadPrefix, "expected namespace IRI for prefix %q", prefix)
	}
	ns, err := c.parseIRIRef()
	if err != nil {
		return err
	}
	if dotted && !c.consume('.') {
		return c.errorAt(c.pos, ErrBadPrefix, "expected '.' after @prefix directive")
	}
	c.prefixes[prefix] = ns.Value
	registerNamespace(c.opts, prefix, ns.Value)
	return nil
}

func (c *turtleCursor) parseBaseDirective(dotted bool) error {
	start := c.pos
	c.skipWS()
	if c.pos >= len(c.input) || c.input[c.pos] != '<' {
		return c.errorAt(start, ErrBadBase, "expected IRI after base directive")
	}
	iriStart := c.pos + 1
	end := strings.IndexAny(c.input[iriStart:], ">\n")
	if end < 0 || c.input[iriStart+end] != '>' {
		return c.errorAt(c.pos, ErrBadBase, "base IRI missing closing '>'")
	}
	raw := c.input[iriStart : iriStart+end]
	c.pos = iriStart + end + 1
	if dotted && !c.consume('.') {
		return c.errorAt(c.pos, ErrBadBase, "expected '.' after @base directive")
	}
	if strings.TrimSpace(raw) == "" {
		c.base = c.defaultBase
		return nil
	}
	value, err := UnescapeUnicode(raw)
	if err != nil {
		return c.errorAt(iriStart, ErrBadBase, "%v", err)
	}
	resolved := resolveIRI(c.base, value)
	if err := validateAbsoluteIRI(resolved); err != nil {
		return c.errorAt(iriStart, ErrBadBase, "%v", err)
	}
	c.base = resolved
	if !c.baseSeen {
		c.baseSeen = true
		if err := c.builder.setContext(c.opts, resolved); err != nil {
			return c.errorAt(iriStart, ErrBadBase, "%v", err)
		}
	}
	return nil
}

func (c *turtleCursor) parseStatement() error {
	start := c.pos
	subject, propertyList, err := c.parseSubject()
	if err != nil {
		return err
	}
	c.skipWS()
	if propertyList && c.pos < len(c.input) && c.input[c.pos] == '.' {
		c.pos++
		return nil
	}
	if err := c.parsePredicateObjectList(subject); err != nil {
		return err
	}
	if !c.consume('.') {
		if c.pos >= len(c.input) {
			return c.errorAt(start, ErrUnterminated, "statement missing terminating '.'")
		}
		return c.errorAt(c.pos, ErrSyntax, "expected ',' or ';' or '.'")
	}
	return nil
}

func (c *turtleCursor) parsePredicateObjectList(subject Term) error {
	for {
		predicate, err := c.parsePredicate()
		if err != nil {
			return err
		}
		if err := c.parseObjectList(subject, predicate); err != nil {
			return err
		}
		c.skipWS()
		if c.pos >= len(c.input) || c.input[c.pos] != ';' {
			return nil
		}
		for c.pos < len(c.input) && c.input[c.pos] == ';' {
			c.pos++
			c.skipWS()
		}
		if c.pos < len(c.input) && (c.input[c.pos] == '.' || c.input[c.pos] == ']') {
			return nil
		}
	}
}

func (c *turtleCursor) parseObjectList(subject Term, predicate IRI) error {
	for {
		start := c.pos
		object, err := c.parseObject()
		if err != nil {
			return err
		}
		if err := c.builder.add(Triple{S: subject, P: predicate, O: object}); err != nil {
			return c.errorAt(start, err, "")
		}
		if !c.consume(',') {
			return nil
		}
	}
}

func (c *turtleCursor) parseSubject() (Term, bool, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, false, c.errorAt(c.pos, ErrUnterminated, "missing subject")
	}
	switch ch := c.input[c.pos]; {
	case ch == '[':
		term, err := c.parseBlankNodePropertyList()
		return term, true, err
	case ch == '"' || ch == '\'':
		return nil, false, c.errorAt(c.pos, ErrInvalidTerm, "literal used as subject")
	}
	term, err := c.parseTerm(false)
	return term, false, err
}

func (c *turtleCursor) parsePredicate() (IRI, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return IRI{}, c.errorAt(c.pos, ErrUnterminated, "missing predicate")
	}
	if c.input[c.pos] == 'a' && isTurtleTerminator(c.peekNext(), 0) {
		c.pos++
		return RDFType, nil
	}
	start := c.pos
	switch c.input[c.pos] {
	case '[', '(', '"', '\'':
		return IRI{}, c.errorAt(start, ErrInvalidTerm, "predicate must be an IRI")
	}
	if strings.HasPrefix(c.input[c.pos:], "_:") {
		return IRI{}, c.errorAt(start, ErrInvalidTerm, "predicate must be an IRI")
	}
	term, err := c.parseTerm(false)
	if err != nil {
		return IRI{}, err
	}
	iri, ok := term.(IRI)
	if !ok {
		return IRI{}, c.errorAt(start, ErrInvalidTerm, "predicate must be an IRI")
	}
	return iri, nil
}

func (c *turtleCursor) parseObject() (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorAt(c.pos, ErrUnterminated, "missing object")
	}
	if c.input[c.pos] == '[' {
		return c.parseBlankNodePropertyList()
	}
	return c.parseTerm(true)
}

func (c *turtleCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorAt(c.pos, ErrUnterminated, "unexpected end of input")
	}
	switch ch := c.input[c.pos]; {
	case ch == '<':
		return c.parseIRIRef()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case ch == '[':
		return c.parseBlankNodePropertyList()
	case ch == '(':
		return c.parseCollection()
	case ch == '"' || ch == '\'':
		if !allowLiteral {
			return nil, c.errorAt(c.pos, ErrInvalidTerm, "literal not allowed here")
		}
		return c.parseLiteral()
	}
	if allowLiteral {
		if lit, ok, err := c.tryParseNumericLiteral(); ok || err != nil {
			return lit, err
		}
		if lit, ok := c.tryParseBooleanLiteral(); ok {
			return lit, nil
		}
	}
	return c.parsePrefixedName()
}

func (c *turtleCursor) parseIRIRef() (IRI, error) {
	start := c.pos
	c.pos++
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		ch := c.input[c.pos]
		if ch == '\n' || ch == '\r' {
			break
		}
		if isDisallowedIRIChar(rune(ch)) && ch != '\\' {
			return IRI{}, c.errorAt(c.pos, ErrInvalidIRI, "character %q inside IRI", ch)
		}
		c.pos++
	}
	if c.pos >= len(c.input) || c.input[c.pos] != '>' {
		return IRI{}, c.errorAt(start, ErrUnterminated, "IRI missing closing '>'")
	}
	raw := c.input[start+1 : c.pos]
	c.pos++
	value, err := UnescapeUnicode(raw)
	if err != nil {
		return IRI{}, c.errorAt(start, ErrInvalidIRI, "%v", err)
	}
	iri, err := NewIRI(resolveIRI(c.base, value))
	if err != nil {
		return IRI{}, c.errorAt(start, err, "")
	}
	return iri, nil
}

func isDisallowedIRIChar(codePoint rune) bool {
	if codePoint <= 0x20 {
		return true
	}
	switch codePoint {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}

// tryParseNumericLiteral reads a bare integer, decimal or double. The sign
// and exponent are normalized: a leading '+' is dropped from mantissa and
// exponent, and the exponent marker is written as 'E'.
func (c *turtleCursor) tryParseNumericLiteral() (Literal, bool, error) {
	start := c.pos
	if c.pos < len(c.input) && (c.input[c.pos] == '+' || c.input[c.pos] == '-') {
		c.pos++
	}
	if c.pos >= len(c.input) {
		c.pos = start
		return Literal{}, false, nil
	}

	hasDot := false
	hasExponent := false
	hasDigits := false
	exponentAt := -1

	if c.input[c.pos] == '.' {
		if c.pos+1 < len(c.input) && isDigit(c.input[c.pos+1]) {
			hasDot = true
			c.pos++
		} else {
			c.pos = start
			return Literal{}, false, nil
		}
	}

	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if isDigit(ch) {
			hasDigits = true
			c.pos++
		} else if ch == '.' && !hasDot && !hasExponent {
			next := c.peekNext()
			// Treat '.' as decimal point only if followed by a digit or exponent.
			if isDigit(next) || next == 'e' || next == 'E' {
				hasDot = true
				c.pos++
			} else {
				break
			}
		} else if (ch == 'e' || ch == 'E') && !hasExponent && hasDigits {
			hasExponent = true
			exponentAt = c.pos
			c.pos++
			if c.pos < len(c.input) && (c.input[c.pos] == '+' || c.input[c.pos] == '-') {
				c.pos++
			}
			if c.pos >= len(c.input) || !isDigit(c.input[c.pos]) {
				c.pos = start
				return Literal{}, false, nil
			}
		} else {
			break
		}
	}

	if !hasDigits || (c.pos < len(c.input) && !isTurtleTerminator(c.input[c.pos], c.peekNext())) {
		c.pos = start
		return Literal{}, false, nil
	}

	var dt Datatype
	var lexical string
	switch {
	case hasExponent:
		dt = XSDDouble
		mantissa := strings.TrimPrefix(c.input[start:exponentAt], "+")
		exponent := strings.TrimPrefix(c.input[exponentAt+1:c.pos], "+")
		lexical = mantissa + "E" + exponent
	case hasDot:
		dt = XSDDecimal
		lexical = strings.TrimPrefix(c.input[start:c.pos], "+")
	default:
		dt = XSDInteger
		lexical = strings.TrimPrefix(c.input[start:c.pos], "+")
	}
	lit, err := NewTypedLiteral(lexical, dt)
	if err != nil {
		return Literal{}, true, c.errorAt(start, err, "")
	}
	return lit, true, nil
}

func (c *turtleCursor) tryParseBooleanLiteral() (Literal, bool) {
	for _, value := range []string{"true", "false"} {
		end := c.pos + len(value)
		if strings.HasPrefix(c.input[c.pos:], value) && (end >= len(c.input) || isTurtleTerminator(c.input[end], 0)) {
			c.pos = end
			return Literal{Lexical: value, Datatype: XSDBoolean.IRI()}, true
		}
	}
	return Literal{}, false
}

func (c *turtleCursor) parsePrefixedName() (IRI, error) {
	start := c.pos
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '\\' && c.pos+1 < len(c.input) {
			c.pos += 2
			continue
		}
		if isTurtleTerminator(ch, c.peekNext()) || ch == '#' {
			break
		}
		c.pos++
	}
	token := c.input[start:c.pos]
	if token == "" {
		return IRI{}, c.errorAt(start, ErrSyntax, "expected term")
	}
	prefix, local, ok := strings.Cut(token, ":")
	if !ok {
		return IRI{}, c.errorAt(start, ErrSyntax, "unexpected token %q", token)
	}
	ns, known := c.prefixes[prefix]
	if !known {
		return IRI{}, c.errorAt(start, ErrUnknownPrefix, "prefix %q is not declared", prefix)
	}
	if local != "" && (local[0] == '.' || local[0] == '-') {
		return IRI{}, c.errorAt(start, ErrSyntax, "invalid local name in %q", token)
	}
	var b strings.Builder
	for i := 0; i < len(local); i++ {
		switch ch := local[i]; {
		case ch == '\\':
			if i+1 >= len(local) || !isValidPNLocalEscape(local[i+1]) {
				return IRI{}, c.errorAt(start, ErrSyntax, "invalid escape in %q", token)
			}
			i++
			b.WriteByte(local[i])
		case ch == '%':
			if i+2 >= len(local) || !isHexDigit(local[i+1]) || !isHexDigit(local[i+2]) {
				return IRI{}, c.errorAt(start, ErrSyntax, "invalid percent escape in %q", token)
			}
			b.WriteString(local[i : i+3])
			i += 2
		case ch == '~' || ch == '^' || ch == '"' || ch == '\'':
			return IRI{}, c.errorAt(start, ErrSyntax, "invalid character in %q", token)
		default:
			b.WriteByte(ch)
		}
	}
	iri, err := NewIRI(ns + b.String())
	if err != nil {
		return IRI{}, c.errorAt(start, err, "")
	}
	return iri, nil
}

func isValidPNLocalEscape(ch byte) bool {
	switch ch {
	case '_', '~', '.', '-', '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', '/', '?', '#', '@', '%':
		return true
	default:
		return false
	}
}

func (c *turtleCursor) parseBlankNode() (BlankNode, error) {
	start := c.pos
	c.pos += 2
	for c.pos < len(c.input) && !isTurtleTerminator(c.input[c.pos], c.peekNext()) && c.input[c.pos] != '#' {
		c.pos++
	}
	bn, err := NewBlankNode(c.input[start+2 : c.pos])
	if err != nil {
		return BlankNode{}, c.errorAt(start, err, "")
	}
	return bn, nil
}

// parseBlankNodePropertyList parses "[]" or "[ predicateObjectList ]".
func (c *turtleCursor) parseBlankNodePropertyList() (Term, error) {
	start := c.pos
	c.pos++
	bn := NewAnonymousBlankNode()
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ']' {
		c.pos++
		return bn, nil
	}
	if c.pos >= len(c.input) {
		return nil, c.errorAt(start, ErrBlankNodeSyntax, "unterminated blank node property list")
	}
	if err := c.parsePredicateObjectList(bn); err != nil {
		return nil, err
	}
	if !c.consume(']') {
		return nil, c.errorAt(start, ErrBlankNodeSyntax, "blank node property list missing closing ']'")
	}
	return bn, nil
}

// parseCollection parses "( object* )" into rdf:first/rdf:rest cells and
// returns the head, or rdf:nil for an empty list.
func (c *turtleCursor) parseCollection() (Term, error) {
	start := c.pos
	c.pos++
	var items []Term
	for {
		c.skipWS()
		if c.pos >= len(c.input) {
			return nil, c.errorAt(start, ErrUnterminated, "collection missing closing ')'")
		}
		if c.input[c.pos] == ')' {
			c.pos++
			break
		}
		item, err := c.parseObject()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	list := NewCollection(items...)
	if err := c.builder.addAll(list.Triples()); err != nil {
		return nil, c.errorAt(start, err, "")
	}
	return list.Head(), nil
}

func (c *turtleCursor) parseLiteral() (Literal, error) {
	start := c.pos
	quote := c.input[c.pos]
	long := strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3))
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	bodyStart := c.pos
	for {
		if c.pos >= len(c.input) {
			return Literal{}, c.errorAt(start, ErrUnterminated, "literal missing closing quote")
		}
		ch := c.input[c.pos]
		if ch == '\\' {
			c.pos += 2
			continue
		}
		if !long && (ch == '\n' || ch == '\r') {
			return Literal{}, c.errorAt(start, ErrUnterminated, "line break inside short literal")
		}
		if ch == quote && !long {
			break
		}
		if ch == quote && strings.HasPrefix(c.input[c.pos:], strings.Repeat(string(quote), 3)) {
			// Up to two quotes before the closing delimiter belong to the body.
			run := 3
			for run < 5 && c.pos+run < len(c.input) && c.input[c.pos+run] == quote {
				run++
			}
			c.pos += run - 3
			break
		}
		c.pos++
	}
	raw := c.input[bodyStart:c.pos]
	if long {
		c.pos += 3
	} else {
		c.pos++
	}
	lexical, err := UnescapeString(raw)
	if err != nil {
		return Literal{}, c.errorAt(bodyStart, ErrSyntax, "%v", err)
	}

	switch {
	case c.pos < len(c.input) && c.input[c.pos] == '@':
		c.pos++
		tagStart := c.pos
		for c.pos < len(c.input) && (isAlphaNum(c.input[c.pos]) || c.input[c.pos] == '-') {
			c.pos++
		}
		lit, err := NewPlainLiteral(lexical, c.input[tagStart:c.pos])
		if err != nil || tagStart == c.pos {
			return Literal{}, c.errorAt(tagStart, ErrInvalidLanguageTag, "%q", c.input[tagStart:c.pos])
		}
		return lit, nil
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		dtStart := c.pos
		dt, err := c.parseTerm(false)
		if err != nil {
			return Literal{}, err
		}
		iri, ok := dt.(IRI)
		if !ok {
			return Literal{}, c.errorAt(dtStart, ErrInvalidTerm, "datatype must be an IRI")
		}
		lit, err := c.opts.Registry.TypedLiteral(lexical, iri.Value)
		if err != nil {
			return Literal{}, c.errorAt(start, err, "")
		}
		return lit, nil
	}
	return Literal{Lexical: lexical}, nil
}

// skipWS skips whitespace and comments.
func (c *turtleCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		case '#':
			for c.pos < len(c.input) && c.input[c.pos] != '\n' {
				c.pos++
			}
		default:
			return
		}
	}
}

func (c *turtleCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *turtleCursor) peekNext() byte {
	if c.pos+1 >= len(c.input) {
		return 0
	}
	return c.input[c.pos+1]
}

// errorAt wraps sentinel with a message and the position of offset.
func (c *turtleCursor) errorAt(offset int, sentinel error, format string, args ...any) error {
	err := sentinel
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
	}
	return newParseError("turtle", c.input, offset, err)
}

func isTurtleTerminator(ch byte, next byte) bool {
	switch ch {
	case 0, ' ', '\t', '\r', '\n', ';', ',', '(', ')', '[', ']', '"', '\'', '<', '>':
		return true
	case '.':
		// Dot is a terminator only if followed by whitespace, a comment or a list/statement delimiter.
		switch next {
		case 0, ' ', '\t', '\r', '\n', ';', ',', ')', ']', '#':
			return true
		default:
			return false
		}
	default:
		return false
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlphaNum(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
