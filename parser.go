package ogex

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Parse parses an OpenGEX document from bytes.
//
// The returned error is non-nil only for fatal conditions (unterminated
// string or comment, unbalanced braces, nesting too deep); everything
// else is recovered locally and reported through Document.Diagnostics.
// A partial Document is returned even on fatal errors.
func Parse(data []byte, opt *ParseOptions) (*Document, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses an OpenGEX document from a reader.
func Decode(r io.Reader, opt *ParseOptions) (*Document, error) {
	popt := opt.normalize()
	br := bufio.NewReader(r)
	if isBinaryOGEX(br) {
		return nil, ErrBinaryOGEX
	}

	p := newParser(br, popt)
	doc, err := p.parseDocument()
	if err != nil {
		return doc, err
	}

	if !popt.DisableValidation {
		doc.Diagnostics = append(doc.Diagnostics, Validate(doc, nil)...)
	}
	if !popt.DisableResolution {
		names, diags := Resolve(doc)
		doc.Names = names
		doc.Diagnostics = append(doc.Diagnostics, diags...)
	}

	return doc, nil
}

// DecodeFile parses an OpenGEX document from a file.
func DecodeFile(path string, opt *ParseOptions) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, opt)
}

// parser represents a parser for OpenGEX text.
type parser struct {
	l     *lexer       // Lexer for the input
	buf   token        // Buffered token
	has   bool         // Has buffered token
	opt   ParseOptions // Options for the parser
	diags []Diagnostic // Accumulated diagnostics
	depth int          // Current structure nesting depth
}

// newParser creates a new parser for OpenGEX text.
func newParser(r io.Reader, opt ParseOptions) *parser {
	p := &parser{opt: opt}
	p.l = newLexer(r, &p.diags)
	return p
}

// next returns the next token from the input.
func (p *parser) next() (token, error) {
	if p.has {
		p.has = false
		return p.buf, nil
	}

	return p.l.next()
}

// peek returns the next token from the input without consuming it.
func (p *parser) peek() (token, error) {
	if p.has {
		return p.buf, nil
	}

	tok, err := p.l.next()
	if err != nil {
		return tok, err
	}

	p.buf = tok
	p.has = true
	return tok, nil
}

// unread puts one token back into the lookahead buffer.
func (p *parser) unread(tok token) {
	p.buf = tok
	p.has = true
}

// parseDocument parses the top-level structure sequence.
func (p *parser) parseDocument() (*Document, error) {
	doc := &Document{}
	for {
		tok, err := p.peek()
		if err != nil {
			doc.Diagnostics = p.diags
			return doc, err
		}
		if tok.Type == tokEOF {
			break
		}

		if tok.Type != tokIdent {
			if tok.Type != tokBad {
				p.syntaxDiag(tok, fmt.Sprintf("expected structure, got %s", tokenName(tok.Type)))
			}
			if err := p.skipTopLevel(tok); err != nil {
				doc.Diagnostics = p.diags
				return doc, err
			}
			continue
		}

		kindTok, _ := p.next()
		nxt, err := p.peek()
		if err != nil {
			doc.Diagnostics = p.diags
			return doc, err
		}
		if nxt.Type != tokName && nxt.Type != tokLParen && nxt.Type != tokLBrace {
			// Bare identifier without a structure body.
			p.syntaxDiag(kindTok, fmt.Sprintf("expected structure body after %q", kindTok.Lit))
			continue
		}

		s, err := p.parseStructure(kindTok, nil)
		if err != nil {
			if s != nil {
				doc.Structures = append(doc.Structures, s)
			}
			doc.Diagnostics = p.diags
			return doc, err
		}
		if s != nil {
			doc.Structures = append(doc.Structures, s)
		}
	}

	doc.Diagnostics = p.diags
	return doc, nil
}

// skipTopLevel discards one unexpected top-level token, including a whole
// stray brace block, so parsing resumes at the next structure.
func (p *parser) skipTopLevel(tok token) error {
	_, _ = p.next()
	if tok.Type == tokLBrace {
		if err := p.skipToCloseBrace(); err != nil {
			return err
		}
		_, _ = p.next() // consume the closing brace
	}

	return nil
}

// parseStructure parses one structure whose kind token is already consumed:
// Kind [%name|$name] [(key = value, ...)] { children | data }.
func (p *parser) parseStructure(kindTok token, parent *Structure) (*Structure, error) {
	s := &Structure{Kind: kindTok.Lit, Line: kindTok.Line, Col: kindTok.Col, parent: parent}

	tok, err := p.peek()
	if err != nil {
		return s, err
	}
	if tok.Type == tokName {
		_, _ = p.next()
		s.Name = &Name{Ident: tok.Lit, Global: tok.Global}
		if tok, err = p.peek(); err != nil {
			return s, err
		}
	}

	if tok.Type == tokLParen {
		_, _ = p.next()
		if err := p.parseProps(s); err != nil {
			return s, err
		}
		if tok, err = p.peek(); err != nil {
			return s, err
		}
	}

	if tok.Type != tokLBrace {
		p.syntaxDiag(tok, "expected '{' to open structure body")
		return nil, nil
	}
	_, _ = p.next()

	p.depth++
	if p.depth > p.opt.MaxDepth {
		p.syntaxDiag(tok, "maximum structure nesting depth exceeded")
		return s, p.fatalf(tok, "maximum structure nesting depth exceeded")
	}
	err = p.parseBody(s)
	p.depth--

	return s, err
}

// parseBody parses a structure body: either nested structures or one
// primitive data array.
func (p *parser) parseBody(s *Structure) error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}

		switch tok.Type {
		case tokRBrace:
			_, _ = p.next()
			return nil

		case tokEOF:
			return p.fatalf(tok, "unbalanced braces at end of input")

		case tokIdent:
			kindTok, _ := p.next()
			if dt, ok := dataTypeNames[kindTok.Lit]; ok {
				if isData, err := p.startsData(); err != nil {
					return err
				} else if isData {
					if err := p.parseData(s, dt, kindTok); err != nil {
						return err
					}
					continue
				}
			}

			nxt, err := p.peek()
			if err != nil {
				return err
			}
			if nxt.Type != tokName && nxt.Type != tokLParen && nxt.Type != tokLBrace {
				p.syntaxDiag(kindTok, fmt.Sprintf("expected structure body after %q", kindTok.Lit))
				continue
			}

			child, err := p.parseStructure(kindTok, s)
			if err != nil {
				if child != nil && s.Data == nil {
					s.Children = append(s.Children, child)
				}
				return err
			}
			if child == nil {
				continue
			}
			if s.Data != nil {
				p.syntaxDiag(kindTok, "structure mixes primitive data and child structures")
				continue
			}
			s.Children = append(s.Children, child)

		case tokBad:
			// Lexical diagnostic already recorded; resume at the next token.
			_, _ = p.next()

		default:
			p.syntaxDiag(tok, fmt.Sprintf("expected structure or '}', got %s", tokenName(tok.Type)))
			if err := p.skipToCloseBrace(); err != nil {
				return err
			}
		}
	}
}

// startsData reports whether the lookahead begins a primitive data body
// ('{' or a '[N]' subarray arity) rather than a child structure.
func (p *parser) startsData() (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}

	return tok.Type == tokLBrace || tok.Type == tokLBracket, nil
}

// parseData parses the data body of a structure: type [N] { ... }.
func (p *parser) parseData(s *Structure, dt DataType, kindTok token) error {
	sub := 0
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok.Type == tokLBracket {
		_, _ = p.next()
		n, err := p.next()
		if err != nil {
			return err
		}
		if n.Type != tokInt || n.Neg || n.Uint == 0 || n.Uint > 1<<20 {
			p.syntaxDiag(n, "subarray arity must be a positive integer")
			return p.skipToCloseBrace()
		}
		sub = int(n.Uint)

		rb, err := p.next()
		if err != nil {
			return err
		}
		if rb.Type != tokRBracket {
			p.syntaxDiag(rb, "expected ']' after subarray arity")
			return p.skipToCloseBrace()
		}
	}

	lb, err := p.peek()
	if err != nil {
		return err
	}
	if lb.Type != tokLBrace {
		p.syntaxDiag(lb, "expected '{' to open data array")
		return p.skipToCloseBrace()
	}

	arr, err := p.readDataArray(dt, sub, kindTok)
	if err != nil {
		return err
	}

	if s.Data != nil || len(s.Children) > 0 {
		p.syntaxDiag(kindTok, "structure mixes primitive data and child structures")
		return nil
	}
	s.Data = arr

	return nil
}

// parseProps parses a comma-separated property list up to the closing paren.
func (p *parser) parseProps(s *Structure) error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}

		if tok.Type == tokRParen {
			_, _ = p.next()
			return nil
		}
		if tok.Type == tokEOF {
			return p.fatalf(tok, "unbalanced parentheses at end of input")
		}

		if tok.Type != tokIdent {
			p.syntaxDiag(tok, fmt.Sprintf("expected property key, got %s", tokenName(tok.Type)))
			return p.skipProps()
		}
		keyTok, _ := p.next()

		eq, err := p.peek()
		if err != nil {
			return err
		}
		if eq.Type != tokEqual {
			p.syntaxDiag(eq, "expected '=' after property key")
			return p.skipProps()
		}
		_, _ = p.next()

		val, err := p.parsePropValue()
		if err != nil {
			return err
		}
		s.Props = append(s.Props, Property{Key: keyTok.Lit, Value: val, Line: keyTok.Line, Col: keyTok.Col})

		tok, err = p.peek()
		if err != nil {
			return err
		}
		if tok.Type == tokComma {
			_, _ = p.next()
			continue
		}
		if tok.Type == tokRParen {
			continue
		}

		p.syntaxDiag(tok, "expected ',' or ')' in property list")
		return p.skipProps()
	}
}

// skipProps discards tokens up to and including the closing paren of a
// malformed property list.
func (p *parser) skipProps() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch tok.Type {
		case tokRParen:
			return nil
		case tokEOF:
			return p.fatalf(tok, "unbalanced parentheses at end of input")
		}
	}
}

// parsePropValue parses one property value literal.
func (p *parser) parsePropValue() (Value, error) {
	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}

	switch tok.Type {
	case tokInt:
		v, _ := fitInt(TypeInt64, tok.Neg, tok.Uint, true)
		return Value{Kind: ValueInt, Int: v}, nil

	case tokFloat:
		return Value{Kind: ValueFloat, Flt: tok.Flt}, nil

	case tokBool:
		return Value{Kind: ValueBool, Bool: tok.Bool}, nil

	case tokString:
		return Value{Kind: ValueString, Str: tok.Lit}, nil

	case tokName, tokNull:
		return p.refValue(tok)

	case tokIdent:
		if dt, ok := dataTypeNames[tok.Lit]; ok {
			return Value{Kind: ValueType, Type: dt}, nil
		}
		p.syntaxDiag(tok, fmt.Sprintf("invalid property value %q", tok.Lit))
		return Value{Kind: ValueString, Str: tok.Lit}, nil

	case tokBad:
		// Lexical diagnostic already recorded.
		return Value{}, nil

	default:
		p.syntaxDiag(tok, fmt.Sprintf("expected literal, got %s", tokenName(tok.Type)))
		return Value{}, nil
	}
}

// skipToCloseBrace discards tokens up to, but not including, the next
// balanced closing brace at the current nesting level.
func (p *parser) skipToCloseBrace() error {
	depth := 0
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}

		switch tok.Type {
		case tokLBrace:
			depth++
		case tokRBrace:
			if depth == 0 {
				p.unread(tok)
				return nil
			}
			depth--
		case tokEOF:
			return p.fatalf(tok, "unbalanced braces at end of input")
		}
	}
}

// expect expects a token.
func (p *parser) expect(tt tokenType) (token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if tok.Type != tt {
		return tok, p.fatalf(tok, "expected %s, got %s", tokenName(tt), tokenName(tok.Type))
	}

	return tok, nil
}

// syntaxDiag records a recoverable syntax diagnostic.
func (p *parser) syntaxDiag(tok token, msg string) {
	p.diags = append(p.diags, Diagnostic{
		Kind:    DiagSyntax,
		Level:   IssueError,
		Message: msg,
		Line:    tok.Line,
		Col:     tok.Col,
	})
}

// semDiag records a semantic diagnostic.
func (p *parser) semDiag(tok token, msg string) {
	p.diags = append(p.diags, Diagnostic{
		Kind:    DiagSemantic,
		Level:   IssueError,
		Message: msg,
		Line:    tok.Line,
		Col:     tok.Col,
	})
}

// fatalf formats a fatal parse error.
func (p *parser) fatalf(tok token, format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrParse, tok.Line, tok.Col, fmt.Sprintf(format, args...))
}

// isBinaryOGEX checks whether the input looks like binary data.
// OpenGEX is ASCII/UTF-8 text; raw zero bytes mean something else.
func isBinaryOGEX(r *bufio.Reader) bool {
	peek, err := r.Peek(4096)
	if err != nil && len(peek) == 0 {
		return false
	}

	for _, b := range peek {
		if b == 0x00 {
			return true
		}
	}

	return false
}
