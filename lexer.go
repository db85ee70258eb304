package ogex

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// lexer represents a lexer for OpenGEX text.
//
// Recoverable problems (malformed numeric literals) are appended to diags
// and surface as tokBad marker tokens; unterminated strings and block
// comments are fatal and returned as an error wrapping ErrLex.
type lexer struct {
	r     *bufio.Reader // Reader for the input
	diags *[]Diagnostic // Shared diagnostics accumulator
	pos   position      // Position of the current character
	ch    rune          // Current character
	eof   bool          // End of file
}

// position represents a position in the input.
type position struct {
	line int // Line number
	col  int // Column number
	off  int // Byte offset
}

// newLexer creates a new lexer for OpenGEX text.
func newLexer(r io.Reader, diags *[]Diagnostic) *lexer {
	l := &lexer{r: bufio.NewReader(r), diags: diags, pos: position{line: 1, col: 0}}
	l.read()
	if l.ch == 0xFEFF {
		// Skip UTF-8 BOM if present.
		l.read()
	}

	return l
}

// next returns the next token from the input.
func (l *lexer) next() (token, error) {
	if err := l.skipWhitespace(); err != nil {
		return token{}, err
	}
	if l.eof {
		return token{Type: tokEOF, Line: l.pos.line, Col: l.pos.col, Off: l.pos.off}, nil
	}

	start := l.pos

	// Tokenize the current character.
	switch l.ch {
	case '{':
		l.read()
		return l.punct(tokLBrace, "{", start), nil
	case '}':
		l.read()
		return l.punct(tokRBrace, "}", start), nil
	case '(':
		l.read()
		return l.punct(tokLParen, "(", start), nil
	case ')':
		l.read()
		return l.punct(tokRParen, ")", start), nil
	case '[':
		l.read()
		return l.punct(tokLBracket, "[", start), nil
	case ']':
		l.read()
		return l.punct(tokRBracket, "]", start), nil
	case '=':
		l.read()
		return l.punct(tokEqual, "=", start), nil
	case ',':
		l.read()
		return l.punct(tokComma, ",", start), nil

	case '"':
		lit, err := l.readString()
		if err != nil {
			return token{}, err
		}
		return token{Type: tokString, Lit: lit, Line: start.line, Col: start.col, Off: start.off}, nil

	case '\'':
		return l.readCharLiteral(start)

	case '%', '$':
		global := l.ch == '$'
		l.read()
		if l.eof || !isIdentStart(l.ch) {
			l.diag(start, "name sigil must be followed by an identifier")
			return token{Type: tokBad, Line: start.line, Col: start.col, Off: start.off}, nil
		}
		lit := l.readIdent()
		return token{Type: tokName, Lit: lit, Global: global, Line: start.line, Col: start.col, Off: start.off}, nil

	default:
		if isIdentStart(l.ch) {
			lit := l.readIdent()
			return l.identToken(lit, start), nil
		}

		if unicode.IsDigit(l.ch) || l.ch == '.' || l.ch == '+' || l.ch == '-' {
			return l.readNumber(start), nil
		}

		l.diag(start, fmt.Sprintf("unexpected character %q", l.ch))
		l.read()
		return token{Type: tokBad, Line: start.line, Col: start.col, Off: start.off}, nil
	}
}

// punct builds a punctuation token.
func (l *lexer) punct(tt tokenType, lit string, start position) token {
	return token{Type: tt, Lit: lit, Line: start.line, Col: start.col, Off: start.off}
}

// identToken maps reserved identifier spellings to literal tokens.
func (l *lexer) identToken(lit string, start position) token {
	tok := token{Lit: lit, Line: start.line, Col: start.col, Off: start.off}
	switch lit {
	case "true":
		tok.Type, tok.Bool = tokBool, true
	case "false":
		tok.Type, tok.Bool = tokBool, false
	case "inf":
		tok.Type, tok.Flt = tokFloat, math.Inf(1)
	case "nan":
		tok.Type, tok.Flt = tokFloat, math.NaN()
	case "null":
		tok.Type = tokNull
	default:
		tok.Type = tokIdent
	}

	return tok
}

// read reads the next character from the input.
func (l *lexer) read() {
	ch, size, err := l.r.ReadRune()
	if err != nil {
		l.eof = true
		l.ch = 0
		return
	}

	if ch == '\n' {
		l.pos.line++
		l.pos.col = 0
	} else {
		l.pos.col++
	}
	l.pos.off += size

	l.ch = ch
}

// peek returns the next character from the input without consuming it.
func (l *lexer) peek() rune {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0
	}

	_ = l.r.UnreadRune()
	return ch
}

// skipWhitespace skips whitespace and comments.
func (l *lexer) skipWhitespace() error {
	for {
		for unicode.IsSpace(l.ch) {
			l.read()
			if l.eof {
				return nil
			}
		}

		if l.ch == '/' {
			// Support // comments.
			next := l.peek()
			if next == '/' {
				l.read()
				l.read()
				for l.ch != '\n' && !l.eof {
					l.read()
				}
				continue
			}

			// Support /* */ comments (non-nesting).
			if next == '*' {
				start := l.pos
				l.read()
				l.read()
				for {
					if l.eof {
						return l.fatalf(start, "unterminated block comment")
					}
					if l.ch == '*' && l.peek() == '/' {
						l.read()
						l.read()
						break
					}
					l.read()
				}
				continue
			}
		}
		break
	}

	return nil
}

// readIdent reads an identifier from the input.
func (l *lexer) readIdent() string {
	var b strings.Builder
	for isIdentPart(l.ch) {
		b.WriteRune(l.ch)
		l.read()
		if l.eof {
			break
		}
	}

	return b.String()
}

// readNumber reads an integer or floating-point literal.
//
// Malformed literals produce a lexical diagnostic and a tokBad marker;
// lexing resumes at the next non-word character.
func (l *lexer) readNumber(start position) token {
	bad := token{Type: tokBad, Line: start.line, Col: start.col, Off: start.off}

	neg := false
	if l.ch == '+' || l.ch == '-' {
		neg = l.ch == '-'
		l.read()

		// Signed reserved float literals: -inf, +inf, -nan.
		if isIdentStart(l.ch) {
			lit := l.readIdent()
			switch lit {
			case "inf":
				f := math.Inf(1)
				if neg {
					f = math.Inf(-1)
				}
				return token{Type: tokFloat, Lit: lit, Flt: f, Line: start.line, Col: start.col, Off: start.off}
			case "nan":
				return token{Type: tokFloat, Lit: lit, Flt: math.NaN(), Line: start.line, Col: start.col, Off: start.off}
			}
			l.diag(start, "dangling sign before "+strconv.Quote(lit))
			return bad
		}
		if l.eof || (!unicode.IsDigit(l.ch) && l.ch != '.') {
			l.diag(start, "dangling sign")
			return bad
		}
	}

	// Radix-prefixed integers: 0x, 0o, 0b.
	if l.ch == '0' {
		switch l.peek() {
		case 'x', 'X':
			return l.readRadix(start, neg, 16, isHexDigit)
		case 'o', 'O':
			return l.readRadix(start, neg, 8, isOctDigit)
		case 'b', 'B':
			return l.readRadix(start, neg, 2, isBinDigit)
		}
	}

	var b strings.Builder
	isFloat := false
	for unicode.IsDigit(l.ch) {
		b.WriteRune(l.ch)
		l.read()
	}
	if l.ch == '.' {
		isFloat = true
		b.WriteRune('.')
		l.read()
		for unicode.IsDigit(l.ch) {
			b.WriteRune(l.ch)
			l.read()
		}
	}
	if b.Len() == 0 || b.String() == "." {
		l.diag(start, "malformed numeric literal")
		l.skipWord()
		return bad
	}
	if l.ch == 'e' || l.ch == 'E' {
		isFloat = true
		b.WriteRune('e')
		l.read()
		if l.ch == '+' || l.ch == '-' {
			b.WriteRune(l.ch)
			l.read()
		}
		if !unicode.IsDigit(l.ch) {
			l.diag(start, "dangling exponent in numeric literal")
			l.skipWord()
			return bad
		}
		for unicode.IsDigit(l.ch) {
			b.WriteRune(l.ch)
			l.read()
		}
	}
	if isIdentPart(l.ch) {
		l.diag(start, "trailing characters in numeric literal")
		l.skipWord()
		return bad
	}

	lit := b.String()
	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			l.diag(start, "malformed numeric literal")
			return bad
		}
		if neg {
			f = -f
		}
		return token{Type: tokFloat, Lit: lit, Flt: f, Line: start.line, Col: start.col, Off: start.off}
	}

	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		l.diag(start, "integer literal overflows 64 bits")
		return bad
	}

	return token{Type: tokInt, Lit: lit, Uint: u, Neg: neg, Radix: 10, Line: start.line, Col: start.col, Off: start.off}
}

// readRadix reads a hex, octal, or binary integer literal after its 0x/0o/0b prefix.
func (l *lexer) readRadix(start position, neg bool, radix int, digit func(rune) bool) token {
	bad := token{Type: tokBad, Line: start.line, Col: start.col, Off: start.off}

	l.read() // consume '0'
	l.read() // consume radix letter

	var b strings.Builder
	for digit(l.ch) {
		b.WriteRune(l.ch)
		l.read()
	}
	if b.Len() == 0 || isIdentPart(l.ch) {
		l.diag(start, "malformed numeric literal")
		l.skipWord()
		return bad
	}

	u, err := strconv.ParseUint(b.String(), radix, 64)
	if err != nil {
		l.diag(start, "integer literal overflows 64 bits")
		return bad
	}

	return token{Type: tokInt, Lit: b.String(), Uint: u, Neg: neg, Radix: radix, Line: start.line, Col: start.col, Off: start.off}
}

// skipWord consumes the remainder of a malformed word so lexing resumes
// at the next plausible token boundary.
func (l *lexer) skipWord() {
	for !l.eof && (isIdentPart(l.ch) || l.ch == '.' || l.ch == '+' || l.ch == '-') {
		l.read()
	}
}

// readString reads a string literal from the input.
func (l *lexer) readString() (string, error) {
	start := l.pos
	l.read() // consume opening quote

	var b strings.Builder
	for {
		if l.eof {
			return "", l.fatalf(start, "unterminated string")
		}

		if l.ch == '"' {
			l.read()
			break
		}

		if l.ch == '\\' {
			r, err := l.readEscape(start)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			continue
		}

		b.WriteRune(l.ch)
		l.read()
	}

	return b.String(), nil
}

// readEscape resolves one escape sequence inside a string or char literal.
func (l *lexer) readEscape(start position) (rune, error) {
	l.read() // consume backslash
	if l.eof {
		return 0, l.fatalf(start, "unterminated string")
	}

	ch := l.ch
	l.read()
	switch ch {
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '?':
		return '?', nil
	case '\\':
		return '\\', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'x':
		return l.readHexEscape(start, 2)
	case 'u':
		return l.readHexEscape(start, 4)
	case 'U':
		return l.readHexEscape(start, 6)
	default:
		l.diag(start, fmt.Sprintf("unknown escape sequence '\\%c'", ch))
		return ch, nil
	}
}

// readHexEscape reads exactly n hex digits of a \x, \u, or \U escape.
func (l *lexer) readHexEscape(start position, n int) (rune, error) {
	var v uint32
	for i := 0; i < n; i++ {
		if l.eof {
			return 0, l.fatalf(start, "unterminated string")
		}
		if !isHexDigit(l.ch) {
			l.diag(start, "malformed hex escape in string")
			return 0, nil
		}
		v = v<<4 | uint32(hexValue(l.ch))
		l.read()
	}

	return rune(v), nil
}

// readCharLiteral reads a character literal, an integer literal form.
// Multiple characters concatenate big-endian ('AB' == 0x4142).
func (l *lexer) readCharLiteral(start position) (token, error) {
	bad := token{Type: tokBad, Line: start.line, Col: start.col, Off: start.off}

	l.read() // consume opening quote
	var v uint64
	count := 0
	for {
		if l.eof || l.ch == '\n' {
			return token{}, l.fatalf(start, "unterminated character literal")
		}
		if l.ch == '\'' {
			l.read()
			break
		}

		var r rune
		if l.ch == '\\' {
			var err error
			r, err = l.readEscape(start)
			if err != nil {
				return token{}, err
			}
		} else {
			r = l.ch
			l.read()
		}
		if r > 0xFF {
			l.diag(start, "character literal element out of range")
			r = 0
		}
		v = v<<8 | uint64(byte(r))
		count++
	}

	if count == 0 || count > 8 {
		l.diag(start, "character literal must contain 1 to 8 characters")
		return bad, nil
	}

	return token{Type: tokInt, Uint: v, Radix: 10, Line: start.line, Col: start.col, Off: start.off}, nil
}

// diag records a recoverable lexical diagnostic.
func (l *lexer) diag(at position, msg string) {
	*l.diags = append(*l.diags, Diagnostic{
		Kind:    DiagLexical,
		Level:   IssueError,
		Message: msg,
		Line:    at.line,
		Col:     at.col,
	})
}

// fatalf formats a fatal lexical error.
func (l *lexer) fatalf(at position, format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrLex, at.line, at.col, fmt.Sprintf(format, args...))
}

// isIdentStart checks if a character is a valid start of an identifier.
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isIdentPart checks if a character is a valid part of an identifier.
func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isHexDigit checks if a character is a hexadecimal digit.
func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isOctDigit checks if a character is an octal digit.
func isOctDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

// isBinDigit checks if a character is a binary digit.
func isBinDigit(r rune) bool {
	return r == '0' || r == '1'
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}
