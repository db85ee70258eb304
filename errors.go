package ogex

import "errors"

var (
	// ErrBinaryOGEX indicates the input is not OpenGEX text (contains raw zero bytes).
	ErrBinaryOGEX = errors.New("binary ogex")

	// ErrLex indicates a fatal lexer failure.
	ErrLex = errors.New("lex error")

	// ErrParse indicates a fatal parser failure.
	ErrParse = errors.New("parse error")
)
