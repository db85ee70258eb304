package ogex

// tokenType represents a type of a token.
type tokenType int

// token types.
const (
	tokEOF      tokenType = iota // End of file
	tokIdent                     // Identifier (structure kinds, data types, property keys)
	tokName                      // %local or $global name
	tokInt                       // Integer literal (decimal, hex, octal, binary, char)
	tokFloat                     // Floating-point literal
	tokBool                      // true / false
	tokString                    // String literal with escapes resolved
	tokNull                      // null reference literal
	tokLBrace                    // Left brace
	tokRBrace                    // Right brace
	tokLParen                    // Left parenthesis
	tokRParen                    // Right parenthesis
	tokLBracket                  // Left bracket
	tokRBracket                  // Right bracket
	tokEqual                     // Equal
	tokComma                     // Comma
	tokBad                       // Error marker for a recoverable lexical error
)

// token represents a token in the OpenGEX file.
type token struct {
	Lit    string    // Literal value of the token
	Type   tokenType // Type of the token
	Line   int       // Line number of the token
	Col    int       // Column number of the token
	Off    int       // Byte offset of the token
	Uint   uint64    // Integer magnitude for tokInt
	Flt    float64   // Value for tokFloat
	Radix  int       // Radix of tokInt (10, 16, 8 or 2)
	Neg    bool      // Whether tokInt carries a minus sign
	Bool   bool      // Value for tokBool
	Global bool      // Whether tokName is a $global name
}

// tokenName returns the name of a token.
func tokenName(tt tokenType) string {
	switch tt {
	case tokEOF:
		return "EOF"
	case tokIdent:
		return "identifier"
	case tokName:
		return "name"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokBool:
		return "bool"
	case tokString:
		return "string"
	case tokNull:
		return "null"
	case tokLBrace:
		return "{"
	case tokRBrace:
		return "}"
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	case tokLBracket:
		return "["
	case tokRBracket:
		return "]"
	case tokEqual:
		return "="
	case tokComma:
		return ","
	default:
		return "token"
	}
}
