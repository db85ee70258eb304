package ogex

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// readDataArray parses one brace-enclosed primitive data list. The type
// keyword and optional [N] subarray arity are already consumed; the
// stream is positioned at the opening brace.
//
// Elements whose lexical kind disagrees with the declared type produce a
// semantic diagnostic and a type-appropriate zero substitute, so one bad
// element never aborts the list.
func (p *parser) readDataArray(typ DataType, sub int, at token) (*DataArray, error) {
	arr := &DataArray{Type: typ, Sub: sub, Line: at.Line, Col: at.Col}
	if _, err := p.expect(tokLBrace); err != nil {
		return arr, err
	}

	if sub > 0 {
		return arr, p.readSubArrays(arr)
	}

	return arr, p.readElementList(arr, tokRBrace)
}

// readElementList reads comma-separated elements until the closing token.
func (p *parser) readElementList(arr *DataArray, closeTok tokenType) error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}

		if tok.Type == closeTok {
			_, _ = p.next()
			break
		}
		if tok.Type == tokEOF {
			return p.fatalf(tok, "unbalanced braces in data array")
		}

		v, err := p.readDataElement(arr.Type)
		if err != nil {
			return err
		}

		arr.Values = append(arr.Values, v)
		tok, err = p.peek()
		if err != nil {
			return err
		}

		if tok.Type == tokComma {
			_, _ = p.next()
			continue
		}

		// Check if reached end of the list
		if tok.Type == closeTok {
			continue
		}

		p.syntaxDiag(tok, "expected ',' or '}' in data array")
		if err := p.skipToCloseBrace(); err != nil {
			return err
		}
	}

	return nil
}

// readSubArrays reads the bracketed subarray form: { {..}, {..}, ... }.
// Each group must hold exactly arr.Sub elements; a mismatched group
// produces one semantic diagnostic and is kept as parsed.
func (p *parser) readSubArrays(arr *DataArray) error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}

		if tok.Type == tokRBrace {
			_, _ = p.next()
			break
		}
		if tok.Type == tokEOF {
			return p.fatalf(tok, "unbalanced braces in data array")
		}

		if tok.Type != tokLBrace {
			p.syntaxDiag(tok, "expected '{' to open a subarray")
			if err := p.skipToCloseBrace(); err != nil {
				return err
			}
			continue
		}
		_, _ = p.next()

		before := len(arr.Values)
		if err := p.readElementList(arr, tokRBrace); err != nil {
			return err
		}
		if got := len(arr.Values) - before; got != arr.Sub {
			p.semDiag(tok, fmt.Sprintf("subarray holds %d elements, declared %d", got, arr.Sub))
		}

		tok, err = p.peek()
		if err != nil {
			return err
		}
		if tok.Type == tokComma {
			_, _ = p.next()
			continue
		}
		if tok.Type == tokRBrace {
			continue
		}

		p.syntaxDiag(tok, "expected ',' or '}' after subarray")
		if err := p.skipToCloseBrace(); err != nil {
			return err
		}
	}

	return nil
}

// readDataElement reads one literal of the declared element type.
func (p *parser) readDataElement(typ DataType) (Value, error) {
	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}

	// Error-marker tokens already carry a lexical diagnostic; substitute
	// the zero value silently.
	if tok.Type == tokBad {
		return zeroValue(typ), nil
	}

	switch {
	case typ == TypeBool:
		if tok.Type == tokBool {
			return Value{Kind: ValueBool, Bool: tok.Bool}, nil
		}

	case typ.IsInteger():
		if tok.Type == tokInt {
			return p.intValue(typ, tok), nil
		}

	case typ.IsFloat():
		switch tok.Type {
		case tokFloat:
			return p.floatValue(typ, tok), nil
		case tokInt:
			return p.floatFromInt(typ, tok), nil
		}

	case typ == TypeString:
		if tok.Type == tokString {
			return Value{Kind: ValueString, Str: tok.Lit}, nil
		}

	case typ == TypeRef:
		if tok.Type == tokName || tok.Type == tokNull {
			return p.refValue(tok)
		}

	case typ == TypeType:
		if tok.Type == tokIdent {
			if dt, ok := dataTypeNames[tok.Lit]; ok {
				return Value{Kind: ValueType, Type: dt}, nil
			}
			p.semDiag(tok, fmt.Sprintf("unknown data type name %q", tok.Lit))
			return zeroValue(typ), nil
		}
	}

	p.semDiag(tok, fmt.Sprintf("expected %s literal, got %s", typ, tokenName(tok.Type)))
	return zeroValue(typ), nil
}

// refValue assembles a reference chain from adjacent name tokens.
func (p *parser) refValue(tok token) (Value, error) {
	ref := &Ref{Line: tok.Line, Col: tok.Col}
	if tok.Type == tokNull {
		ref.Null = true
		return Value{Kind: ValueRef, Ref: ref}, nil
	}

	ref.Names = append(ref.Names, Name{Ident: tok.Lit, Global: tok.Global})
	for {
		nxt, err := p.peek()
		if err != nil {
			return Value{}, err
		}
		if nxt.Type != tokName {
			break
		}

		_, _ = p.next()
		if nxt.Global {
			// Only the first chain component may be a global name.
			p.semDiag(nxt, "global name inside a reference chain")
		}
		ref.Names = append(ref.Names, Name{Ident: nxt.Lit, Global: nxt.Global})
	}

	return Value{Kind: ValueRef, Ref: ref}, nil
}

// intValue range-checks an integer literal against the declared width.
// Out-of-range values saturate at the type bounds, or wrap in two's
// complement when TruncateOutOfRange is set; either way one semantic
// diagnostic is recorded.
func (p *parser) intValue(typ DataType, tok token) Value {
	v, ok := fitInt(typ, tok.Neg, tok.Uint, p.opt.TruncateOutOfRange)
	if !ok {
		p.semDiag(tok, fmt.Sprintf("value out of range for %s", typ))
	}

	return Value{Kind: ValueInt, Int: v}
}

// floatValue narrows a decimal float literal to the declared width.
func (p *parser) floatValue(typ DataType, tok token) Value {
	f := tok.Flt
	switch typ {
	case TypeHalf:
		h := float16.Fromfloat32(float32(f))
		if !math.IsInf(f, 0) && math.IsInf(float64(h.Float32()), 0) {
			p.semDiag(tok, "value out of range for half")
			h = float16.Fromfloat32(float32(math.Copysign(maxHalf, f)))
		}
		f = float64(h.Float32())

	case TypeFloat:
		n := float32(f)
		if !math.IsInf(f, 0) && math.IsInf(float64(n), 0) {
			p.semDiag(tok, "value out of range for float")
			n = float32(math.Copysign(math.MaxFloat32, f))
		}
		f = float64(n)
	}

	return Value{Kind: ValueFloat, Flt: f}
}

// floatFromInt converts an integer literal in floating-point context.
// Hex, octal, and binary literals are IEEE-754 bit patterns; decimal
// literals are numeric values.
func (p *parser) floatFromInt(typ DataType, tok token) Value {
	if tok.Radix == 10 {
		f := float64(tok.Uint)
		if tok.Neg {
			f = -f
		}
		return p.floatValue(typ, token{Type: tokFloat, Flt: f, Line: tok.Line, Col: tok.Col})
	}

	if tok.Neg {
		p.semDiag(tok, "sign not allowed on a floating-point bit pattern")
		return zeroValue(typ)
	}

	switch typ {
	case TypeHalf:
		if tok.Uint > 0xFFFF {
			p.semDiag(tok, "bit pattern out of range for half")
			return zeroValue(typ)
		}
		return Value{Kind: ValueFloat, Flt: float64(float16.Frombits(uint16(tok.Uint)).Float32())}

	case TypeFloat:
		if tok.Uint > 0xFFFFFFFF {
			p.semDiag(tok, "bit pattern out of range for float")
			return zeroValue(typ)
		}
		return Value{Kind: ValueFloat, Flt: float64(math.Float32frombits(uint32(tok.Uint)))}

	default:
		return Value{Kind: ValueFloat, Flt: math.Float64frombits(tok.Uint)}
	}
}

// maxHalf is the largest finite half-precision value.
const maxHalf = 65504

// zeroValue returns the type-appropriate default element.
func zeroValue(typ DataType) Value {
	switch {
	case typ == TypeBool:
		return Value{Kind: ValueBool}
	case typ.IsInteger():
		return Value{Kind: ValueInt}
	case typ.IsFloat():
		return Value{Kind: ValueFloat}
	case typ == TypeString:
		return Value{Kind: ValueString}
	case typ == TypeRef:
		return Value{Kind: ValueRef, Ref: &Ref{Null: true}}
	default:
		return Value{Kind: ValueType, Type: TypeBool}
	}
}

// fitInt fits a sign and magnitude into the declared integer type.
// Reports false if the value was out of range; the returned value then
// follows the saturate (default) or two's-complement wrap policy.
func fitInt(typ DataType, neg bool, mag uint64, truncate bool) (int64, bool) {
	width, signed := intWidth(typ)

	if signed {
		maxPos := uint64(1)<<(width-1) - 1
		maxNeg := uint64(1) << (width - 1)
		if neg && mag <= maxNeg {
			return -int64(mag), true
		}
		if !neg && mag <= maxPos {
			return int64(mag), true
		}
		if truncate {
			return wrapInt(neg, mag, width, true), false
		}
		if neg {
			return -int64(maxNeg), false
		}
		return int64(maxPos), false
	}

	maxVal := ^uint64(0) >> (64 - width)
	if !neg && mag <= maxVal {
		return int64(mag), true
	}
	if neg && mag == 0 {
		return 0, true
	}
	if truncate {
		return wrapInt(neg, mag, width, false), false
	}
	if neg {
		return 0, false
	}
	return int64(maxVal), false
}

// wrapInt reduces a sign and magnitude modulo 2^width.
func wrapInt(neg bool, mag uint64, width uint, signed bool) int64 {
	bits := mag
	if neg {
		bits = ^mag + 1
	}

	mask := ^uint64(0) >> (64 - width)
	bits &= mask
	if signed && width < 64 && bits>>(width-1) == 1 {
		// Sign-extend.
		bits |= ^mask
	}

	return int64(bits)
}

// intWidth returns the bit width and signedness of an integer type.
func intWidth(typ DataType) (uint, bool) {
	switch typ {
	case TypeInt8:
		return 8, true
	case TypeInt16:
		return 16, true
	case TypeInt32:
		return 32, true
	case TypeInt64:
		return 64, true
	case TypeUint8:
		return 8, false
	case TypeUint16:
		return 16, false
	case TypeUint32:
		return 32, false
	default:
		return 64, false
	}
}
