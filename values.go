package ogex

// DataType identifies an OpenDDL primitive data type.
type DataType string

// OpenDDL primitive data types.
const (
	// TypeBool holds boolean elements.
	TypeBool DataType = "bool"
	// TypeInt8 holds signed 8-bit integer elements.
	TypeInt8 DataType = "int8"
	// TypeInt16 holds signed 16-bit integer elements.
	TypeInt16 DataType = "int16"
	// TypeInt32 holds signed 32-bit integer elements.
	TypeInt32 DataType = "int32"
	// TypeInt64 holds signed 64-bit integer elements.
	TypeInt64 DataType = "int64"
	// TypeUint8 holds unsigned 8-bit integer elements.
	TypeUint8 DataType = "unsigned_int8"
	// TypeUint16 holds unsigned 16-bit integer elements.
	TypeUint16 DataType = "unsigned_int16"
	// TypeUint32 holds unsigned 32-bit integer elements.
	TypeUint32 DataType = "unsigned_int32"
	// TypeUint64 holds unsigned 64-bit integer elements.
	TypeUint64 DataType = "unsigned_int64"
	// TypeHalf holds 16-bit floating-point elements.
	TypeHalf DataType = "half"
	// TypeFloat holds 32-bit floating-point elements.
	TypeFloat DataType = "float"
	// TypeDouble holds 64-bit floating-point elements.
	TypeDouble DataType = "double"
	// TypeString holds string elements.
	TypeString DataType = "string"
	// TypeRef holds reference elements.
	TypeRef DataType = "ref"
	// TypeType holds data type name elements.
	TypeType DataType = "type"
)

// dataTypeNames maps every accepted type keyword spelling to its canonical type.
var dataTypeNames = map[string]DataType{
	"bool":            TypeBool,
	"int8":            TypeInt8,
	"int16":           TypeInt16,
	"int32":           TypeInt32,
	"int64":           TypeInt64,
	"unsigned_int8":   TypeUint8,
	"unsigned_int16":  TypeUint16,
	"unsigned_int32":  TypeUint32,
	"unsigned_int64":  TypeUint64,
	"uint8":           TypeUint8,
	"uint16":          TypeUint16,
	"uint32":          TypeUint32,
	"uint64":          TypeUint64,
	"half":            TypeHalf,
	"float":           TypeFloat,
	"double":          TypeDouble,
	"string":          TypeString,
	"ref":             TypeRef,
	"type":            TypeType,
}

// IsUnsigned reports whether the type is an unsigned integer type.
func (t DataType) IsUnsigned() bool {
	switch t {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether the type is a signed or unsigned integer type.
func (t DataType) IsInteger() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type is a floating-point type.
func (t DataType) IsFloat() bool {
	switch t {
	case TypeHalf, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}

// ValueKind represents the kind of a parsed literal value.
type ValueKind int

const (
	// ValueInt indicates an integer literal.
	ValueInt ValueKind = iota
	// ValueFloat indicates a floating-point literal.
	ValueFloat
	// ValueBool indicates a boolean literal.
	ValueBool
	// ValueString indicates a string literal.
	ValueString
	// ValueRef indicates a reference literal.
	ValueRef
	// ValueType indicates a data type name literal.
	ValueType
)

// Value represents a parsed literal: a property value or one data array element.
// For unsigned 64-bit elements Int holds the two's-complement bits.
type Value struct {
	Str  string    `json:"str,omitempty" yaml:"str,omitempty"`   // String value
	Ref  *Ref      `json:"ref,omitempty" yaml:"ref,omitempty"`   // Reference value
	Type DataType  `json:"type,omitempty" yaml:"type,omitempty"` // Data type name value
	Kind ValueKind `json:"kind" yaml:"kind"`                     // Value kind
	Int  int64     `json:"int,omitempty" yaml:"int,omitempty"`   // Integer value
	Flt  float64   `json:"flt,omitempty" yaml:"flt,omitempty"`   // Floating-point value
	Bool bool      `json:"bool,omitempty" yaml:"bool,omitempty"` // Boolean value
}

// Name is a structure name: $global or %local identifier.
type Name struct {
	Ident  string `json:"ident" yaml:"ident"`                       // Identifier without the sigil
	Global bool   `json:"global,omitempty" yaml:"global,omitempty"` // Whether the name is document-wide
}

// String renders the name with its sigil.
func (n Name) String() string {
	if n.Global {
		return "$" + n.Ident
	}

	return "%" + n.Ident
}

// Ref is a reference literal: a chain of one or more names, or null.
// Target is set by the name resolver; a nil Target on a non-null ref
// means the reference is dangling.
type Ref struct {
	Names  []Name     `json:"names,omitempty" yaml:"names,omitempty"` // Name chain, outermost first
	Target *Structure `json:"-" yaml:"-"`                             // Resolved structure, nil if dangling
	Null   bool       `json:"null,omitempty" yaml:"null,omitempty"`   // Whether this is a null reference
	Line   int        `json:"line,omitempty" yaml:"line,omitempty"`   // Source line
	Col    int        `json:"col,omitempty" yaml:"col,omitempty"`     // Source column
}

// String renders the reference chain.
func (r *Ref) String() string {
	if r == nil || r.Null {
		return "null"
	}

	out := ""
	for _, n := range r.Names {
		out += n.String()
	}

	return out
}

// Property is one key = value entry of a structure's property list.
// Order is preserved from the source.
type Property struct {
	Key   string `json:"key" yaml:"key"`                       // Property key
	Value Value  `json:"value" yaml:"value"`                   // Property value
	Line  int    `json:"line,omitempty" yaml:"line,omitempty"` // Source line
	Col   int    `json:"col,omitempty" yaml:"col,omitempty"`   // Source column
}
