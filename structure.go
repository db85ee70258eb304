package ogex

import (
	"math"

	"github.com/x448/float16"
)

// Structure is one node of the OpenGEX document tree: a kind keyword,
// an optional name, ordered properties, and either nested children or
// one primitive data array. The content form is fixed at construction.
type Structure struct {
	Kind     string       `json:"kind" yaml:"kind"`                             // Structure kind keyword
	Name     *Name        `json:"name,omitempty" yaml:"name,omitempty"`         // Optional structure name
	Props    []Property   `json:"props,omitempty" yaml:"props,omitempty"`       // Ordered property list
	Children []*Structure `json:"children,omitempty" yaml:"children,omitempty"` // Nested structures
	Data     *DataArray   `json:"data,omitempty" yaml:"data,omitempty"`         // Primitive data array
	Line     int          `json:"line,omitempty" yaml:"line,omitempty"`         // Source line
	Col      int          `json:"col,omitempty" yaml:"col,omitempty"`           // Source column

	parent *Structure // Owning structure, nil at top level
}

// Parent returns the owning structure, or nil for a top-level structure.
func (s *Structure) Parent() *Structure {
	return s.parent
}

// Property returns the value of the named property and whether it is present.
func (s *Structure) Property(key string) (Value, bool) {
	for _, p := range s.Props {
		if p.Key == key {
			return p.Value, true
		}
	}

	return Value{}, false
}

// FindKind returns the direct children of the given kind, in source order.
func (s *Structure) FindKind(kind string) []*Structure {
	var out []*Structure
	for _, c := range s.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}

	return out
}

// FirstKind returns the first direct child of the given kind, or nil.
func (s *Structure) FirstKind(kind string) *Structure {
	for _, c := range s.Children {
		if c.Kind == kind {
			return c
		}
	}

	return nil
}

// DataArray is one typed primitive data array. Values holds the elements
// flattened in source order; Sub is the subarray arity for the
// bracketed form (float[3] { {...}, ... }), zero for flat arrays.
type DataArray struct {
	Type   DataType `json:"type" yaml:"type"`                     // Element type
	Values []Value  `json:"values,omitempty" yaml:"values,omitempty"` // Elements in source order
	Sub    int      `json:"sub,omitempty" yaml:"sub,omitempty"`   // Elements per subarray, 0 for flat
	Line   int      `json:"line,omitempty" yaml:"line,omitempty"` // Source line
	Col    int      `json:"col,omitempty" yaml:"col,omitempty"`   // Source column
}

// Len returns the number of elements.
func (a *DataArray) Len() int {
	return len(a.Values)
}

// Count returns the number of subarrays, or the element count for flat arrays.
func (a *DataArray) Count() int {
	if a.Sub <= 0 {
		return len(a.Values)
	}

	return len(a.Values) / a.Sub
}

// BoolSlice returns the elements as booleans.
func (a *DataArray) BoolSlice() []bool {
	out := make([]bool, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Bool
	}

	return out
}

// IntSlice returns the elements as signed integers.
func (a *DataArray) IntSlice() []int64 {
	out := make([]int64, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Int
	}

	return out
}

// UintSlice returns the elements as unsigned integers.
func (a *DataArray) UintSlice() []uint64 {
	out := make([]uint64, len(a.Values))
	for i, v := range a.Values {
		out[i] = uint64(v.Int)
	}

	return out
}

// FloatSlice returns the elements as float64 values.
func (a *DataArray) FloatSlice() []float64 {
	out := make([]float64, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Flt
	}

	return out
}

// HalfSlice returns the elements as half-precision floats.
func (a *DataArray) HalfSlice() []float16.Float16 {
	out := make([]float16.Float16, len(a.Values))
	for i, v := range a.Values {
		out[i] = float16.Fromfloat32(float32(v.Flt))
	}

	return out
}

// StringSlice returns the elements as strings.
func (a *DataArray) StringSlice() []string {
	out := make([]string, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Str
	}

	return out
}

// RefSlice returns the elements as references.
func (a *DataArray) RefSlice() []*Ref {
	out := make([]*Ref, len(a.Values))
	for i, v := range a.Values {
		out[i] = v.Ref
	}

	return out
}

// Document is the result of one parse call: the top-level structures,
// the diagnostics accumulated by every pass, and the resolved name
// table. Immutable once returned.
type Document struct {
	Structures  []*Structure `json:"structures,omitempty" yaml:"structures,omitempty"`   // Top-level structures
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"` // Ordered diagnostics
	Names       *NameTable   `json:"-" yaml:"-"`                                         // Resolved name table
}

// FindKind returns the top-level structures of the given kind, in source order.
func (d *Document) FindKind(kind string) []*Structure {
	var out []*Structure
	for _, s := range d.Structures {
		if s.Kind == kind {
			out = append(out, s)
		}
	}

	return out
}

// floatEqual compares two float64 values treating NaN as equal to NaN,
// used by tests and by structural comparison helpers.
func floatEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}

	return a == b
}
