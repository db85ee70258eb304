package ogex

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func parseArray(t *testing.T, typ DataType, sub int, src string, opt *ParseOptions) (*DataArray, []Diagnostic) {
	t.Helper()

	p := newParser(strings.NewReader(src), opt.normalize())
	arr, err := p.readDataArray(typ, sub, token{})
	if err != nil {
		t.Fatalf("read %q: %v", src, err)
	}

	return arr, p.diags
}

func TestFloatArray(t *testing.T) {
	arr, diags := parseArray(t, TypeFloat, 0, "{1.0, 2.5, -3.0}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !reflect.DeepEqual(arr.FloatSlice(), []float64{1, 2.5, -3}) {
		t.Fatalf("unexpected values: %v", arr.FloatSlice())
	}
}

func TestEmptyArray(t *testing.T) {
	arr, diags := parseArray(t, TypeFloat, 0, "{}", nil)
	if len(diags) != 0 || arr.Len() != 0 || arr.Count() != 0 {
		t.Fatalf("expected empty array, got %+v diags %v", arr, diags)
	}
}

func TestNonFiniteFloats(t *testing.T) {
	arr, diags := parseArray(t, TypeFloat, 0, "{inf, -inf, nan}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	got := arr.FloatSlice()
	want := []float64{math.Inf(1), math.Inf(-1), math.NaN()}
	for i := range want {
		if !floatEqual(got[i], want[i]) {
			t.Fatalf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIntegerRangePolicy(t *testing.T) {
	tests := []struct {
		name     string
		typ      DataType
		src      string
		truncate bool
		want     []int64
		diags    int
	}{
		{"int8_saturate", TypeInt8, "{200, -200, 100}", false, []int64{127, -128, 100}, 2},
		{"int8_truncate", TypeInt8, "{200, -200, 100}", true, []int64{-56, 56, 100}, 2},
		{"uint8_saturate", TypeUint8, "{300, -1}", false, []int64{255, 0}, 2},
		{"uint8_truncate", TypeUint8, "{300, -1}", true, []int64{44, 255}, 2},
		{"int16_bounds", TypeInt16, "{32767, -32768}", false, []int64{32767, -32768}, 0},
		{"int64_min", TypeInt64, "{-9223372036854775808}", false, []int64{math.MinInt64}, 0},
		{"uint64_max", TypeUint64, "{18446744073709551615}", false, []int64{-1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := &ParseOptions{TruncateOutOfRange: tt.truncate}
			arr, diags := parseArray(t, tt.typ, 0, tt.src, opt)
			if len(diags) != tt.diags {
				t.Fatalf("expected %d diagnostics, got %v", tt.diags, diags)
			}
			for _, d := range diags {
				if d.Kind != DiagSemantic {
					t.Fatalf("expected semantic diagnostics, got %v", d)
				}
			}
			if !reflect.DeepEqual(arr.IntSlice(), tt.want) {
				t.Fatalf("got %v, want %v", arr.IntSlice(), tt.want)
			}
		})
	}
}

func TestUnsignedAccess(t *testing.T) {
	arr, _ := parseArray(t, TypeUint64, 0, "{18446744073709551615, 7}", nil)
	if !reflect.DeepEqual(arr.UintSlice(), []uint64{18446744073709551615, 7}) {
		t.Fatalf("unexpected values: %v", arr.UintSlice())
	}
}

func TestCharLiteralData(t *testing.T) {
	arr, diags := parseArray(t, TypeInt32, 0, "{'A', 'AB'}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !reflect.DeepEqual(arr.IntSlice(), []int64{65, 0x4142}) {
		t.Fatalf("unexpected values: %v", arr.IntSlice())
	}
}

func TestFloatBitPatterns(t *testing.T) {
	tests := []struct {
		typ  DataType
		src  string
		want float64
	}{
		{TypeFloat, "{0x3F800000}", 1},
		{TypeDouble, "{0x3FF0000000000000}", 1},
		{TypeHalf, "{0x3C00}", 1},
		{TypeHalf, "{0xC000}", -2},
		{TypeDouble, "{0b0}", 0},
	}
	for _, tt := range tests {
		arr, diags := parseArray(t, tt.typ, 0, tt.src, nil)
		if len(diags) != 0 {
			t.Fatalf("%s %s: unexpected diagnostics: %v", tt.typ, tt.src, diags)
		}
		if got := arr.FloatSlice()[0]; got != tt.want {
			t.Fatalf("%s %s: got %v, want %v", tt.typ, tt.src, got, tt.want)
		}
	}
}

func TestFloatFromDecimalInt(t *testing.T) {
	arr, diags := parseArray(t, TypeDouble, 0, "{2, -3}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !reflect.DeepEqual(arr.FloatSlice(), []float64{2, -3}) {
		t.Fatalf("unexpected values: %v", arr.FloatSlice())
	}
}

func TestFloatBitPatternErrors(t *testing.T) {
	tests := []struct {
		typ DataType
		src string
	}{
		{TypeFloat, "{-0x3F800000}"},
		{TypeHalf, "{0x10000}"},
		{TypeFloat, "{0x1FFFFFFFF}"},
	}
	for _, tt := range tests {
		arr, diags := parseArray(t, tt.typ, 0, tt.src, nil)
		if len(diags) != 1 || diags[0].Kind != DiagSemantic {
			t.Fatalf("%s %s: expected one semantic diagnostic, got %v", tt.typ, tt.src, diags)
		}
		if got := arr.FloatSlice()[0]; got != 0 {
			t.Fatalf("%s %s: expected zero substitute, got %v", tt.typ, tt.src, got)
		}
	}
}

func TestFloatNarrowing(t *testing.T) {
	arr, diags := parseArray(t, TypeFloat, 0, "{1e39, -1e39}", nil)
	if len(diags) != 2 {
		t.Fatalf("expected two diagnostics, got %v", diags)
	}
	want := []float64{math.MaxFloat32, -math.MaxFloat32}
	if !reflect.DeepEqual(arr.FloatSlice(), want) {
		t.Fatalf("got %v, want %v", arr.FloatSlice(), want)
	}

	arr, diags = parseArray(t, TypeHalf, 0, "{100000.0}", nil)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if got := arr.FloatSlice()[0]; got != 65504 {
		t.Fatalf("expected clamp to 65504, got %v", got)
	}
}

func TestTypeMismatchSubstitution(t *testing.T) {
	tests := []struct {
		typ DataType
		src string
		len int
	}{
		{TypeFloat, `{"x", 1.0}`, 2},
		{TypeBool, "{1}", 1},
		{TypeString, "{5}", 1},
		{TypeInt32, "{2.5}", 1},
	}
	for _, tt := range tests {
		arr, diags := parseArray(t, tt.typ, 0, tt.src, nil)
		if len(diags) != 1 || diags[0].Kind != DiagSemantic {
			t.Fatalf("%s %s: expected one semantic diagnostic, got %v", tt.typ, tt.src, diags)
		}
		if arr.Len() != tt.len {
			t.Fatalf("%s %s: expected %d elements, got %d", tt.typ, tt.src, tt.len, arr.Len())
		}
	}
}

func TestBoolStringTypeArrays(t *testing.T) {
	arr, _ := parseArray(t, TypeBool, 0, "{true, false}", nil)
	if !reflect.DeepEqual(arr.BoolSlice(), []bool{true, false}) {
		t.Fatalf("unexpected bools: %v", arr.BoolSlice())
	}

	arr, _ = parseArray(t, TypeString, 0, `{"a", "b"}`, nil)
	if !reflect.DeepEqual(arr.StringSlice(), []string{"a", "b"}) {
		t.Fatalf("unexpected strings: %v", arr.StringSlice())
	}

	arr, diags := parseArray(t, TypeType, 0, "{float, unsigned_int8, uint16}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := []DataType{TypeFloat, TypeUint8, TypeUint16}
	for i, v := range arr.Values {
		if v.Kind != ValueType || v.Type != want[i] {
			t.Fatalf("element %d: got %v, want %v", i, v.Type, want[i])
		}
	}
}

func TestRefData(t *testing.T) {
	arr, diags := parseArray(t, TypeRef, 0, "{$a, %b%c, null}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	refs := arr.RefSlice()
	if len(refs) != 3 {
		t.Fatalf("expected three refs, got %d", len(refs))
	}
	if refs[0].String() != "$a" {
		t.Fatalf("unexpected first ref %v", refs[0])
	}
	if refs[1].String() != "%b%c" || len(refs[1].Names) != 2 {
		t.Fatalf("unexpected chain ref %v", refs[1])
	}
	if !refs[2].Null || refs[2].String() != "null" {
		t.Fatalf("unexpected null ref %v", refs[2])
	}
}

func TestRefChainGlobalTail(t *testing.T) {
	arr, diags := parseArray(t, TypeRef, 0, "{%a$b}", nil)
	if len(diags) != 1 || diags[0].Kind != DiagSemantic {
		t.Fatalf("expected one semantic diagnostic, got %v", diags)
	}
	if len(arr.RefSlice()[0].Names) != 2 {
		t.Fatalf("chain was not kept: %v", arr.RefSlice()[0])
	}
}

func TestSubArrays(t *testing.T) {
	arr, diags := parseArray(t, TypeFloat, 3, "{{1.0, 2.0, 3.0}, {4.0, 5.0, 6.0}}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if arr.Len() != 6 || arr.Count() != 2 || arr.Sub != 3 {
		t.Fatalf("unexpected shape: len=%d count=%d sub=%d", arr.Len(), arr.Count(), arr.Sub)
	}

	arr, diags = parseArray(t, TypeFloat, 3, "{{1.0, 2.0}}", nil)
	if len(diags) != 1 || diags[0].Kind != DiagSemantic {
		t.Fatalf("expected one semantic diagnostic, got %v", diags)
	}
	if arr.Len() != 2 {
		t.Fatalf("short subarray was not kept: %v", arr.Values)
	}

	arr, diags = parseArray(t, TypeFloat, 3, "{}", nil)
	if len(diags) != 0 || arr.Len() != 0 {
		t.Fatalf("expected empty subarray form, got %+v diags %v", arr, diags)
	}
}

func TestSubArrayWiring(t *testing.T) {
	src := `Extension (type = "e") { float[2] {{1.0, 2.0}, {3.0, 4.0}} }`
	doc, err := Parse([]byte(src), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}

	arr := doc.Structures[0].Data
	if arr == nil || arr.Sub != 2 || arr.Count() != 2 {
		t.Fatalf("unexpected data array: %+v", arr)
	}
	if !reflect.DeepEqual(arr.FloatSlice(), []float64{1, 2, 3, 4}) {
		t.Fatalf("unexpected values: %v", arr.FloatSlice())
	}
}

func TestHalfAccess(t *testing.T) {
	arr, diags := parseArray(t, TypeHalf, 0, "{1.0, 0.5, -2.0}", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	hs := arr.HalfSlice()
	want := []float32{1, 0.5, -2}
	for i := range want {
		if hs[i].Float32() != want[i] {
			t.Fatalf("element %d: got %v, want %v", i, hs[i].Float32(), want[i])
		}
	}
}
