package ogex

import (
	"reflect"
	"testing"
)

func parseRaw(t *testing.T, src string) *Document {
	t.Helper()

	doc, err := Parse([]byte(src), &ParseOptions{DisableValidation: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return doc
}

func nameDiags(doc *Document) []Diagnostic {
	var out []Diagnostic
	for _, d := range doc.Diagnostics {
		if d.Kind == DiagName {
			out = append(out, d)
		}
	}

	return out
}

func TestResolveGlobal(t *testing.T) {
	doc := parseRaw(t, `A $x { } B { ref {$x} }`)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}

	if doc.Names.Global("x") != doc.Structures[0] {
		t.Fatalf("global table does not point at the declaration")
	}
	ref := doc.Structures[1].Data.RefSlice()[0]
	if ref.Target != doc.Structures[0] {
		t.Fatalf("reference not resolved: %+v", ref)
	}
}

func TestResolvePropertyRef(t *testing.T) {
	doc := parseRaw(t, `A $x { } B (target = $x) { }`)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}

	v, ok := doc.Structures[1].Property("target")
	if !ok || v.Ref == nil || v.Ref.Target != doc.Structures[0] {
		t.Fatalf("property reference not resolved: %+v", v)
	}
}

func TestResolveLocalScopeChain(t *testing.T) {
	doc := parseRaw(t, `A { B %t { } C { D { ref {%t} } } }`)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}

	a := doc.Structures[0]
	want := a.Children[0]
	if doc.Names.Local(a, "t") != want {
		t.Fatalf("local table does not point at the declaration")
	}
	ref := a.Children[1].Children[0].Data.RefSlice()[0]
	if ref.Target != want {
		t.Fatalf("local lookup did not walk the scope chain: %+v", ref)
	}
}

func TestResolveNameChain(t *testing.T) {
	doc := parseRaw(t, `A $x { B %y { } } C { ref {$x%y} }`)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}

	ref := doc.Structures[1].Data.RefSlice()[0]
	if ref.Target != doc.Structures[0].Children[0] {
		t.Fatalf("chained reference not resolved: %+v", ref)
	}
}

func TestResolveDangling(t *testing.T) {
	doc := parseRaw(t, `A { ref {%missing} }`)
	diags := nameDiags(doc)
	if len(diags) != 1 {
		t.Fatalf("expected one name diagnostic, got %v", doc.Diagnostics)
	}

	ref := doc.Structures[0].Data.RefSlice()[0]
	if ref.Target != nil {
		t.Fatalf("dangling reference got a target: %+v", ref)
	}
}

func TestResolveLocalNotVisibleAcrossScopes(t *testing.T) {
	doc := parseRaw(t, `A { B %t { } } C { ref {%t} }`)
	if len(nameDiags(doc)) != 1 {
		t.Fatalf("expected one name diagnostic, got %v", doc.Diagnostics)
	}
}

func TestResolveNullRef(t *testing.T) {
	doc := parseRaw(t, `A { ref {null} }`)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics)
	}
	if ref := doc.Structures[0].Data.RefSlice()[0]; !ref.Null || ref.Target != nil {
		t.Fatalf("unexpected null ref %+v", ref)
	}
}

func TestResolveDuplicateGlobal(t *testing.T) {
	doc := parseRaw(t, `A $x { } B $x { } C { ref {$x} }`)
	if len(nameDiags(doc)) != 1 {
		t.Fatalf("expected one name diagnostic, got %v", doc.Diagnostics)
	}

	// First declaration wins.
	if doc.Names.Global("x") != doc.Structures[0] {
		t.Fatalf("duplicate overwrote the first declaration")
	}
	if ref := doc.Structures[2].Data.RefSlice()[0]; ref.Target != doc.Structures[0] {
		t.Fatalf("reference resolved to the wrong declaration: %+v", ref)
	}
}

func TestResolveDuplicateLocal(t *testing.T) {
	doc := parseRaw(t, `A { B %t { } C %t { } }`)
	if len(nameDiags(doc)) != 1 {
		t.Fatalf("expected one name diagnostic, got %v", doc.Diagnostics)
	}

	a := doc.Structures[0]
	if doc.Names.Local(a, "t") != a.Children[0] {
		t.Fatalf("duplicate overwrote the first declaration")
	}
}

func TestResolveSameLocalInSiblingScopes(t *testing.T) {
	doc := parseRaw(t, `A { B %t { } } C { D %t { } }`)
	if len(doc.Diagnostics) != 0 {
		t.Fatalf("same local name in unrelated scopes flagged: %v", doc.Diagnostics)
	}
}

func TestGlobalNames(t *testing.T) {
	doc := parseRaw(t, `A $b { } B $a { }`)
	if got := doc.Names.GlobalNames(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected global names %v", got)
	}
}

func TestNameTableNil(t *testing.T) {
	var nt *NameTable
	if nt.Global("x") != nil || nt.Local(nil, "x") != nil || nt.GlobalNames() != nil {
		t.Fatal("nil name table lookups must return zero values")
	}
}
