package ogex

import (
	"fmt"
	"sort"
)

// NameTable holds the declared names of one document: global names are
// unique document-wide, local names are unique within the structure that
// encloses their declaration. Read-only once resolution completes.
type NameTable struct {
	globals map[string]*Structure
	locals  map[*Structure]map[string]*Structure // keyed by enclosing scope, nil for top level
}

// Global returns the structure declaring the given global name, or nil.
func (t *NameTable) Global(ident string) *Structure {
	if t == nil {
		return nil
	}

	return t.globals[ident]
}

// Local returns the structure declaring the given local name within the
// scope of the given structure (nil means the top-level scope), or nil.
func (t *NameTable) Local(scope *Structure, ident string) *Structure {
	if t == nil {
		return nil
	}

	return t.locals[scope][ident]
}

// GlobalNames returns all declared global names in sorted order.
func (t *NameTable) GlobalNames() []string {
	if t == nil {
		return nil
	}

	out := make([]string, 0, len(t.globals))
	for n := range t.globals {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// Resolve builds the document's name tables and resolves every reference
// in properties and ref-typed data arrays. Duplicate names keep their
// first declaration; unresolved references are left dangling (Target is
// nil) with one diagnostic each.
func Resolve(doc *Document) (*NameTable, []Diagnostic) {
	t := &NameTable{
		globals: make(map[string]*Structure),
		locals:  make(map[*Structure]map[string]*Structure),
	}
	var diags []Diagnostic

	for _, s := range doc.Structures {
		t.declare(s, &diags)
	}
	for _, s := range doc.Structures {
		t.resolveStructure(s, &diags)
	}

	return t, diags
}

// declare inserts the structure's name into the right table and recurses.
func (t *NameTable) declare(s *Structure, diags *[]Diagnostic) {
	if s.Name != nil {
		if s.Name.Global {
			if _, ok := t.globals[s.Name.Ident]; ok {
				nameDiag(diags, s, fmt.Sprintf("duplicate global name %s", s.Name))
			} else {
				t.globals[s.Name.Ident] = s
			}
		} else {
			scope := s.parent
			tbl := t.locals[scope]
			if tbl == nil {
				tbl = make(map[string]*Structure)
				t.locals[scope] = tbl
			}
			if _, ok := tbl[s.Name.Ident]; ok {
				nameDiag(diags, s, fmt.Sprintf("duplicate local name %s in enclosing scope", s.Name))
			} else {
				tbl[s.Name.Ident] = s
			}
		}
	}

	for _, c := range s.Children {
		t.declare(c, diags)
	}
}

// resolveStructure resolves every reference held by one structure and recurses.
func (t *NameTable) resolveStructure(s *Structure, diags *[]Diagnostic) {
	for _, p := range s.Props {
		if p.Value.Kind == ValueRef && p.Value.Ref != nil {
			t.resolveRef(p.Value.Ref, s, diags)
		}
	}
	if s.Data != nil && s.Data.Type == TypeRef {
		for _, v := range s.Data.Values {
			if v.Ref != nil {
				t.resolveRef(v.Ref, s, diags)
			}
		}
	}

	for _, c := range s.Children {
		t.resolveStructure(c, diags)
	}
}

// resolveRef resolves one name chain. The first component is looked up in
// the global table or up the local scope chain from the owning structure;
// each later component descends into the local scope of the previous target.
func (t *NameTable) resolveRef(ref *Ref, owner *Structure, diags *[]Diagnostic) {
	if ref.Null || len(ref.Names) == 0 {
		return
	}

	first := ref.Names[0]
	var cur *Structure
	if first.Global {
		cur = t.globals[first.Ident]
	} else {
		cur = t.lookupChain(owner, first.Ident)
	}
	if cur == nil {
		nameDiag(diags, refSite(ref, owner), fmt.Sprintf("unresolved reference %s", ref))
		return
	}

	for _, n := range ref.Names[1:] {
		next := t.locals[cur][n.Ident]
		if next == nil {
			nameDiag(diags, refSite(ref, owner), fmt.Sprintf("unresolved reference %s", ref))
			return
		}
		cur = next
	}

	ref.Target = cur
}

// lookupChain walks the local scope chain from innermost to outermost,
// ending at the top-level scope.
func (t *NameTable) lookupChain(owner *Structure, ident string) *Structure {
	for scope := owner; ; scope = scope.parent {
		if s := t.locals[scope][ident]; s != nil {
			return s
		}
		if scope == nil {
			return nil
		}
	}
}

// refSite carries position information for a reference diagnostic.
func refSite(ref *Ref, owner *Structure) *Structure {
	site := &Structure{Kind: owner.Kind, Line: ref.Line, Col: ref.Col}
	if ref.Line == 0 {
		site.Line, site.Col = owner.Line, owner.Col
	}

	return site
}

// nameDiag records one name resolution diagnostic.
func nameDiag(diags *[]Diagnostic, s *Structure, msg string) {
	*diags = append(*diags, Diagnostic{
		Kind:    DiagName,
		Level:   IssueError,
		Message: msg,
		Line:    s.Line,
		Col:     s.Col,
	})
}
