package ogex

import (
	"fmt"
	"sort"
)

// Validate checks every structure of the document against the OpenGEX
// metaschema and returns diagnostics. The tree itself is never modified:
// offending structures stay in place so callers can still inspect them.
func Validate(doc *Document, opt *ValidateOptions) []Diagnostic {
	vopt := opt.normalize()
	var out []Diagnostic

	for _, s := range doc.Structures {
		validateStructure(s, "", true, vopt, &out)
	}

	return out
}

// validateStructure checks one structure and recurses into its children.
func validateStructure(s *Structure, parentPath string, topLevel bool, opt ValidateOptions, out *[]Diagnostic) {
	path := joinPath(parentPath, pathSegment(s))

	spec, known := structureKinds[s.Kind]
	if !known {
		if !opt.DisableUnknownKindCheck {
			appendDiag(out, s, path, fmt.Sprintf("unknown structure kind %q", s.Kind))
		}
		// Still walk children so nested problems are reported.
		for _, c := range s.Children {
			validateStructure(c, path, false, opt, out)
		}
		return
	}

	if topLevel && !spec.topLevel {
		appendDiag(out, s, path, fmt.Sprintf("%s is not allowed at top level", s.Kind))
	}
	if s.Name != nil && spec.name == nameNone {
		appendDiag(out, s, path, fmt.Sprintf("%s may not carry a name", s.Kind))
	}

	validateProps(s, spec, path, opt, out)
	validateChildren(s, spec, path, out)
	validateData(s, spec, path, out)

	for _, c := range s.Children {
		validateStructure(c, path, false, opt, out)
	}
}

// validateProps checks property legality, value types, and required keys.
func validateProps(s *Structure, spec kindSpec, path string, opt ValidateOptions, out *[]Diagnostic) {
	for _, p := range s.Props {
		want, ok := spec.props[p.Key]
		if !ok {
			appendDiag(out, s, path, fmt.Sprintf("unknown property %q on %s", p.Key, s.Kind))
			continue
		}
		if !propValueMatches(want, p.Value) {
			appendDiag(out, s, path, fmt.Sprintf("property %q expects a %s value", p.Key, propKindName(want)))
		}
	}

	if opt.DisableRequiredPropCheck {
		return
	}
	for _, key := range spec.required {
		if _, ok := s.Property(key); !ok {
			*out = append(*out, Diagnostic{
				Kind:    DiagSemantic,
				Level:   IssueWarning,
				Message: fmt.Sprintf("%s missing required property %q", s.Kind, key),
				Path:    path,
				Line:    s.Line,
				Col:     s.Col,
			})
		}
	}
}

// validateChildren checks child kind legality and per-kind cardinality.
func validateChildren(s *Structure, spec kindSpec, path string, out *[]Diagnostic) {
	if spec.anyChild {
		return
	}

	counts := make(map[string]int, len(s.Children))
	for _, c := range s.Children {
		counts[c.Kind]++
		if _, ok := spec.children[c.Kind]; !ok {
			appendDiag(out, c, joinPath(path, pathSegment(c)), fmt.Sprintf("%s may not contain %s", s.Kind, c.Kind))
		}
	}

	// One diagnostic per violated bound, not per offending child.
	// Sorted so diagnostic order is stable across runs.
	kinds := make([]string, 0, len(spec.children))
	for kind := range spec.children {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		cs := spec.children[kind]
		n := counts[kind]
		if n < cs.min {
			appendDiag(out, s, path, fmt.Sprintf("%s requires at least %d %s", s.Kind, cs.min, kind))
		}
		if cs.max >= 0 && n > cs.max {
			appendDiag(out, s, path, fmt.Sprintf("%s allows at most %d %s, found %d", s.Kind, cs.max, kind, n))
		}
	}
}

// validateData checks the primitive data shape of data-holding kinds.
func validateData(s *Structure, spec kindSpec, path string, out *[]Diagnostic) {
	if s.Data == nil {
		if spec.data != nil && spec.data.min > 0 && len(s.Children) == 0 {
			appendDiag(out, s, path, fmt.Sprintf("%s must hold primitive data", s.Kind))
		}
		return
	}

	if spec.anyData {
		return
	}
	if spec.data == nil {
		appendDiag(out, s, path, fmt.Sprintf("%s may not hold primitive data", s.Kind))
		return
	}

	d := spec.data
	if !d.types[s.Data.Type] {
		appendDiag(out, s, path, fmt.Sprintf("%s does not accept %s data", s.Kind, s.Data.Type))
	}

	subOK := false
	for _, sub := range d.subs {
		if s.Data.Sub == sub {
			subOK = true
			break
		}
	}
	if !subOK {
		appendDiag(out, s, path, fmt.Sprintf("%s does not accept subarrays of %d", s.Kind, s.Data.Sub))
	}

	n := s.Data.Count()
	if n < d.min {
		appendDiag(out, s, path, fmt.Sprintf("%s data requires at least %d elements", s.Kind, d.min))
	}
	if d.max > 0 && n > d.max {
		appendDiag(out, s, path, fmt.Sprintf("%s data allows at most %d elements, found %d", s.Kind, d.max, n))
	}
}

// appendDiag records one semantic error diagnostic for a structure.
func appendDiag(out *[]Diagnostic, s *Structure, path, msg string) {
	*out = append(*out, Diagnostic{
		Kind:    DiagSemantic,
		Level:   IssueError,
		Message: msg,
		Path:    path,
		Line:    s.Line,
		Col:     s.Col,
	})
}

// propValueMatches checks a property value against its expected kind.
// Integer literals are accepted where floats are expected.
func propValueMatches(want propKind, v Value) bool {
	switch want {
	case propBool:
		return v.Kind == ValueBool
	case propInt:
		return v.Kind == ValueInt
	case propFloat:
		return v.Kind == ValueFloat || v.Kind == ValueInt
	case propString:
		return v.Kind == ValueString
	case propRef:
		return v.Kind == ValueRef
	default:
		return false
	}
}

// propKindName returns the human-readable name of an expected property kind.
func propKindName(k propKind) string {
	switch k {
	case propBool:
		return "bool"
	case propInt:
		return "integer"
	case propFloat:
		return "float"
	case propString:
		return "string"
	case propRef:
		return "reference"
	default:
		return "value"
	}
}

// pathSegment renders one structure path component: Kind or Kind($name).
func pathSegment(s *Structure) string {
	if s.Name != nil {
		return s.Kind + "(" + s.Name.String() + ")"
	}

	return s.Kind
}

// joinPath joins structure path components.
func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}

	return parent + "/" + seg
}
