/*
Package ogex provides parsing, validation, name resolution, and writing
for OpenGEX scene description files built on the OpenDDL metagrammar.

Parsing turns a text buffer into a Document: the top-level structure
tree, an ordered diagnostics list, and a resolved name table. Recoverable
problems (a malformed structure, an out-of-range literal, a dangling
reference) become diagnostics and never abort the rest of the document;
only unterminated tokens, unbalanced braces, and pathological nesting are
fatal.

Reader example:

	doc, err := ogex.DecodeFile("scene.ogex", nil)
	if err != nil {
		// handle fatal parse error
	}
	for _, d := range doc.Diagnostics {
		// handle recovered problems
	}

Tree traversal example:

	for _, node := range doc.FindKind("GeometryNode") {
		if ref := node.FirstKind("ObjectRef"); ref != nil {
			geometry := ref.Data.RefSlice()[0].Target
			_ = geometry
		}
	}

Writer example:

	out, err := ogex.Format(doc, nil)
	if err != nil {
		// handle error
	}

Validator example:

	issues := ogex.Validate(doc, nil)
	if len(issues) != 0 {
		// handle validation issues
	}

Name table example:

	names, issues := ogex.Resolve(doc)
	if mat := names.Global("material1"); mat != nil {
		_ = mat
	}
	_ = issues
*/
package ogex
