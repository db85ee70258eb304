package ogex

// defaultMaxDepth bounds structure nesting against adversarial input.
const defaultMaxDepth = 1024

// ParseOptions controls parsing behavior.
type ParseOptions struct {
	// MaxDepth is the maximum structure nesting depth (default 1024).
	// Exceeding it aborts the parse with ErrParse.
	MaxDepth int
	// TruncateOutOfRange makes out-of-range integer literals wrap in
	// two's complement instead of saturating at the type bounds.
	// Either way one semantic diagnostic is recorded per element.
	TruncateOutOfRange bool
	// DisableValidation skips the metaschema validation pass.
	DisableValidation bool
	// DisableResolution skips the name resolution pass.
	DisableResolution bool
}

// ValidateOptions controls validation rules.
type ValidateOptions struct {
	// DisableUnknownKindCheck disables diagnostics for structure kinds
	// absent from the OpenGEX metaschema.
	DisableUnknownKindCheck bool
	// DisableRequiredPropCheck disables warnings for missing required
	// properties (Metric key, VertexArray attrib, Track target, ...).
	DisableRequiredPropCheck bool
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is four spaces).
	Indent string
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{MaxDepth: defaultMaxDepth}
	}

	out := *o
	if out.MaxDepth <= 0 {
		out.MaxDepth = defaultMaxDepth
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		return ValidateOptions{}
	}

	return *o
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "    "}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "    "
	}

	return out
}
