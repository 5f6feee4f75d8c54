package agentry

// Validatable lets argument structs add business rules that a JSON Schema cannot
// express (cross-field constraints, lookups). It runs after the schema check, on
// the already-unmarshaled value.
type Validatable interface {
	Validate() error
}

// schemaValidator abstracts the compiled-schema check over a parsed JSON value.
// Both the typed Extractor and dynamic tools validate through it, and
// *jsonschema.Resolved satisfies it directly.
type schemaValidator interface {
	Validate(v any) error
}

// validateAgainstSchema classifies a schema violation as a ClientError wrapping
// ErrValidation. The value must already be parsed; JSON syntax errors are the
// caller's to report.
func validateAgainstSchema(validate schemaValidator, v any) error {
	if err := validate.Validate(v); err != nil {
		return &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}

// validateCustom runs the Validatable hook when args provides one.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
