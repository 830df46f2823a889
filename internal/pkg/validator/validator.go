package validator

// Validator validates structs annotated with validation tags.
type Validator interface {
	// Validate returns nil when data passes all rules, or an error describing
	// the failing fields.
	Validate(data any) error
}
