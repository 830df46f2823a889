// Package uid provides unique identifier generators.
//
// NumberID produces sortable int64 identifiers for database primary keys.
// StringID produces opaque string identifiers for tokens and trace IDs.
package uid

// NumberID generates unique int64 identifiers.
type NumberID interface {
	// Generate returns a new unique int64 identifier.
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	// Generate returns a new unique string identifier.
	Generate() string
}
