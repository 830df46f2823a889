package hash

// Hash abstracts one-way hashing of secrets.
type Hash interface {
	// Hash takes a plaintext string and returns its hashed representation.
	Hash(plaintext string) ([]byte, error)

	// Verify checks if the given plaintext string matches the hashed value.
	Verify(hashed, plaintext string) bool
}
