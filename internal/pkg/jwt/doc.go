// Package jwt is helpers for working with JSON Web Tokens (JWT).
//
// It includes:
//   - A typed Claims wrapper (registered claims + strongly-typed payload).
//   - A symmetric HS512 implementation for generating and verifying tokens.
//   - Context helpers for storing and retrieving authenticated claims.
//
// Tokens come in two kinds. Access tokens authenticate a session and carry
// the account's credential version. PIN session tokens prove a recent PIN
// check for sensitive screens and carry the PIN version. Both versions are
// re-checked against storage on every authenticated request, so bumping a
// version invalidates every previously issued token of that kind at once.
package jwt
