// Package clock abstracts the time source so lockout windows, token expiry
// and OTP lifetimes can be tested deterministically.
package clock
