package repository

// PasswordHasher defines the contract for one-way password hashing.
//
// Verify has exactly one success path: a hash produced from the same
// plaintext. A mismatch, a malformed stored hash and a failure inside the
// hashing library all return false. There is no error return to misread as
// acceptance.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenSource produces cryptographically random secrets.
type TokenSource interface {
	// SessionToken returns an unguessable opaque token with at least 128
	// bits of entropy.
	SessionToken() (string, error)

	// TempPassword returns a random alphanumeric password of the given
	// length for the credential reset flow.
	TempPassword(length int) (string, error)
}
