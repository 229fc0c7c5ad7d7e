package crypto

// PasswordHasher derives and verifies storable password credentials.
// Implementations must be safe for concurrent use.
type PasswordHasher interface {
	// Hash derives a self-describing encoded credential from a plain-text
	// password. The encoding embeds the algorithm parameters and salt, so
	// Verify needs no external state.
	Hash(password string) (string, error)

	// Verify reports whether password matches the encoded credential.
	// A malformed encoded value yields an error, not a mismatch.
	Verify(password string, encoded string) (bool, error)
}
