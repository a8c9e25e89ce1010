package security

import "errors"

// Sentinel errors for the PWS3 cryptographic contract. Each is fatal to
// the operation that produced it; none are retried. They are
// distinguished with errors.Is so callers never need to match on a
// message string.
var (
	// ErrInvalidTag means the 4-byte magic at the head of the preamble did
	// not match "PWS3" — this is not a PWS3 file.
	ErrInvalidTag = errors.New("pwx: invalid database tag")

	// ErrInvalidIterationCount means ITER < 2048.
	ErrInvalidIterationCount = errors.New("pwx: iteration count is too low")

	// ErrInvalidSalt means the salt was shorter than 32 bytes. This cannot
	// happen for a well-formed 152-byte preamble; it is checked
	// defensively because KEYSTRETCH requires it.
	ErrInvalidSalt = errors.New("pwx: salt is too short")

	// ErrWrongPassword means SHA-256(P') did not match the stored
	// verification hash H(P'). The caller can retry with a different
	// passphrase: no cryptographic material has been trusted yet.
	ErrWrongPassword = errors.New("pwx: wrong password")

	// ErrUnableToInitializeTwofishKey means the cipher rejected the
	// derived key material (wrong length).
	ErrUnableToInitializeTwofishKey = errors.New("pwx: unable to initialize twofish key")

	// ErrAuthenticationFailed means the trailer HMAC did not match after a
	// full traversal of every field. Unlike ErrWrongPassword, this is
	// detected only after decrypting the entire body: it signals
	// tampering, not a bad passphrase.
	ErrAuthenticationFailed = errors.New("pwx: hmac validation failed, the file has been tampered with")
)
