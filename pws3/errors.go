// Package pws3 implements a read-only decoder for the Password Safe v3
// (PWS3) encrypted database format: preamble authentication, a streaming
// CBC-decrypted body, and an HMAC-SHA-256 integrity check over the
// decoded field values.
package pws3

import (
	"errors"
	"fmt"

	"github.com/equalsraf/pwx/core/security"
)

// Re-exported so callers can errors.Is against a single package for every
// failure kind in the cryptographic contract, without reaching into
// core/security themselves.
var (
	ErrInvalidTag                   = security.ErrInvalidTag
	ErrInvalidIterationCount        = security.ErrInvalidIterationCount
	ErrInvalidSalt                  = security.ErrInvalidSalt
	ErrWrongPassword                = security.ErrWrongPassword
	ErrUnableToInitializeTwofishKey = security.ErrUnableToInitializeTwofishKey
	ErrAuthenticationFailed         = security.ErrAuthenticationFailed

	// ErrUnableToOpen means the filesystem refused to yield a handle for
	// the requested path.
	ErrUnableToOpen = errors.New("pwx: unable to open database")

	// ErrReadError means a short read or I/O fault occurred while reading
	// the preamble or body.
	ErrReadError = errors.New("pwx: read error")

	// ErrFieldTooLarge means a field's declared length exceeds
	// maxFieldLength. The format places no bound on field length, but an
	// oversized, likely-corrupt value is rejected outright rather than
	// silently truncated or left to exhaust memory.
	ErrFieldTooLarge = errors.New("pwx: field value too large")
)

// maxFieldLength caps a single field's value size. PWS3 notes, URLs, and
// passwords are all human-typed text; this is generous headroom for any
// legitimate entry while still bounding a corrupt or malicious length.
const maxFieldLength = 16 << 20 // 16 MiB

// wrapOpen and wrapRead attach the sentinel kind to an underlying I/O
// error. The cause is kept only as message text, so errors.Is matches the
// sentinel but not the cause: a short read that ended in io.EOF does not
// compare equal to io.EOF.
func wrapOpen(err error) error { return fmt.Errorf("%w: %v", ErrUnableToOpen, err) }
func wrapRead(err error) error { return fmt.Errorf("%w: %v", ErrReadError, err) }
