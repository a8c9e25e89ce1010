package security

import "crypto/subtle"

// SecureBytes is a byte buffer intended to hold key material or decrypted
// field values. Go has no deterministic destructors, so callers must
// explicitly `defer sb.Destroy()` at the point where the buffer's owner
// goes out of scope; Destroy zeroes the backing array so a later
// memory-inspection pass (or an accidental retained slice) never observes
// stale secrets.
type SecureBytes struct {
	data []byte
}

// NewSecureBytes takes ownership of b and wraps it. The caller must not
// retain or mutate b after this call.
func NewSecureBytes(b []byte) *SecureBytes {
	return &SecureBytes{data: b}
}

// Len reports the number of bytes held.
func (s *SecureBytes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Bytes returns a borrowed slice of the underlying storage. The slice is
// invalidated by a call to Destroy.
func (s *SecureBytes) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Equal reports whether the held bytes equal other, comparing the
// content itself in constant time via subtle.ConstantTimeCompare so a
// mismatching guess cannot be distinguished by how much of it matched.
// A length mismatch is checked first since ConstantTimeCompare requires
// equal-length inputs; content timing is what must not leak, not length.
func (s *SecureBytes) Equal(other []byte) bool {
	a, b := s.Bytes(), other
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Destroy zeroes the backing storage. It is safe to call more than once
// and safe to call on a nil receiver.
func (s *SecureBytes) Destroy() {
	if s == nil {
		return
	}
	for i := range s.data {
		s.data[i] = 0
	}
}
