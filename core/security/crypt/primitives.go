package crypt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"hash"
)

// Sum256 is a one-shot SHA-256 hash, used both by KEYSTRETCH and by the
// passphrase verification hash H(P').
func Sum256(data ...[]byte) [sha256.Size]byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}

// HMAC is an incremental HMAC-SHA-256 accumulator keyed by L, used by the
// authenticator to verify the trailer.
type HMAC struct {
	mac hash.Hash
}

// NewHMAC keys a new HMAC-SHA-256 accumulator.
func NewHMAC(key []byte) *HMAC {
	return &HMAC{mac: hmac.New(sha256.New, key)}
}

// Update feeds more bytes into the running MAC.
func (h *HMAC) Update(data []byte) {
	if len(data) == 0 {
		return
	}
	h.mac.Write(data)
}

// Finalize returns the 32-byte MAC. It does not reset the accumulator;
// callers that need to authenticate repeatedly construct a fresh HMAC.
func (h *HMAC) Finalize() [sha256.Size]byte {
	var out [sha256.Size]byte
	h.mac.Sum(out[:0])
	return out
}

// LE32 decodes a little-endian uint32 from the first 4 bytes of b.
func LE32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// LE64 decodes a little-endian uint64 from the first 8 bytes of b.
func LE64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
