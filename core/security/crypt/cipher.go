// Package crypt provides the low level cryptographic primitives used by the
// PWS3 reader: a single-block Twofish adapter and the SHA-256/HMAC/
// little-endian helpers the preamble and trailer depend on.
package crypt

import (
	"crypto/cipher"

	"golang.org/x/crypto/twofish"
)

// BlockSize is the Twofish block size in bytes. PWS3 uses it both for the
// preamble's ECB-wrapped key blocks and for the CBC body.
const BlockSize = twofish.BlockSize

// BlockCipher wraps a single Twofish key and exposes only what the PWS3
// format needs: single-block decryption. Encryption is unused by the
// reader, so it is not exposed here.
type BlockCipher struct {
	block cipher.Block
}

// NewBlockCipher constructs a Twofish key from 16, 24 or 32 bytes of key
// material. Any other length, shorter or longer, is rejected with an
// error; shorter keys are not zero-padded. It returns an error rather than
// panicking on bad key material, so the caller (key derivation) can report
// it as UnableToInitializeTwofishKey.
func NewBlockCipher(key []byte) (*BlockCipher, error) {
	b, err := twofish.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &BlockCipher{block: b}, nil
}

// Decrypt decrypts exactly one 16-byte block. It panics for any other
// block size: callers are internal and always pass 16-byte blocks, so this
// mirrors the Rust source's `panic!("Invalid twofish block size")` rather
// than threading an error through a hot path that can't actually fail.
func (c *BlockCipher) Decrypt(cipherBlock []byte) []byte {
	if len(cipherBlock) != BlockSize {
		panic("pwx/crypt: invalid twofish block size")
	}
	plain := make([]byte, BlockSize)
	c.block.Decrypt(plain, cipherBlock)
	return plain
}
