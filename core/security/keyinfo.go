package security

import (
	"fmt"

	"github.com/equalsraf/pwx/core/security/crypt"
)

// PreambleSize is the fixed on-disk size of the PWS3 preamble.
const PreambleSize = 152

const (
	sha256Size = 32
	blockSize  = crypt.BlockSize

	minIterations = 2048
)

var magicTag = [4]byte{'P', 'W', 'S', '3'}

// KeyInfo holds the two keys and the CBC initialization vector derived
// from a PWS3 preamble. It is owned by the Reader for its lifetime; K and
// L must never be logged or surfaced in an error.
type KeyInfo struct {
	keyK *crypt.BlockCipher // decrypts the record body (CBC)
	keyL *SecureBytes       // HMAC-SHA-256 key for the trailer
	iv   [blockSize]byte
	iter uint32
}

// IV returns the 16-byte CBC initialization vector.
func (k *KeyInfo) IV() [blockSize]byte { return k.iv }

// BlockCipher returns the body decryption cipher (K).
func (k *KeyInfo) BlockCipher() *crypt.BlockCipher { return k.keyK }

// HMACKey returns the HMAC key (L) used to authenticate the trailer.
func (k *KeyInfo) HMACKey() []byte { return k.keyL.Bytes() }

// Iterations returns the KEYSTRETCH iteration count stored in the
// preamble.
func (k *KeyInfo) Iterations() uint32 { return k.iter }

// Destroy zeroes the HMAC key L. The body cipher does not retain the
// stretched passphrase, but the Twofish key schedule it holds for K is not
// zeroed.
func (k *KeyInfo) Destroy() {
	if k == nil {
		return
	}
	k.keyL.Destroy()
}

// ParsePreamble parses the fixed 152-byte PWS3 preamble and derives a
// KeyInfo from it, authenticating the passphrase along the way.
//
// Layout (all fixed-size, no framing): tag(4) salt(32) iter(4) h(32)
// B1(16) B2(16) B3(16) B4(16) iv(16). B1‖B2 is K encrypted under
// ECB-Twofish keyed by the stretched passphrase P'; B3‖B4 is L the same
// way.
func ParsePreamble(preamble [PreambleSize]byte, password []byte) (*KeyInfo, error) {
	var off int
	take := func(n int) []byte {
		b := preamble[off : off+n]
		off += n
		return b
	}

	tag := take(4)
	salt := take(sha256Size)
	iterBytes := take(4)
	hpline := take(sha256Size)
	b1 := take(blockSize)
	b2 := take(blockSize)
	b3 := take(blockSize)
	b4 := take(blockSize)
	iv := take(blockSize)

	if string(tag) != string(magicTag[:]) {
		return nil, ErrInvalidTag
	}

	iter := crypt.LE32(iterBytes)
	if iter < minIterations {
		return nil, ErrInvalidIterationCount
	}

	stretched, err := keystretch(salt, password, iter)
	if err != nil {
		return nil, err
	}
	defer stretched.Destroy()

	verify := crypt.Sum256(stretched.Bytes())
	if !stretched.verifyHash(verify, hpline) {
		return nil, ErrWrongPassword
	}

	plineKey, err := crypt.NewBlockCipher(stretched.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToInitializeTwofishKey, err)
	}

	kBytes := append(append([]byte{}, plineKey.Decrypt(b1)...), plineKey.Decrypt(b2)...)
	keyK, err := crypt.NewBlockCipher(kBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToInitializeTwofishKey, err)
	}
	zero(kBytes)

	lBytes := append(append([]byte{}, plineKey.Decrypt(b3)...), plineKey.Decrypt(b4)...)
	keyL := NewSecureBytes(lBytes)

	info := &KeyInfo{
		keyK: keyK,
		keyL: keyL,
		iter: iter,
	}
	copy(info.iv[:], iv)
	return info, nil
}

// stretchedPass is P', KEYSTRETCH's output. It is held in a SecureBytes so
// it can be scrubbed as soon as ParsePreamble is done with it.
type stretchedPass struct {
	*SecureBytes
}

// verifyHash compares SHA-256(P') against the stored H(P') using a
// constant-time comparison so a mismatching passphrase cannot be
// distinguished by timing.
func (s stretchedPass) verifyHash(got [sha256Size]byte, want []byte) bool {
	sb := NewSecureBytes(got[:])
	defer sb.Destroy()
	return sb.Equal(want)
}

// keystretch implements KEYSTRETCH (Schneier, "Low-Entropy Keys"): P' :=
// SHA-256(pass‖salt), then P' := SHA-256(P') iterated `iter` times.
func keystretch(salt, pass []byte, iter uint32) (stretchedPass, error) {
	if len(salt) < sha256Size {
		return stretchedPass{}, ErrInvalidSalt
	}
	if iter < minIterations {
		return stretchedPass{}, ErrInvalidIterationCount
	}
	h := crypt.Sum256(pass, salt)
	hash := h[:]
	for i := uint32(0); i < iter; i++ {
		next := crypt.Sum256(hash)
		hash = next[:]
	}
	out := make([]byte, sha256Size)
	copy(out, hash)
	return stretchedPass{NewSecureBytes(out)}, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
