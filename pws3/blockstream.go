package pws3

import (
	"io"

	"github.com/equalsraf/pwx/core/security"
	"github.com/equalsraf/pwx/core/security/crypt"
	"github.com/equalsraf/pwx/internal/log"
)

// eofSentinel is the literal 16-byte marker that ends the encrypted body;
// the 32-byte trailer HMAC follows immediately after it.
var eofSentinel = []byte("PWS3-EOFPWS3-EOF")

// blockStream is a lazy, single-pass sequence of 16-byte plaintext blocks
// produced by CBC-decrypting the file body with K, chained from the
// preamble IV. It is not restartable in place: a second traversal
// constructs a fresh blockStream over a source reseeked to the
// post-preamble offset.
type blockStream struct {
	cipher *crypt.BlockCipher
	source io.Reader
	chain  [crypt.BlockSize]byte
}

func newBlockStream(keys *security.KeyInfo, source io.Reader) *blockStream {
	return &blockStream{
		cipher: keys.BlockCipher(),
		source: source,
		chain:  keys.IV(),
	}
}

// next reads and decrypts the next plaintext block. It returns io.EOF
// (never wrapped) once the sentinel block is read; the sentinel itself is
// consumed, but the 32 HMAC bytes that follow it are left for the caller.
func (bs *blockStream) next() ([]byte, error) {
	block := make([]byte, crypt.BlockSize)
	if _, err := io.ReadFull(bs.source, block); err != nil {
		return nil, wrapRead(err)
	}

	if string(block) == string(eofSentinel) {
		log.Log.Trace("pws3: eof sentinel reached, %d bytes of trailer follow", 32)
		return nil, io.EOF
	}

	plain := bs.cipher.Decrypt(block)
	for i := range plain {
		plain[i] ^= bs.chain[i]
	}
	copy(bs.chain[:], block)
	return plain, nil
}
