package pws3

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/twofish"
)

// testFixture is a hand-assembled PWS3 database, built directly from the
// wire format rather than from a checked-in binary file. It exercises
// exactly the same KEYSTRETCH/ECB/CBC/HMAC machinery the reader does,
// just run in the encrypting direction.
type testFixture struct {
	password []byte
	salt     [32]byte
	iter     uint32
	k, l     [32]byte
	iv       [16]byte

	header  []Field
	records []Record
}

func newTestFixture(password string) *testFixture {
	f := &testFixture{
		password: []byte(password),
		iter:     2048,
	}
	for i := range f.salt {
		f.salt[i] = byte(i + 1)
	}
	for i := range f.k {
		f.k[i] = byte(0xa0 + i)
	}
	for i := range f.l {
		f.l[i] = byte(0xb0 + i)
	}
	for i := range f.iv {
		f.iv[i] = byte(0xc0 + i)
	}
	return f
}

// build serializes the fixture into the bytes of a complete PWS3 file.
func (f *testFixture) build() ([]byte, error) {
	stretched := sha256.Sum256(append(append([]byte{}, f.password...), f.salt[:]...))
	for i := uint32(0); i < f.iter; i++ {
		stretched = sha256.Sum256(stretched[:])
	}
	hpline := sha256.Sum256(stretched[:])

	plineCipher, err := twofish.NewCipher(stretched[:])
	if err != nil {
		return nil, err
	}
	ecbEncrypt := func(plain []byte) []byte {
		out := make([]byte, len(plain))
		for off := 0; off < len(plain); off += 16 {
			plineCipher.Encrypt(out[off:off+16], plain[off:off+16])
		}
		return out
	}

	var preamble bytes.Buffer
	preamble.Write([]byte("PWS3"))
	preamble.Write(f.salt[:])
	var iterBytes [4]byte
	binary.LittleEndian.PutUint32(iterBytes[:], f.iter)
	preamble.Write(iterBytes[:])
	preamble.Write(hpline[:])
	preamble.Write(ecbEncrypt(f.k[:]))
	preamble.Write(ecbEncrypt(f.l[:]))
	preamble.Write(f.iv[:])

	bodyCipher, err := twofish.NewCipher(f.k[:])
	if err != nil {
		return nil, err
	}

	var plainBlocks [][]byte
	appendField := func(typ byte, value []byte) {
		first := make([]byte, 16)
		binary.LittleEndian.PutUint32(first[0:4], uint32(len(value)))
		first[4] = typ
		n := copy(first[5:], value)
		plainBlocks = append(plainBlocks, first)
		rest := value[n:]
		for len(rest) > 0 {
			block := make([]byte, 16)
			m := copy(block, rest)
			rest = rest[m:]
			plainBlocks = append(plainBlocks, block)
		}
	}

	mac := hmac.New(sha256.New, f.l[:])
	feedHMAC := func(value []byte) {
		if len(value) > 0 {
			mac.Write(value)
		}
	}

	for _, field := range f.header {
		appendField(field.Type, field.Value)
		feedHMAC(field.Value)
	}
	appendField(TypeEnd, nil)
	feedHMAC(nil)

	for _, rec := range f.records {
		for _, field := range rec {
			appendField(field.Type, field.Value)
			feedHMAC(field.Value)
		}
		appendField(TypeEnd, nil)
		feedHMAC(nil)
	}

	chain := f.iv
	var body bytes.Buffer
	for _, plain := range plainBlocks {
		xored := make([]byte, 16)
		for i := range xored {
			xored[i] = plain[i] ^ chain[i]
		}
		cipherBlock := make([]byte, 16)
		bodyCipher.Encrypt(cipherBlock, xored)
		body.Write(cipherBlock)
		copy(chain[:], cipherBlock)
	}
	body.Write(eofSentinel)
	trailer := mac.Sum(nil)
	body.Write(trailer)

	var out bytes.Buffer
	out.Write(preamble.Bytes())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
