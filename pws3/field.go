package pws3

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/equalsraf/pwx/core/security/crypt"
)

// Field type codes fixed by the PWS3 format.
const (
	TypeUUID     = 0x01
	TypeGroup    = 0x02
	TypeTitle    = 0x03
	TypeUsername = 0x04
	TypeNotes    = 0x05
	TypePassword = 0x06
	TypeCTime    = 0x07
	TypePTime    = 0x08
	TypeATime    = 0x09
	TypeURL      = 0x0d
	TypeCommand  = 0x12
	TypeEmail    = 0x14
	TypeEnd      = 0xff
)

// fieldHeaderSize is the layout of the first plaintext block of a field:
// a 4-byte little-endian length, a 1-byte type, then up to 11 value bytes.
const fieldHeaderSize = 5

// fieldNames maps known type codes to their short name, used by Name (and
// through it the CLI) and by String to tell known types from unknown ones.
// Header projection uses its own header codes. ptime deliberately has no entry: password
// modification time has never been assigned a short display name, so
// this omission is carried forward rather than silently "fixed".
var fieldNames = map[byte]string{
	TypeUUID:     "uuid",
	TypeGroup:    "group",
	TypeTitle:    "title",
	TypeUsername: "username",
	TypeNotes:    "notes",
	TypePassword: "password",
	TypeCTime:    "ctime",
	TypeATime:    "atime",
	TypeURL:      "url",
	TypeCommand:  "command",
	TypeEmail:    "email",
}

// Field is a (type, value) pair decoded from the encrypted body. Unknown
// carries the raw type byte instead of being modeled as an open
// hierarchy.
type Field struct {
	Type  byte
	Value []byte
}

// Name returns the field's short name, or "" for Unknown and ptime
// fields (see fieldNames).
func (f Field) Name() string {
	return fieldNames[f.Type]
}

// IsEnd reports whether this is the 0xff record-separator sentinel.
func (f Field) IsEnd() bool { return f.Type == TypeEnd }

// String renders the field the way the CLI displays it: UUIDs as
// canonical hyphenated hex, timestamps as Unix seconds, everything else
// as lossily-decoded UTF-8. Unknown fields render their type byte.
func (f Field) String() string {
	switch f.Type {
	case TypeUUID:
		return renderUUID(f.Value)
	case TypeCTime, TypePTime, TypeATime:
		t, err := decodeTimeT(f.Value)
		if err != nil {
			return "0"
		}
		return fmt.Sprintf("%d", t.Unix())
	case TypeEnd:
		return ""
	default:
		if _, known := fieldNames[f.Type]; known {
			return string(f.Value)
		}
		return fmt.Sprintf("Unknown Field(%d)", f.Type)
	}
}

// renderUUID decodes a 16-byte field value into canonical 8-4-4-4-12
// lowercase hex, or the nil UUID on malformed length.
func renderUUID(b []byte) string {
	if len(b) != 16 {
		return uuid.Nil.String()
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}

// decodeTimeT decodes a time_t field: little-endian unsigned 32- or
// 64-bit seconds since the epoch, depending on the field length. Any
// other length is invalid.
func decodeTimeT(b []byte) (time.Time, error) {
	switch len(b) {
	case 4:
		return time.Unix(int64(binary.LittleEndian.Uint32(b)), 0).UTC(), nil
	case 8:
		return time.Unix(int64(binary.LittleEndian.Uint64(b)), 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("pwx: invalid time_t length %d", len(b))
	}
}

// fieldDecoder consumes a blockStream to yield (type, value) pairs,
// handling values that span multiple cipher blocks.
type fieldDecoder struct {
	blocks *blockStream
}

func newFieldDecoder(blocks *blockStream) *fieldDecoder {
	return &fieldDecoder{blocks: blocks}
}

// next decodes the next field. It returns io.EOF once the block stream is
// exhausted.
func (fd *fieldDecoder) next() (Field, error) {
	first, err := fd.blocks.next()
	if err != nil {
		return Field{}, err
	}

	length := crypt.LE32(first[0:4])
	typ := first[4]

	if length > maxFieldLength {
		return Field{}, ErrFieldTooLarge
	}

	value := make([]byte, length)
	n := copy(value, first[fieldHeaderSize:])

	for uint32(n) < length {
		block, err := fd.blocks.next()
		if err != nil {
			return Field{}, err
		}
		n += copy(value[n:], block)
	}

	return Field{Type: typ, Value: value}, nil
}
