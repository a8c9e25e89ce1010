package pws3

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/equalsraf/pwx/core/security"
	"github.com/equalsraf/pwx/core/security/crypt"
	"github.com/equalsraf/pwx/internal/log"
)

// Header-record field codes. The header record reuses the same type byte
// range as entry records but assigns them different meanings: 0x04 is
// the last-save timestamp here, not a username.
const (
	headerUUID         = 0x01
	headerLastSaveTime = 0x04
	headerLastSaveUser = 0x07
	headerHost         = 0x08
	headerDBName       = 0x09
	headerDescription  = 0x0a
)

// Header is the database metadata projected from the header record, the
// first record in file order.
type Header struct {
	UUID         string
	LastSaved    time.Time
	LastSaveUser string
	Host         string
	Name         string
	Description  string
}

// Reader opens a PWS3 database and offers read-only traversals over its
// fields and records. It exclusively owns one open file handle and the
// derived KeyInfo for its lifetime. It is not safe for concurrent use:
// Fields/Records/Info/Authenticate each reseek the file, so driving two
// iterators from the same Reader at once will corrupt each other's reads.
type Reader struct {
	file *os.File
	keys *security.KeyInfo
}

// Open opens path, reads its 152-byte preamble, and authenticates
// password against it. It does not verify the body HMAC: call
// Authenticate for that.
func Open(path string, password []byte) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapOpen(err)
	}

	var preamble [security.PreambleSize]byte
	if _, err := io.ReadFull(f, preamble[:]); err != nil {
		f.Close()
		return nil, wrapRead(err)
	}

	keys, err := security.ParsePreamble(preamble, password)
	if err != nil {
		f.Close()
		log.Log.Debug("pws3: open %s: %v", path, err)
		return nil, err
	}

	log.Log.Info("pws3: opened %s (iterations=%d)", path, keys.Iterations())
	return &Reader{file: f, keys: keys}, nil
}

// Close closes the underlying file handle and zeroes the retained key
// material.
func (r *Reader) Close() error {
	r.keys.Destroy()
	return r.file.Close()
}

func (r *Reader) seekToBody() error {
	_, err := r.file.Seek(security.PreambleSize, io.SeekStart)
	if err != nil {
		return wrapRead(err)
	}
	return nil
}

// FieldIterator yields every raw (type, value) field in on-disk order,
// starting with the header record's fields.
type FieldIterator struct {
	decoder *fieldDecoder
}

// Next returns the next field, or io.EOF when the body is exhausted.
func (it *FieldIterator) Next() (Field, error) {
	return it.decoder.next()
}

// Fields returns a fresh FieldIterator seeked to the start of the body.
func (r *Reader) Fields() (*FieldIterator, error) {
	if err := r.seekToBody(); err != nil {
		return nil, err
	}
	blocks := newBlockStream(r.keys, r.file)
	return &FieldIterator{decoder: newFieldDecoder(blocks)}, nil
}

// RecordIterator yields user entries, skipping the header record.
type RecordIterator struct {
	grouper *recordGrouper
}

// Next returns the next record, or io.EOF when there are no more.
func (it *RecordIterator) Next() (Record, error) {
	return it.grouper.next()
}

// Records returns a fresh RecordIterator seeked to the start of the body,
// with the header record already skipped.
func (r *Reader) Records() (*RecordIterator, error) {
	if err := r.seekToBody(); err != nil {
		return nil, err
	}
	blocks := newBlockStream(r.keys, r.file)
	fields := newFieldDecoder(blocks)
	grouper := newRecordGrouper(fields)
	if err := grouper.skip(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &RecordIterator{grouper: grouper}, nil
}

// Info consumes just the header record's fields and projects the
// database metadata. Missing values default to the empty string /
// epoch-zero timestamp.
func (r *Reader) Info() (Header, error) {
	if err := r.seekToBody(); err != nil {
		return Header{}, err
	}
	blocks := newBlockStream(r.keys, r.file)
	fields := newFieldDecoder(blocks)

	var h Header
	for {
		f, err := fields.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Header{}, err
		}
		if f.IsEnd() {
			break
		}
		switch f.Type {
		case headerUUID:
			h.UUID = renderUUID(f.Value)
		case headerLastSaveTime:
			if t, err := decodeTimeT(f.Value); err == nil {
				h.LastSaved = t
			}
		case headerLastSaveUser:
			h.LastSaveUser = string(f.Value)
		case headerHost:
			h.Host = string(f.Value)
		case headerDBName:
			h.Name = string(f.Value)
		case headerDescription:
			h.Description = string(f.Value)
		}
	}
	return h, nil
}

// Authenticate verifies the trailing 32-byte HMAC-SHA-256 against every
// field's value bytes (not type, not length, not padding) in on-disk
// order, including the header record. It is idempotent: each call
// reconstructs the HMAC from scratch and reseeks the file, so repeated
// calls never mutate observable state beyond the file's seek position.
// A field whose declared length exceeds the cap can only come from a
// corrupt or tampered body, so it is reported as ErrAuthenticationFailed
// (the error also matches ErrFieldTooLarge).
func (r *Reader) Authenticate() error {
	if err := r.seekToBody(); err != nil {
		return err
	}
	blocks := newBlockStream(r.keys, r.file)
	fields := newFieldDecoder(blocks)

	mac := crypt.NewHMAC(r.keys.HMACKey())
	for {
		f, err := fields.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, ErrFieldTooLarge) {
				log.Log.Warning("pws3: oversized field length while authenticating")
				return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
			}
			return err
		}
		mac.Update(f.Value)
	}

	var expected [32]byte
	if _, err := io.ReadFull(r.file, expected[:]); err != nil {
		return wrapRead(err)
	}

	got := mac.Finalize()
	sb := security.NewSecureBytes(got[:])
	defer sb.Destroy()
	if !sb.Equal(expected[:]) {
		log.Log.Warning("pws3: trailer hmac mismatch")
		return ErrAuthenticationFailed
	}
	log.Log.Debug("pws3: trailer hmac verified")
	return nil
}
