package pws3

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.psafe3")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func sampleUUID(b byte) []byte {
	id := make([]byte, 16)
	for i := range id {
		id[i] = b
	}
	return id
}

func buildSampleFixture() *testFixture {
	f := newTestFixture("correct horse battery staple")
	now := make([]byte, 4)
	now[0], now[1], now[2], now[3] = 0x00, 0x00, 0x00, 0x60

	f.header = []Field{
		{Type: headerUUID, Value: sampleUUID(0x01)},
		{Type: headerLastSaveTime, Value: now},
		{Type: headerLastSaveUser, Value: []byte("alice")},
		{Type: headerHost, Value: []byte("workstation")},
		{Type: headerDBName, Value: []byte("personal")},
		{Type: headerDescription, Value: []byte("test database")},
	}

	f.records = []Record{
		{
			{Type: TypeUUID, Value: sampleUUID(0x02)},
			{Type: TypeGroup, Value: []byte("email")},
			{Type: TypeTitle, Value: []byte("webmail")},
			{Type: TypeUsername, Value: []byte("alice@example.com")},
			{Type: TypePassword, Value: []byte("hunter2-and-then-some-more-padding-to-span-blocks")},
			{Type: TypeURL, Value: []byte("https://mail.example.com")},
		},
		{
			{Type: TypeUUID, Value: sampleUUID(0x03)},
			{Type: TypeTitle, Value: []byte("bank")},
			{Type: TypePassword, Value: []byte("s3cr3t")},
		},
	}
	return f
}

func TestReaderOpenAndAuthenticate(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data)

	r, err := Open(path, f.password)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if err := r.Authenticate(); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	// Authenticate reseeks each time and must be idempotent.
	if err := r.Authenticate(); err != nil {
		t.Fatalf("second Authenticate: %v", err)
	}
}

func TestReaderOpenWrongPassword(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data)

	_, err = Open(path, []byte("not the password"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("err = %v, want ErrWrongPassword", err)
	}
}

func TestReaderOpenTruncatedPreamble(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data[:100])

	_, err = Open(path, f.password)
	if !errors.Is(err, ErrReadError) {
		t.Fatalf("err = %v, want ErrReadError", err)
	}
}

func TestReaderAuthenticateDetectsTampering(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Flip a bit well inside the encrypted body, after the preamble.
	tampered := append([]byte{}, data...)
	tampered[200] ^= 0x01
	path := writeFixture(t, tampered)

	r, err := Open(path, f.password)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	err = r.Authenticate()
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("Authenticate err = %v, want ErrAuthenticationFailed", err)
	}
}

func TestReaderInfo(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data)

	r, err := Open(path, f.password)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	info, err := r.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	wantUUID, _ := uuid.FromBytes(sampleUUID(0x01))
	if info.UUID != wantUUID.String() {
		t.Errorf("UUID = %q, want %q", info.UUID, wantUUID.String())
	}
	if info.LastSaveUser != "alice" {
		t.Errorf("LastSaveUser = %q, want alice", info.LastSaveUser)
	}
	if info.Host != "workstation" {
		t.Errorf("Host = %q, want workstation", info.Host)
	}
	if info.Name != "personal" {
		t.Errorf("Name = %q, want personal", info.Name)
	}
	if info.Description != "test database" {
		t.Errorf("Description = %q, want \"test database\"", info.Description)
	}
	if info.LastSaved.Before(time.Unix(1, 0)) {
		t.Errorf("LastSaved = %v, expected a decoded non-zero time", info.LastSaved)
	}
}

func TestReaderRecordsSkipsHeader(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data)

	r, err := Open(path, f.password)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	it, err := r.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}

	var got []Record
	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, rec)
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}

	titleOf := func(rec Record) string {
		for _, field := range rec {
			if field.Type == TypeTitle {
				return string(field.Value)
			}
		}
		return ""
	}
	if titleOf(got[0]) != "webmail" {
		t.Errorf("record[0] title = %q, want webmail", titleOf(got[0]))
	}
	if titleOf(got[1]) != "bank" {
		t.Errorf("record[1] title = %q, want bank", titleOf(got[1]))
	}
}

func TestReaderFieldsIncludesHeader(t *testing.T) {
	f := buildSampleFixture()
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data)

	r, err := Open(path, f.password)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	it, err := r.Fields()
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}

	first, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Type != headerUUID || !bytes.Equal(first.Value, sampleUUID(0x01)) {
		t.Fatalf("first field = %+v, want the header UUID field", first)
	}
}

func TestReaderOpenInvalidIterationCount(t *testing.T) {
	f := buildSampleFixture()
	f.iter = 100
	data, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := writeFixture(t, data)

	_, err = Open(path, f.password)
	if !errors.Is(err, ErrInvalidIterationCount) {
		t.Fatalf("err = %v, want ErrInvalidIterationCount", err)
	}
}
