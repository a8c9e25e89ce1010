package pws3

import (
	"errors"
	"io"
	"testing"
)

func TestRecordGrouperGroupsAndSkips(t *testing.T) {
	f := newTestFixture("pw")
	f.header = []Field{{Type: headerUUID, Value: sampleUUID(0x01)}}
	f.records = []Record{
		{{Type: TypeTitle, Value: []byte("one")}},
		{{Type: TypeTitle, Value: []byte("two")}, {Type: TypeNotes, Value: []byte("n")}},
	}
	keys, body := openKeys(t, f)
	defer keys.Destroy()

	fd := newFieldDecoder(newBlockStream(keys, body))
	rg := newRecordGrouper(fd)

	if err := rg.skip(); err != nil {
		t.Fatalf("skip (header): %v", err)
	}

	rec1, err := rg.next()
	if err != nil {
		t.Fatalf("next (rec1): %v", err)
	}
	if len(rec1) != 1 || string(rec1[0].Value) != "one" {
		t.Fatalf("rec1 = %+v, want a single title=one field", rec1)
	}

	rec2, err := rg.next()
	if err != nil {
		t.Fatalf("next (rec2): %v", err)
	}
	if len(rec2) != 2 {
		t.Fatalf("rec2 has %d fields, want 2", len(rec2))
	}

	if _, err := rg.next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestRecordGrouperSkipOnEmptyHeader(t *testing.T) {
	f := newTestFixture("pw")
	keys, body := openKeys(t, f)
	defer keys.Destroy()

	fd := newFieldDecoder(newBlockStream(keys, body))
	rg := newRecordGrouper(fd)

	if err := rg.skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if _, err := rg.next(); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF for a database with no entries", err)
	}
}
