package main

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/equalsraf/pwx/pws3"
)

// renderRecordUUID renders a record's UUID field using the representation
// selected by --long: canonical hyphenated hex by default, base58 of the
// raw 16 bytes otherwise.
func renderRecordUUID(rec pws3.Record) string {
	for _, f := range rec {
		if f.Type != pws3.TypeUUID {
			continue
		}
		if !longUUIDFlag {
			return f.String()
		}
		if len(f.Value) != 16 {
			return uuid.Nil.String()
		}
		return base58.Encode(f.Value)
	}
	return ""
}
