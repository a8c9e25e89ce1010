package pws3

// Record is an ordered list of Fields with no 0xff terminator inside it;
// the grouper consumes the terminator rather than storing it.
type Record []Field

// recordGrouper consumes a fieldDecoder and groups fields into records
// separated by the END field (0xff). On EOF before any field of a record,
// the sequence simply ends. On EOF mid-record the partial record is
// discarded and the read error is surfaced.
type recordGrouper struct {
	fields *fieldDecoder
}

func newRecordGrouper(fields *fieldDecoder) *recordGrouper {
	return &recordGrouper{fields: fields}
}

// next reads fields until an END sentinel or the underlying stream ends.
// A well-formed file only ever ends the stream at a record boundary, so
// io.EOF with rec empty is the normal "no more records" case; io.EOF with
// a non-empty rec means the body was truncated mid-record. The format
// gives no other way to tell the two apart, so both surface the same
// underlying error — the caller never gets a silently truncated record
// back, it gets nothing.
func (rg *recordGrouper) next() (Record, error) {
	var rec Record
	for {
		f, err := rg.fields.next()
		if err != nil {
			return nil, err
		}
		if f.IsEnd() {
			return rec, nil
		}
		rec = append(rec, f)
	}
}

// skip discards fields up to and including the next END sentinel (or end
// of stream). Used to skip the header record before record iteration.
func (rg *recordGrouper) skip() error {
	for {
		f, err := rg.fields.next()
		if err != nil {
			return err
		}
		if f.IsEnd() {
			return nil
		}
	}
}
