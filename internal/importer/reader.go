// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/goccy/go-json"
)

// RecordReader reads student records from a JSON array or from
// newline-delimited JSON. Arrays are decoded up front so their length is
// known; NDJSON is decoded one record at a time.
type RecordReader struct {
	dec   *json.Decoder
	array []StudentRecord
	pos   int
	done  bool
}

// NewRecordReader sniffs the first non-space byte of r to pick the format.
// Empty input yields a reader with no records.
func NewRecordReader(r io.Reader) (*RecordReader, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return &RecordReader{done: true}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		if unicode.IsSpace(rune(b)) {
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return nil, err
		}

		dec := json.NewDecoder(br)
		dec.UseNumber()
		if b != '[' {
			return &RecordReader{dec: dec}, nil
		}

		var records []StudentRecord
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
		return &RecordReader{array: records}, nil
	}
}

// Total returns the number of records when known, or 0 for streams.
func (r *RecordReader) Total() int64 {
	return int64(len(r.array))
}

// ReadBatch returns up to n records. An empty batch means the input is
// exhausted. A malformed stream record is returned as an error since the
// decoder cannot resynchronize after it.
func (r *RecordReader) ReadBatch(n int) ([]StudentRecord, error) {
	if r.dec == nil {
		end := min(r.pos+n, len(r.array))
		batch := r.array[r.pos:end]
		r.pos = end
		return batch, nil
	}

	batch := make([]StudentRecord, 0, n)
	for len(batch) < n && !r.done {
		var rec StudentRecord
		err := r.dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			return batch, fmt.Errorf("decode record %d: %w", r.pos+len(batch)+1, err)
		}
		batch = append(batch, rec)
	}
	r.pos += len(batch)
	return batch, nil
}
