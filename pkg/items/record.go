package items

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one item from the feed. Instances are created only by
// ParseRecords and never mutated afterwards.
type Record struct {
	ID     int64  `json:"id"`
	ListID int64  `json:"listId"`
	Name   string `json:"name"`
}

// ParseError indicates the top-level document could not be decoded as a JSON
// array of objects.
type ParseError struct {
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed: %v", e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// RecordError indicates a single element of the feed array was malformed
// (missing or non-integer id/listId, or a name that is neither a string nor
// null). Index is the element's position in the source array.
type RecordError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// rawRecord mirrors one feed object with pointer fields so that absent and
// null values are distinguishable from zero values.
type rawRecord struct {
	ID     *int64  `json:"id"`
	ListID *int64  `json:"listId"`
	Name   *string `json:"name"`
}

// ParseRecords decodes the feed document into valid records.
//
// Decoding failure of the top-level array returns a *ParseError. A malformed
// element returns a *RecordError and aborts the whole batch; no partial
// result is produced. Records with a null, absent, or blank name are dropped
// silently. Surviving records keep their source order.
func ParseRecords(data []byte) ([]Record, error) {
	// json.Unmarshal into a slice accepts a top-level null as a nil slice;
	// a well-formed document of the wrong shape must still fail.
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ParseError{Err: fmt.Errorf("document is not a JSON array")}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	records := make([]Record, 0, len(raw))
	for i, elem := range raw {
		var r rawRecord
		if err := json.Unmarshal(elem, &r); err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		if r.ID == nil {
			return nil, &RecordError{Index: i, Err: fmt.Errorf("missing field %q", "id")}
		}
		if r.ListID == nil {
			return nil, &RecordError{Index: i, Err: fmt.Errorf("missing field %q", "listId")}
		}

		// Null or absent name: not an error, just invalid for display.
		if r.Name == nil {
			continue
		}
		if strings.TrimSpace(*r.Name) == "" {
			continue
		}

		records = append(records, Record{
			ID:     *r.ID,
			ListID: *r.ListID,
			Name:   *r.Name,
		})
	}

	return records, nil
}
