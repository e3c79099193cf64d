// Package items implements the core of the grouped item feed: strict decoding
// of the upstream JSON array into typed records, the blank-name filter, the
// composite sort order, and grouping by list id.
//
// The package is pure: no I/O, no shared state. Given the same input bytes it
// always produces the same Grouped result, which is what makes the pipeline
// idempotent.
//
// # Decoding policy
//
// The top-level document must be a JSON array; anything else fails with a
// *ParseError. Each element must carry integer "id" and "listId" fields and a
// "name" that is either a string or null. A single malformed element aborts
// the whole batch with a *RecordError carrying the element's index. Records
// whose name is null, absent, or blank after trimming are dropped silently.
//
// # Sort policy
//
// Records sort by ListID ascending, then by a key derived from the name: the
// first occurrence of the literal "Item " is stripped, and if the remainder
// parses as an integer the key is numeric, otherwise it is the remaining
// string. Numeric keys always sort before string keys; numeric keys compare
// as integers, string keys compare bytewise. The sort is stable.
package items
