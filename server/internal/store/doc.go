// Package store is the file-backed question repository. The whole collection
// lives in one JSON document; every operation loads it, optionally mutates the
// in-memory copy, and writes the full collection back. There is no cache and no
// lock: two overlapping writers can lose one update.
//
// Outcomes are reported through sentinel errors:
//
//	ErrNoData     the document is empty or missing
//	ErrNotFound   the requested question or answer does not exist
//	ErrRejected   a uniqueness rule failed or the parent question is missing
//	ErrStorage    reading, parsing or writing the document failed
//
// Watch reports changes to the document file, including external edits.
package store
