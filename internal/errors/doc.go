// Package errors maps upload, ingest and validation failures onto RFC 7807
// problem responses. Every problem carries an "error" member with the
// message shown to the user, and validation problems add an "errors" list.
package errors
