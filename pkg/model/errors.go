// Package model holds the core data types shared by every component of the
// indexing and retrieval engine: fragments, file records, indexes, and the
// configuration that drives them.
package model

import "errors"

// Sentinel errors forming the taxonomy described in the error handling
// design. Components wrap these with fmt.Errorf("%w", ...) to attach
// context; callers discriminate with errors.Is / errors.As.
var (
	// ErrConfig marks a config file missing a required field or
	// referencing a path that does not exist.
	ErrConfig = errors.New("config error")

	// ErrIO marks a filesystem read or write failure.
	ErrIO = errors.New("io error")

	// ErrCorruptIndex marks a truncated or undecodable index payload
	// following a valid version header.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrIndexVersionMismatch marks an index file whose header version
	// does not match codec.CurrentVersion. The codec has already deleted
	// the file by the time this error is returned.
	ErrIndexVersionMismatch = errors.New("index version mismatch")

	// ErrEmbeddingBackend marks a generic HTTP/transport/protocol
	// failure from the embedding endpoint.
	ErrEmbeddingBackend = errors.New("embedding backend error")

	// ErrInputTooLong marks an embedding failure specifically
	// attributable to input length, distinct from other backend errors
	// so the caller can split and retry.
	ErrInputTooLong = errors.New("embedding input too long")

	// ErrInvalidArgument marks a programmer error such as mismatched
	// vector lengths or an unsplittable fragment.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSubprocess marks a failure to invoke or a non-zero exit from an
	// external process (git, rg).
	ErrSubprocess = errors.New("subprocess error")
)

// IndexVersionMismatchError carries the detail callers
// to be able to inspect: the path, the version found on disk, and the
// version the running binary expects.
type IndexVersionMismatchError struct {
	FilePath        string
	FileVersion     uint32
	ExpectedVersion uint32
}

func (e *IndexVersionMismatchError) Error() string {
	return "index version mismatch: " + e.FilePath
}

func (e *IndexVersionMismatchError) Unwrap() error {
	return ErrIndexVersionMismatch
}
