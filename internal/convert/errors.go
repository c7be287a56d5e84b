package convert

import "errors"

// Failure classes. Errors returned by this package wrap one of these; test
// with errors.Is.
var (
	// ErrDecode means the source is not a valid or supported WebP image.
	ErrDecode = errors.New("invalid webp image")

	// ErrIO means reading the source, writing the PNG, or removing the
	// source failed.
	ErrIO = errors.New("i/o error")

	// ErrNotFound means the input path does not exist.
	ErrNotFound = errors.New("input not found")

	// ErrWrongExtension means a single input file lacks the source extension.
	ErrWrongExtension = errors.New("not a webp file")
)
