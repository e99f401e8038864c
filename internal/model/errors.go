package model

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal error by the phase that produced it.
type Kind string

const (
	// KindBootstrap means a required executable could not be provided
	KindBootstrap Kind = "bootstrap"

	// KindValidation means the request was rejected before any process ran
	KindValidation Kind = "validation"

	// KindDispatch means the downloader could not be run or failed
	KindDispatch Kind = "dispatch"

	// KindFilesystem means a directory, copy or delete operation failed
	KindFilesystem Kind = "filesystem"
)

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

var (
	ErrMissingURL        = errors.New("url is required")
	ErrInvalidQuality    = errors.New("invalid quality")
	ErrUnsupportedFormat = errors.New("Unsupported format") //nolint:staticcheck // printed verbatim to the user
	ErrDownloaderMissing = errors.New("downloader executable is missing")
	ErrMuxerMissing      = errors.New("muxer executable is missing")
	ErrArchiveMissing    = errors.New("muxer archive is missing")
	ErrMuxerNotFound     = errors.New("muxer not found after extraction")
)

// Error is a fatal failure annotated with the operation and path involved.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FSError wraps a file system failure.
func FSError(op, path string, err error) error {
	return &Error{Kind: KindFilesystem, Op: op, Path: path, Err: err}
}

// ExitError reports a child process that did not exit successfully. Known is
// false when the process was terminated without an exit code (e.g. by a signal).
type ExitError struct {
	Name  string
	Code  int
	Known bool
}

func (e *ExitError) Error() string {
	if !e.Known {
		return fmt.Sprintf("%s terminated without an exit code", e.Name)
	}
	return fmt.Sprintf("%s failed with exit code: %d", e.Name, e.Code)
}
