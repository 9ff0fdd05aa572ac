// Package errors provides structured error types for tokenlens.
// These errors carry the operation that failed and a category so the UI can
// decide how to surface them.
package errors

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindConfig
	KindEncoding
	KindTooLarge
	KindWorker
	KindClipboard
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindEncoding:
		return "encoding error"
	case KindTooLarge:
		return "too large"
	case KindWorker:
		return "worker error"
	case KindClipboard:
		return "clipboard error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for tokenlens.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Encoder errors
func EncodingUnavailable(encoding string, err error) error {
	return E(Op("encoder.Load"), KindEncoding, fmt.Sprintf("encoding %s is unavailable", encoding), err)
}

func EncodeFailed(model string, err error) error {
	return E(Op("worker.Encode"), KindEncoding, fmt.Sprintf("failed to tokenize for %s", model), err)
}

// Worker errors
func WorkerClosed() error {
	return E(Op("worker.Submit"), KindWorker, "tokenization worker is closed")
}

// File errors
func FileTooLarge(path string, size, limit int64) error {
	return E(Op("fileinput.Read"), KindTooLarge,
		fmt.Sprintf("%s is %s, the limit is %s", path, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit))))
}

func FileReadFailed(path string, err error) error {
	return E(Op("fileinput.Read"), KindIO, fmt.Sprintf("failed to read %s", path), err)
}

func FileNotFound(path string) error {
	return E(Op("fileinput.Read"), KindNotFound, fmt.Sprintf("%s does not exist", path))
}

func FileIsDirectory(path string) error {
	return E(Op("fileinput.Read"), KindInvalid, fmt.Sprintf("%s is a directory", path))
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Clipboard errors
func ClipboardUnavailable(err error) error {
	return E(Op("clipboard.Init"), KindClipboard, "system clipboard is unavailable", err)
}
