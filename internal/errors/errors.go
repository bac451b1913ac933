package errors

import "fmt"

// ErrorCode classifies a pipeline error.
type ErrorCode string

const (
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT" // extension not recognized, file skipped
	ErrExtraction        ErrorCode = "EXTRACTION_ERROR"   // format-specific extraction failure, file skipped
	ErrEncoding          ErrorCode = "ENCODING_ERROR"     // text decoding failure, file skipped
	ErrTimeout           ErrorCode = "TIMEOUT"            // per-file deadline exceeded, file skipped
	ErrNoTextLayer       ErrorCode = "NO_TEXT_LAYER"      // PDF has no usable text layer, re-dispatch to OCR
	ErrStoreIO           ErrorCode = "STORE_IO"           // persistence backend unreachable/corrupt, fatal
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrNotFound          ErrorCode = "NOT_FOUND"
	ErrTranslation       ErrorCode = "TRANSLATION_ERROR"
	ErrInternal          ErrorCode = "INTERNAL"
)

// Error is a structured error with a code, an optional file path, and an
// optional underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewUnsupportedFormat creates an error for a file extension that matches no
// recognized kind.
func NewUnsupportedFormat(path, ext string) *Error {
	return &Error{
		Code:    ErrUnsupportedFormat,
		Path:    path,
		Message: fmt.Sprintf("unsupported file extension %q", ext),
	}
}

// NewExtraction creates an error for a format-specific extraction failure.
func NewExtraction(path string, err error) *Error {
	return &Error{
		Code:    ErrExtraction,
		Path:    path,
		Message: fmt.Sprintf("extraction failed: %v", err),
		Err:     err,
	}
}

// NewEncoding creates an error for a text file that does not decode under the
// configured encoding.
func NewEncoding(path string, err error) *Error {
	msg := "text is not valid UTF-8"
	if err != nil {
		msg = fmt.Sprintf("decoding failed: %v", err)
	}
	return &Error{
		Code:    ErrEncoding,
		Path:    path,
		Message: msg,
		Err:     err,
	}
}

// NewTimeout creates an error for a file that exceeded its processing deadline.
func NewTimeout(path string) *Error {
	return &Error{
		Code:    ErrTimeout,
		Path:    path,
		Message: "processing deadline exceeded",
	}
}

// NewNoTextLayer signals that a PDF's text layer is empty or below the
// configured density threshold. The orchestrator re-dispatches to OCR.
func NewNoTextLayer(path string) *Error {
	return &Error{
		Code:    ErrNoTextLayer,
		Path:    path,
		Message: "no usable text layer",
	}
}

// NewStoreIO creates a fatal error for a broken persistence backend.
func NewStoreIO(err error) *Error {
	return &Error{
		Code:    ErrStoreIO,
		Message: fmt.Sprintf("vocabulary store failure: %v", err),
		Err:     err,
	}
}

// NewInvalidRequest creates an error for invalid caller input.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewNotFound creates an error for a missing word or file.
func NewNotFound(identifier string) *Error {
	return &Error{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("not found: %s", identifier),
	}
}

// NewTranslation creates an error for a failed translation request.
func NewTranslation(word string, err error) *Error {
	return &Error{
		Code:    ErrTranslation,
		Message: fmt.Sprintf("translation of %q failed: %v", word, err),
		Err:     err,
	}
}

// NewInternal creates an error for an unexpected internal failure.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of an *Error, or ErrInternal for any other error.
func CodeOf(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ErrInternal
}
